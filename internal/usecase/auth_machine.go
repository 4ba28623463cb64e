package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vitos/capital_trade_client/internal/domain"
)

// LoginResult is what BeginLogin and SubmitSecondFactor hand back to the
// presentation layer. When State is AWAITING_SECOND_FACTOR the session is nil
// and the caller must follow up with SubmitSecondFactor. PersistWarning is set
// when the session is live but could not be written to the local cache, so the
// user can be told a restart will require a fresh login.
type LoginResult struct {
	State          domain.AuthState
	Session        *domain.Session
	PersistWarning error
}

// AuthSessionMachine drives login, the optional 2FA challenge, and the token
// lifecycle. Transitions are serialized: a login call arriving while another
// is in flight is rejected instead of racing the state.
type AuthSessionMachine struct {
	auth   domain.AuthBackend
	vault  *CredentialVault
	logger *zap.Logger

	mu        sync.Mutex
	state     domain.AuthState
	session   *domain.Session
	challenge *domain.TwoFactorChallenge
	inFlight  bool
}

func NewAuthSessionMachine(auth domain.AuthBackend, vault *CredentialVault, logger *zap.Logger) *AuthSessionMachine {
	return &AuthSessionMachine{
		auth:   auth,
		vault:  vault,
		logger: logger,
		state:  domain.StateAnonymous,
	}
}

// Resume picks up a persisted session from the vault, if any. Expiry is not
// checked here; it surfaces reactively as ErrUnauthorized on the first call.
func (m *AuthSessionMachine) Resume(ctx context.Context) *domain.Session {
	session, err := m.vault.Load(ctx)
	if err != nil {
		m.logger.Warn("session cache unavailable, starting anonymous", zap.Error(err))
		return nil
	}
	if session == nil {
		return nil
	}

	m.mu.Lock()
	m.state = domain.StateAuthenticated
	m.session = session
	m.challenge = nil
	m.mu.Unlock()

	return session
}

func (m *AuthSessionMachine) State() domain.AuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentSession returns the live session or nil. It does not detect expiry.
func (m *AuthSessionMachine) CurrentSession() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// BeginLogin submits first-factor credentials. Starting a new login discards
// any pending second-factor challenge.
func (m *AuthSessionMachine) BeginLogin(ctx context.Context, creds domain.Credentials) (*LoginResult, error) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return nil, domain.ErrOperationInProgress
	}
	m.inFlight = true
	if m.challenge != nil {
		m.challenge = nil
		m.state = domain.StateAnonymous
	}
	m.mu.Unlock()

	defer m.clearInFlight()

	outcome, err := m.auth.Authenticate(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAuthenticationFailed, err)
	}

	if outcome.SecondFactorRequired {
		m.mu.Lock()
		m.state = domain.StateAwaitingSecondFactor
		m.session = nil
		m.challenge = &domain.TwoFactorChallenge{PendingCredentials: creds}
		m.mu.Unlock()

		return &LoginResult{State: domain.StateAwaitingSecondFactor}, nil
	}

	return m.establish(ctx, domain.Session{Token: outcome.Token, IssuedVia: domain.IssuedDirect})
}

// SubmitSecondFactor resolves a pending challenge with an OTP. Valid only in
// AWAITING_SECOND_FACTOR; a rejected OTP keeps the challenge alive so the user
// can retry without re-entering first-factor credentials.
func (m *AuthSessionMachine) SubmitSecondFactor(ctx context.Context, otp string) (*LoginResult, error) {
	m.mu.Lock()
	if m.state != domain.StateAwaitingSecondFactor || m.challenge == nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: no second-factor challenge pending", domain.ErrInvalidStateTransition)
	}
	if m.inFlight {
		m.mu.Unlock()
		return nil, domain.ErrOperationInProgress
	}
	m.inFlight = true
	creds := m.challenge.PendingCredentials
	m.mu.Unlock()

	defer m.clearInFlight()

	outcome, err := m.auth.AuthenticateWithOTP(ctx, creds, otp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSecondFactorFailed, err)
	}
	if outcome.Token == "" {
		return nil, fmt.Errorf("%w: backend issued no token", domain.ErrSecondFactorFailed)
	}

	return m.establish(ctx, domain.Session{Token: outcome.Token, IssuedVia: domain.IssuedTwoFactor})
}

// Logout forces ANONYMOUS from any state. Always succeeds; a cache failure
// only means the (now dead) session may linger on disk.
func (m *AuthSessionMachine) Logout(ctx context.Context) {
	m.mu.Lock()
	m.state = domain.StateAnonymous
	m.session = nil
	m.challenge = nil
	m.mu.Unlock()

	if err := m.vault.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear persisted session", zap.Error(err))
	}
}

func (m *AuthSessionMachine) establish(ctx context.Context, session domain.Session) (*LoginResult, error) {
	m.mu.Lock()
	m.state = domain.StateAuthenticated
	m.session = &session
	m.challenge = nil
	m.mu.Unlock()

	result := &LoginResult{State: domain.StateAuthenticated, Session: &session}
	if err := m.vault.Store(ctx, session); err != nil {
		m.logger.Warn("session not persisted, re-login required after restart", zap.Error(err))
		result.PersistWarning = err
	}
	return result, nil
}

func (m *AuthSessionMachine) clearInFlight() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}
