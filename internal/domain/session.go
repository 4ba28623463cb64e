package domain

// Credentials carries everything the brokerage needs for a first-factor login.
// Transient: held only for the duration of a login attempt (or a pending 2FA
// challenge) and never persisted.
type Credentials struct {
	Username       string
	Password       string
	APIKey         string
	APIKeyPassword string
	UseDemo        bool
}

type IssuedVia string

const (
	IssuedDirect    IssuedVia = "DIRECT"
	IssuedTwoFactor IssuedVia = "TWO_FACTOR"
)

// Session is the bearer token issued by the backend plus how it was obtained.
type Session struct {
	Token     string    `json:"token"`
	IssuedVia IssuedVia `json:"issued_via"`
}

// TwoFactorChallenge keeps the first-factor credentials alive between a login
// that signalled "2FA required" and the OTP submission that resolves it.
type TwoFactorChallenge struct {
	PendingCredentials Credentials
}

// AuthState is the externally visible state of the session machine.
type AuthState string

const (
	StateAnonymous            AuthState = "ANONYMOUS"
	StateAwaitingSecondFactor AuthState = "AWAITING_SECOND_FACTOR"
	StateAuthenticated        AuthState = "AUTHENTICATED"
)
