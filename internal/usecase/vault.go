package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/vitos/capital_trade_client/internal/domain"
)

// CredentialVault owns the session for its lifetime. The in-memory copy is
// authoritative; the LocalCache copy only exists so a restart can resume the
// session. Persistence failures are surfaced to the caller but never fatal.
type CredentialVault struct {
	cache domain.LocalCache

	mu      sync.Mutex
	session *domain.Session
}

func NewCredentialVault(cache domain.LocalCache) *CredentialVault {
	return &CredentialVault{cache: cache}
}

// Load returns the current session, falling back to the persisted copy when
// the process has none in memory. A cache read failure returns (nil, err) so
// the caller can warn that re-login is required.
func (v *CredentialVault) Load(ctx context.Context) (*domain.Session, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session != nil {
		s := *v.session
		return &s, nil
	}

	raw, ok, err := v.cache.Get(ctx, domain.CacheKeySession)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil || session.Token == "" {
		// A corrupt persisted session is the same as no session.
		return nil, nil
	}

	v.session = &session
	s := session
	return &s, nil
}

// Store keeps the session in memory and writes it through to the cache. The
// returned error only concerns persistence: the session is valid for the
// process lifetime either way.
func (v *CredentialVault) Store(ctx context.Context, session domain.Session) error {
	v.mu.Lock()
	v.session = &session
	v.mu.Unlock()

	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return v.cache.Set(ctx, domain.CacheKeySession, raw)
}

// Clear drops the session from memory and the cache. Idempotent.
func (v *CredentialVault) Clear(ctx context.Context) error {
	v.mu.Lock()
	v.session = nil
	v.mu.Unlock()

	return v.cache.Delete(ctx, domain.CacheKeySession)
}
