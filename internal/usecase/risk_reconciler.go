package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vitos/capital_trade_client/internal/domain"
)

// SessionSource is the slice of AuthSessionMachine the other services need:
// read the live session, and force a logout when a call comes back 401.
type SessionSource interface {
	CurrentSession() *domain.Session
	Logout(ctx context.Context)
}

// RiskApplyResult reports how far an apply reached. RemoteConfirmed is false
// with a non-nil RemoteErr when the value is active locally but not yet
// confirmed server-side (partial apply). PersistWarning is set when the local
// cache write failed.
type RiskApplyResult struct {
	Settings        domain.RiskSettings
	RemoteConfirmed bool
	RemoteErr       error
	PersistWarning  error
}

// RiskSettingsReconciler merges the server copy of the risk settings with the
// local fallback cache into one authoritative in-memory value, and validates
// edits against mode-dependent bounds.
type RiskSettingsReconciler struct {
	backend  domain.RiskBackend
	cache    domain.LocalCache
	sessions SessionSource
	logger   *zap.Logger

	mu      sync.RWMutex
	current domain.RiskSettings
}

func NewRiskSettingsReconciler(backend domain.RiskBackend, cache domain.LocalCache, sessions SessionSource, logger *zap.Logger) *RiskSettingsReconciler {
	return &RiskSettingsReconciler{
		backend:  backend,
		cache:    cache,
		sessions: sessions,
		logger:   logger,
		current:  domain.DefaultRiskSettings(),
	}
}

// Load reconciles server, cache and defaults, in that order of authority, and
// never fails: the UI must always have some settings to render. A server copy
// that does not define concurrentTrades is treated as malformed.
func (r *RiskSettingsReconciler) Load(ctx context.Context) domain.RiskSettings {
	settings := r.resolve(ctx)

	r.mu.Lock()
	r.current = settings
	r.mu.Unlock()

	return settings
}

func (r *RiskSettingsReconciler) resolve(ctx context.Context) domain.RiskSettings {
	if session := r.sessions.CurrentSession(); session != nil {
		remote, err := r.backend.GetRiskSettings(ctx, session.Token)
		switch {
		case err == nil && remote.WellFormed():
			return *remote
		case errors.Is(err, domain.ErrUnauthorized):
			r.logger.Warn("risk settings fetch unauthorized, forcing logout")
			r.sessions.Logout(ctx)
		case err != nil:
			r.logger.Warn("risk settings fetch failed, falling back to cache", zap.Error(err))
		default:
			r.logger.Warn("server risk settings malformed, falling back to cache")
		}
	}

	raw, ok, err := r.cache.Get(ctx, domain.CacheKeyRiskSettings)
	if err == nil && ok {
		var cached domain.RiskSettings
		if json.Unmarshal(raw, &cached) == nil && cached.WellFormed() {
			return cached
		}
	}

	return domain.DefaultRiskSettings()
}

// Current returns the most recently reconciled settings. Defaults before the
// first Load. Never observes a half-written value.
func (r *RiskSettingsReconciler) Current() domain.RiskSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Apply merges the patch over Current, validates the result against the
// bounds for the given mode, and writes through to both the server (when a
// session exists) and the local cache. Validation failures happen before any
// network call.
func (r *RiskSettingsReconciler) Apply(ctx context.Context, patch domain.RiskSettingsPatch, advancedMode bool) (*RiskApplyResult, error) {
	merged := patch.ApplyTo(r.Current())
	if err := merged.Validate(advancedMode); err != nil {
		return nil, err
	}

	result := &RiskApplyResult{Settings: merged}

	if session := r.sessions.CurrentSession(); session != nil {
		err := r.backend.SetRiskSettings(ctx, session.Token, merged)
		if err == nil {
			result.RemoteConfirmed = true
		} else {
			if errors.Is(err, domain.ErrUnauthorized) {
				r.logger.Warn("risk settings write unauthorized, forcing logout")
				r.sessions.Logout(ctx)
			}
			result.RemoteErr = err
		}
	}

	raw, err := json.Marshal(merged)
	if err == nil {
		err = r.cache.Set(ctx, domain.CacheKeyRiskSettings, raw)
	}
	if err != nil {
		result.PersistWarning = err
		if result.RemoteErr != nil {
			// Neither side took the value; nothing is active.
			return nil, fmt.Errorf("apply risk settings: remote: %v, local: %w", result.RemoteErr, err)
		}
		r.logger.Warn("risk settings not cached locally", zap.Error(err))
	}

	r.mu.Lock()
	r.current = merged
	r.mu.Unlock()

	return result, nil
}
