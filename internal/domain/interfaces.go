package domain

import "context"

// AuthOutcome is the normalized result of an authenticate call. Exactly one of
// Token or SecondFactorRequired is meaningful.
type AuthOutcome struct {
	Token                string
	Username             string
	SecondFactorRequired bool
}

// AuthBackend performs first- and second-factor authentication.
type AuthBackend interface {
	Authenticate(ctx context.Context, creds Credentials) (*AuthOutcome, error)
	AuthenticateWithOTP(ctx context.Context, creds Credentials, otp string) (*AuthOutcome, error)
}

// RiskBackend holds the server copy of the risk settings.
type RiskBackend interface {
	GetRiskSettings(ctx context.Context, token string) (*RiskSettings, error)
	SetRiskSettings(ctx context.Context, token string, settings RiskSettings) error
}

// TradingBackend places orders.
type TradingBackend interface {
	PlaceOrder(ctx context.Context, token string, req TradeRequest, reference string) (*OrderOutcome, error)
}

// OrderOutcome is the backend's answer to a well-formed order. Success=false
// means a semantic rejection, with the backend's detail preserved verbatim.
type OrderOutcome struct {
	Success bool
	DealID  string
	Detail  string
}

// AccountBackend reports the account state.
type AccountBackend interface {
	GetAccount(ctx context.Context, token string) (*AccountSnapshot, error)
}

// TradeHistoryBackend and ReportBackend feed the review views. Read-only, not
// gated by the order-entry core.
type TradeHistoryBackend interface {
	GetTrades(ctx context.Context, token string) ([]TradeRecord, error)
}

type ReportBackend interface {
	GetDailyReport(ctx context.Context, token string) (*DailyReport, error)
}

// Cache keys owned by this core.
const (
	CacheKeySession      = "session"
	CacheKeyRiskSettings = "risk_settings"
)

// LocalCache is scoped key-value persistence that survives restarts. Used for
// the session token and the risk-settings fallback.
type LocalCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
