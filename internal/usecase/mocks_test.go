package usecase_test

import (
	"context"
	"errors"
	"sync"

	"github.com/vitos/capital_trade_client/internal/domain"
)

// memCache is an in-memory domain.LocalCache. FailWrites makes Set/Delete
// fail to simulate unavailable persistence.
type memCache struct {
	mu         sync.Mutex
	data       map[string][]byte
	FailWrites bool
	FailReads  bool
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailReads {
		return nil, false, errors.New("cache unavailable")
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailWrites {
		return errors.New("cache unavailable")
	}
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailWrites {
		return errors.New("cache unavailable")
	}
	delete(c.data, key)
	return nil
}

// mockAuthBackend scripts authenticate outcomes. Block, when set, makes
// Authenticate wait until Release is closed (for in-flight tests).
type mockAuthBackend struct {
	Token         string
	TwoFARequired bool
	Err           error
	OTPErr        error
	ExpectedOTP   string

	Block   chan struct{} // closed by Authenticate once it has started
	Release chan struct{} // Authenticate waits on this when non-nil

	AuthCalls int
	OTPCalls  int
}

func (m *mockAuthBackend) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.AuthOutcome, error) {
	m.AuthCalls++
	if m.Block != nil {
		close(m.Block)
		<-m.Release
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.TwoFARequired {
		return &domain.AuthOutcome{SecondFactorRequired: true}, nil
	}
	return &domain.AuthOutcome{Token: m.Token, Username: creds.Username}, nil
}

func (m *mockAuthBackend) AuthenticateWithOTP(ctx context.Context, creds domain.Credentials, otp string) (*domain.AuthOutcome, error) {
	m.OTPCalls++
	if m.OTPErr != nil {
		return nil, m.OTPErr
	}
	if m.ExpectedOTP != "" && otp != m.ExpectedOTP {
		return nil, errors.New("wrong otp")
	}
	return &domain.AuthOutcome{Token: m.Token, Username: creds.Username}, nil
}

// mockRiskBackend stores settings in memory like the real backend would.
type mockRiskBackend struct {
	Settings *domain.RiskSettings
	GetErr   error
	SetErr   error

	GetCalls int
	SetCalls int
}

func (m *mockRiskBackend) GetRiskSettings(ctx context.Context, token string) (*domain.RiskSettings, error) {
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Settings == nil {
		return &domain.RiskSettings{}, nil
	}
	s := *m.Settings
	return &s, nil
}

func (m *mockRiskBackend) SetRiskSettings(ctx context.Context, token string, settings domain.RiskSettings) error {
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	s := settings
	m.Settings = &s
	return nil
}

type mockTradingBackend struct {
	Outcome *domain.OrderOutcome
	Err     error

	Calls    int
	LastReq  domain.TradeRequest
	LastRef  string
	LastTok  string
	LastSide domain.Side
}

func (m *mockTradingBackend) PlaceOrder(ctx context.Context, token string, req domain.TradeRequest, reference string) (*domain.OrderOutcome, error) {
	m.Calls++
	m.LastReq = req
	m.LastRef = reference
	m.LastTok = token
	m.LastSide = req.Side
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Outcome != nil {
		return m.Outcome, nil
	}
	return &domain.OrderOutcome{Success: true, DealID: "deal-1"}, nil
}

type mockAccountBackend struct {
	Snapshot *domain.AccountSnapshot
	Err      error

	Calls int
}

func (m *mockAccountBackend) GetAccount(ctx context.Context, token string) (*domain.AccountSnapshot, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Snapshot != nil {
		s := *m.Snapshot
		return &s, nil
	}
	return &domain.AccountSnapshot{Balance: 1000, Available: 900}, nil
}

type mockHistoryBackend struct {
	Trades []domain.TradeRecord
	Report *domain.DailyReport
	Err    error
}

func (m *mockHistoryBackend) GetTrades(ctx context.Context, token string) ([]domain.TradeRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Trades, nil
}

func (m *mockHistoryBackend) GetDailyReport(ctx context.Context, token string) (*domain.DailyReport, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Report, nil
}
