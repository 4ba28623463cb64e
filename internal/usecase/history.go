package usecase

import (
	"context"
	"errors"

	"github.com/vitos/capital_trade_client/internal/domain"
)

// HistoryService feeds the trade-review and daily-report views. Read-only and
// not gated by the order-entry core beyond requiring a session.
type HistoryService struct {
	history  domain.TradeHistoryBackend
	reports  domain.ReportBackend
	sessions SessionSource
}

func NewHistoryService(history domain.TradeHistoryBackend, reports domain.ReportBackend, sessions SessionSource) *HistoryService {
	return &HistoryService{
		history:  history,
		reports:  reports,
		sessions: sessions,
	}
}

func (h *HistoryService) Trades(ctx context.Context) ([]domain.TradeRecord, error) {
	session := h.sessions.CurrentSession()
	if session == nil {
		return nil, domain.ErrNotAuthenticated
	}

	trades, err := h.history.GetTrades(ctx, session.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.sessions.Logout(ctx)
		}
		return nil, err
	}
	return trades, nil
}

func (h *HistoryService) DailyReport(ctx context.Context) (*domain.DailyReport, error) {
	session := h.sessions.CurrentSession()
	if session == nil {
		return nil, domain.ErrNotAuthenticated
	}

	report, err := h.reports.GetDailyReport(ctx, session.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.sessions.Logout(ctx)
		}
		return nil, err
	}
	return report, nil
}
