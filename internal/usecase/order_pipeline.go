package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/vitos/capital_trade_client/internal/domain"
)

// OrderSubmissionPipeline validates a trade request locally, submits it, and
// refreshes the account snapshot after a fill. It owns no persistent state; it
// borrows the session and the reconciled risk settings per submission.
//
// It deliberately does not cross-check concurrentTrades or riskPerTrade
// against live exposure: that needs the backend's view of open positions.
type OrderSubmissionPipeline struct {
	trading  domain.TradingBackend
	account  domain.AccountBackend
	sessions SessionSource
	logger   *zap.Logger
}

func NewOrderSubmissionPipeline(trading domain.TradingBackend, account domain.AccountBackend, sessions SessionSource, logger *zap.Logger) *OrderSubmissionPipeline {
	return &OrderSubmissionPipeline{
		trading:  trading,
		account:  account,
		sessions: sessions,
		logger:   logger,
	}
}

func validateRequest(req domain.TradeRequest) error {
	if strings.TrimSpace(req.Symbol) == "" {
		return &domain.InvalidTradeRequestError{Reason: "symbol is required"}
	}
	if req.Side != domain.SideBuy && req.Side != domain.SideSell {
		return &domain.InvalidTradeRequestError{Reason: fmt.Sprintf("side must be BUY or SELL, got %q", req.Side)}
	}
	if req.Amount <= 0 {
		return &domain.InvalidTradeRequestError{Reason: "amount must be positive"}
	}
	if req.TakeProfit != nil && *req.TakeProfit <= 0 {
		return &domain.InvalidTradeRequestError{Reason: "take profit must be positive when set"}
	}
	if req.StopLoss != nil && *req.StopLoss <= 0 {
		return &domain.InvalidTradeRequestError{Reason: "stop loss must be positive when set"}
	}
	return nil
}

// Submit places one order. The local shape guard runs before any network
// call. A backend rejection is returned verbatim as BackendRejectedError; a
// transport failure as ErrTradeSubmissionUnreachable. On success the account
// is refreshed once; a failed refresh is a warning on the result, never a
// rollback of the already-successful trade.
func (p *OrderSubmissionPipeline) Submit(ctx context.Context, req domain.TradeRequest) (*domain.TradeResult, error) {
	session := p.sessions.CurrentSession()
	if session == nil {
		return nil, domain.ErrNotAuthenticated
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// Time-sortable reference lets the backend deduplicate replays.
	reference := ulid.Make().String()

	outcome, err := p.trading.PlaceOrder(ctx, session.Token, req, reference)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			p.logger.Warn("order rejected as unauthorized, forcing logout")
			p.sessions.Logout(ctx)
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrTradeSubmissionUnreachable, err)
	}

	if !outcome.Success {
		return nil, &domain.BackendRejectedError{Detail: outcome.Detail}
	}

	result := &domain.TradeResult{
		Reference: reference,
		DealID:    outcome.DealID,
		Detail:    outcome.Detail,
	}

	snapshot, err := p.account.GetAccount(ctx, session.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			p.sessions.Logout(ctx)
		}
		p.logger.Warn("post-trade account refresh failed", zap.Error(err), zap.String("reference", reference))
		result.RefreshErr = err
		return result, nil
	}
	result.Account = snapshot

	p.logger.Info("trade placed",
		zap.String("symbol", req.Symbol),
		zap.String("side", string(req.Side)),
		zap.Float64("amount", req.Amount),
		zap.String("reference", reference),
		zap.String("deal_id", outcome.DealID))

	return result, nil
}

// Account fetches the current snapshot for the initial dashboard render.
func (p *OrderSubmissionPipeline) Account(ctx context.Context) (*domain.AccountSnapshot, error) {
	session := p.sessions.CurrentSession()
	if session == nil {
		return nil, domain.ErrNotAuthenticated
	}

	snapshot, err := p.account.GetAccount(ctx, session.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			p.sessions.Logout(ctx)
		}
		return nil, err
	}
	return snapshot, nil
}
