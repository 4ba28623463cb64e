package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/vitos/capital_trade_client/internal/domain"
	"github.com/vitos/capital_trade_client/internal/usecase"
)

func newPipeline(t *testing.T, trading *mockTradingBackend, account *mockAccountBackend) (*usecase.OrderSubmissionPipeline, *usecase.AuthSessionMachine) {
	t.Helper()
	machine := authedMachine(t, newMemCache())
	return usecase.NewOrderSubmissionPipeline(trading, account, machine, zap.NewNop()), machine
}

func buyRequest() domain.TradeRequest {
	return domain.TradeRequest{Symbol: "EURUSD", Side: domain.SideBuy, Amount: 1}
}

func TestSubmit_NotAuthenticated(t *testing.T) {
	trading := &mockTradingBackend{}
	machine, _ := newMachine(&mockAuthBackend{}, newMemCache()) // anonymous
	p := usecase.NewOrderSubmissionPipeline(trading, &mockAccountBackend{}, machine, zap.NewNop())

	_, err := p.Submit(context.Background(), buyRequest())
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected NotAuthenticated, got %v", err)
	}
	if trading.Calls != 0 {
		t.Fatal("no network call should happen without a session")
	}
}

func TestSubmit_LocalShapeGuard(t *testing.T) {
	neg := -5.0
	cases := []struct {
		name string
		req  domain.TradeRequest
	}{
		{"zero amount", domain.TradeRequest{Symbol: "EURUSD", Side: domain.SideBuy, Amount: 0}},
		{"blank symbol", domain.TradeRequest{Symbol: "   ", Side: domain.SideBuy, Amount: 1}},
		{"bad side", domain.TradeRequest{Symbol: "EURUSD", Side: "HOLD", Amount: 1}},
		{"negative stop loss", domain.TradeRequest{Symbol: "EURUSD", Side: domain.SideSell, Amount: 1, StopLoss: &neg}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trading := &mockTradingBackend{}
			p, _ := newPipeline(t, trading, &mockAccountBackend{})

			_, err := p.Submit(context.Background(), tc.req)
			var invalid *domain.InvalidTradeRequestError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidTradeRequestError, got %v", err)
			}
			if trading.Calls != 0 {
				t.Fatal("shape violations must be caught before any network call")
			}
		})
	}
}

func TestSubmit_SuccessRefreshesAccountOnce(t *testing.T) {
	trading := &mockTradingBackend{Outcome: &domain.OrderOutcome{Success: true, DealID: "deal-42"}}
	account := &mockAccountBackend{Snapshot: &domain.AccountSnapshot{Balance: 1234.5}}
	p, _ := newPipeline(t, trading, account)

	result, err := p.Submit(context.Background(), buyRequest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if trading.Calls != 1 {
		t.Fatalf("expected exactly one order call, got %d", trading.Calls)
	}
	if account.Calls != 1 {
		t.Fatalf("expected exactly one account refresh, got %d", account.Calls)
	}
	if result.DealID != "deal-42" {
		t.Errorf("unexpected deal id %q", result.DealID)
	}
	if result.Account == nil || result.Account.Balance != 1234.5 {
		t.Errorf("result should carry the refreshed snapshot: %+v", result.Account)
	}
	if result.RefreshErr != nil {
		t.Errorf("unexpected refresh warning: %v", result.RefreshErr)
	}
	if result.Reference == "" {
		t.Error("a client reference should be assigned")
	}
	if trading.LastRef != result.Reference {
		t.Error("the reference on the wire must match the result")
	}
}

func TestSubmit_OmittedLevelsStayNil(t *testing.T) {
	trading := &mockTradingBackend{}
	p, _ := newPipeline(t, trading, &mockAccountBackend{})

	if _, err := p.Submit(context.Background(), buyRequest()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if trading.LastReq.TakeProfit != nil || trading.LastReq.StopLoss != nil {
		t.Fatal("omitted take profit / stop loss must not be sent as placeholders")
	}

	tp := 1.25
	req := buyRequest()
	req.TakeProfit = &tp
	if _, err := p.Submit(context.Background(), req); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if trading.LastReq.TakeProfit == nil || *trading.LastReq.TakeProfit != 1.25 {
		t.Fatal("provided take profit must pass through unchanged")
	}
}

func TestSubmit_BackendRejectionVerbatim(t *testing.T) {
	trading := &mockTradingBackend{Outcome: &domain.OrderOutcome{Success: false, Detail: "insufficient funds"}}
	account := &mockAccountBackend{}
	p, _ := newPipeline(t, trading, account)

	_, err := p.Submit(context.Background(), buyRequest())
	var rejected *domain.BackendRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected BackendRejectedError, got %v", err)
	}
	if rejected.Detail != "insufficient funds" {
		t.Errorf("detail must be verbatim, got %q", rejected.Detail)
	}
	if account.Calls != 0 {
		t.Fatal("no account refresh after a rejection")
	}
}

func TestSubmit_TransportFailure(t *testing.T) {
	trading := &mockTradingBackend{Err: errors.New("connection refused")}
	account := &mockAccountBackend{}
	p, _ := newPipeline(t, trading, account)

	_, err := p.Submit(context.Background(), buyRequest())
	if !errors.Is(err, domain.ErrTradeSubmissionUnreachable) {
		t.Fatalf("expected TradeSubmissionUnreachable, got %v", err)
	}
	if account.Calls != 0 {
		t.Fatal("no account refresh after a transport failure")
	}
}

func TestSubmit_UnauthorizedForcesLogout(t *testing.T) {
	trading := &mockTradingBackend{Err: fmt.Errorf("%w: token expired", domain.ErrUnauthorized)}
	p, machine := newPipeline(t, trading, &mockAccountBackend{})

	_, err := p.Submit(context.Background(), buyRequest())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
	if machine.State() != domain.StateAnonymous {
		t.Fatalf("401 must force logout, state is %s", machine.State())
	}
}

func TestSubmit_RefreshFailureIsNonFatal(t *testing.T) {
	trading := &mockTradingBackend{}
	account := &mockAccountBackend{Err: errors.New("account endpoint down")}
	p, _ := newPipeline(t, trading, account)

	result, err := p.Submit(context.Background(), buyRequest())
	if err != nil {
		t.Fatalf("the trade already succeeded, refresh failure must not fail it: %v", err)
	}
	if result.RefreshErr == nil {
		t.Fatal("caller should see the refresh warning")
	}
	if result.Account != nil {
		t.Fatal("no snapshot when the refresh failed")
	}
}

func TestAccount_RequiresSession(t *testing.T) {
	machine, _ := newMachine(&mockAuthBackend{}, newMemCache())
	p := usecase.NewOrderSubmissionPipeline(&mockTradingBackend{}, &mockAccountBackend{}, machine, zap.NewNop())

	if _, err := p.Account(context.Background()); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected NotAuthenticated, got %v", err)
	}
}
