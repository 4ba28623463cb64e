package backend

import (
	"context"
	"errors"

	"github.com/vitos/capital_trade_client/internal/domain"
)

type orderRequest struct {
	Symbol     string   `json:"symbol"`
	Side       string   `json:"side"`
	Amount     float64  `json:"amount"`
	TakeProfit *float64 `json:"take_profit,omitempty"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
	Reference  string   `json:"reference"`
}

// orderResponse tolerates both id spellings the backend has been seen to use.
type orderResponse struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail"`
	DealID  string `json:"dealId"`
	ID      string `json:"id"`
}

func (r orderResponse) dealID() string {
	if r.DealID != "" {
		return r.DealID
	}
	return r.ID
}

// PlaceOrder submits a market order. Semantic rejections (including non-401
// HTTP errors) come back as OrderOutcome with Success=false and the backend's
// detail verbatim; only transport failures and expired sessions return errors.
func (c *Client) PlaceOrder(ctx context.Context, token string, req domain.TradeRequest, reference string) (*domain.OrderOutcome, error) {
	payload := orderRequest{
		Symbol:     req.Symbol,
		Side:       string(req.Side),
		Amount:     req.Amount,
		TakeProfit: req.TakeProfit,
		StopLoss:   req.StopLoss,
		Reference:  reference,
	}

	var resp orderResponse
	if err := c.sendRequest(ctx, "POST", "/trade", token, payload, &resp); err != nil {
		var rejection *apiError
		if errors.As(err, &rejection) {
			return &domain.OrderOutcome{Success: false, Detail: rejection.Detail}, nil
		}
		return nil, err
	}

	return &domain.OrderOutcome{
		Success: resp.Success,
		DealID:  resp.dealID(),
		Detail:  resp.Detail,
	}, nil
}
