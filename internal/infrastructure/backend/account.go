package backend

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/vitos/capital_trade_client/internal/domain"
)

type accountResponse struct {
	AccountType string `json:"accountType"`
	AccountInfo struct {
		Balance    float64 `json:"balance"`
		Deposit    float64 `json:"deposit"`
		ProfitLoss float64 `json:"profitLoss"`
		Available  float64 `json:"available"`
	} `json:"accountInfo"`
	CurrencyISOCode  string      `json:"currencyIsoCode"`
	CurrencySymbol   string      `json:"currencySymbol"`
	ClientID         json.Number `json:"clientId"`
	CurrentAccountID json.Number `json:"currentAccountId"`
}

func (c *Client) GetAccount(ctx context.Context, token string) (*domain.AccountSnapshot, error) {
	var resp accountResponse
	if err := c.sendRequest(ctx, "GET", "/account", token, nil, &resp); err != nil {
		return nil, err
	}

	return &domain.AccountSnapshot{
		AccountType:      resp.AccountType,
		Balance:          resp.AccountInfo.Balance,
		Deposit:          resp.AccountInfo.Deposit,
		ProfitLoss:       resp.AccountInfo.ProfitLoss,
		Available:        resp.AccountInfo.Available,
		CurrencyISOCode:  resp.CurrencyISOCode,
		CurrencySymbol:   resp.CurrencySymbol,
		ClientID:         resp.ClientID.String(),
		CurrentAccountID: resp.CurrentAccountID.String(),
	}, nil
}

// tradeRecordResponse tolerates the id and timestamp variants seen in backend
// responses and normalizes them into domain.TradeRecord.
type tradeRecordResponse struct {
	DealID     string  `json:"dealId"`
	ID         string  `json:"id"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Amount     float64 `json:"amount"`
	OpenPrice  float64 `json:"openPrice"`
	ClosePrice float64 `json:"closePrice"`
	ProfitLoss float64 `json:"profitLoss"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"createdAt"`
}

func (c *Client) GetTrades(ctx context.Context, token string) ([]domain.TradeRecord, error) {
	var resp []tradeRecordResponse
	if err := c.sendRequest(ctx, "GET", "/trades", token, nil, &resp); err != nil {
		return nil, err
	}

	records := make([]domain.TradeRecord, 0, len(resp))
	for _, raw := range resp {
		id := raw.DealID
		if id == "" {
			id = raw.ID
		}
		createdAt, err := time.Parse(time.RFC3339, raw.CreatedAt)
		if err != nil {
			// Some responses use unix seconds instead of RFC3339.
			if secs, convErr := strconv.ParseInt(raw.CreatedAt, 10, 64); convErr == nil {
				createdAt = time.Unix(secs, 0).UTC()
			}
		}
		records = append(records, domain.TradeRecord{
			DealID:     id,
			Symbol:     raw.Symbol,
			Side:       domain.Side(raw.Side),
			Amount:     raw.Amount,
			OpenPrice:  raw.OpenPrice,
			ClosePrice: raw.ClosePrice,
			ProfitLoss: raw.ProfitLoss,
			Status:     raw.Status,
			CreatedAt:  createdAt,
		})
	}
	return records, nil
}

func (c *Client) GetDailyReport(ctx context.Context, token string) (*domain.DailyReport, error) {
	var report domain.DailyReport
	if err := c.sendRequest(ctx, "GET", "/daily-report", token, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
