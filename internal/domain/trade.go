package domain

import "time"

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// TradeRequest is one order submission attempt. TakeProfit and StopLoss are
// optional; when nil they are omitted from the wire entirely so the backend
// cannot mistake them for explicit zero levels.
type TradeRequest struct {
	Symbol     string
	Side       Side
	Amount     float64
	TakeProfit *float64
	StopLoss   *float64
}

// TradeResult is the outcome of a successful submission. Account carries the
// post-trade snapshot when the refresh succeeded; RefreshErr is the non-fatal
// warning when it did not.
type TradeResult struct {
	Reference  string // client-generated ULID sent with the order
	DealID     string // backend-assigned id, normalized from id/dealId variants
	Detail     string
	Account    *AccountSnapshot
	RefreshErr error
}

// AccountSnapshot is the server-reported account state. Read-only to the core.
type AccountSnapshot struct {
	AccountType      string  `json:"accountType"`
	Balance          float64 `json:"balance"`
	Deposit          float64 `json:"deposit"`
	ProfitLoss       float64 `json:"profitLoss"`
	Available        float64 `json:"available"`
	CurrencyISOCode  string  `json:"currencyIsoCode"`
	CurrencySymbol   string  `json:"currencySymbol"`
	ClientID         string  `json:"clientId"`
	CurrentAccountID string  `json:"currentAccountId"`
}

// TradeRecord is a past trade as reported by the trade-history endpoint.
type TradeRecord struct {
	DealID     string    `json:"dealId"`
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	Amount     float64   `json:"amount"`
	OpenPrice  float64   `json:"openPrice"`
	ClosePrice float64   `json:"closePrice"`
	ProfitLoss float64   `json:"profitLoss"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DailyReport is the backend's daily trading summary.
type DailyReport struct {
	Date       string  `json:"date"`
	Trades     int     `json:"trades"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	ProfitLoss float64 `json:"profitLoss"`
	Notes      string  `json:"notes"`
}

// Quote is one tick from the quote stream.
type Quote struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Ts     int64   `json:"ts"` // unix milliseconds
}
