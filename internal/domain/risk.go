package domain

// RiskSettings is the reconciled set of risk-control parameters. JSON tags
// match the backend's camelCase contract; the same shape is cached locally.
type RiskSettings struct {
	ConcurrentTrades int     `json:"concurrentTrades"`
	RiskPerTrade     float64 `json:"riskPerTrade"` // percent of balance
	MaxDailyLoss     float64 `json:"maxDailyLoss"` // account currency
	ProfitTarget     float64 `json:"profitTarget"` // account currency
	Leverage         int     `json:"leverage"`
}

// DefaultRiskSettings are used when neither the server nor the local cache
// holds a usable copy.
func DefaultRiskSettings() RiskSettings {
	return RiskSettings{
		ConcurrentTrades: 1,
		RiskPerTrade:     2,
		MaxDailyLoss:     20,
		ProfitTarget:     50,
		Leverage:         10,
	}
}

// WellFormed reports whether a fetched copy is usable. A copy that does not
// define concurrentTrades is treated as malformed and triggers fallback.
func (s RiskSettings) WellFormed() bool {
	return s.ConcurrentTrades >= 1
}

// RiskSettingsPatch is a partial edit: nil fields keep their current value.
type RiskSettingsPatch struct {
	ConcurrentTrades *int
	RiskPerTrade     *float64
	MaxDailyLoss     *float64
	ProfitTarget     *float64
	Leverage         *int
}

// ApplyTo merges the patch over base and returns the result.
func (p RiskSettingsPatch) ApplyTo(base RiskSettings) RiskSettings {
	out := base
	if p.ConcurrentTrades != nil {
		out.ConcurrentTrades = *p.ConcurrentTrades
	}
	if p.RiskPerTrade != nil {
		out.RiskPerTrade = *p.RiskPerTrade
	}
	if p.MaxDailyLoss != nil {
		out.MaxDailyLoss = *p.MaxDailyLoss
	}
	if p.ProfitTarget != nil {
		out.ProfitTarget = *p.ProfitTarget
	}
	if p.Leverage != nil {
		out.Leverage = *p.Leverage
	}
	return out
}

// Validate checks every field against its bound. Advanced mode widens the
// concurrentTrades and riskPerTrade ranges; the remaining bounds are fixed.
func (s RiskSettings) Validate(advanced bool) error {
	maxConcurrent := 1
	maxRiskPerTrade := 2.0
	if advanced {
		maxConcurrent = 10
		maxRiskPerTrade = 10
	}

	if s.ConcurrentTrades < 1 || s.ConcurrentTrades > maxConcurrent {
		return &InvalidRiskSettingError{
			Field: "concurrentTrades", Value: float64(s.ConcurrentTrades),
			Min: 1, Max: float64(maxConcurrent),
		}
	}
	if s.RiskPerTrade < 0.5 || s.RiskPerTrade > maxRiskPerTrade {
		return &InvalidRiskSettingError{
			Field: "riskPerTrade", Value: s.RiskPerTrade,
			Min: 0.5, Max: maxRiskPerTrade,
		}
	}
	if s.MaxDailyLoss < 1 || s.MaxDailyLoss > 999999 {
		return &InvalidRiskSettingError{
			Field: "maxDailyLoss", Value: s.MaxDailyLoss, Min: 1, Max: 999999,
		}
	}
	if s.ProfitTarget < 1 || s.ProfitTarget > 999999 {
		return &InvalidRiskSettingError{
			Field: "profitTarget", Value: s.ProfitTarget, Min: 1, Max: 999999,
		}
	}
	if s.Leverage < 1 || s.Leverage > 100 {
		return &InvalidRiskSettingError{
			Field: "leverage", Value: float64(s.Leverage), Min: 1, Max: 100,
		}
	}
	return nil
}
