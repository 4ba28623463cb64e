package backend

import (
	"context"

	"github.com/vitos/capital_trade_client/internal/domain"
)

func (c *Client) GetRiskSettings(ctx context.Context, token string) (*domain.RiskSettings, error) {
	var settings domain.RiskSettings
	if err := c.sendRequest(ctx, "GET", "/risk-settings", token, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *Client) SetRiskSettings(ctx context.Context, token string, settings domain.RiskSettings) error {
	return c.sendRequest(ctx, "POST", "/risk-settings", token, settings, nil)
}
