package backend

import (
	"context"

	"github.com/vitos/capital_trade_client/internal/domain"
)

type loginRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	APIKey         string `json:"api_key"`
	APIKeyPassword string `json:"api_key_password"`
	UseDemo        bool   `json:"use_demo"`
	OTP            string `json:"otp,omitempty"`
}

type loginResponse struct {
	AccessToken   string `json:"access_token"`
	TokenType     string `json:"token_type"`
	Username      string `json:"username"`
	TwoFARequired bool   `json:"2fa_required"`
}

func (c *Client) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.AuthOutcome, error) {
	return c.login(ctx, "/login", creds, "")
}

func (c *Client) AuthenticateWithOTP(ctx context.Context, creds domain.Credentials, otp string) (*domain.AuthOutcome, error) {
	return c.login(ctx, "/login-2fa", creds, otp)
}

func (c *Client) login(ctx context.Context, path string, creds domain.Credentials, otp string) (*domain.AuthOutcome, error) {
	payload := loginRequest{
		Username:       creds.Username,
		Password:       creds.Password,
		APIKey:         creds.APIKey,
		APIKeyPassword: creds.APIKeyPassword,
		UseDemo:        creds.UseDemo,
		OTP:            otp,
	}

	var resp loginResponse
	if err := c.sendRequest(ctx, "POST", path, "", payload, &resp); err != nil {
		return nil, err
	}

	if resp.TwoFARequired {
		return &domain.AuthOutcome{SecondFactorRequired: true}, nil
	}
	if resp.AccessToken == "" {
		return nil, &apiError{Status: 200, Detail: "login response carried no token"}
	}
	return &domain.AuthOutcome{Token: resp.AccessToken, Username: resp.Username}, nil
}
