package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vitos/capital_trade_client/internal/domain"
)

const (
	// DefaultBaseURL points at a locally running trading backend.
	DefaultBaseURL = "http://localhost:8000"
)

// ErrUnreachable marks transport-level failures: timeouts, connection errors,
// responses that cannot be decoded. Semantic rejections never carry it.
var ErrUnreachable = errors.New("backend unreachable")

// Client talks the brokerage backend's JSON contract. It implements the
// AuthBackend, RiskBackend, TradingBackend, AccountBackend,
// TradeHistoryBackend and ReportBackend capabilities.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// apiError is a non-401 HTTP error with the backend's detail field.
type apiError struct {
	Status int
	Detail string
}

func (e *apiError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// sendRequest performs one JSON round trip. A bearer token is attached when
// non-empty; a 401 on a token-bearing call is translated to
// domain.ErrUnauthorized so callers can force a logout.
func (c *Client) sendRequest(ctx context.Context, method, path, token string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode >= 400 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(respBody, &detail)

		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			return fmt.Errorf("%w: %s", domain.ErrUnauthorized, detail.Detail)
		}
		return &apiError{Status: resp.StatusCode, Detail: detail.Detail}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrUnreachable, err)
		}
	}
	return nil
}
