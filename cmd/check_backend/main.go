package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vitos/capital_trade_client/internal/config"
	"github.com/vitos/capital_trade_client/internal/domain"
	"github.com/vitos/capital_trade_client/internal/infrastructure/backend"
)

func mustLogger() *zap.Logger {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return log
}

// Connectivity check against a configured backend: logs in with env
// credentials, fetches risk settings and the account snapshot, then (if the
// ws endpoint is configured) listens for a few quote events.
func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Testing backend at %s...\n", cfg.Backend.BaseURL)

	client := backend.NewClient(cfg.Backend.BaseURL)
	ctx := context.Background()

	creds := domain.Credentials{
		Username:       os.Getenv("TRADER_USERNAME"),
		Password:       os.Getenv("TRADER_PASSWORD"),
		APIKey:         os.Getenv("TRADER_API_KEY"),
		APIKeyPassword: os.Getenv("TRADER_API_KEY_PASSWORD"),
		UseDemo:        true,
	}

	outcome, err := client.Authenticate(ctx, creds)
	if err != nil {
		fmt.Printf("❌ Login failed: %v\n", err)
		os.Exit(1)
	}
	if outcome.SecondFactorRequired {
		fmt.Println("❌ Account requires 2FA; use cmd/trader for the interactive flow.")
		os.Exit(1)
	}
	fmt.Printf("✅ Logged in as %s\n", outcome.Username)

	settings, err := client.GetRiskSettings(ctx, outcome.Token)
	if err != nil {
		fmt.Printf("❌ Failed to get risk settings: %v\n", err)
	} else {
		fmt.Printf("✅ Risk settings: %+v\n", *settings)
	}

	account, err := client.GetAccount(ctx, outcome.Token)
	if err != nil {
		fmt.Printf("❌ Failed to get account: %v\n", err)
	} else {
		fmt.Printf("✅ Account balance: %.2f %s\n", account.Balance, account.CurrencyISOCode)
	}

	if cfg.Backend.WSURL == "" {
		return
	}

	fmt.Println("Listening for quotes (5s)...")
	stream := backend.NewQuoteStream(cfg.Backend.WSURL, outcome.Token, mustLogger())
	stream.OnQuote(func(q domain.Quote) {
		fmt.Printf("  %s bid=%.5f ask=%.5f\n", q.Symbol, q.Bid, q.Ask)
	})
	if err := stream.Connect([]string{"EURUSD"}); err != nil {
		fmt.Printf("❌ Quote stream failed: %v\n", err)
		os.Exit(1)
	}
	time.Sleep(5 * time.Second)
	stream.Close()
}
