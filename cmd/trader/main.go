package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/vitos/capital_trade_client/internal/config"
	"github.com/vitos/capital_trade_client/internal/domain"
	"github.com/vitos/capital_trade_client/internal/infrastructure/backend"
	"github.com/vitos/capital_trade_client/internal/infrastructure/logger"
	"github.com/vitos/capital_trade_client/internal/infrastructure/storage"
	"github.com/vitos/capital_trade_client/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	symbol := flag.String("symbol", "", "instrument to trade (omit to only show account state)")
	side := flag.String("side", "BUY", "BUY or SELL")
	amount := flag.Float64("amount", 0, "trade amount")
	takeProfit := flag.Float64("tp", 0, "optional take profit level")
	stopLoss := flag.Float64("sl", 0, "optional stop loss level")
	advanced := flag.Bool("advanced", false, "allow advanced risk bounds when editing settings")
	concurrent := flag.Int("concurrent-trades", 0, "edit risk setting: concurrent trades")
	riskPerTrade := flag.Float64("risk-per-trade", 0, "edit risk setting: risk per trade (%)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cache, err := storage.NewSQLiteCache(cfg.Cache.Path)
	if err != nil {
		log.Fatal("Failed to init sqlite cache", zap.Error(err))
	}
	defer cache.Close()

	client := backend.NewClient(cfg.Backend.BaseURL)
	vault := usecase.NewCredentialVault(cache)
	sessions := usecase.NewAuthSessionMachine(client, vault, log)
	risk := usecase.NewRiskSettingsReconciler(client, cache, sessions, log)
	pipeline := usecase.NewOrderSubmissionPipeline(client, client, sessions, log)

	ctx := context.Background()

	if session := sessions.Resume(ctx); session != nil {
		fmt.Println("Resumed persisted session.")
	} else if err := login(ctx, sessions); err != nil {
		fmt.Printf("❌ Login failed: %v\n", err)
		os.Exit(1)
	}

	settings := risk.Load(ctx)
	fmt.Printf("Risk settings: %d concurrent, %.1f%% per trade, max daily loss %.0f, target %.0f, leverage %dx\n",
		settings.ConcurrentTrades, settings.RiskPerTrade, settings.MaxDailyLoss, settings.ProfitTarget, settings.Leverage)

	if *concurrent > 0 || *riskPerTrade > 0 {
		patch := domain.RiskSettingsPatch{}
		if *concurrent > 0 {
			patch.ConcurrentTrades = concurrent
		}
		if *riskPerTrade > 0 {
			patch.RiskPerTrade = riskPerTrade
		}
		result, err := risk.Apply(ctx, patch, *advanced)
		if err != nil {
			fmt.Printf("❌ Risk settings rejected: %v\n", err)
			os.Exit(1)
		}
		if result.RemoteErr != nil {
			fmt.Printf("⚠️  Settings active locally but not confirmed server-side: %v\n", result.RemoteErr)
		} else {
			fmt.Println("✅ Risk settings saved.")
		}
	}

	account, err := pipeline.Account(ctx)
	if err != nil {
		fmt.Printf("❌ Failed to fetch account: %v\n", err)
		os.Exit(1)
	}
	printAccount(account)

	if *symbol == "" {
		return
	}

	req := domain.TradeRequest{
		Symbol: *symbol,
		Side:   domain.Side(strings.ToUpper(*side)),
		Amount: *amount,
	}
	if *takeProfit > 0 {
		req.TakeProfit = takeProfit
	}
	if *stopLoss > 0 {
		req.StopLoss = stopLoss
	}

	result, err := pipeline.Submit(ctx, req)
	if err != nil {
		var rejected *domain.BackendRejectedError
		if errors.As(err, &rejected) {
			fmt.Printf("❌ Trade rejected by backend: %s\n", rejected.Detail)
		} else {
			fmt.Printf("❌ Trade failed: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("✅ Trade placed (ref %s, deal %s)\n", result.Reference, result.DealID)
	if result.RefreshErr != nil {
		fmt.Printf("⚠️  Trade succeeded but account refresh failed: %v\n", result.RefreshErr)
	} else {
		printAccount(result.Account)
	}
}

func login(ctx context.Context, sessions *usecase.AuthSessionMachine) error {
	creds := domain.Credentials{
		Username:       os.Getenv("TRADER_USERNAME"),
		Password:       os.Getenv("TRADER_PASSWORD"),
		APIKey:         os.Getenv("TRADER_API_KEY"),
		APIKeyPassword: os.Getenv("TRADER_API_KEY_PASSWORD"),
		UseDemo:        os.Getenv("TRADER_USE_LIVE") == "",
	}
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("set TRADER_USERNAME and TRADER_PASSWORD")
	}

	result, err := sessions.BeginLogin(ctx, creds)
	if err != nil {
		return err
	}

	for result.State == domain.StateAwaitingSecondFactor {
		fmt.Print("Enter 2FA code: ")
		reader := bufio.NewReader(os.Stdin)
		otp, _ := reader.ReadString('\n')

		result, err = sessions.SubmitSecondFactor(ctx, strings.TrimSpace(otp))
		if err != nil {
			if errors.Is(err, domain.ErrSecondFactorFailed) {
				fmt.Printf("2FA rejected: %v\n", err)
				result = &usecase.LoginResult{State: domain.StateAwaitingSecondFactor}
				continue
			}
			return err
		}
	}

	if result.PersistWarning != nil {
		fmt.Println("⚠️  Session not persisted; you will need to log in again after restart.")
	}
	fmt.Println("✅ Logged in.")
	return nil
}

func printAccount(a *domain.AccountSnapshot) {
	fmt.Printf("Account %s (%s): balance %s%.2f, P/L %s%.2f, available %s%.2f\n",
		a.CurrentAccountID, a.AccountType,
		a.CurrencySymbol, a.Balance,
		a.CurrencySymbol, a.ProfitLoss,
		a.CurrencySymbol, a.Available)
}
