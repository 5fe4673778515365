package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"travel-assistant/internal/config"
	"travel-assistant/internal/currency"
	"travel-assistant/internal/scheduler"
	"travel-assistant/internal/storage"
)

// Standalone rate-refresh daemon: fetches the latest currency quotes on
// start and then on the configured interval. Useful when the bot runs
// elsewhere and only shares the rates database.
func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	ratesDB, err := storage.Open(cfg.RatesDBPath)
	if err != nil {
		log.Fatalf("failed to open rates db: %v", err)
	}
	defer ratesDB.Close()
	rateStore := storage.NewRateStore(ratesDB)
	if err := rateStore.Init(); err != nil {
		log.Fatalf("failed to init rates schema: %v", err)
	}

	fetcher := currency.NewFetcher(cfg.ExchangeRateBaseURL, cfg.ExchangeRateAPIKey)
	converter := currency.NewConverter(fetcher, rateStore, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := converter.Refresh(ctx); err != nil {
		log.Printf("initial rate refresh failed: %v", err)
	}

	sched := scheduler.New(cfg.RatesRefreshEvery)
	sched.SetRefreshFunc(func(ctx context.Context) error {
		_, err := converter.Refresh(ctx)
		return err
	})
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	log.Printf("💱 Rates daemon started (every %s)", cfg.RatesRefreshEvery)
	<-ctx.Done()
}
