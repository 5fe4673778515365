package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"travel-assistant/internal/agent"
	"travel-assistant/internal/auth"
	"travel-assistant/internal/config"
	"travel-assistant/internal/currency"
	"travel-assistant/internal/history"
	"travel-assistant/internal/llm"
	"travel-assistant/internal/querycache"
	"travel-assistant/internal/scheduler"
	"travel-assistant/internal/storage"
	"travel-assistant/internal/telegram"
	"travel-assistant/internal/tools"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	var allowRepo auth.Repository
	if cfg.AllowlistFilePath != "" {
		repo, err := auth.NewFileRepository(cfg.AllowlistFilePath)
		if err != nil {
			log.Printf("failed to init allowlist repo: %v", err)
		} else {
			allowRepo = repo
		}
	}
	authSvc, err := auth.New(allowRepo, cfg.AllowedUsers)
	if err != nil {
		log.Fatalf("failed to init auth: %v", err)
	}

	llmClient, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	ratesDB, err := storage.Open(cfg.RatesDBPath)
	if err != nil {
		log.Fatalf("failed to open rates db: %v", err)
	}
	defer ratesDB.Close()
	rateStore := storage.NewRateStore(ratesDB)
	if err := rateStore.Init(); err != nil {
		log.Fatalf("failed to init rates schema: %v", err)
	}

	historyDB, err := storage.Open(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("failed to open history db: %v", err)
	}
	defer historyDB.Close()
	historyStore := storage.NewHistoryStore(historyDB)
	if err := historyStore.Init(); err != nil {
		log.Fatalf("failed to init history schema: %v", err)
	}

	cache := querycache.New(historyStore, querycache.Options{
		TTL:                 cfg.CacheTTL,
		SimilarityThreshold: cfg.CacheSimilarity,
		FuzzyStore:          cfg.CacheFuzzyStore,
	})

	fetcher := currency.NewFetcher(cfg.ExchangeRateBaseURL, cfg.ExchangeRateAPIKey)
	converter := currency.NewConverter(fetcher, rateStore, cache)

	geo := tools.NewGeocoder()
	registry := tools.BuildRegistry(
		tools.NewWeatherTool(cfg.OpenWeatherMapAPIKey, geo),
		tools.NewFlightsTool(cfg.AmadeusAPIKey, cfg.AmadeusAPISecret, ""),
		tools.NewAttractionsTool(cfg.GeoapifyAPIKey, geo),
		tools.NewTimeTool(cfg.TimezoneDBAPIKey, geo),
		tools.NewJokeTool(),
		tools.NewCurrencyTool(converter),
	)

	ag := agent.New(llmClient, registry, cache, history.NewManager(), readSystemPrompt(cfg.SystemPromptPath))

	sched := scheduler.New(cfg.RatesRefreshEvery)
	sched.SetRefreshFunc(func(ctx context.Context) error {
		_, err := converter.Refresh(ctx)
		return err
	})
	sched.SetCleanupFunc(func(ctx context.Context) error {
		n, err := cache.Prune(cfg.HistoryRetentionAge)
		if err == nil {
			log.Printf("pruned %d old history rows", n)
		}
		return err
	})
	bot, err := telegram.New(cfg.TelegramBotToken, authSvc, ag, historyStore, cfg.AdminUserID)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}
	sched.SetReportFunc(bot.SendDailyReport)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Make sure a fresh install has rates before the first question.
	if _, err := converter.Refresh(ctx); err != nil {
		log.Printf("initial rate refresh failed: %v", err)
	}

	log.Println("🤖 Travel assistant bot started")
	bot.Start(ctx)
}

func readSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("system prompt file not found or unreadable at %s: %v", path, err)
		return ""
	}
	return string(data)
}
