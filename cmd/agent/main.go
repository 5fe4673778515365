package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"travel-assistant/internal/agent"
	"travel-assistant/internal/config"
	"travel-assistant/internal/currency"
	"travel-assistant/internal/history"
	"travel-assistant/internal/llm"
	"travel-assistant/internal/querycache"
	"travel-assistant/internal/storage"
	"travel-assistant/internal/tools"
)

// HTTP front for the travel agent: POST /llm with {"query": "..."}.
func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

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

	// Old history is pruned once per start; the bot's scheduler owns the
	// recurring cleanup.
	if n, err := cache.Prune(cfg.HistoryRetentionAge); err != nil {
		log.Printf("history prune failed: %v", err)
	} else if n > 0 {
		log.Printf("pruned %d old history rows", n)
	}

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

	srv := &http.Server{
		Addr:         cfg.AgentListenAddr,
		Handler:      ag.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("🌐 Agent listening on %s", cfg.AgentListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
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
