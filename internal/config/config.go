package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUsers     []int64 `env:"ALLOWED_USERS" envSeparator:":"`
	AdminUserID      int64   `env:"ADMIN_USER"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Travel tool API keys
	OpenWeatherMapAPIKey string `env:"OPENWEATHERMAP_API_KEY"`
	AmadeusAPIKey        string `env:"AMADEUS_API_KEY"`
	AmadeusAPISecret     string `env:"AMADEUS_API_SECRET"`
	GeoapifyAPIKey       string `env:"GEOAPIFY_API_KEY"`
	TimezoneDBAPIKey     string `env:"TIMEZONEDB_API_KEY"`

	// Exchange rates upstream
	ExchangeRateAPIKey  string        `env:"EXCHANGERATE_API_KEY"`
	ExchangeRateBaseURL string        `env:"EXCHANGERATE_BASE_URL" envDefault:"http://api.exchangeratesapi.io/v1"`
	RatesRefreshEvery   time.Duration `env:"RATES_REFRESH_EVERY" envDefault:"12h"`

	// Storage
	RatesDBPath   string `env:"RATES_DB_PATH" envDefault:"db/exchange_rates.db"`
	HistoryDBPath string `env:"HISTORY_DB_PATH" envDefault:"db/query_history.db"`

	// Query cache
	CacheTTL            time.Duration `env:"CACHE_TTL" envDefault:"24h"`
	CacheSimilarity     int           `env:"CACHE_SIMILARITY" envDefault:"90"`
	CacheFuzzyStore     bool          `env:"CACHE_FUZZY_STORE" envDefault:"false"`
	HistoryRetentionAge time.Duration `env:"HISTORY_RETENTION_AGE" envDefault:"720h"`

	// Auth
	AllowlistFilePath string `env:"ALLOWLIST_FILE_PATH" envDefault:"data/allowlist.json"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH" envDefault:"prompts/system_prompt.txt"`

	// HTTP agent
	AgentListenAddr string `env:"AGENT_LISTEN_ADDR" envDefault:"127.0.0.1:5000"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
