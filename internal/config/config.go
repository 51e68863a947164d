package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr    = ":8080"
	defaultMetricsAddr = "off"

	defaultLookupCacheSize = 256
	defaultLookupCacheTTL  = 15 * time.Minute

	defaultRefreshInterval = 10 * time.Minute
	defaultRefreshWindow   = 30 * time.Minute

	defaultHistoryLimit = 20
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	MetricsAddr string

	TelegramBotToken      string
	TelegramWebhookSecret string

	// AllowedChatIDs restricts the bot to listed Telegram user ids.
	// Empty means public access.
	AllowedChatIDs []int64

	DadataToken   string
	DadataSecret  string
	DadataBaseURL string

	BitrixDomain       string
	BitrixClientID     string
	BitrixClientSecret string
	BitrixRedirectURL  string

	LookupCacheSize int
	LookupCacheTTL  time.Duration

	RefreshInterval time.Duration
	RefreshWindow   time.Duration

	HistoryLimit int
}

type LoadOptions struct {
	RequireDatabaseURL bool
	RequireTelegram    bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: true, RequireTelegram: true})
}

func LoadOptionalDB() (Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPAddr:    getenvDefault("HTTP_ADDR", defaultHTTPAddr),
		MetricsAddr: getenvDefault("METRICS_ADDR", defaultMetricsAddr),

		TelegramBotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookSecret: os.Getenv("TELEGRAM_WEBHOOK_SECRET"),
		AllowedChatIDs:        parseIDList(os.Getenv("ALLOWED_CHAT_IDS")),

		DadataToken:   os.Getenv("DADATA_TOKEN"),
		DadataSecret:  os.Getenv("DADATA_SECRET"),
		DadataBaseURL: os.Getenv("DADATA_BASE_URL"),

		BitrixDomain:       os.Getenv("BITRIX_DOMAIN"),
		BitrixClientID:     os.Getenv("BITRIX_CLIENT_ID"),
		BitrixClientSecret: os.Getenv("BITRIX_CLIENT_SECRET"),
		BitrixRedirectURL:  os.Getenv("BITRIX_REDIRECT_URL"),

		LookupCacheSize: getenvIntDefault("LOOKUP_CACHE_SIZE", defaultLookupCacheSize),
		LookupCacheTTL:  getenvDurationDefault("LOOKUP_CACHE_TTL", defaultLookupCacheTTL),

		RefreshInterval: getenvDurationDefault("TOKEN_REFRESH_INTERVAL", defaultRefreshInterval),
		RefreshWindow:   getenvDurationDefault("TOKEN_REFRESH_WINDOW", defaultRefreshWindow),

		HistoryLimit: getenvIntDefault("CHAT_HISTORY_LIMIT", defaultHistoryLimit),
	}

	if opts.RequireDatabaseURL && cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if opts.RequireTelegram && cfg.TelegramBotToken == "" {
		return cfg, errors.New("TELEGRAM_BOT_TOKEN is required")
	}

	return cfg, nil
}

// BitrixConfigured reports whether the workspace integration has enough
// settings to run the OAuth flow.
func (c Config) BitrixConfigured() bool {
	return c.BitrixDomain != "" && c.BitrixClientID != "" && c.BitrixClientSecret != ""
}

// parseIDList splits a comma-separated id list; blanks and garbage entries
// are skipped.
func parseIDList(v string) []int64 {
	var ids []int64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func getenvDurationDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
