package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/deusflow/vnnews/internal/news"
)

// Provider names accepted in NEWS_PROVIDERS.
const (
	ProviderNewsAPI   = "newsapi"
	ProviderGNews     = "gnews"
	ProviderGoogleRSS = "googlerss"
)

type Config struct {
	// HTTP settings
	Port      string
	BaseURL   string // absolute links in RSS output
	UserAgent string

	// News provider settings
	NewsAPIKey           string
	NewsAPIURL           string
	GNewsAPIKey          string
	GNewsURL             string
	GoogleNewsRSSEnabled bool
	GoogleNewsRSSURL     string
	Providers            []string // fetch order
	ProviderTimeout      time.Duration
	PageSize             int
	RegionBoost          bool
	RegionTerm           string
	DegradedLatch        bool
	DegradedCooldown     time.Duration // 0 = until restart

	// Translation settings
	TargetLang           string
	SourceLang           string
	GoogleTranslateURL   string
	MyMemoryURL          string
	MyMemoryEmail        string
	MyMemoryDailyLimit   int
	LibreTranslateURL    string // empty disables LibreTranslate
	LibreTranslateAPIKey string
	GeminiAPIKey         string // empty disables Gemini
	GeminiModel          string
	TranslateTimeout     time.Duration
	TranslateWorkers     int
	TranslateRate        time.Duration

	// App settings
	Debug         bool
	LogFormat     string
	RequestBudget time.Duration
	RetryAttempts int
	RetryDelay    time.Duration

	KeywordsFile string
	Keywords     *Keywords
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		UserAgent: getEnvOrDefault("USER_AGENT", "VtvNewsApp"),

		NewsAPIKey:           os.Getenv("NEWSAPI_KEY"),
		NewsAPIURL:           getEnvOrDefault("NEWSAPI_URL", "https://newsapi.org"),
		GNewsAPIKey:          os.Getenv("GNEWS_API_KEY"),
		GNewsURL:             getEnvOrDefault("GNEWS_URL", "https://gnews.io"),
		GoogleNewsRSSEnabled: getEnvBoolOrDefault("GOOGLE_NEWS_RSS_ENABLED", true),
		GoogleNewsRSSURL:     getEnvOrDefault("GOOGLE_NEWS_RSS_URL", "https://news.google.com"),
		Providers:            getEnvListOrDefault("NEWS_PROVIDERS", []string{ProviderNewsAPI, ProviderGNews, ProviderGoogleRSS}),
		ProviderTimeout:      getEnvDurationOrDefault("PROVIDER_TIMEOUT", 15*time.Second),
		PageSize:             getEnvIntOrDefault("PAGE_SIZE", news.DefaultPageSize),
		RegionBoost:          getEnvBoolOrDefault("REGION_BOOST", true),
		RegionTerm:           getEnvOrDefault("REGION_TERM", "Vietnam"),
		DegradedLatch:        getEnvBoolOrDefault("DEGRADED_LATCH", false),
		DegradedCooldown:     getEnvDurationOrDefault("DEGRADED_COOLDOWN", 0),

		TargetLang:           getEnvOrDefault("TARGET_LANG", "vi"),
		SourceLang:           getEnvOrDefault("SOURCE_LANG", "auto"),
		GoogleTranslateURL:   getEnvOrDefault("GOOGLE_TRANSLATE_URL", "https://translate.googleapis.com"),
		MyMemoryURL:          getEnvOrDefault("MYMEMORY_URL", "https://api.mymemory.translated.net"),
		MyMemoryEmail:        os.Getenv("MYMEMORY_EMAIL"),
		MyMemoryDailyLimit:   getEnvIntOrDefault("MYMEMORY_DAILY_LIMIT", 0),
		LibreTranslateURL:    os.Getenv("LIBRETRANSLATE_URL"),
		LibreTranslateAPIKey: os.Getenv("LIBRETRANSLATE_API_KEY"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		TranslateTimeout:     getEnvDurationOrDefault("TRANSLATE_TIMEOUT", 10*time.Second),
		TranslateWorkers:     getEnvIntOrDefault("TRANSLATE_WORKERS", 4),
		TranslateRate:        getEnvDurationOrDefault("TRANSLATE_RATE", 100*time.Millisecond),

		Debug:         os.Getenv("DEBUG") == "true",
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "text"),
		RequestBudget: getEnvDurationOrDefault("REQUEST_BUDGET", 45*time.Second),
		RetryAttempts: getEnvIntOrDefault("RETRY_ATTEMPTS", 1),
		RetryDelay:    getEnvDurationOrDefault("RETRY_DELAY", 500*time.Millisecond),

		KeywordsFile: os.Getenv("KEYWORDS_FILE"),
	}
	cfg.BaseURL = getEnvOrDefault("BASE_URL", "http://localhost:"+cfg.Port)

	kw, err := LoadKeywords(cfg.KeywordsFile)
	if err != nil {
		return nil, err
	}
	cfg.Keywords = kw

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("15s") or plain seconds ("15").
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	for _, p := range c.Providers {
		switch p {
		case ProviderNewsAPI, ProviderGNews, ProviderGoogleRSS:
		default:
			return fmt.Errorf("NEWS_PROVIDERS: unknown provider %q", p)
		}
	}
	if c.PageSize < 1 || c.PageSize > news.MaxPageSize {
		return fmt.Errorf("PAGE_SIZE must be between 1 and %d", news.MaxPageSize)
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	if c.TranslateTimeout <= 0 {
		return fmt.Errorf("TRANSLATE_TIMEOUT must be positive")
	}
	if c.RequestBudget <= 0 {
		return fmt.Errorf("REQUEST_BUDGET must be positive")
	}
	if c.TranslateWorkers < 1 {
		return fmt.Errorf("TRANSLATE_WORKERS must be at least 1")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1")
	}
	if c.DegradedCooldown < 0 {
		return fmt.Errorf("DEGRADED_COOLDOWN must not be negative")
	}
	if c.TargetLang == "" {
		return fmt.Errorf("TARGET_LANG is required")
	}
	if c.Keywords == nil || len(c.Keywords.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	return nil
}
