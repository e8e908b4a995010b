package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deusflow/vnnews/internal/config"
	"github.com/deusflow/vnnews/internal/fetcher"
	"github.com/deusflow/vnnews/internal/gemini"
	"github.com/deusflow/vnnews/internal/logger"
	"github.com/deusflow/vnnews/internal/news"
	"github.com/deusflow/vnnews/internal/ratelimit"
	"github.com/deusflow/vnnews/internal/retry"
	"github.com/deusflow/vnnews/internal/translate"
)

// Build assembles a Service from cfg. The returned close func releases
// provider clients and must be called on shutdown.
func Build(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Service, func(), error) {
	log = logger.OrDefault(log)
	kw := cfg.Keywords
	if kw == nil {
		kw = config.DefaultKeywords()
	}

	f := fetcher.New(buildProviders(cfg, log), fetcher.Options{
		Timeout: cfg.ProviderTimeout,
		Retry: retry.RetryConfig{
			MaxAttempts: cfg.RetryAttempts,
			Delay:       cfg.RetryDelay,
			Backoff:     true,
		},
		Latch:  buildLatch(cfg),
		Logger: log,
	})
	log.Info("news providers configured", "providers", f.Providers())

	translators, closeFn, err := buildTranslators(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	limiter := ratelimit.NewProviderLimiter(cfg.TranslateRate, log)
	limiter.SetDailyLimit("mymemory", cfg.MyMemoryDailyLimit)

	chain := translate.NewChain(translators, translate.NewDictionary(dictionaryEntries(kw)), translate.ChainOptions{
		Timeout: cfg.TranslateTimeout,
		Limiter: limiter,
		Logger:  log,
	})

	queries := news.NewQueryBuilder(cfg.RegionTerm, kw.Region, kw.Important, cfg.RegionBoost)

	svc := NewService(f, translate.NewPipeline(chain), queries, kw, Options{
		PageSize:      cfg.PageSize,
		Workers:       cfg.TranslateWorkers,
		RequestBudget: cfg.RequestBudget,
		RankKeywords:  kw.Region,
		Limiter:       limiter,
		Logger:        log,
	})
	return svc, closeFn, nil
}

// buildProviders follows cfg.Providers, skipping providers that lack credentials.
func buildProviders(cfg *config.Config, log *slog.Logger) []fetcher.Provider {
	var providers []fetcher.Provider
	for _, name := range cfg.Providers {
		switch name {
		case config.ProviderNewsAPI:
			if cfg.NewsAPIKey == "" {
				log.Warn("NEWSAPI_KEY not set, provider disabled", "provider", name)
				continue
			}
			providers = append(providers, fetcher.NewNewsAPIClient(fetcher.HTTPConfig{
				BaseURL:   cfg.NewsAPIURL,
				APIKey:    cfg.NewsAPIKey,
				UserAgent: cfg.UserAgent,
			}))
		case config.ProviderGNews:
			if cfg.GNewsAPIKey == "" {
				log.Warn("GNEWS_API_KEY not set, provider disabled", "provider", name)
				continue
			}
			providers = append(providers, fetcher.NewGNewsClient(fetcher.HTTPConfig{
				BaseURL:   cfg.GNewsURL,
				APIKey:    cfg.GNewsAPIKey,
				UserAgent: cfg.UserAgent,
			}))
		case config.ProviderGoogleRSS:
			if !cfg.GoogleNewsRSSEnabled {
				continue
			}
			providers = append(providers, fetcher.NewGoogleNewsRSSClient(fetcher.HTTPConfig{
				BaseURL:   cfg.GoogleNewsRSSURL,
				UserAgent: cfg.UserAgent,
			}))
		}
	}
	return providers
}

func buildLatch(cfg *config.Config) *fetcher.Latch {
	if !cfg.DegradedLatch {
		return nil
	}
	return fetcher.NewLatch(cfg.DegradedCooldown)
}

// buildTranslators returns the chain order: Google, MyMemory, then the
// optional LibreTranslate and Gemini providers.
func buildTranslators(ctx context.Context, cfg *config.Config, log *slog.Logger) ([]translate.Translator, func(), error) {
	httpCfg := func(baseURL string) translate.HTTPConfig {
		return translate.HTTPConfig{
			BaseURL:    baseURL,
			SourceLang: cfg.SourceLang,
			TargetLang: cfg.TargetLang,
			UserAgent:  cfg.UserAgent,
		}
	}

	translators := []translate.Translator{
		translate.NewGoogleTranslator(httpCfg(cfg.GoogleTranslateURL)),
		translate.NewMyMemoryTranslator(httpCfg(cfg.MyMemoryURL), cfg.MyMemoryEmail),
	}
	if cfg.LibreTranslateURL != "" {
		translators = append(translators, translate.NewLibreTranslator(httpCfg(cfg.LibreTranslateURL), cfg.LibreTranslateAPIKey))
	}

	closeFn := func() {}
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, gemini.LanguageName(cfg.TargetLang))
		if err != nil {
			return nil, nil, fmt.Errorf("gemini translator: %w", err)
		}
		translators = append(translators, client)
		closeFn = client.Close
	}

	names := make([]string, len(translators))
	for i, t := range translators {
		names[i] = t.Name()
	}
	log.Info("translators configured", "translators", names)
	return translators, closeFn, nil
}

func dictionaryEntries(kw *config.Keywords) []translate.Entry {
	entries := make([]translate.Entry, len(kw.Dictionary))
	for i, e := range kw.Dictionary {
		entries[i] = translate.Entry{Term: e.Term, Translation: e.Translation}
	}
	return entries
}
