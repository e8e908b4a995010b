// Package fetcher retrieves articles from an ordered list of news providers,
// falling back to a fixed mock set when every provider fails.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/deusflow/vnnews/internal/logger"
	"github.com/deusflow/vnnews/internal/metrics"
	"github.com/deusflow/vnnews/internal/news"
	"github.com/deusflow/vnnews/internal/retry"
)

const defaultProviderTimeout = 15 * time.Second

// Result is the outcome of one fetch. Articles is never empty. When
// Degraded is set when the articles are mock data and Err explains why.
type Result struct {
	Articles []news.Article
	Provider string
	Degraded bool
	Err      error
}

type Options struct {
	// Timeout bounds each provider, retries included.
	Timeout time.Duration
	Retry   retry.RetryConfig
	// Latch is optional; nil re-attempts providers on every request.
	Latch  *Latch
	Logger *slog.Logger
}

type Fetcher struct {
	providers []Provider
	mock      MockProvider
	timeout   time.Duration
	retry     retry.RetryConfig
	latch     *Latch
	log       *slog.Logger
}

// New returns a Fetcher trying providers in the given order.
func New(providers []Provider, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultProviderTimeout
	}
	if opts.Retry.Retryable == nil {
		opts.Retry.Retryable = IsRetryable
	}
	return &Fetcher{
		providers: providers,
		timeout:   opts.Timeout,
		retry:     opts.Retry,
		latch:     opts.Latch,
		log:       logger.OrDefault(opts.Logger),
	}
}

// Providers returns the configured provider names in order.
func (f *Fetcher) Providers() []string {
	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.Name()
	}
	return names
}

// Fetch returns articles from the first provider that yields any.
func (f *Fetcher) Fetch(ctx context.Context, q news.SearchQuery) Result {
	if f.latch != nil && f.latch.Active() {
		f.log.Debug("degraded latch set, serving mock articles", "query", q.Text)
		return f.degraded(fmt.Errorf("degraded latch set: %w", ErrAllProvidersFailed))
	}

	var errs []error
	onlyFailures := len(f.providers) > 0
	for _, p := range f.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("request budget exhausted: %w", err))
			onlyFailures = false
			break
		}

		articles, err := f.fetchOne(ctx, p, q)
		if err == nil {
			metrics.Global.SetLastRun()
			return Result{Articles: articles, Provider: p.Name()}
		}

		f.log.Warn("news provider failed", "provider", p.Name(), "error", err)
		if errors.Is(err, ErrEmpty) {
			onlyFailures = false
		}
		errs = append(errs, err)
	}

	if onlyFailures && f.latch != nil && ctx.Err() == nil {
		f.log.Warn("all news providers failed, entering degraded mode")
		f.latch.Trip()
	}

	err := errors.Join(append([]error{ErrAllProvidersFailed}, errs...)...)
	f.log.Error("serving mock articles", "query", q.Text, "error", err)
	metrics.Global.SetError(err.Error())
	return f.degraded(err)
}

func (f *Fetcher) fetchOne(ctx context.Context, p Provider, q news.SearchQuery) ([]news.Article, error) {
	pctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	var articles []news.Article
	err := retry.WithRetry(pctx, f.retry, func() error {
		var err error
		articles, err = safeFetch(pctx, p, q)
		return err
	})
	if err == nil && len(articles) == 0 {
		err = emptyErr(p.Name())
	}
	if err != nil {
		var perr *ProviderError
		if !errors.As(err, &perr) {
			err = transientErr(p.Name(), 0, err)
		}
	}

	metrics.RecordProvider(metrics.KindNews, p.Name(), outcome(err), time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	f.log.Debug("news provider succeeded", "provider", p.Name(), "articles", len(articles))
	return articles, nil
}

// safeFetch turns a provider panic into a malformed error so the chain
// moves on to the next provider.
func safeFetch(ctx context.Context, p Provider, q news.SearchQuery) (articles []news.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			articles = nil
			err = malformedErr(p.Name(), 0, fmt.Errorf("panic: %v", r))
		}
	}()
	return p.Fetch(ctx, q)
}

func (f *Fetcher) degraded(err error) Result {
	metrics.RecordMockServed()
	articles, _ := f.mock.Fetch(context.Background(), news.SearchQuery{})
	return Result{
		Articles: articles,
		Provider: f.mock.Name(),
		Degraded: true,
		Err:      err,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmpty):
		return "empty"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "transient"
	}
}
