package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/deusflow/vnnews/internal/logger"
	"github.com/deusflow/vnnews/internal/metrics"
	"github.com/deusflow/vnnews/internal/ratelimit"
)

const defaultCallTimeout = 10 * time.Second

type ChainOptions struct {
	// Timeout bounds each provider call.
	Timeout time.Duration
	// Limiter is optional; when set each call waits for its provider's turn.
	Limiter *ratelimit.ProviderLimiter
	Logger  *slog.Logger
}

// Chain tries translators in order and falls back to the dictionary.
type Chain struct {
	translators []Translator
	dictionary  *Dictionary
	timeout     time.Duration
	limiter     *ratelimit.ProviderLimiter
	log         *slog.Logger
}

func NewChain(translators []Translator, dictionary *Dictionary, opts ChainOptions) *Chain {
	if dictionary == nil {
		dictionary = NewDictionary(nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultCallTimeout
	}
	return &Chain{
		translators: translators,
		dictionary:  dictionary,
		timeout:     opts.Timeout,
		limiter:     opts.Limiter,
		log:         logger.OrDefault(opts.Logger),
	}
}

// Translate returns the first successful translation and the name of the
// provider that produced it. Blank text returns "" without any calls.
func (c *Chain) Translate(ctx context.Context, text string) (string, string) {
	if strings.TrimSpace(text) == "" {
		return "", ""
	}

	for _, t := range c.translators {
		if ctx.Err() != nil {
			break
		}
		result, err := c.call(ctx, t, text)
		if err == nil {
			metrics.RecordTranslation(t.Name())
			return result, t.Name()
		}
		c.log.Warn("translation provider failed", "provider", t.Name(), "error", err)
	}

	metrics.RecordTranslation(c.dictionary.Name())
	return c.dictionary.Translate(text), c.dictionary.Name()
}

func (c *Chain) call(ctx context.Context, t Translator, text string) (result string, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", t.Name(), r)
		}
		status := "ok"
		if err != nil {
			status = "failed"
			if errors.Is(err, ratelimit.ErrDailyLimit) {
				status = "rate_limited"
			}
		}
		metrics.RecordProvider(metrics.KindTranslate, t.Name(), status, time.Since(start).Seconds())
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, t.Name()); err != nil {
			return "", err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err = t.Translate(callCtx, text)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result) == "" {
		return "", ErrEmptyResult
	}
	return result, nil
}
