package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/deusflow/vnnews/internal/logger"
)

// ErrDailyLimit is returned once a provider has used up its daily budget.
var ErrDailyLimit = errors.New("daily request limit reached")

// ProviderLimiter paces outbound calls per provider and enforces optional
// daily budgets. Counters reset every 24 hours.
type ProviderLimiter struct {
	mu        sync.Mutex
	interval  time.Duration
	limiters  map[string]*rate.Limiter
	used      map[string]int
	limits    map[string]int
	resetTime time.Time
	now       func() time.Time
	log       *slog.Logger
}

// NewProviderLimiter allows one call per interval per provider.
// A zero interval disables pacing.
func NewProviderLimiter(interval time.Duration, log *slog.Logger) *ProviderLimiter {
	return &ProviderLimiter{
		interval:  interval,
		limiters:  make(map[string]*rate.Limiter),
		used:      make(map[string]int),
		limits:    make(map[string]int),
		resetTime: time.Now().Add(24 * time.Hour),
		now:       time.Now,
		log:       logger.OrDefault(log),
	}
}

// SetDailyLimit caps provider at max calls per day. 0 means unlimited.
func (rl *ProviderLimiter) SetDailyLimit(provider string, max int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.limits[provider] = max
}

// Wait blocks until provider may be called, then counts the call.
func (rl *ProviderLimiter) Wait(ctx context.Context, provider string) error {
	limiter, err := rl.reserve(provider)
	if err != nil {
		return err
	}
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit wait: %w", provider, err)
	}
	return nil
}

func (rl *ProviderLimiter) reserve(provider string) (*rate.Limiter, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if max := rl.limits[provider]; max > 0 && rl.used[provider] >= max {
		rl.log.Warn("provider daily limit reached", "provider", provider, "used", rl.used[provider], "limit", max)
		return nil, fmt.Errorf("%s: %w", provider, ErrDailyLimit)
	}
	rl.used[provider]++

	if rl.interval <= 0 {
		return nil, nil
	}
	limiter, ok := rl.limiters[provider]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(rl.interval), 1)
		rl.limiters[provider] = limiter
	}
	return limiter, nil
}

// GetStats returns per-provider usage and limits.
func (rl *ProviderLimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stats := map[string]interface{}{
		"reset_time": rl.resetTime,
	}
	for provider, n := range rl.used {
		stats[provider+"_used"] = n
	}
	for provider, n := range rl.limits {
		stats[provider+"_limit"] = n
	}
	return stats
}

// checkReset resets counters if reset time has passed
func (rl *ProviderLimiter) checkReset() {
	now := rl.now()
	if now.After(rl.resetTime) {
		rl.log.Info("resetting provider usage counters", "used", rl.used)
		rl.used = make(map[string]int)
		rl.resetTime = now.Add(24 * time.Hour)
	}
}
