package retry

import (
	"context"
	"fmt"
	"time"
)

type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool // Exponential backoff

	// Retryable decides whether a failed attempt is worth repeating.
	// nil retries every error.
	Retryable func(error) bool
}

// WithRetry runs fn until it succeeds, returns a non-retryable error, or
// MaxAttempts is reached. MaxAttempts below 1 is treated as 1.
func WithRetry(ctx context.Context, config RetryConfig, fn func() error) error {
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if config.Retryable != nil && !config.Retryable(err) {
			return err
		}
		if attempt == attempts {
			if attempts == 1 {
				return err
			}
			return fmt.Errorf("failed after %d attempts: %w", attempts, err)
		}

		delay := config.Delay
		if config.Backoff {
			delay = time.Duration(1<<(attempt-1)) * config.Delay
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return lastErr
}
