package embedding

import (
	"context"
	"log/slog"
	"time"
)

// RetryConfig controls retry behavior for upstream embedding calls.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first failure.
	MaxRetries int

	// InitialDelay is the wait before the first retry; each further retry
	// doubles it.
	InitialDelay time.Duration
}

// DefaultRetryConfig returns the retry defaults: 3 retries starting at 1s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: time.Second,
	}
}

// retryWithBackoff runs fn until it succeeds, retries are exhausted, or the
// context is canceled. The delay before retry n is InitialDelay * 2^(n-1).
func retryWithBackoff(ctx context.Context, cfg RetryConfig, logger *slog.Logger, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= cfg.MaxRetries {
			return err
		}

		delay := cfg.InitialDelay << attempt
		logger.Warn("embedding call failed, retrying",
			"attempt", attempt+1,
			"maxRetries", cfg.MaxRetries,
			"delay", delay,
			"err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
