package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"protrader/observability"
)

// RetryConfig controls the bounded retry loop used against unreliable
// upstreams. Before every attempt the loop sleeps for a duration drawn by
// Delay, a politeness pause against upstream throttling. Tests inject a
// zero Delay to run deterministically.
type RetryConfig struct {
	MaxAttempts int
	Delay       func() time.Duration
}

// UniformJitter returns a delay source drawing uniformly from [min, max].
func UniformJitter(min, max time.Duration) func() time.Duration {
	if max <= min {
		return func() time.Duration { return min }
	}
	spread := max - min
	return func() time.Duration {
		return min + time.Duration(rand.Int63n(int64(spread)+1))
	}
}

// NoDelay is a Delay source for tests.
func NoDelay() time.Duration { return 0 }

// DefaultRetryConfig matches the upstream politeness window observed to keep
// the chart API from throttling: 3 attempts, 100ms-3s jitter.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	Delay:       UniformJitter(100*time.Millisecond, 3*time.Second),
}

// WithRetry runs fn up to cfg.MaxAttempts times, sleeping a jittered delay
// before each attempt. There is no exponential backoff: the delay range is
// flat. Returns nil on the first success, or the last error wrapped after
// the final attempt. Context cancellation aborts the sleep.
func WithRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if cfg.Delay != nil {
			if d := cfg.Delay(); d > 0 {
				select {
				case <-ctx.Done():
					return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
				case <-time.After(d):
				}
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if attempt < cfg.MaxAttempts {
			observability.Debug("retry attempt failed",
				"attempt", attempt,
				"max_attempts", cfg.MaxAttempts,
				"error", err)
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
