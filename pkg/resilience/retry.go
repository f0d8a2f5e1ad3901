// Package resilience provides retry with exponential backoff and jitter.
// The service uses it for the one-shot corpus load at startup, where a
// transient database or filesystem hiccup should not kill the process.
package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig controls backoff behavior. Zero fields take defaults.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       float64
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 500 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 10 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	if c.Jitter <= 0 {
		c.Jitter = 0.1
	}
	return c
}

// Retry runs fn up to cfg.MaxAttempts times with exponential backoff,
// stopping early when ctx is cancelled. The last error is returned when
// every attempt fails.
func Retry(ctx context.Context, name string, cfg RetryConfig, fn func() error) error {
	cfg = cfg.withDefaults()
	log := slog.Default().With("component", "retry", "operation", name)

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
		delay = min(delay, float64(cfg.MaxDelay))
		delay *= 1 + cfg.Jitter*(2*rand.Float64()-1)

		log.Warn("attempt failed, backing off",
			"attempt", attempt,
			"delay", time.Duration(delay).Round(time.Millisecond),
			"error", lastErr,
		)
		select {
		case <-time.After(time.Duration(delay)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, cfg.MaxAttempts, lastErr)
}
