// Package retry wraps operations in exponential-backoff retries.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config tunes the backoff schedule.
type Config struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	// InitialDelay is the first wait between attempts.
	InitialDelay time.Duration
	// MaxDelay caps the growing wait.
	MaxDelay time.Duration
	// Factor multiplies the delay after each failure.
	Factor float64
}

// DefaultConfig mirrors the notification delivery defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Factor:       2,
	}
}

// Do runs op, retrying with exponential backoff until it succeeds, the
// retries are exhausted, or ctx is canceled. The last error is
// returned after exhaustion.
func Do(ctx context.Context, cfg Config, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	if cfg.InitialDelay > 0 {
		bo.InitialInterval = cfg.InitialDelay
	}
	if cfg.MaxDelay > 0 {
		bo.MaxInterval = cfg.MaxDelay
	}
	if cfg.Factor > 0 {
		bo.Multiplier = cfg.Factor
	}
	bo.MaxElapsedTime = 0

	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries)), ctx))
}
