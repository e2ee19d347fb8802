// Package retry provides exponential backoff for bridge setup calls such as
// dialing an RPC endpoint. User-initiated wallet actions are never retried.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry configuration.
type Config struct {
	MaxAttempts  int           // Maximum number of attempts (including initial attempt)
	InitialDelay time.Duration // Initial delay between retries
	MaxDelay     time.Duration // Maximum delay between retries
	Multiplier   float64       // Multiplier for exponential backoff
}

// DefaultConfig suits dialing a public RPC endpoint at startup.
var DefaultConfig = Config{
	MaxAttempts:  5,
	InitialDelay: 250 * time.Millisecond,
	MaxDelay:     10 * time.Second,
	Multiplier:   2.0,
}

// IsRetryable determines if an error should trigger a retry.
type IsRetryable func(error) bool

// OnRetry is called before sleeping between attempts.
type OnRetry func(attempt int, err error, delay time.Duration)

// Always retries every error.
func Always(error) bool { return true }

// WithRetry executes fn until it succeeds, returns a non-retryable error,
// runs out of attempts or ctx is done.
func WithRetry[T any](
	ctx context.Context,
	config Config,
	isRetryable IsRetryable,
	fn func(ctx context.Context) (T, error),
	onRetry OnRetry,
) (T, error) {
	var zero T
	var lastErr error

	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := config.InitialDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("context cancelled: %w", err)
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if isRetryable != nil && !isRetryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		if onRetry != nil {
			onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		}

		delay = next(delay, config)
	}

	return zero, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// Do is WithRetry for operations without a result.
func Do(ctx context.Context, config Config, isRetryable IsRetryable, fn func(ctx context.Context) error, onRetry OnRetry) error {
	_, err := WithRetry(ctx, config, isRetryable, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, onRetry)
	return err
}

func next(delay time.Duration, config Config) time.Duration {
	mult := config.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := time.Duration(float64(delay) * mult)
	if config.MaxDelay > 0 && d > config.MaxDelay {
		d = config.MaxDelay
	}
	return d
}
