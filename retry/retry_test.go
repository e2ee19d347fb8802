package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var fast = Config{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     5 * time.Millisecond,
	Multiplier:   2.0,
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds on first attempt", func(t *testing.T) {
		calls := 0
		result, err := WithRetry(context.Background(), fast, Always,
			func(context.Context) (string, error) {
				calls++
				return "ready", nil
			}, nil)

		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if result != "ready" {
			t.Errorf("expected 'ready', got %s", result)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("retries until success and reports each retry", func(t *testing.T) {
		calls := 0
		var retried []int
		_, err := WithRetry(context.Background(), fast, Always,
			func(context.Context) (int, error) {
				calls++
				if calls < 3 {
					return 0, errors.New("connection refused")
				}
				return calls, nil
			},
			func(attempt int, err error, delay time.Duration) {
				retried = append(retried, attempt)
			})

		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
		if len(retried) != 2 || retried[0] != 1 || retried[1] != 2 {
			t.Errorf("unexpected retry callbacks: %v", retried)
		}
	})

	t.Run("stops after max attempts", func(t *testing.T) {
		calls := 0
		cause := errors.New("persistent error")
		err := Do(context.Background(), fast, Always, func(context.Context) error {
			calls++
			return cause
		}, nil)

		if !errors.Is(err, cause) {
			t.Errorf("expected wrapped cause, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("does not retry non-retryable errors", func(t *testing.T) {
		calls := 0
		fatal := errors.New("chain id mismatch")
		err := Do(context.Background(), fast,
			func(err error) bool { return !errors.Is(err, fatal) },
			func(context.Context) error {
				calls++
				return fatal
			}, nil)

		if !errors.Is(err, fatal) {
			t.Errorf("expected fatal error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("respects context cancellation before attempt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		err := Do(ctx, fast, Always, func(context.Context) error {
			calls++
			return nil
		}, nil)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if calls != 0 {
			t.Errorf("expected 0 calls, got %d", calls)
		}
	})

	t.Run("respects context cancellation during delay", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		slow := Config{MaxAttempts: 10, InitialDelay: time.Second, MaxDelay: time.Second, Multiplier: 2}
		calls := 0
		err := Do(ctx, slow, Always, func(context.Context) error {
			calls++
			return errors.New("unreachable")
		}, nil)

		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		calls := 0
		_ = Do(context.Background(), Config{}, Always, func(context.Context) error {
			calls++
			return errors.New("boom")
		}, nil)
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})
}

func TestNextDelay(t *testing.T) {
	cfg := Config{InitialDelay: 10 * time.Millisecond, MaxDelay: 15 * time.Millisecond, Multiplier: 2}
	if d := next(10*time.Millisecond, cfg); d != 15*time.Millisecond {
		t.Errorf("expected cap at 15ms, got %v", d)
	}
	if d := next(5*time.Millisecond, cfg); d != 10*time.Millisecond {
		t.Errorf("expected 10ms, got %v", d)
	}
	if d := next(5*time.Millisecond, Config{Multiplier: 0.5}); d != 5*time.Millisecond {
		t.Errorf("multiplier below 1 should not shrink delay, got %v", d)
	}
}
