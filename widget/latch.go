package widget

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mark3labs/sendeth-frame"
	"github.com/mark3labs/sendeth-frame/retry"
)

// Latch is a one-way readiness flag. Once set it stays set.
type Latch struct {
	once sync.Once
	done chan struct{}
}

// NewLatch returns an unset latch.
func NewLatch() *Latch {
	return &Latch{done: make(chan struct{})}
}

// Set marks the latch ready. Extra calls are no-ops.
func (l *Latch) Set() {
	l.once.Do(func() { close(l.done) })
}

// IsSet reports whether Set has been called.
func (l *Latch) IsSet() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Done is closed when the latch is set.
func (l *Latch) Done() <-chan struct{} {
	return l.done
}

// AwaitBridge brings the bridge up and sets the latch once it reports
// ready. Bridges implementing sendeth.Initializer are initialized through
// retry with cfg; a chain mismatch is not retried. Bridges without Init
// are polled until ready or ctx is done.
func AwaitBridge(ctx context.Context, bridge sendeth.Bridge, latch *Latch, cfg retry.Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if init, ok := bridge.(sendeth.Initializer); ok {
		err := retry.Do(ctx, cfg, retryableInit, init.Init, func(attempt int, err error, delay time.Duration) {
			logger.Warn("wallet bridge init failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err))
		})
		if err != nil {
			return err
		}
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for !bridge.Ready() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	latch.Set()
	logger.Info("wallet bridge ready")
	return nil
}

const pollInterval = 100 * time.Millisecond

func retryableInit(err error) bool {
	return !errors.Is(err, sendeth.ErrChainMismatch) && !errors.Is(err, sendeth.ErrInvalidNetwork)
}
