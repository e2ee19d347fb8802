package widget

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mark3labs/sendeth-frame"
	"github.com/mark3labs/sendeth-frame/bridgetest"
	"github.com/mark3labs/sendeth-frame/retry"
)

var fastRetry = retry.Config{
	MaxAttempts:  4,
	InitialDelay: time.Millisecond,
	MaxDelay:     5 * time.Millisecond,
	Multiplier:   2,
}

func TestLatch(t *testing.T) {
	l := NewLatch()
	if l.IsSet() {
		t.Fatal("new latch must be unset")
	}
	select {
	case <-l.Done():
		t.Fatal("Done closed before Set")
	default:
	}

	l.Set()
	l.Set()

	if !l.IsSet() {
		t.Fatal("latch should be set")
	}
	select {
	case <-l.Done():
	default:
		t.Fatal("Done should be closed after Set")
	}
}

func TestAwaitBridge_RetriesInit(t *testing.T) {
	bridge := bridgetest.New(
		bridgetest.WithReady(false),
		bridgetest.WithInitFailures(2, errors.New("connection refused")),
	)
	latch := NewLatch()

	if err := AwaitBridge(context.Background(), bridge, latch, fastRetry, nil); err != nil {
		t.Fatalf("AwaitBridge: %v", err)
	}
	if !latch.IsSet() {
		t.Error("latch should be set")
	}
	if got := bridge.InitCalls(); got != 3 {
		t.Errorf("InitCalls = %d, want 3", got)
	}
}

func TestAwaitBridge_GivesUp(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int
	}{
		{name: "chain mismatch is final", err: fmt.Errorf("%w: rpc reports 1", sendeth.ErrChainMismatch), wantCalls: 1},
		{name: "transient exhausts attempts", err: errors.New("connection refused"), wantCalls: fastRetry.MaxAttempts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := bridgetest.New(bridgetest.WithReady(false), bridgetest.WithInitFailures(100, tt.err))
			latch := NewLatch()

			err := AwaitBridge(context.Background(), bridge, latch, fastRetry, nil)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if latch.IsSet() {
				t.Error("latch must stay unset")
			}
			if got := bridge.InitCalls(); got != tt.wantCalls {
				t.Errorf("InitCalls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

// readyOnly hides Init so AwaitBridge has to poll.
type readyOnly struct {
	sendeth.Bridge
}

func TestAwaitBridge_PollsWithoutInitializer(t *testing.T) {
	inner := bridgetest.New(bridgetest.WithReady(false))
	latch := NewLatch()

	go func() {
		time.Sleep(20 * time.Millisecond)
		inner.SetReady(true)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := AwaitBridge(ctx, readyOnly{inner}, latch, fastRetry, nil); err != nil {
		t.Fatalf("AwaitBridge: %v", err)
	}
	if !latch.IsSet() {
		t.Error("latch should be set")
	}
	if inner.InitCalls() != 0 {
		t.Error("Init must not be reachable through readyOnly")
	}
}

func TestAwaitBridge_ContextDone(t *testing.T) {
	latch := NewLatch()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := AwaitBridge(ctx, readyOnly{bridgetest.New(bridgetest.WithReady(false))}, latch, fastRetry, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if latch.IsSet() {
		t.Error("latch must stay unset")
	}
}
