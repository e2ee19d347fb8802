// Package bridgetest provides an in-memory sendeth.Bridge for tests and
// demo mode.
package bridgetest

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mark3labs/sendeth-frame"
)

// Call is one recorded bridge invocation.
type Call struct {
	Method  string
	Message string
	Request sendeth.TransferRequest
}

// Bridge is a scriptable sendeth.Bridge. The zero value is not ready;
// use New.
type Bridge struct {
	mu sync.Mutex

	ready        bool
	initFailures int
	initErr      error
	initCalls    int

	signature      []byte
	signErr        error
	transferResult *sendeth.TransferResult
	transferErr    error
	randomHashes   bool
	latency        time.Duration

	gate    chan struct{}
	entered chan Call
	calls   []Call
}

var (
	_ sendeth.Bridge      = (*Bridge)(nil)
	_ sendeth.Initializer = (*Bridge)(nil)
)

// Option configures a Bridge.
type Option func(*Bridge)

// New returns a ready bridge that signs with a fixed signature and
// returns a fixed transaction hash unless configured otherwise.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		ready:     true,
		signature: make([]byte, 65),
		transferResult: &sendeth.TransferResult{
			Hash: "0xabc1234567890000000000000000000000000000000000000000000000000def",
		},
		entered: make(chan Call, 64),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewSimulated returns a bridge for demo mode: it becomes ready on Init,
// answers every call after a short delay and mints random hashes.
func NewSimulated() *Bridge {
	return New(
		WithReady(false),
		WithLatency(750*time.Millisecond),
		WithRandomHashes(),
	)
}

// WithReady sets the initial readiness.
func WithReady(ready bool) Option {
	return func(b *Bridge) { b.ready = ready }
}

// WithInitFailures makes the first n Init calls fail with err.
func WithInitFailures(n int, err error) Option {
	return func(b *Bridge) {
		b.initFailures = n
		b.initErr = err
	}
}

// WithSignError makes SignMessage fail.
func WithSignError(err error) Option {
	return func(b *Bridge) { b.signErr = err }
}

// WithTransferResult sets the result returned by Transfer.
func WithTransferResult(result *sendeth.TransferResult) Option {
	return func(b *Bridge) { b.transferResult = result }
}

// WithTransferError makes Transfer fail.
func WithTransferError(err error) Option {
	return func(b *Bridge) { b.transferErr = err }
}

// WithRandomHashes makes Transfer return a fresh 32-byte hash per call.
func WithRandomHashes() Option {
	return func(b *Bridge) { b.randomHashes = true }
}

// WithLatency delays every bridge call.
func WithLatency(d time.Duration) Option {
	return func(b *Bridge) { b.latency = d }
}

// WithGate blocks every SignMessage and Transfer until gate is closed or
// receives a value.
func WithGate(gate chan struct{}) Option {
	return func(b *Bridge) { b.gate = gate }
}

// Init implements sendeth.Initializer.
func (b *Bridge) Init(ctx context.Context) error {
	if err := b.wait(ctx); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.initCalls++
	if b.initCalls <= b.initFailures {
		return b.initErr
	}
	b.ready = true
	return nil
}

// Ready implements sendeth.Bridge.
func (b *Bridge) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// SetReady flips readiness.
func (b *Bridge) SetReady(ready bool) {
	b.mu.Lock()
	b.ready = ready
	b.mu.Unlock()
}

// SignMessage implements sendeth.Bridge.
func (b *Bridge) SignMessage(ctx context.Context, message string) ([]byte, error) {
	b.record(Call{Method: "SignMessage", Message: message})
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.signErr != nil {
		return nil, b.signErr
	}
	sig := make([]byte, len(b.signature))
	copy(sig, b.signature)
	return sig, nil
}

// Transfer implements sendeth.Bridge.
func (b *Bridge) Transfer(ctx context.Context, req sendeth.TransferRequest) (*sendeth.TransferResult, error) {
	b.record(Call{Method: "Transfer", Request: req})
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.transferErr != nil {
		return nil, b.transferErr
	}
	if b.randomHashes {
		return &sendeth.TransferResult{Hash: randomHash()}, nil
	}
	if b.transferResult == nil {
		return nil, nil
	}
	result := *b.transferResult
	return &result, nil
}

// Calls returns every recorded call in order.
func (b *Bridge) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Transfers returns the recorded transfer requests.
func (b *Bridge) Transfers() []sendeth.TransferRequest {
	var reqs []sendeth.TransferRequest
	for _, c := range b.Calls() {
		if c.Method == "Transfer" {
			reqs = append(reqs, c.Request)
		}
	}
	return reqs
}

// SignedMessages returns the recorded SignMessage payloads.
func (b *Bridge) SignedMessages() []string {
	var msgs []string
	for _, c := range b.Calls() {
		if c.Method == "SignMessage" {
			msgs = append(msgs, c.Message)
		}
	}
	return msgs
}

// InitCalls reports how many times Init ran.
func (b *Bridge) InitCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initCalls
}

// Entered receives each call as it reaches the bridge, before any gate.
func (b *Bridge) Entered() <-chan Call {
	return b.entered
}

func (b *Bridge) record(c Call) {
	b.mu.Lock()
	b.calls = append(b.calls, c)
	b.mu.Unlock()

	select {
	case b.entered <- c:
	default:
	}
}

func (b *Bridge) wait(ctx context.Context) error {
	if b.latency > 0 {
		t := time.NewTimer(b.latency)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if b.gate != nil {
		select {
		case <-b.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func randomHash() string {
	a, c := uuid.New(), uuid.New()
	return "0x" + hex.EncodeToString(a[:]) + hex.EncodeToString(c[:])
}
