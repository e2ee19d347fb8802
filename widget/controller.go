// Package widget implements the send-ETH card: interaction state, the
// connect and send flows against a sendeth.Bridge, and rendering.
package widget

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"go.uber.org/zap"

	"github.com/mark3labs/sendeth-frame"
	"github.com/mark3labs/sendeth-frame/monitor"
	"github.com/mark3labs/sendeth-frame/units"
	"github.com/mark3labs/sendeth-frame/validation"
)

const (
	DefaultAmount         = "0.01"
	DefaultConfirmMessage = "Connect to Send ETH to furlong.eth"
)

// Status messages shown to the viewer.
const (
	StatusConnecting    = "Connecting wallet..."
	StatusConnected     = "Wallet connected!"
	StatusConnectFailed = "Failed to connect wallet. Please try again."
	StatusConnectFirst  = "Please connect your wallet first"
	StatusPreparing     = "Preparing transaction..."
	StatusInvalidAmount = "Please enter a valid amount"
	StatusSending       = "Sending transaction..."
	StatusSendFailed    = "Transaction failed. Please try again."
	StatusSentPrefix    = "Transaction sent! Hash: "
)

// Converter turns a decimal ETH string into wei.
type Converter func(ether string) (*big.Int, error)

// State is a snapshot of the interaction state.
type State struct {
	Ready     bool    `json:"sdkReady"`
	Amount    string  `json:"amount"`
	Status    string  `json:"status"`
	Connected bool    `json:"connected"`
	Sending   bool    `json:"sending"`
	TxHash    *string `json:"txHash"`
}

// Controller owns the state of one widget instance. It is safe for
// concurrent use; the lock is never held while the bridge is called.
type Controller struct {
	bridge         sendeth.Bridge
	latch          *Latch
	recipient      string
	confirmMessage string
	convert        Converter
	logger         *zap.Logger
	metrics        *monitor.Metrics
	onChange       func(State)

	mu        sync.Mutex
	amount    string
	status    string
	connected bool
	sending   bool
	txHash    *string
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecipient sets the fixed payment recipient. Required.
func WithRecipient(address string) Option {
	return func(c *Controller) { c.recipient = address }
}

// WithConfirmMessage sets the message signed on connect.
func WithConfirmMessage(message string) Option {
	return func(c *Controller) {
		if message != "" {
			c.confirmMessage = message
		}
	}
}

// WithDefaultAmount sets the initial amount.
func WithDefaultAmount(amount string) Option {
	return func(c *Controller) { c.amount = amount }
}

// WithConverter replaces units.EtherToWei.
func WithConverter(convert Converter) Option {
	return func(c *Controller) {
		if convert != nil {
			c.convert = convert
		}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records connect and send outcomes. nil disables metrics.
func WithMetrics(metrics *monitor.Metrics) Option {
	return func(c *Controller) { c.metrics = metrics }
}

// WithOnChange registers a callback run after every state mutation.
// It is called without the controller lock held.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a controller bound to bridge. The bridge is used only once
// latch is set.
func New(bridge sendeth.Bridge, latch *Latch, opts ...Option) (*Controller, error) {
	if bridge == nil {
		return nil, errors.New("widget: bridge is required")
	}
	if latch == nil {
		return nil, errors.New("widget: latch is required")
	}

	c := &Controller{
		bridge:         bridge,
		latch:          latch,
		confirmMessage: DefaultConfirmMessage,
		convert:        units.EtherToWei,
		logger:         zap.NewNop(),
		amount:         DefaultAmount,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := validation.ValidateRecipient(c.recipient); err != nil {
		return nil, err
	}

	return c, nil
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Recipient returns the fixed payment recipient.
func (c *Controller) Recipient() string {
	return c.recipient
}

// Connect asks the wallet to sign the confirmation message. It does
// nothing until the bridge is ready.
func (c *Controller) Connect(ctx context.Context) error {
	if !c.latch.IsSet() {
		return sendeth.ErrBridgeNotReady
	}

	c.update(func() { c.status = StatusConnecting })

	if _, err := c.bridge.SignMessage(ctx, c.confirmMessage); err != nil {
		c.logger.Error("wallet connect failed", zap.Error(err))
		c.metrics.ObserveConnect(monitor.ResultFailure)
		c.update(func() { c.status = StatusConnectFailed })
		return sendeth.NewBridgeError("signMessage", err)
	}

	c.metrics.ObserveConnect(monitor.ResultSuccess)
	c.update(func() {
		c.connected = true
		c.status = StatusConnected
	})
	return nil
}

// Send transfers the current amount to the recipient. Only one send runs
// at a time; a second call while one is in flight returns
// sendeth.ErrSendInProgress and changes nothing.
func (c *Controller) Send(ctx context.Context) error {
	c.mu.Lock()
	if !c.latch.IsSet() || !c.connected {
		c.status = StatusConnectFirst
		state := c.snapshot()
		c.mu.Unlock()

		c.metrics.ObserveSend(monitor.ResultNotConnected)
		c.notify(state)
		return sendeth.ErrNotConnected
	}
	if c.sending {
		c.mu.Unlock()
		return sendeth.ErrSendInProgress
	}
	c.sending = true
	c.status = StatusPreparing
	amount := c.amount
	state := c.snapshot()
	c.mu.Unlock()
	c.notify(state)

	defer c.update(func() { c.sending = false })

	if err := validation.ValidateAmount(amount); err != nil {
		c.metrics.ObserveSend(monitor.ResultInvalid)
		c.update(func() { c.status = StatusInvalidAmount })
		return err
	}

	wei, err := c.convert(amount)
	if err != nil {
		c.logger.Error("amount conversion failed", zap.String("amount", amount), zap.Error(err))
		c.metrics.ObserveSend(monitor.ResultFailure)
		c.update(func() { c.status = StatusSendFailed })
		return err
	}

	c.update(func() { c.status = StatusSending })

	c.metrics.SendStarted()
	defer c.metrics.SendFinished()
	result, err := c.bridge.Transfer(ctx, sendeth.TransferRequest{
		To:    c.recipient,
		Value: wei.String(),
	})
	if err != nil {
		c.logger.Error("transaction failed",
			zap.String("amount", amount),
			zap.String("to", c.recipient),
			zap.Error(err))
		c.metrics.ObserveSend(monitor.ResultFailure)
		c.update(func() { c.status = StatusSendFailed })
		return sendeth.NewBridgeError("transfer", err)
	}

	id := result.TransactionID()
	c.logger.Info("transaction sent", zap.String("tx", id), zap.String("amount", amount))
	c.metrics.ObserveSend(monitor.ResultSuccess)
	c.update(func() {
		c.txHash = &id
		c.status = StatusSentPrefix + truncate(id, 10) + "..."
	})
	return nil
}

// HandleAmountChange stores raw as the amount. Validation happens on send.
func (c *Controller) HandleAmountChange(raw string) {
	c.update(func() { c.amount = raw })
}

func (c *Controller) update(mutate func()) {
	c.mu.Lock()
	mutate()
	state := c.snapshot()
	c.mu.Unlock()

	c.notify(state)
}

func (c *Controller) notify(state State) {
	if c.onChange != nil {
		c.onChange(state)
	}
}

// snapshot must be called with c.mu held.
func (c *Controller) snapshot() State {
	s := State{
		Ready:     c.latch.IsSet(),
		Amount:    c.amount,
		Status:    c.status,
		Connected: c.connected,
		Sending:   c.sending,
	}
	if c.txHash != nil {
		h := *c.txHash
		s.TxHash = &h
	}
	return s
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
