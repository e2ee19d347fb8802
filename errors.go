package sendeth

import (
	"errors"
	"fmt"
)

// Standard sendeth error definitions

var (
	// ErrInvalidAmount indicates the amount is not a finite number greater than zero.
	ErrInvalidAmount = errors.New("sendeth: invalid amount")

	// ErrInvalidAddress indicates a malformed recipient address.
	ErrInvalidAddress = errors.New("sendeth: invalid address")

	// ErrBridgeNotReady indicates the wallet bridge has not finished initializing.
	ErrBridgeNotReady = errors.New("sendeth: wallet bridge not ready")

	// ErrNotConnected indicates a send was attempted before the wallet connected.
	ErrNotConnected = errors.New("sendeth: wallet not connected")

	// ErrSendInProgress indicates another send is still in flight.
	ErrSendInProgress = errors.New("sendeth: send already in progress")

	// ErrSigningFailed indicates the wallet could not sign.
	ErrSigningFailed = errors.New("sendeth: signing failed")

	// ErrSubmitFailed indicates the signed transaction could not be broadcast.
	ErrSubmitFailed = errors.New("sendeth: transaction submission failed")

	// ErrAmountExceeded indicates the transfer exceeds the bridge's per-call limit.
	ErrAmountExceeded = errors.New("sendeth: amount exceeds per-call limit")

	// ErrInvalidKey indicates an invalid private key.
	ErrInvalidKey = errors.New("sendeth: invalid private key")

	// ErrInvalidKeystore indicates an unreadable or undecryptable keystore file.
	ErrInvalidKeystore = errors.New("sendeth: invalid keystore file")

	// ErrInvalidMnemonic indicates an invalid BIP39 mnemonic phrase.
	ErrInvalidMnemonic = errors.New("sendeth: invalid mnemonic phrase")

	// ErrInvalidNetwork indicates an unknown or unsupported network.
	ErrInvalidNetwork = errors.New("sendeth: invalid or unsupported network")

	// ErrChainMismatch indicates the RPC endpoint serves a different chain than configured.
	ErrChainMismatch = errors.New("sendeth: rpc chain id does not match network")
)

// BridgeError wraps any failure returned by a Bridge call.
type BridgeError struct {
	// Op is the bridge operation that failed ("signMessage" or "transfer").
	Op string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *BridgeError) Error() string {
	return fmt.Sprintf("sendeth: bridge %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *BridgeError) Unwrap() error {
	return e.Err
}

// NewBridgeError creates a BridgeError for the given operation.
func NewBridgeError(op string, err error) *BridgeError {
	return &BridgeError{Op: op, Err: err}
}
