package sendeth

import "context"

// Bridge represents the wallet capability supplied by the hosting frame.
// Implementations own key material and network access; the widget only
// asks them to sign a confirmation message and to submit a transfer.
type Bridge interface {
	// Ready reports whether the bridge has finished initializing.
	Ready() bool

	// SignMessage asks the wallet to sign a human-readable message.
	// The widget uses a successful signature as proof the wallet is connected.
	SignMessage(ctx context.Context, message string) ([]byte, error)

	// Transfer submits a native value transfer and returns the submission result.
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}

// Initializer is implemented by bridges that need a blocking setup step
// (dialing an RPC endpoint, unlocking a keystore) before they become ready.
type Initializer interface {
	Init(ctx context.Context) error
}
