package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/mark3labs/sendeth-frame"
	"github.com/mark3labs/sendeth-frame/validation"
)

// DefaultGasLimit is the intrinsic gas of a plain value transfer.
const DefaultGasLimit = 21000

// Client is the subset of *ethclient.Client the bridge needs.
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	Close()
}

// Bridge implements sendeth.Bridge on top of a local private key and an
// Ethereum JSON-RPC endpoint.
type Bridge struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chain      sendeth.ChainConfig
	network    string
	rpcURL     string
	client     Client
	maxAmount  *big.Int
	gasLimit   uint64
	logger     *zap.Logger

	ready atomic.Bool
	// txMu serializes nonce lookup and broadcast.
	txMu sync.Mutex
}

var (
	_ sendeth.Bridge      = (*Bridge)(nil)
	_ sendeth.Initializer = (*Bridge)(nil)
)

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge) error

// NewBridge creates a new EVM bridge with the given options.
// The bridge is not ready until Init succeeds.
func NewBridge(opts ...BridgeOption) (*Bridge, error) {
	b := &Bridge{
		gasLimit: DefaultGasLimit,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	// Validation
	if b.privateKey == nil {
		return nil, sendeth.ErrInvalidKey
	}
	chain, err := sendeth.ValidateNetwork(b.network)
	if err != nil {
		return nil, err
	}
	b.chain = chain
	if b.client == nil && b.rpcURL == "" {
		return nil, fmt.Errorf("%w: rpc url is required", sendeth.ErrInvalidNetwork)
	}

	b.address = crypto.PubkeyToAddress(b.privateKey.PublicKey)

	return b, nil
}

// WithPrivateKey sets the private key from a hex string.
func WithPrivateKey(hexKey string) BridgeOption {
	return func(b *Bridge) error {
		hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")

		privateKey, err := crypto.HexToECDSA(hexKey)
		if err != nil {
			return sendeth.ErrInvalidKey
		}

		b.privateKey = privateKey
		return nil
	}
}

// WithNetwork sets the network identifier (see sendeth.Networks).
func WithNetwork(network string) BridgeOption {
	return func(b *Bridge) error {
		b.network = network
		return nil
	}
}

// WithRPCURL sets the JSON-RPC endpoint dialed by Init.
func WithRPCURL(url string) BridgeOption {
	return func(b *Bridge) error {
		b.rpcURL = url
		return nil
	}
}

// WithClient injects an already connected client. Init will not dial.
func WithClient(client Client) BridgeOption {
	return func(b *Bridge) error {
		b.client = client
		return nil
	}
}

// WithMaxAmount sets the per-transfer limit in wei.
func WithMaxAmount(wei string) BridgeOption {
	return func(b *Bridge) error {
		if wei == "" {
			return nil
		}
		maxAmount, ok := new(big.Int).SetString(wei, 10)
		if !ok || maxAmount.Sign() <= 0 {
			return sendeth.ErrInvalidAmount
		}
		b.maxAmount = maxAmount
		return nil
	}
}

// WithGasLimit overrides the gas limit for transfers to contract wallets.
func WithGasLimit(gas uint64) BridgeOption {
	return func(b *Bridge) error {
		if gas >= DefaultGasLimit {
			b.gasLimit = gas
		}
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) BridgeOption {
	return func(b *Bridge) error {
		if logger != nil {
			b.logger = logger
		}
		return nil
	}
}

// Init dials the RPC endpoint if needed and checks that it serves the
// configured chain. It is safe to call again after a failure.
func (b *Bridge) Init(ctx context.Context) error {
	if b.ready.Load() {
		return nil
	}

	if b.client == nil {
		client, err := ethclient.DialContext(ctx, b.rpcURL)
		if err != nil {
			return fmt.Errorf("dial %s: %w", b.rpcURL, err)
		}
		b.client = client
	}

	chainID, err := b.client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("read chain id: %w", err)
	}
	if chainID.Cmp(b.chain.BigChainID()) != 0 {
		return fmt.Errorf("%w: rpc reports %s, %s is %d", sendeth.ErrChainMismatch, chainID, b.chain.NetworkID, b.chain.ChainID)
	}

	b.ready.Store(true)
	b.logger.Info("wallet bridge ready",
		zap.String("network", b.chain.NetworkID),
		zap.String("address", b.address.Hex()))
	return nil
}

// Ready implements sendeth.Bridge.
func (b *Bridge) Ready() bool {
	return b.ready.Load()
}

// SignMessage implements sendeth.Bridge with an EIP-191 personal signature.
// The returned signature is 65 bytes with V in {27, 28}.
func (b *Bridge) SignMessage(ctx context.Context, message string) ([]byte, error) {
	if !b.Ready() {
		return nil, sendeth.ErrBridgeNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), b.privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sendeth.ErrSigningFailed, err)
	}
	sig[crypto.RecoveryIDOffset] += 27

	return sig, nil
}

// Transfer implements sendeth.Bridge. It builds an EIP-1559 transaction
// (legacy when the chain reports no base fee), signs it and broadcasts it.
func (b *Bridge) Transfer(ctx context.Context, req sendeth.TransferRequest) (*sendeth.TransferResult, error) {
	if !b.Ready() {
		return nil, sendeth.ErrBridgeNotReady
	}

	if err := validation.ValidateAddress(req.To); err != nil {
		return nil, err
	}
	value, err := validation.ValidateWeiAmount(req.Value)
	if err != nil {
		return nil, err
	}
	if b.maxAmount != nil && value.Cmp(b.maxAmount) > 0 {
		return nil, sendeth.ErrAmountExceeded
	}

	to := common.HexToAddress(req.To)

	b.txMu.Lock()
	defer b.txMu.Unlock()

	nonce, err := b.client.PendingNonceAt(ctx, b.address)
	if err != nil {
		return nil, fmt.Errorf("pending nonce: %w", err)
	}

	tx, err := b.buildTx(ctx, nonce, to, value)
	if err != nil {
		return nil, err
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(b.chain.BigChainID()), b.privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sendeth.ErrSigningFailed, err)
	}

	if err := b.client.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("%w: %v", sendeth.ErrSubmitFailed, err)
	}

	hash := signed.Hash().Hex()
	b.logger.Info("transfer broadcast",
		zap.String("hash", hash),
		zap.String("to", to.Hex()),
		zap.String("value", value.String()),
		zap.Uint64("nonce", nonce))

	return &sendeth.TransferResult{Hash: hash}, nil
}

func (b *Bridge) buildTx(ctx context.Context, nonce uint64, to common.Address, value *big.Int) (*types.Transaction, error) {
	head, err := b.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("latest header: %w", err)
	}

	if head.BaseFee == nil {
		gasPrice, err := b.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("suggest gas price: %w", err)
		}
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       &to,
			Value:    value,
			Gas:      b.gasLimit,
			GasPrice: gasPrice,
		}), nil
	}

	tip, err := b.client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest tip: %w", err)
	}
	// Fee cap tolerates a doubling of the base fee.
	feeCap := new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tip)

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   b.chain.BigChainID(),
		Nonce:     nonce,
		To:        &to,
		Value:     value,
		Gas:       b.gasLimit,
		GasTipCap: tip,
		GasFeeCap: feeCap,
	}), nil
}

// Address returns the wallet's Ethereum address.
func (b *Bridge) Address() common.Address {
	return b.address
}

// Chain returns the configured network.
func (b *Bridge) Chain() sendeth.ChainConfig {
	return b.chain
}

// Close releases the RPC connection.
func (b *Bridge) Close() {
	if b.client != nil {
		b.client.Close()
	}
}
