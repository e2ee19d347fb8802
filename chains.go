// Package sendeth defines the wallet bridge contract consumed by the send-ETH
// frame widget, along with the transfer types, sentinel errors and the table of
// EVM networks the bundled bridge can talk to.
package sendeth

import (
	"fmt"
	"math/big"
	"strings"
)

// ChainConfig describes an EVM network that carries native ETH.
type ChainConfig struct {
	// NetworkID is the short network identifier used in configuration (e.g., "base").
	NetworkID string

	// ChainID is the EIP-155 chain identifier.
	ChainID int64

	// Name is a human-readable network name.
	Name string

	// ExplorerURL is the block explorer base URL, without trailing slash.
	ExplorerURL string

	// Testnet marks networks whose ETH has no value.
	Testnet bool
}

// Mainnet chain configurations
var (
	// EthereumMainnet is Ethereum L1.
	EthereumMainnet = ChainConfig{
		NetworkID:   "ethereum",
		ChainID:     1,
		Name:        "Ethereum",
		ExplorerURL: "https://etherscan.io",
	}

	// BaseMainnet is the Base L2, where most frames settle.
	BaseMainnet = ChainConfig{
		NetworkID:   "base",
		ChainID:     8453,
		Name:        "Base",
		ExplorerURL: "https://basescan.org",
	}

	// OptimismMainnet is OP Mainnet.
	OptimismMainnet = ChainConfig{
		NetworkID:   "optimism",
		ChainID:     10,
		Name:        "OP Mainnet",
		ExplorerURL: "https://optimistic.etherscan.io",
	}

	// ArbitrumMainnet is Arbitrum One.
	ArbitrumMainnet = ChainConfig{
		NetworkID:   "arbitrum",
		ChainID:     42161,
		Name:        "Arbitrum One",
		ExplorerURL: "https://arbiscan.io",
	}
)

// Testnet chain configurations
var (
	// Sepolia is the Ethereum Sepolia testnet.
	Sepolia = ChainConfig{
		NetworkID:   "sepolia",
		ChainID:     11155111,
		Name:        "Sepolia",
		ExplorerURL: "https://sepolia.etherscan.io",
		Testnet:     true,
	}

	// BaseSepolia is the Base Sepolia testnet.
	BaseSepolia = ChainConfig{
		NetworkID:   "base-sepolia",
		ChainID:     84532,
		Name:        "Base Sepolia",
		ExplorerURL: "https://sepolia.basescan.org",
		Testnet:     true,
	}
)

var chains = []ChainConfig{
	EthereumMainnet,
	BaseMainnet,
	OptimismMainnet,
	ArbitrumMainnet,
	Sepolia,
	BaseSepolia,
}

// ValidateNetwork looks up a network identifier (case-insensitive).
// Returns ErrInvalidNetwork for empty or unknown identifiers.
func ValidateNetwork(networkID string) (ChainConfig, error) {
	id := strings.ToLower(strings.TrimSpace(networkID))
	if id == "" {
		return ChainConfig{}, fmt.Errorf("%w: network cannot be empty", ErrInvalidNetwork)
	}
	for _, c := range chains {
		if c.NetworkID == id {
			return c, nil
		}
	}
	return ChainConfig{}, fmt.Errorf("%w: %s", ErrInvalidNetwork, networkID)
}

// Networks returns the identifiers of all known networks.
func Networks() []string {
	ids := make([]string, len(chains))
	for i, c := range chains {
		ids[i] = c.NetworkID
	}
	return ids
}

// BigChainID returns ChainID as *big.Int for go-ethereum signers.
func (c ChainConfig) BigChainID() *big.Int {
	return big.NewInt(c.ChainID)
}

// TxURL returns the explorer link for a transaction hash, or "" when the
// hash is not a real 0x-prefixed hash or no explorer is known.
func (c ChainConfig) TxURL(hash string) string {
	if c.ExplorerURL == "" || !strings.HasPrefix(hash, "0x") {
		return ""
	}
	return c.ExplorerURL + "/tx/" + hash
}
