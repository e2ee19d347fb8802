package validation

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mark3labs/sendeth-frame"
)

var (
	// evmAddressRegex matches Ethereum-style addresses (0x followed by 40 hex chars)
	evmAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
)

// ValidateAmount validates a user-entered decimal ETH amount.
// The amount must parse as a finite number strictly greater than zero.
// Errors wrap sendeth.ErrInvalidAmount.
func ValidateAmount(amount string) error {
	s := strings.TrimSpace(amount)
	if s == "" {
		return fmt.Errorf("%w: amount cannot be empty", sendeth.ErrInvalidAmount)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid amount format: %s", sendeth.ErrInvalidAmount, amount)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: amount must be finite, got: %s", sendeth.ErrInvalidAmount, amount)
	}
	if f <= 0 {
		return fmt.Errorf("%w: amount must be greater than 0, got: %s", sendeth.ErrInvalidAmount, amount)
	}

	return nil
}

// ValidateWeiAmount validates that a base-unit amount string is a valid positive integer.
func ValidateWeiAmount(amount string) (*big.Int, error) {
	if amount == "" {
		return nil, fmt.Errorf("%w: amount cannot be empty", sendeth.ErrInvalidAmount)
	}

	// Parse as big.Int to handle large values
	amt, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid amount format: %s", sendeth.ErrInvalidAmount, amount)
	}

	if amt.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0, got: %s", sendeth.ErrInvalidAmount, amount)
	}

	return amt, nil
}

// ValidateAddress validates an EVM address. Mixed-case addresses must carry
// a valid EIP-55 checksum; all-lower and all-upper hex is accepted as is.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("%w: address cannot be empty", sendeth.ErrInvalidAddress)
	}

	if !evmAddressRegex.MatchString(address) {
		return fmt.Errorf("%w: %s (expected 0x followed by 40 hex characters)", sendeth.ErrInvalidAddress, address)
	}

	hexPart := address[2:]
	if hexPart != strings.ToLower(hexPart) && hexPart != strings.ToUpper(hexPart) {
		if common.HexToAddress(address).Hex() != address {
			return fmt.Errorf("%w: %s has an invalid EIP-55 checksum", sendeth.ErrInvalidAddress, address)
		}
	}

	return nil
}

// ValidateRecipient validates the fixed payment recipient. On top of
// ValidateAddress it rejects the zero address, which would burn funds.
func ValidateRecipient(address string) error {
	if err := ValidateAddress(address); err != nil {
		return err
	}
	if common.HexToAddress(address) == (common.Address{}) {
		return fmt.Errorf("%w: recipient cannot be the zero address", sendeth.ErrInvalidAddress)
	}
	return nil
}
