// Package units converts between decimal ETH strings and integer wei amounts.
// Conversion is exact: inputs that cannot be represented in wei are rejected
// instead of rounded.
package units

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mark3labs/sendeth-frame"
)

// EtherDecimals is the number of decimal places between ETH and wei.
const EtherDecimals = 18

// EtherToWei converts a decimal ETH string such as "0.01" to wei.
// Exponent notation is accepted. Negative values and values with more than
// 18 fractional digits return sendeth.ErrInvalidAmount.
func EtherToWei(ether string) (*big.Int, error) {
	return ToBaseUnits(ether, EtherDecimals)
}

// WeiToEther formats a wei amount as a decimal ETH string without trailing zeros.
func WeiToEther(wei *big.Int) string {
	return FromBaseUnits(wei, EtherDecimals)
}

// ToBaseUnits converts a decimal amount to integer base units for a token
// with the given number of decimals. For example, "1.5" with 6 decimals
// becomes 1500000.
func ToBaseUnits(amount string, decimals int32) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", sendeth.ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sendeth.ErrInvalidAmount, amount)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount %s", sendeth.ErrInvalidAmount, amount)
	}

	shifted := d.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("%w: more than %d fractional digits in %s", sendeth.ErrInvalidAmount, decimals, amount)
	}
	return shifted.BigInt(), nil
}

// FromBaseUnits converts integer base units back to a decimal string.
// For example, 1500000 with 6 decimals becomes "1.5".
func FromBaseUnits(value *big.Int, decimals int32) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -decimals).String()
}
