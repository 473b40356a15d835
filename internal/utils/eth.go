// Package utils provides shared helpers, including exact conversions between
// display-unit ether strings and smallest-unit wei integers.
package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// weiPerEther is 10^18, the number of wei in one ether.
var weiPerEther = decimal.New(1, 18)

// ParseEther converts a decimal ether string (e.g. "0.5") into its exact wei
// value. Inputs with more than 18 fractional digits or negative values are
// rejected; conversion never goes through floating point.
func ParseEther(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parsing ether amount %q: %w", amount, err)
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("ether amount %q cannot be negative", amount)
	}

	wei := d.Mul(weiPerEther)
	if !wei.IsInteger() {
		return nil, fmt.Errorf("ether amount %q has more than 18 decimal places", amount)
	}
	return wei.BigInt(), nil
}

// FormatEther converts a wei value into its exact decimal ether string.
// FormatEther(ParseEther(s)) round-trips for any s with at most 18 fractional
// digits.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}
