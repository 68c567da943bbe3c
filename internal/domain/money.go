package domain

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Minor-unit accounting. Profit totals are denominated in the smallest
// indivisible unit of the settlement currency (10^24 per whole unit for a
// NEAR-style token), which does not fit in uint64, so amounts are *big.Int.

// ScaleFactor returns 10^decimals as a big integer.
func ScaleFactor(decimals int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// ParseMinorUnits parses a non-negative integer decimal string into a
// minor-unit amount. It rejects empty strings, signs, and any non-digit
// characters so that attached deposit values round-trip exactly.
func ParseMinorUnits(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("minor units: empty amount: %w", ErrInvalidInput)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("minor units: %q is not a non-negative integer: %w", s, ErrInvalidInput)
		}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("minor units: parse %q: %w", s, ErrInvalidInput)
	}
	return v, nil
}

// FloatToMinorUnits converts a whole-unit float amount to minor units by
// multiplying with scale and truncating toward zero. Truncation matches the
// accounting rule for realized profit: fractional minor units are dropped,
// never rounded up. Non-finite or negative inputs yield zero.
func FloatToMinorUnits(v float64, scale *big.Int) *big.Int {
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return new(big.Int)
	}
	f := new(big.Float).SetPrec(256).SetFloat64(v)
	f.Mul(f, new(big.Float).SetPrec(256).SetInt(scale))
	out, _ := f.Int(nil)
	return out
}

// FormatMinorUnits renders a minor-unit amount as a decimal string. Nil is
// rendered as zero so lazily initialized totals format cleanly.
func FormatMinorUnits(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
