package common

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	SOLDecimals      = 9             // SOL has 9 decimals (lamports)
	LamportsPerSOL   = 1_000_000_000 // 10^9
	MaxTokenDecimals = 19            // 10^20 no longer fits in uint64
)

// LamportsToSOL converts lamports to SOL string without float precision loss
func LamportsToSOL(lamports uint64) string {
	return FormatUnits(lamports, SOLDecimals)
}

// LamportsToSOLFloat converts lamports to a float SOL value for comparisons
// against user-entered amounts.
func LamportsToSOLFloat(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSOL
}

// SOLToLamports converts a SOL amount to lamports by float multiplication,
// truncating toward zero. Very small fractional amounts lose precision.
func SOLToLamports(sol string) (uint64, error) {
	return ToBaseUnits(sol, SOLDecimals)
}

// ToBaseUnits scales a decimal amount string by 10^decimals using float
// multiplication and truncates the result toward zero.
func ToBaseUnits(amount string, decimals uint8) (uint64, error) {
	if decimals > MaxTokenDecimals {
		return 0, fmt.Errorf("decimals %d out of range", decimals)
	}
	f, err := ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	scaled := f * math.Pow10(int(decimals))
	if scaled >= math.MaxUint64 {
		return 0, fmt.Errorf("amount %s overflows", amount)
	}
	return uint64(scaled), nil
}

// decimalAmount is plain decimal notation with an optional exponent.
// strconv.ParseFloat on its own also takes hex floats such as "0x1p-1".
var decimalAmount = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// ParseAmount parses a positive, finite decimal amount.
func ParseAmount(amount string) (float64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if !decimalAmount.MatchString(amount) {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, fmt.Errorf("amount must be a positive number")
	}
	return f, nil
}

// FormatUnits converts integer base units to a decimal string by inserting
// a decimal point. Trailing fractional zeros are kept.
// Example: FormatUnits(24981836, 9) = "0.024981836"
func FormatUnits(value uint64, decimals uint8) string {
	s := strconv.FormatUint(value, 10)
	if decimals == 0 {
		return s
	}

	d := int(decimals)
	// Pad with leading zeros if needed
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}

	pos := len(s) - d
	return s[:pos] + "." + s[pos:]
}
