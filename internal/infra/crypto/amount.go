package crypto

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/holiman/uint256"

	"flarecover/internal/domain"
)

// minorUnitsPerFLR is 10^18, the wei-style scaling factor.
var minorUnitsPerFLR = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// ToMinorUnits converts a major-unit FLR amount to its exact integer
// minor-unit representation. Any fraction past the 18th decimal digit is
// truncated toward zero, never rounded up.
//
// The amount is scaled through its shortest decimal rendering, not its raw
// binary fraction: 0.1 must become exactly 100000000000000000, not the
// nearest-float artifact a binary expansion would commit to the signature.
func ToMinorUnits(amount float64) (*uint256.Int, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: amount must be finite", domain.ErrInvalidAmount)
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrInvalidAmount)
	}
	decimal, ok := new(big.Rat).SetString(strconv.FormatFloat(amount, 'f', -1, 64))
	if !ok {
		return nil, fmt.Errorf("%w: unrepresentable amount %v", domain.ErrInvalidAmount, amount)
	}
	decimal.Mul(decimal, new(big.Rat).SetInt(minorUnitsPerFLR))
	truncated := new(big.Int).Quo(decimal.Num(), decimal.Denom())
	minor, overflow := uint256.FromBig(truncated)
	if overflow {
		return nil, fmt.Errorf("%w: amount exceeds uint256 range", domain.ErrInvalidAmount)
	}
	return minor, nil
}

// ParseMinorUnits parses a base-10 minor-unit string. Negative values are
// rejected: minor units are always a non-negative integer on the wire.
func ParseMinorUnits(value string) (*uint256.Int, error) {
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a base-10 integer", domain.ErrInvalidAmount, value)
	}
	if parsed.Sign() < 0 {
		return nil, fmt.Errorf("%w: minor units must not be negative", domain.ErrInvalidAmount)
	}
	minor, overflow := uint256.FromBig(parsed)
	if overflow {
		return nil, fmt.Errorf("%w: minor units exceed uint256 range", domain.ErrInvalidAmount)
	}
	return minor, nil
}

// MinorUnitsString renders minor units as their exact decimal string. The
// integer string is the canonical wire value; no decimal point is
// reintroduced.
func MinorUnitsString(minor *uint256.Int) string {
	if minor == nil {
		return "0"
	}
	return minor.Dec()
}
