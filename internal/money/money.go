// Package money centralizes the fixed-point arithmetic used across invoice
// generation. Currency values carry 2 decimal places; weight values are
// rounded per the configured deduction rounding mode. Scratch precision for
// intermediate divisions is wider (4dp for percentages, 6dp for the grade
// reduction multiplier) so that the stored 2dp figures stay consistent.
package money

import "github.com/shopspring/decimal"

// RoundingMode selects how the supply deduction weight is rounded before it
// is stored on the invoice.
type RoundingMode string

const (
	// RoundHalfUp rounds to the nearest whole kilogram, .5 up. Default.
	RoundHalfUp RoundingMode = "half_up"
	// RoundIncludeDecimals keeps the deduction at 2 decimal places.
	RoundIncludeDecimals RoundingMode = "include_decimals"
	// RoundCeiling always rounds up to the next whole kilogram.
	RoundCeiling RoundingMode = "ceiling"
	// RoundFloor always rounds down to the previous whole kilogram.
	RoundFloor RoundingMode = "floor"
)

var hundred = decimal.NewFromInt(100)

// ParseRoundingMode maps a stored setting value to a RoundingMode. Unknown or
// empty values fall back to half_up, matching the settings UI default.
func ParseRoundingMode(s string) RoundingMode {
	switch RoundingMode(s) {
	case RoundIncludeDecimals, RoundCeiling, RoundFloor:
		return RoundingMode(s)
	default:
		return RoundHalfUp
	}
}

// Round2 rounds a currency or weight value to 2 decimal places, half up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// PercentFraction converts a percentage (e.g. 4.00) to a fraction (0.0400)
// at 4 decimal places of scratch precision.
func PercentFraction(percentage decimal.Decimal) decimal.Decimal {
	return percentage.DivRound(hundred, 4)
}

// SupplyDeductionKg computes the weight withheld for moisture/processing loss:
// totalKg x percentage / 100, first taken at 2dp scratch precision (half up),
// then rounded per the configured mode.
func SupplyDeductionKg(totalKg, percentage decimal.Decimal, mode RoundingMode) decimal.Decimal {
	raw := totalKg.Mul(percentage).DivRound(hundred, 2)
	switch mode {
	case RoundIncludeDecimals:
		return raw
	case RoundCeiling:
		return raw.RoundCeil(0)
	case RoundFloor:
		return raw.RoundFloor(0)
	default:
		return raw.Round(0)
	}
}

// ReductionMultiplier is the fraction of collected weight that remains payable
// after the rounded supply deduction: payableKg / totalKg at 6dp scratch
// precision. A month with no collections yields 1 so the per-grade split stays
// a no-op instead of dividing by zero.
func ReductionMultiplier(payableKg, totalKg decimal.Decimal) decimal.Decimal {
	if totalKg.IsZero() {
		return decimal.NewFromInt(1)
	}
	return payableKg.DivRound(totalKg, 6)
}
