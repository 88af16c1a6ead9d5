package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestParseRoundingMode(t *testing.T) {
	assert.Equal(t, RoundHalfUp, ParseRoundingMode(""))
	assert.Equal(t, RoundHalfUp, ParseRoundingMode("half_up"))
	assert.Equal(t, RoundHalfUp, ParseRoundingMode("bogus"))
	assert.Equal(t, RoundCeiling, ParseRoundingMode("ceiling"))
	assert.Equal(t, RoundFloor, ParseRoundingMode("floor"))
	assert.Equal(t, RoundIncludeDecimals, ParseRoundingMode("include_decimals"))
}

func TestSupplyDeductionKg(t *testing.T) {
	tests := []struct {
		name       string
		totalKg    string
		percentage string
		mode       RoundingMode
		want       string
	}{
		{"exact whole", "150", "4", RoundHalfUp, "6"},
		{"half up rounds down", "101", "4", RoundHalfUp, "4"},
		{"half up rounds up", "112.5", "4", RoundHalfUp, "5"}, // 4.50 -> 5
		{"ceiling", "101", "4", RoundCeiling, "5"},            // 4.04 -> 5
		{"floor", "101", "4", RoundFloor, "4"},                // 4.04 -> 4
		{"include decimals", "101", "4", RoundIncludeDecimals, "4.04"},
		{"zero total", "0", "4", RoundHalfUp, "0"},
		{"zero percentage", "150", "0", RoundCeiling, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SupplyDeductionKg(dec(tt.totalKg), dec(tt.percentage), tt.mode)
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestReductionMultiplier(t *testing.T) {
	// 144 / 150 = 0.96 exactly
	m := ReductionMultiplier(dec("144"), dec("150"))
	assert.True(t, dec("0.96").Equal(m), "got %s", m)

	// 97 / 101 = 0.960396...
	m = ReductionMultiplier(dec("97"), dec("101"))
	assert.True(t, dec("0.960396").Equal(m), "got %s", m)

	// zero collected weight keeps the multiplier neutral
	m = ReductionMultiplier(dec("0"), dec("0"))
	assert.True(t, decimal.NewFromInt(1).Equal(m))
}

func TestPercentFraction(t *testing.T) {
	assert.True(t, dec("0.04").Equal(PercentFraction(dec("4.00"))))
	assert.True(t, dec("0.0425").Equal(PercentFraction(dec("4.25"))))
}

func TestRound2(t *testing.T) {
	assert.True(t, dec("19200.00").Equal(Round2(dec("19200"))))
	assert.True(t, dec("10.35").Equal(Round2(dec("10.345"))))
}
