package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/money"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ndec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func testRates() ResolvedRates {
	return ResolvedRates{
		Grade1Rate:                dec("200.00"),
		Grade2Rate:                dec("180.00"),
		SupplyDeductionPercentage: dec("4.00"),
		TransportRatePerKg:        dec("5.00"),
		StampFee:                  dec("10.00"),
	}
}

func testCustomer() *models.Customer {
	return &models.Customer{
		ID:                1,
		BookNumber:        "B123",
		GrowerNameEnglish: "K. Perera",
	}
}

func baseInput() CalcInput {
	return CalcInput{
		Customer: testCustomer(),
		Year:     2026,
		Month:    1,
		Grade1Kg: dec("100.00"),
		Grade2Kg: dec("50.00"),
		Rates:    testRates(),
		Settings: CalcSettings{DeductionRounding: money.RoundHalfUp},
	}
}

func TestStandardCalculatorFullMonth(t *testing.T) {
	calc := NewStandardCalculator()
	inv := calc.Calculate(baseInput())

	assert.Equal(t, "INV-202601-B123", inv.InvoiceNumber)
	assert.True(t, dec("150.00").Equal(inv.TotalKg))
	assert.True(t, dec("6").Equal(inv.SupplyDeductionKg), "got %s", inv.SupplyDeductionKg)
	assert.True(t, dec("144").Equal(inv.PayableKg))

	// 144/150 = 0.96, applied per grade
	assert.True(t, dec("96.00").Equal(inv.Grade1PayableKg), "got %s", inv.Grade1PayableKg)
	assert.True(t, dec("48.00").Equal(inv.Grade2PayableKg), "got %s", inv.Grade2PayableKg)

	assert.True(t, dec("19200.00").Equal(inv.Grade1Amount))
	assert.True(t, dec("8640.00").Equal(inv.Grade2Amount))
	assert.True(t, dec("27840.00").Equal(inv.TotalAmount))

	// transport on payable weight, plus stamp fee
	assert.True(t, dec("720.00").Equal(inv.TransportAmount))
	assert.True(t, dec("10.00").Equal(inv.StampFee))
	assert.True(t, dec("730.00").Equal(inv.TotalDeductions))
	assert.True(t, dec("27110.00").Equal(inv.NetAmount), "got %s", inv.NetAmount)
}

func TestStandardCalculatorTransportExempt(t *testing.T) {
	in := baseInput()
	in.Customer.TransportExempt = true

	inv := NewStandardCalculator().Calculate(in)

	assert.True(t, inv.TransportExempt)
	assert.True(t, inv.TransportAmount.IsZero())
	assert.True(t, dec("27830.00").Equal(inv.NetAmount), "got %s", inv.NetAmount)
}

func TestStandardCalculatorGradeSplitDrift(t *testing.T) {
	in := baseInput()
	in.Grade1Kg = dec("60.50")
	in.Grade2Kg = dec("40.50")

	inv := NewStandardCalculator().Calculate(in)

	// 101 kg at 4% -> 4.04 -> 4 (half up); payable 97, multiplier 0.960396
	assert.True(t, dec("4").Equal(inv.SupplyDeductionKg))
	assert.True(t, dec("97.00").Equal(inv.PayableKg))

	// per-grade payable weights re-add to the payable total within 2dp drift
	drift := inv.Grade1PayableKg.Add(inv.Grade2PayableKg).Sub(inv.PayableKg).Abs()
	assert.True(t, drift.LessThanOrEqual(dec("0.02")), "drift %s", drift)
}

func TestStandardCalculatorRoundingModes(t *testing.T) {
	tests := []struct {
		mode money.RoundingMode
		want string
	}{
		{money.RoundHalfUp, "4"},
		{money.RoundCeiling, "5"},
		{money.RoundFloor, "4"},
		{money.RoundIncludeDecimals, "4.04"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			in := baseInput()
			in.Grade1Kg = dec("60.50")
			in.Grade2Kg = dec("40.50")
			in.Settings.DeductionRounding = tt.mode

			inv := NewStandardCalculator().Calculate(in)
			assert.True(t, dec(tt.want).Equal(inv.SupplyDeductionKg), "got %s", inv.SupplyDeductionKg)
			assert.True(t, dec("101.00").Sub(dec(tt.want)).Equal(inv.PayableKg))
		})
	}
}

func TestStandardCalculatorZeroCollections(t *testing.T) {
	in := baseInput()
	in.Grade1Kg = decimal.Zero
	in.Grade2Kg = decimal.Zero

	inv := NewStandardCalculator().Calculate(in)

	assert.True(t, inv.TotalKg.IsZero())
	assert.True(t, inv.SupplyDeductionKg.IsZero())
	assert.True(t, inv.PayableKg.IsZero())
	assert.True(t, inv.TotalAmount.IsZero())
	assert.True(t, inv.TransportAmount.IsZero())
	// stamp fee still applies, so the net goes negative
	assert.True(t, dec("-10.00").Equal(inv.NetAmount), "got %s", inv.NetAmount)
}

func TestStandardCalculatorDeductionsKeepNullness(t *testing.T) {
	in := baseInput()
	in.Deduction = &models.Deduction{
		CustomerID:    1,
		Year:          2026,
		Month:         1,
		AdvanceAmount: ndec("500.00"),
		// explicit zero is not the same as never entered
		Fertilizer1Amount: ndec("0.00"),
	}

	inv := NewStandardCalculator().Calculate(in)

	require.True(t, inv.AdvanceAmount.Valid)
	require.True(t, inv.Fertilizer1Amount.Valid)
	assert.True(t, inv.Fertilizer1Amount.Decimal.IsZero())
	assert.False(t, inv.TeaPacketsTotal.Valid)
	assert.False(t, inv.LoanAmount.Valid)
	assert.False(t, inv.ArrearsAmount.Valid)

	// 720 transport + 10 stamp + 500 advance
	assert.True(t, dec("1230.00").Equal(inv.TotalDeductions), "got %s", inv.TotalDeductions)
	assert.True(t, dec("26610.00").Equal(inv.NetAmount))
}

func TestStandardCalculatorFullChargeRecord(t *testing.T) {
	count := 4
	in := baseInput()
	in.Deduction = &models.Deduction{
		CustomerID:          1,
		Year:                2026,
		Month:               1,
		ArrearsAmount:       ndec("50.00"),
		AdvanceAmount:       ndec("500.00"),
		LoanAmount:          ndec("200.00"),
		Fertilizer1Amount:   ndec("300.00"),
		Fertilizer2Amount:   ndec("150.00"),
		TeaPacketsCount:     &count,
		TeaPacketsTotal:     ndec("400.00"),
		AgrochemicalsAmount: ndec("100.00"),
		OtherDeductions:     ndec("25.00"),
	}

	inv := NewStandardCalculator().Calculate(in)

	require.NotNil(t, inv.TeaPacketsCount)
	assert.Equal(t, 4, *inv.TeaPacketsCount)

	// 50+500+200+300+150+400+100+25 charges + 720 transport + 10 stamp
	assert.True(t, dec("2455.00").Equal(inv.TotalDeductions), "got %s", inv.TotalDeductions)
	assert.True(t, dec("25385.00").Equal(inv.NetAmount), "got %s", inv.NetAmount)
}

func TestStandardCalculatorEntryTransportNotBilled(t *testing.T) {
	in := baseInput()
	in.Deduction = &models.Deduction{
		CustomerID:      1,
		Year:            2026,
		Month:           1,
		TransportCharge: ndec("50.00"),
	}

	inv := NewStandardCalculator().Calculate(in)

	// the entry record's transport note never reaches the bill;
	// transport stays the recomputed 720 + 10 stamp
	assert.True(t, dec("730.00").Equal(inv.TotalDeductions), "got %s", inv.TotalDeductions)
	assert.True(t, dec("27110.00").Equal(inv.NetAmount), "got %s", inv.NetAmount)
}

func TestStandardCalculatorAutoArrears(t *testing.T) {
	in := baseInput()
	in.AutoArrears = ndec("250.00")

	inv := NewStandardCalculator().Calculate(in)

	require.True(t, inv.ArrearsAmount.Valid)
	assert.True(t, dec("250.00").Equal(inv.ArrearsAmount.Decimal))
	assert.True(t, dec("980.00").Equal(inv.TotalDeductions))
}

func TestStandardCalculatorArrearsCombine(t *testing.T) {
	in := baseInput()
	in.AutoArrears = ndec("250.00")
	in.Deduction = &models.Deduction{ArrearsAmount: ndec("100.00")}

	inv := NewStandardCalculator().Calculate(in)

	// manual and carried arrears add up
	require.True(t, inv.ArrearsAmount.Valid)
	assert.True(t, dec("350.00").Equal(inv.ArrearsAmount.Decimal), "got %s", inv.ArrearsAmount.Decimal)
	assert.True(t, dec("1080.00").Equal(inv.TotalDeductions))
}

func TestStandardCalculatorZeroArrearsStaysNull(t *testing.T) {
	in := baseInput()
	in.Deduction = &models.Deduction{ArrearsAmount: ndec("0.00")}

	inv := NewStandardCalculator().Calculate(in)
	assert.False(t, inv.ArrearsAmount.Valid)
}

func TestLegacyCalculator(t *testing.T) {
	in := baseInput()
	in.Customer.TransportExempt = true // legacy rules ignore the exemption

	inv := NewLegacyCalculator().Calculate(in)

	assert.True(t, dec("6.00").Equal(inv.SupplyDeductionKg))
	assert.True(t, dec("144.00").Equal(inv.PayableKg))
	assert.True(t, dec("96.00").Equal(inv.Grade1PayableKg))
	assert.True(t, dec("48.00").Equal(inv.Grade2PayableKg))
	assert.True(t, dec("27840.00").Equal(inv.TotalAmount))

	// transport on the full collected weight, exemption not honored
	assert.True(t, dec("750.00").Equal(inv.TransportAmount), "got %s", inv.TransportAmount)
	assert.True(t, dec("27080.00").Equal(inv.NetAmount), "got %s", inv.NetAmount)
}

func TestResolveRates(t *testing.T) {
	// nil card: zero rates, default percentage
	rates := ResolveRates(nil)
	assert.True(t, rates.Grade1Rate.IsZero())
	assert.True(t, dec("4.00").Equal(rates.SupplyDeductionPercentage))

	// partial card: set fields win, missing percentage falls back
	rates = ResolveRates(&models.MonthlyRate{
		Grade1Rate: ndec("210.00"),
	})
	assert.True(t, dec("210.00").Equal(rates.Grade1Rate))
	assert.True(t, dec("4.00").Equal(rates.SupplyDeductionPercentage))
	assert.True(t, rates.StampFee.IsZero())

	rates = ResolveRates(&models.MonthlyRate{
		SupplyDeductionPercentage: ndec("5.50"),
	})
	assert.True(t, dec("5.50").Equal(rates.SupplyDeductionPercentage))
}
