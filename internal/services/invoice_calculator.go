package services

import (
	"github.com/shopspring/decimal"
	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/money"
)

// ResolvedRates is the monthly rate card with defaults applied: a missing card
// field counts as zero, except the supply deduction percentage which defaults
// to 4.00 when never set.
type ResolvedRates struct {
	Grade1Rate                decimal.Decimal
	Grade2Rate                decimal.Decimal
	SupplyDeductionPercentage decimal.Decimal
	TransportRatePerKg        decimal.Decimal
	StampFee                  decimal.Decimal
}

// DefaultSupplyDeductionPercentage applies when a rate card has no percentage.
var DefaultSupplyDeductionPercentage = decimal.NewFromFloat(4.00)

// ResolveRates flattens a rate card (possibly nil) into concrete figures.
func ResolveRates(rate *models.MonthlyRate) ResolvedRates {
	out := ResolvedRates{
		SupplyDeductionPercentage: DefaultSupplyDeductionPercentage,
	}
	if rate == nil {
		return out
	}
	if rate.Grade1Rate.Valid {
		out.Grade1Rate = rate.Grade1Rate.Decimal
	}
	if rate.Grade2Rate.Valid {
		out.Grade2Rate = rate.Grade2Rate.Decimal
	}
	if rate.SupplyDeductionPercentage.Valid {
		out.SupplyDeductionPercentage = rate.SupplyDeductionPercentage.Decimal
	}
	if rate.TransportRatePerKg.Valid {
		out.TransportRatePerKg = rate.TransportRatePerKg.Decimal
	}
	if rate.StampFee.Valid {
		out.StampFee = rate.StampFee.Decimal
	}
	return out
}

// CalcInput carries everything one invoice computation needs. The service
// gathers it; the calculator is pure arithmetic over it.
type CalcInput struct {
	Customer *models.Customer
	Year     int
	Month    int

	Grade1Kg decimal.Decimal
	Grade2Kg decimal.Decimal
	Details  models.CollectionDetails

	Rates     ResolvedRates
	Deduction *models.Deduction // nil when no charges were entered for the month

	// AutoArrears is the carried-forward negative balance computed by the
	// service. It applies only when the deduction record has no explicit
	// arrears figure.
	AutoArrears decimal.NullDecimal

	Settings CalcSettings
}

// Calculator turns one grower-month of input into a fully priced invoice.
// The returned invoice has no identity or status; the service owns those.
type Calculator interface {
	Calculate(in CalcInput) *models.Invoice
}

// StandardCalculator implements the current pricing rules: the supply
// deduction weight is rounded per the configured mode, and the per-grade
// payable split uses the exact ratio payableKg/totalKg so the grade weights
// re-add to the payable total (up to 2dp rounding drift).
type StandardCalculator struct{}

// NewStandardCalculator creates the default invoice calculator
func NewStandardCalculator() *StandardCalculator {
	return &StandardCalculator{}
}

func (c *StandardCalculator) Calculate(in CalcInput) *models.Invoice {
	inv := newSnapshot(in)

	totalKg := money.Round2(in.Grade1Kg.Add(in.Grade2Kg))
	supplyKg := money.SupplyDeductionKg(totalKg, in.Rates.SupplyDeductionPercentage, in.Settings.DeductionRounding)
	payableKg := totalKg.Sub(supplyKg)
	multiplier := money.ReductionMultiplier(payableKg, totalKg)

	inv.TotalKg = totalKg
	inv.SupplyDeductionKg = supplyKg
	inv.PayableKg = payableKg
	inv.Grade1PayableKg = money.Round2(in.Grade1Kg.Mul(multiplier))
	inv.Grade2PayableKg = money.Round2(in.Grade2Kg.Mul(multiplier))

	inv.Grade1Amount = money.Round2(inv.Grade1PayableKg.Mul(in.Rates.Grade1Rate))
	inv.Grade2Amount = money.Round2(inv.Grade2PayableKg.Mul(in.Rates.Grade2Rate))
	inv.TotalAmount = inv.Grade1Amount.Add(inv.Grade2Amount)

	// Transport is charged on the payable weight; exempt growers deliver to
	// the collection point themselves.
	if in.Customer.TransportExempt {
		inv.TransportAmount = decimal.Zero.Round(2)
	} else {
		inv.TransportAmount = money.Round2(payableKg.Mul(in.Rates.TransportRatePerKg))
	}
	inv.StampFee = money.Round2(in.Rates.StampFee)

	applyDeductions(inv, in)
	return inv
}

// LegacyCalculator reproduces the pricing rules used before the rounding-mode
// change: the grade split multiplier is 1 - pct/100 at 4dp (ignoring the
// rounding of the deduction weight), and transport is charged on the full
// collected weight with no exemption. Kept selectable so historical invoices
// can be reproduced for audit.
type LegacyCalculator struct{}

// NewLegacyCalculator creates the pre-revision invoice calculator
func NewLegacyCalculator() *LegacyCalculator {
	return &LegacyCalculator{}
}

func (c *LegacyCalculator) Calculate(in CalcInput) *models.Invoice {
	inv := newSnapshot(in)

	totalKg := money.Round2(in.Grade1Kg.Add(in.Grade2Kg))
	supplyKg := money.Round2(totalKg.Mul(money.PercentFraction(in.Rates.SupplyDeductionPercentage)))
	payableKg := totalKg.Sub(supplyKg)
	multiplier := decimal.NewFromInt(1).Sub(money.PercentFraction(in.Rates.SupplyDeductionPercentage))

	inv.TotalKg = totalKg
	inv.SupplyDeductionKg = supplyKg
	inv.PayableKg = payableKg
	inv.Grade1PayableKg = money.Round2(in.Grade1Kg.Mul(multiplier))
	inv.Grade2PayableKg = money.Round2(in.Grade2Kg.Mul(multiplier))

	inv.Grade1Amount = money.Round2(inv.Grade1PayableKg.Mul(in.Rates.Grade1Rate))
	inv.Grade2Amount = money.Round2(inv.Grade2PayableKg.Mul(in.Rates.Grade2Rate))
	inv.TotalAmount = inv.Grade1Amount.Add(inv.Grade2Amount)

	inv.TransportAmount = money.Round2(totalKg.Mul(in.Rates.TransportRatePerKg))
	inv.StampFee = money.Round2(in.Rates.StampFee)

	applyDeductions(inv, in)
	return inv
}

// newSnapshot seeds an invoice with the identity and rate card snapshot
// common to both calculators.
func newSnapshot(in CalcInput) *models.Invoice {
	return &models.Invoice{
		InvoiceNumber:             models.FormatInvoiceNumber(in.Year, in.Month, in.Customer.BookNumber),
		CustomerID:                in.Customer.ID,
		Year:                      in.Year,
		Month:                     in.Month,
		BookNumber:                in.Customer.BookNumber,
		GrowerNameEnglish:         in.Customer.GrowerNameEnglish,
		GrowerNameSinhala:         in.Customer.GrowerNameSinhala,
		Route:                     in.Customer.Route,
		Grade1Kg:                  in.Grade1Kg,
		Grade2Kg:                  in.Grade2Kg,
		Grade1Rate:                in.Rates.Grade1Rate,
		Grade2Rate:                in.Rates.Grade2Rate,
		SupplyDeductionPercentage: in.Rates.SupplyDeductionPercentage,
		TransportRatePerKg:        in.Rates.TransportRatePerKg,
		TransportExempt:           in.Customer.TransportExempt,
		CollectionDetails:         in.Details,
	}
}

// applyDeductions copies the month's entered charges onto the invoice keeping
// their NULL-ness, combines arrears (the record's manual figure plus the
// automatic carry-forward, stored only when the sum is positive), and totals
// everything. NULL counts as zero in the totals. The deduction record's
// transport charge is an operator note and is never billed; transport is
// recomputed from the rate card.
func applyDeductions(inv *models.Invoice, in CalcInput) {
	manualArrears := decimal.Zero
	if d := in.Deduction; d != nil {
		if d.ArrearsAmount.Valid {
			manualArrears = d.ArrearsAmount.Decimal
		}
		inv.AdvanceAmount = d.AdvanceAmount
		inv.LoanAmount = d.LoanAmount
		inv.Fertilizer1Amount = d.Fertilizer1Amount
		inv.Fertilizer2Amount = d.Fertilizer2Amount
		inv.TeaPacketsCount = d.TeaPacketsCount
		inv.TeaPacketsTotal = d.TeaPacketsTotal
		inv.AgrochemicalsAmount = d.AgrochemicalsAmount
		inv.OtherDeductions = d.OtherDeductions
		inv.OtherDeductionsNote = d.OtherDeductionsNote
	}

	totalArrears := manualArrears
	if in.AutoArrears.Valid {
		totalArrears = totalArrears.Add(in.AutoArrears.Decimal)
	}
	if totalArrears.IsPositive() {
		inv.ArrearsAmount = decimal.NullDecimal{Decimal: totalArrears, Valid: true}
	}

	total := inv.TransportAmount.Add(inv.StampFee)
	for _, nd := range []decimal.NullDecimal{
		inv.ArrearsAmount,
		inv.AdvanceAmount,
		inv.LoanAmount,
		inv.Fertilizer1Amount,
		inv.Fertilizer2Amount,
		inv.TeaPacketsTotal,
		inv.AgrochemicalsAmount,
		inv.OtherDeductions,
	} {
		if nd.Valid {
			total = total.Add(nd.Decimal)
		}
	}
	inv.TotalDeductions = money.Round2(total)
	inv.NetAmount = inv.TotalAmount.Sub(inv.TotalDeductions)
}
