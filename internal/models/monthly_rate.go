package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRate is the rate card for one calendar month, unique per (year, month).
// Missing numeric fields resolve to zero at invoice time, except the supply
// deduction percentage which defaults to 4.00 when never set. The store allows
// editing a card after invoices reference it; regenerating an invoice re-reads
// the current card.
type MonthlyRate struct {
	ID                        uint                `gorm:"primaryKey" json:"id"`
	Year                      int                 `gorm:"not null;uniqueIndex:idx_monthly_rates_period,priority:1" json:"year"`
	Month                     int                 `gorm:"not null;uniqueIndex:idx_monthly_rates_period,priority:2" json:"month"`
	Grade1Rate                decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"grade1_rate"`
	Grade2Rate                decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"grade2_rate"`
	SupplyDeductionPercentage decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"supply_deduction_percentage"`
	TransportRatePerKg        decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"transport_rate_per_kg"`
	StampFee                  decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"stamp_fee"`
	TeaPacketPrice            decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"tea_packet_price"`
	CreatedAt                 time.Time           `json:"created_at"`
	UpdatedAt                 time.Time           `json:"updated_at"`
}

// TableName specifies the table name for MonthlyRate
func (MonthlyRate) TableName() string {
	return "monthly_rates"
}
