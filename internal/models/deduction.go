package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deduction is a per-grower, per-month charge record entered ahead of
// invoicing: arrears carried from last month, advances and loans taken,
// fertilizer and tea packets issued, agrochemicals and the like. One row per
// grower per month; fields left empty stay NULL and are treated as zero when
// the invoice sums them.
//
// TransportCharge is an operator note only. Invoicing recomputes transport
// from the rate card and the payable weight and never reads this column.
type Deduction struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	CustomerID uint `gorm:"not null;uniqueIndex:idx_deductions_customer_period,priority:1" json:"customer_id"`
	Year       int  `gorm:"not null;uniqueIndex:idx_deductions_customer_period,priority:2" json:"year"`
	Month      int  `gorm:"not null;uniqueIndex:idx_deductions_customer_period,priority:3" json:"month"`

	ArrearsAmount decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"arrears_amount"`

	AdvanceAmount decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"advance_amount"`
	AdvanceDate   *time.Time          `gorm:"type:date" json:"advance_date"`

	LoanAmount decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"loan_amount"`
	LoanDate   *time.Time          `gorm:"type:date" json:"loan_date"`

	Fertilizer1Amount decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"fertilizer1_amount"`
	Fertilizer1Date   *time.Time          `gorm:"type:date" json:"fertilizer1_date"`
	Fertilizer2Amount decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"fertilizer2_amount"`
	Fertilizer2Date   *time.Time          `gorm:"type:date" json:"fertilizer2_date"`

	TeaPacketsCount *int                `json:"tea_packets_count"`
	TeaPacketsTotal decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"tea_packets_total"`

	AgrochemicalsAmount decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"agrochemicals_amount"`
	AgrochemicalsDate   *time.Time          `gorm:"type:date" json:"agrochemicals_date"`

	TransportCharge decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"transport_charge"`

	OtherDeductions     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"other_deductions"`
	OtherDeductionsNote *string             `gorm:"type:text" json:"other_deductions_note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// TableName specifies the table name for Deduction
func (Deduction) TableName() string {
	return "deductions"
}
