package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses
const (
	InvoiceStatusGenerated = "GENERATED"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED"
)

// ValidInvoiceStatus reports whether s is a known invoice status.
func ValidInvoiceStatus(s string) bool {
	return s == InvoiceStatusGenerated || s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CollectionDetail is one dated weighing line embedded in the invoice snapshot,
// shown on the printed statement so the grower can reconcile against their book.
type CollectionDetail struct {
	Date     string          `json:"date"` // YYYY-MM-DD
	Grade    string          `json:"grade"`
	WeightKg decimal.Decimal `json:"weight_kg"`
}

// CollectionDetails stores the daily weighing lines as a JSONB column.
type CollectionDetails []CollectionDetail

// Value implements driver.Valuer.
func (d CollectionDetails) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (d *CollectionDetails) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("collection details: unsupported scan type")
	}
	return json.Unmarshal(b, d)
}

// Invoice is the monthly statement for one grower. Every figure the statement
// shows is snapshotted onto the row at generation time, so later edits to
// collections, rate cards or deductions never change an issued invoice until
// it is explicitly regenerated.
//
// Deduction amounts copied from the deduction record keep their NULL-ness: a
// charge never entered stays NULL (printed blank), while an explicit zero is
// stored as 0.00. Both count as zero in TotalDeductions.
type Invoice struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	InvoiceNumber string `gorm:"uniqueIndex;not null" json:"invoice_number"`
	CustomerID    uint   `gorm:"not null;uniqueIndex:idx_invoices_customer_period,priority:1" json:"customer_id"`
	Year          int    `gorm:"not null;uniqueIndex:idx_invoices_customer_period,priority:2" json:"year"`
	Month         int    `gorm:"not null;uniqueIndex:idx_invoices_customer_period,priority:3" json:"month"`

	// Customer snapshot
	BookNumber        string  `gorm:"not null;index" json:"book_number"`
	GrowerNameEnglish string  `json:"grower_name_english"`
	GrowerNameSinhala string  `json:"grower_name_sinhala"`
	Route             *string `json:"route"`

	// Weights
	Grade1Kg          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grade1_kg"`
	Grade2Kg          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grade2_kg"`
	TotalKg           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_kg"`
	SupplyDeductionKg decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"supply_deduction_kg"`
	PayableKg         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"payable_kg"`
	Grade1PayableKg   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grade1_payable_kg"`
	Grade2PayableKg   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grade2_payable_kg"`

	// Rate card snapshot
	Grade1Rate                decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grade1_rate"`
	Grade2Rate                decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grade2_rate"`
	SupplyDeductionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"supply_deduction_percentage"`
	TransportRatePerKg        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"transport_rate_per_kg"`

	// Earnings
	Grade1Amount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"grade1_amount"`
	Grade2Amount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"grade2_amount"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`

	// Deductions (NULL means never entered, printed blank). ArrearsAmount is
	// the combined figure: the deduction record's manual arrears plus the
	// automatic carry-forward, stored only when the sum is positive.
	ArrearsAmount       decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"arrears_amount"`
	AdvanceAmount       decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"advance_amount"`
	LoanAmount          decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"loan_amount"`
	Fertilizer1Amount   decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"fertilizer1_amount"`
	Fertilizer2Amount   decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"fertilizer2_amount"`
	TeaPacketsCount     *int                `json:"tea_packets_count"`
	TeaPacketsTotal     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"tea_packets_total"`
	AgrochemicalsAmount decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"agrochemicals_amount"`
	OtherDeductions     decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"other_deductions"`
	OtherDeductionsNote *string             `gorm:"type:text" json:"other_deductions_note"`
	TransportAmount     decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"transport_amount"`
	TransportExempt     bool                `gorm:"not null;default:false" json:"transport_exempt"`
	StampFee            decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"stamp_fee"`
	TotalDeductions     decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"total_deductions"`

	// NetAmount may be negative when deductions exceed the month's earnings.
	NetAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"net_amount"`

	Status            string            `gorm:"not null;default:GENERATED;index" json:"status"`
	CollectionDetails CollectionDetails `gorm:"type:jsonb" json:"collection_details"`
	GeneratedAt       time.Time         `json:"generated_at"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	// Associations
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// FormatInvoiceNumber builds the canonical invoice number for a grower and
// period: INV-{year}{month:02d}-{book number}.
func FormatInvoiceNumber(year, month int, bookNumber string) string {
	return fmt.Sprintf("INV-%d%02d-%s", year, month, bookNumber)
}

// PeriodLabel renders the invoice period as YYYY-MM for filenames and reports.
func (i *Invoice) PeriodLabel() string {
	return fmt.Sprintf("%d-%02d", i.Year, i.Month)
}
