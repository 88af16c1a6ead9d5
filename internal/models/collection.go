package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tea grade constants. Grade affects the per-kg rate on the monthly rate card.
const (
	GradeOne = "GRADE_1"
	GradeTwo = "GRADE_2"
)

// ValidGrade reports whether g is a known tea grade.
func ValidGrade(g string) bool {
	return g == GradeOne || g == GradeTwo
}

// Collection is one weighing of leaf from one grower on one day, per grade.
// A grower can have at most one record per (book number, date, grade); the
// same day may carry one GRADE_1 and one GRADE_2 record.
//
// RatePerKg and TotalAmount are an informational snapshot taken at entry time
// for the daily collection sheet. Invoice generation ignores them and prices
// weights from the monthly rate card instead.
type Collection struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	BookNumber     string              `gorm:"not null;uniqueIndex:idx_collections_book_date_grade,priority:1;index" json:"book_number"`
	CustomerID     uint                `gorm:"not null;index" json:"customer_id"`
	CollectionDate time.Time           `gorm:"type:date;not null;uniqueIndex:idx_collections_book_date_grade,priority:2" json:"collection_date"`
	Grade          string              `gorm:"not null;default:GRADE_2;uniqueIndex:idx_collections_book_date_grade,priority:3" json:"grade"`
	WeightKg       decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"weight_kg"`
	RatePerKg      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"rate_per_kg"`
	TotalAmount    decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Notes          *string             `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`

	// Associations
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// TableName specifies the table name for Collection
func (Collection) TableName() string {
	return "collections"
}
