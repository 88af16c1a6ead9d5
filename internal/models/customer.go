package models

import (
	"time"
)

// Customer represents a tea-leaf grower registered with the dealer.
// The book number is the field identifier used on daily collection slips;
// the database id is the durable identity (a grower keeps their deduction
// and invoice history even if their book number changes).
type Customer struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	BookNumber        string    `gorm:"uniqueIndex;not null" json:"book_number"`
	GrowerNameEnglish string    `gorm:"not null" json:"grower_name_english"`
	GrowerNameSinhala string    `gorm:"not null" json:"grower_name_sinhala"`
	Address           *string   `gorm:"type:text" json:"address"`
	NIC               *string   `gorm:"column:nic" json:"nic"`
	LandName          *string   `json:"land_name"`
	ContactNumber     *string   `json:"contact_number"`
	Route             *string   `gorm:"index" json:"route"`
	TransportExempt   bool      `gorm:"default:false" json:"transport_exempt"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}
