package models

import (
	"time"
)

// User roles
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User is a back-office login for the dealer's staff.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:operator" json:"role"`
	RefreshToken *string   `gorm:"index" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
