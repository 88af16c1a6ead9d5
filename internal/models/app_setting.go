package models

import (
	"time"
)

// Well-known settings keys.
const (
	// SettingAutoArrears enables carrying a negative previous-month balance
	// forward as arrears during invoice generation ("true"/"false").
	SettingAutoArrears = "auto_arrears_carry_forward"
	// SettingDeductionRounding selects the supply deduction rounding mode
	// (half_up, include_decimals, ceiling, floor).
	SettingDeductionRounding = "deduction_rounding_mode"
	// SettingInvoiceTemplate stores the relative path of the uploaded invoice
	// template image used as the PDF background.
	SettingInvoiceTemplate = "invoice_template_path"
)

// AppSetting is a key/value row for operator-tunable behavior. Values are
// stored as strings and parsed at the point of use; a missing key means the
// caller's documented default applies.
type AppSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:key;uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"column:value;type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for AppSetting
func (AppSetting) TableName() string {
	return "app_settings"
}
