package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Customer    CustomerRepository
	Collection  CollectionRepository
	MonthlyRate MonthlyRateRepository
	Deduction   DeductionRepository
	Invoice     InvoiceRepository
	AppSetting  AppSettingRepository
	User        UserRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Customer:    NewCustomerRepository(db),
		Collection:  NewCollectionRepository(db),
		MonthlyRate: NewMonthlyRateRepository(db),
		Deduction:   NewDeductionRepository(db),
		Invoice:     NewInvoiceRepository(db),
		AppSetting:  NewAppSettingRepository(db),
		User:        NewUserRepository(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
	}
}

// Offset returns the record offset for the current page.
func (q *ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit()
}

// Limit returns the page size, clamped to sane bounds.
func (q *ListQuery) Limit() int {
	if q.PerPage < 1 {
		return 20
	}
	if q.PerPage > 200 {
		return 200
	}
	return q.PerPage
}
