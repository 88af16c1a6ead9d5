package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/teadealer/teadealer-api/internal/models"
	"gorm.io/gorm"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	FindByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error)
	FindByCustomerAndPeriod(ctx context.Context, customerID uint, year, month int) (*models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *InvoiceQuery) ([]models.Invoice, int64, error)
	ListByPeriod(ctx context.Context, year, month int) ([]models.Invoice, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Invoice, error)
	CountByPeriod(ctx context.Context, year, month int) (int64, error)
	GetPeriodStats(ctx context.Context, year, month int) (*InvoicePeriodStats, error)
}

// InvoiceQuery extends ListQuery with invoice-specific filters
type InvoiceQuery struct {
	*ListQuery
	Year       int
	Month      int
	Status     string
	BookNumber string
	Route      string
}

// InvoicePeriodStats aggregates one month's generated invoices for dashboards
// and the monthly summary report footer.
type InvoicePeriodStats struct {
	Count           int64           `json:"count"`
	TotalKg         decimal.Decimal `json:"total_kg"`
	PayableKg       decimal.Decimal `json:"payable_kg"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetAmount       decimal.Decimal `json:"net_amount"`
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).Where("invoice_number = ?", invoiceNumber).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByCustomerAndPeriod(ctx context.Context, customerID uint, year, month int) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND year = ? AND month = ?", customerID, year, month).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Invoice{}, id).Error
}

func (r *invoiceRepository) List(ctx context.Context, query *InvoiceQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Invoice{})

	if query.Year != 0 {
		db = db.Where("year = ?", query.Year)
	}
	if query.Month != 0 {
		db = db.Where("month = ?", query.Month)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.BookNumber != "" {
		db = db.Where("book_number = ?", query.BookNumber)
	}
	if query.Route != "" {
		db = db.Where("route = ?", query.Route)
	}
	if query.Search != "" {
		search := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where(
			"LOWER(invoice_number) LIKE ? OR LOWER(book_number) LIKE ? OR LOWER(grower_name_english) LIKE ?",
			search, search, search,
		)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "book_number"
	switch query.SortBy {
	case "net_amount", "total_kg", "generated_at", "invoice_number":
		sortBy = query.SortBy
	}
	sortDir := "ASC"
	if strings.EqualFold(query.SortDir, "desc") {
		sortDir = "DESC"
	}

	err := db.Order(fmt.Sprintf("%s %s", sortBy, sortDir)).
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepository) ListByPeriod(ctx context.Context, year, month int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		Order("book_number ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("year DESC, month DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) CountByPeriod(ctx context.Context, year, month int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("year = ? AND month = ?", year, month).
		Count(&count).Error
	return count, err
}

func (r *invoiceRepository) GetPeriodStats(ctx context.Context, year, month int) (*InvoicePeriodStats, error) {
	var stats InvoicePeriodStats
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select(`COUNT(*) AS count,
			COALESCE(SUM(total_kg), 0) AS total_kg,
			COALESCE(SUM(payable_kg), 0) AS payable_kg,
			COALESCE(SUM(total_amount), 0) AS total_amount,
			COALESCE(SUM(total_deductions), 0) AS total_deductions,
			COALESCE(SUM(net_amount), 0) AS net_amount`).
		Where("year = ? AND month = ? AND status <> ?", year, month, models.InvoiceStatusCancelled).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
