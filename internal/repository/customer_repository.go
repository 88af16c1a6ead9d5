package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/teadealer/teadealer-api/internal/models"
	"gorm.io/gorm"
)

// CustomerRepository defines the interface for grower data access
type CustomerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	FindByBookNumber(ctx context.Context, bookNumber string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *CustomerQuery) ([]models.Customer, int64, error)
	FindAll(ctx context.Context) ([]models.Customer, error)
	ListRoutes(ctx context.Context) ([]string, error)
}

// CustomerQuery extends ListQuery with grower-specific filters
type CustomerQuery struct {
	*ListQuery
	Route string
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByBookNumber(ctx context.Context, bookNumber string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("book_number = ?", bookNumber).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Customer{}, id).Error
}

func (r *customerRepository) List(ctx context.Context, query *CustomerQuery) ([]models.Customer, int64, error) {
	var customers []models.Customer
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Customer{})

	if query.Search != "" {
		search := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where(
			"LOWER(book_number) LIKE ? OR LOWER(grower_name_english) LIKE ? OR grower_name_sinhala LIKE ?",
			search, search, "%"+query.Search+"%",
		)
	}
	if query.Route != "" {
		db = db.Where("route = ?", query.Route)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "book_number"
	switch query.SortBy {
	case "grower_name_english", "route", "created_at":
		sortBy = query.SortBy
	}
	sortDir := "ASC"
	if strings.EqualFold(query.SortDir, "desc") {
		sortDir = "DESC"
	}

	err := db.Order(fmt.Sprintf("%s %s", sortBy, sortDir)).
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&customers).Error
	return customers, total, err
}

func (r *customerRepository) FindAll(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Order("book_number ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepository) ListRoutes(ctx context.Context) ([]string, error) {
	var routes []string
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Distinct("route").
		Where("route IS NOT NULL AND route <> ''").
		Order("route ASC").
		Pluck("route", &routes).Error
	return routes, err
}
