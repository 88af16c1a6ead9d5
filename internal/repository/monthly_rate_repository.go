package repository

import (
	"context"

	"github.com/teadealer/teadealer-api/internal/models"
	"gorm.io/gorm"
)

// MonthlyRateRepository defines the interface for rate card data access
type MonthlyRateRepository interface {
	FindByID(ctx context.Context, id uint) (*models.MonthlyRate, error)
	FindByPeriod(ctx context.Context, year, month int) (*models.MonthlyRate, error)
	Create(ctx context.Context, rate *models.MonthlyRate) error
	Update(ctx context.Context, rate *models.MonthlyRate) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, year int) ([]models.MonthlyRate, error)
}

type monthlyRateRepository struct {
	db *gorm.DB
}

// NewMonthlyRateRepository creates a new monthly rate repository
func NewMonthlyRateRepository(db *gorm.DB) MonthlyRateRepository {
	return &monthlyRateRepository{db: db}
}

func (r *monthlyRateRepository) FindByID(ctx context.Context, id uint) (*models.MonthlyRate, error) {
	var rate models.MonthlyRate
	err := r.db.WithContext(ctx).First(&rate, id).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *monthlyRateRepository) FindByPeriod(ctx context.Context, year, month int) (*models.MonthlyRate, error) {
	var rate models.MonthlyRate
	err := r.db.WithContext(ctx).Where("year = ? AND month = ?", year, month).First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *monthlyRateRepository) Create(ctx context.Context, rate *models.MonthlyRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *monthlyRateRepository) Update(ctx context.Context, rate *models.MonthlyRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

func (r *monthlyRateRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.MonthlyRate{}, id).Error
}

func (r *monthlyRateRepository) List(ctx context.Context, year int) ([]models.MonthlyRate, error) {
	var rates []models.MonthlyRate
	db := r.db.WithContext(ctx)
	if year != 0 {
		db = db.Where("year = ?", year)
	}
	err := db.Order("year DESC, month DESC").Find(&rates).Error
	return rates, err
}
