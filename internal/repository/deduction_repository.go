package repository

import (
	"context"

	"github.com/teadealer/teadealer-api/internal/models"
	"gorm.io/gorm"
)

// DeductionRepository defines the interface for monthly charge data access
type DeductionRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Deduction, error)
	FindByCustomerAndPeriod(ctx context.Context, customerID uint, year, month int) (*models.Deduction, error)
	Create(ctx context.Context, deduction *models.Deduction) error
	Update(ctx context.Context, deduction *models.Deduction) error
	Delete(ctx context.Context, id uint) error
	ListByPeriod(ctx context.Context, year, month int) ([]models.Deduction, error)
}

type deductionRepository struct {
	db *gorm.DB
}

// NewDeductionRepository creates a new deduction repository
func NewDeductionRepository(db *gorm.DB) DeductionRepository {
	return &deductionRepository{db: db}
}

func (r *deductionRepository) FindByID(ctx context.Context, id uint) (*models.Deduction, error) {
	var deduction models.Deduction
	err := r.db.WithContext(ctx).First(&deduction, id).Error
	if err != nil {
		return nil, err
	}
	return &deduction, nil
}

func (r *deductionRepository) FindByCustomerAndPeriod(ctx context.Context, customerID uint, year, month int) (*models.Deduction, error) {
	var deduction models.Deduction
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND year = ? AND month = ?", customerID, year, month).
		First(&deduction).Error
	if err != nil {
		return nil, err
	}
	return &deduction, nil
}

func (r *deductionRepository) Create(ctx context.Context, deduction *models.Deduction) error {
	return r.db.WithContext(ctx).Create(deduction).Error
}

func (r *deductionRepository) Update(ctx context.Context, deduction *models.Deduction) error {
	return r.db.WithContext(ctx).Save(deduction).Error
}

func (r *deductionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Deduction{}, id).Error
}

func (r *deductionRepository) ListByPeriod(ctx context.Context, year, month int) ([]models.Deduction, error) {
	var deductions []models.Deduction
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		Order("customer_id ASC").
		Find(&deductions).Error
	return deductions, err
}
