package services

import (
	"context"
	"errors"

	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/repository"
	"gorm.io/gorm"
)

// DeductionService manages the per-grower monthly charge records
type DeductionService struct {
	deductionRepo repository.DeductionRepository
	customerRepo  repository.CustomerRepository
}

// NewDeductionService creates a new deduction service
func NewDeductionService(
	deductionRepo repository.DeductionRepository,
	customerRepo repository.CustomerRepository,
) *DeductionService {
	return &DeductionService{
		deductionRepo: deductionRepo,
		customerRepo:  customerRepo,
	}
}

// Upsert creates or updates the single deduction record for a grower-month.
// Fields left unset stay NULL and print blank on the invoice; an explicit
// zero is stored as 0.00.
func (s *DeductionService) Upsert(ctx context.Context, input *models.Deduction) (*models.Deduction, error) {
	if !ValidPeriod(input.Year, input.Month) {
		return nil, ErrInvalidPeriod
	}
	if _, err := s.customerRepo.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	existing, err := s.deductionRepo.FindByCustomerAndPeriod(ctx, input.CustomerID, input.Year, input.Month)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.deductionRepo.Create(ctx, input); err != nil {
			return nil, err
		}
		return input, nil
	}

	existing.ArrearsAmount = input.ArrearsAmount
	existing.AdvanceAmount = input.AdvanceAmount
	existing.AdvanceDate = input.AdvanceDate
	existing.LoanAmount = input.LoanAmount
	existing.LoanDate = input.LoanDate
	existing.Fertilizer1Amount = input.Fertilizer1Amount
	existing.Fertilizer1Date = input.Fertilizer1Date
	existing.Fertilizer2Amount = input.Fertilizer2Amount
	existing.Fertilizer2Date = input.Fertilizer2Date
	existing.TeaPacketsCount = input.TeaPacketsCount
	existing.TeaPacketsTotal = input.TeaPacketsTotal
	existing.AgrochemicalsAmount = input.AgrochemicalsAmount
	existing.AgrochemicalsDate = input.AgrochemicalsDate
	existing.TransportCharge = input.TransportCharge
	existing.OtherDeductions = input.OtherDeductions
	existing.OtherDeductionsNote = input.OtherDeductionsNote
	if err := s.deductionRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// GetForCustomerPeriod fetches a grower's deduction record for one month.
func (s *DeductionService) GetForCustomerPeriod(ctx context.Context, customerID uint, year, month int) (*models.Deduction, error) {
	if !ValidPeriod(year, month) {
		return nil, ErrInvalidPeriod
	}
	deduction, err := s.deductionRepo.FindByCustomerAndPeriod(ctx, customerID, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return deduction, nil
}

// ListByPeriod returns every deduction record entered for a month.
func (s *DeductionService) ListByPeriod(ctx context.Context, year, month int) ([]models.Deduction, error) {
	if !ValidPeriod(year, month) {
		return nil, ErrInvalidPeriod
	}
	return s.deductionRepo.ListByPeriod(ctx, year, month)
}

// Delete removes a deduction record.
func (s *DeductionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.deductionRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.deductionRepo.Delete(ctx, id)
}
