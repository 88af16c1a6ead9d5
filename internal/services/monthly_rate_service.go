package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/repository"
	"gorm.io/gorm"
)

// MonthlyRateService manages the per-month rate cards
type MonthlyRateService struct {
	rateRepo repository.MonthlyRateRepository
}

// NewMonthlyRateService creates a new monthly rate service
func NewMonthlyRateService(rateRepo repository.MonthlyRateRepository) *MonthlyRateService {
	return &MonthlyRateService{rateRepo: rateRepo}
}

// Upsert creates the period's rate card or updates the existing one. Editing a
// card already referenced by invoices is allowed; issued invoices keep their
// snapshot until regenerated.
func (s *MonthlyRateService) Upsert(ctx context.Context, input *models.MonthlyRate) (*models.MonthlyRate, error) {
	if !ValidPeriod(input.Year, input.Month) {
		return nil, ErrInvalidPeriod
	}

	existing, err := s.rateRepo.FindByPeriod(ctx, input.Year, input.Month)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.rateRepo.Create(ctx, input); err != nil {
			return nil, err
		}
		return input, nil
	}

	existing.Grade1Rate = input.Grade1Rate
	existing.Grade2Rate = input.Grade2Rate
	existing.SupplyDeductionPercentage = input.SupplyDeductionPercentage
	existing.TransportRatePerKg = input.TransportRatePerKg
	existing.StampFee = input.StampFee
	existing.TeaPacketPrice = input.TeaPacketPrice
	if err := s.rateRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// GetByPeriod fetches the rate card for one month.
func (s *MonthlyRateService) GetByPeriod(ctx context.Context, year, month int) (*models.MonthlyRate, error) {
	if !ValidPeriod(year, month) {
		return nil, ErrInvalidPeriod
	}
	rate, err := s.rateRepo.FindByPeriod(ctx, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("rate card %d-%02d: %w", year, month, ErrNotFound)
		}
		return nil, err
	}
	return rate, nil
}

// ResolveForPeriod returns the period's rates with defaults applied. A month
// with no card at all resolves to zero rates and the default deduction
// percentage, so invoice generation never blocks on a missing card.
func (s *MonthlyRateService) ResolveForPeriod(ctx context.Context, year, month int) (ResolvedRates, error) {
	rate, err := s.rateRepo.FindByPeriod(ctx, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ResolveRates(nil), nil
		}
		return ResolvedRates{}, err
	}
	return ResolveRates(rate), nil
}

// List returns rate cards, optionally filtered to one year.
func (s *MonthlyRateService) List(ctx context.Context, year int) ([]models.MonthlyRate, error) {
	return s.rateRepo.List(ctx, year)
}

// Delete removes a rate card.
func (s *MonthlyRateService) Delete(ctx context.Context, id uint) error {
	if _, err := s.rateRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.rateRepo.Delete(ctx, id)
}
