package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/money"
	"github.com/teadealer/teadealer-api/internal/repository"
	"gorm.io/gorm"
)

// ValidPeriod reports whether year/month denote a usable billing period.
func ValidPeriod(year, month int) bool {
	return month >= 1 && month <= 12 && year >= 2000 && year <= 2100
}

// PeriodBounds returns the first and last calendar day of a billing period.
func PeriodBounds(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return from, to
}

// CollectionInput carries the fields accepted when entering or editing a
// daily weighing.
type CollectionInput struct {
	BookNumber     string
	CollectionDate time.Time
	Grade          string
	WeightKg       decimal.Decimal
	Notes          *string
}

// PeriodWeights is the month's collected weight for one grower, split by
// grade, plus the dated lines for the invoice snapshot.
type PeriodWeights struct {
	Grade1Kg decimal.Decimal
	Grade2Kg decimal.Decimal
	Details  models.CollectionDetails
}

// TotalKg returns the combined collected weight.
func (w PeriodWeights) TotalKg() decimal.Decimal {
	return w.Grade1Kg.Add(w.Grade2Kg)
}

// CollectionService manages daily leaf weighings
type CollectionService struct {
	collectionRepo repository.CollectionRepository
	customerRepo   repository.CustomerRepository
	rateRepo       repository.MonthlyRateRepository
}

// NewCollectionService creates a new collection service
func NewCollectionService(
	collectionRepo repository.CollectionRepository,
	customerRepo repository.CustomerRepository,
	rateRepo repository.MonthlyRateRepository,
) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		customerRepo:   customerRepo,
		rateRepo:       rateRepo,
	}
}

// Create records a new weighing. The grower is resolved by book number and
// the entry gets an informational price snapshot from the month's rate card.
func (s *CollectionService) Create(ctx context.Context, input CollectionInput) (*models.Collection, error) {
	if !models.ValidGrade(input.Grade) {
		return nil, ErrInvalidGrade
	}
	if input.WeightKg.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("weight must be positive")
	}

	customer, err := s.customerRepo.FindByBookNumber(ctx, input.BookNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book number %s: %w", input.BookNumber, ErrNotFound)
		}
		return nil, err
	}

	exists, err := s.collectionRepo.ExistsForBookDateGrade(ctx, input.BookNumber, input.CollectionDate, input.Grade, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("weighing for %s on %s (%s): %w",
			input.BookNumber, input.CollectionDate.Format("2006-01-02"), input.Grade, ErrDuplicate)
	}

	collection := &models.Collection{
		BookNumber:     customer.BookNumber,
		CustomerID:     customer.ID,
		CollectionDate: input.CollectionDate,
		Grade:          input.Grade,
		WeightKg:       money.Round2(input.WeightKg),
		Notes:          input.Notes,
	}
	s.applyPriceSnapshot(ctx, collection)

	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Update edits an existing weighing. Changing date or grade re-checks the
// one-record-per-day-per-grade rule.
func (s *CollectionService) Update(ctx context.Context, id uint, input CollectionInput) (*models.Collection, error) {
	if !models.ValidGrade(input.Grade) {
		return nil, ErrInvalidGrade
	}
	if input.WeightKg.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("weight must be positive")
	}

	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	exists, err := s.collectionRepo.ExistsForBookDateGrade(ctx, collection.BookNumber, input.CollectionDate, input.Grade, collection.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("weighing for %s on %s (%s): %w",
			collection.BookNumber, input.CollectionDate.Format("2006-01-02"), input.Grade, ErrDuplicate)
	}

	collection.CollectionDate = input.CollectionDate
	collection.Grade = input.Grade
	collection.WeightKg = money.Round2(input.WeightKg)
	collection.Notes = input.Notes
	s.applyPriceSnapshot(ctx, collection)

	if err := s.collectionRepo.Update(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Delete removes a weighing record.
func (s *CollectionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.collectionRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.collectionRepo.Delete(ctx, id)
}

// GetByID fetches a single weighing.
func (s *CollectionService) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return collection, nil
}

// List returns weighings matching the query with a total count.
func (s *CollectionService) List(ctx context.Context, query *repository.CollectionQuery) ([]models.Collection, int64, error) {
	return s.collectionRepo.List(ctx, query)
}

// ListByDate returns the daily collection sheet for one date.
func (s *CollectionService) ListByDate(ctx context.Context, date time.Time) ([]models.Collection, error) {
	return s.collectionRepo.FindByDate(ctx, date)
}

// AggregateForPeriod sums a grower's weighings for one calendar month by grade
// and collects the dated lines in chronological order.
func (s *CollectionService) AggregateForPeriod(ctx context.Context, customerID uint, year, month int) (PeriodWeights, error) {
	var weights PeriodWeights
	if !ValidPeriod(year, month) {
		return weights, ErrInvalidPeriod
	}

	from, to := PeriodBounds(year, month)
	collections, err := s.collectionRepo.FindForCustomerBetween(ctx, customerID, from, to)
	if err != nil {
		return weights, err
	}

	for _, c := range collections {
		switch c.Grade {
		case models.GradeOne:
			weights.Grade1Kg = weights.Grade1Kg.Add(c.WeightKg)
		default:
			weights.Grade2Kg = weights.Grade2Kg.Add(c.WeightKg)
		}
		weights.Details = append(weights.Details, models.CollectionDetail{
			Date:     c.CollectionDate.Format("2006-01-02"),
			Grade:    c.Grade,
			WeightKg: c.WeightKg,
		})
	}
	weights.Grade1Kg = money.Round2(weights.Grade1Kg)
	weights.Grade2Kg = money.Round2(weights.Grade2Kg)
	return weights, nil
}

// CountForPeriod returns the number of weighings recorded in a month across
// all growers.
func (s *CollectionService) CountForPeriod(ctx context.Context, year, month int) (int64, error) {
	if !ValidPeriod(year, month) {
		return 0, ErrInvalidPeriod
	}
	from, to := PeriodBounds(year, month)
	return s.collectionRepo.CountBetween(ctx, from, to)
}

// applyPriceSnapshot fills the informational rate and amount columns from the
// month's rate card when one exists. Invoice generation never reads these.
func (s *CollectionService) applyPriceSnapshot(ctx context.Context, c *models.Collection) {
	rate, err := s.rateRepo.FindByPeriod(ctx, c.CollectionDate.Year(), int(c.CollectionDate.Month()))
	if err != nil {
		c.RatePerKg = decimal.NullDecimal{}
		c.TotalAmount = decimal.NullDecimal{}
		return
	}

	var perKg decimal.NullDecimal
	if c.Grade == models.GradeOne {
		perKg = rate.Grade1Rate
	} else {
		perKg = rate.Grade2Rate
	}
	c.RatePerKg = perKg
	if perKg.Valid {
		c.TotalAmount = decimal.NullDecimal{
			Decimal: money.Round2(c.WeightKg.Mul(perKg.Decimal)),
			Valid:   true,
		}
	} else {
		c.TotalAmount = decimal.NullDecimal{}
	}
}
