package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/repository"
	"github.com/teadealer/teadealer-api/internal/statemachine"
	"github.com/teadealer/teadealer-api/pkg/logger"
	"gorm.io/gorm"
)

// BatchFailure records one grower whose invoice could not be generated during
// a month-end run.
type BatchFailure struct {
	CustomerID uint   `json:"customer_id"`
	BookNumber string `json:"book_number"`
	Error      string `json:"error"`
}

// BatchResult summarizes a month-end generation run. Skipped counts growers
// with neither collections nor a deduction record for the period.
type BatchResult struct {
	Year      int            `json:"year"`
	Month     int            `json:"month"`
	Generated int            `json:"generated"`
	Skipped   int            `json:"skipped"`
	Failed    []BatchFailure `json:"failed"`
}

// InvoiceService generates and manages monthly invoices
type InvoiceService struct {
	invoiceRepo   repository.InvoiceRepository
	customerRepo  repository.CustomerRepository
	deductionRepo repository.DeductionRepository
	collectionSvc *CollectionService
	rateSvc       *MonthlyRateService
	settingsSvc   *SettingsService
	calc          Calculator
	concurrency   int
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	deductionRepo repository.DeductionRepository,
	collectionSvc *CollectionService,
	rateSvc *MonthlyRateService,
	settingsSvc *SettingsService,
	calc Calculator,
	concurrency int,
) *InvoiceService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &InvoiceService{
		invoiceRepo:   invoiceRepo,
		customerRepo:  customerRepo,
		deductionRepo: deductionRepo,
		collectionSvc: collectionSvc,
		rateSvc:       rateSvc,
		settingsSvc:   settingsSvc,
		calc:          calc,
		concurrency:   concurrency,
	}
}

// Generate creates the invoice for one grower-month, or regenerates it if one
// already exists. Regeneration re-reads collections, the rate card and the
// deduction record, but keeps the invoice's identity and its current status.
func (s *InvoiceService) Generate(ctx context.Context, customerID uint, year, month int) (*models.Invoice, error) {
	if !ValidPeriod(year, month) {
		return nil, ErrInvalidPeriod
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	settings, err := s.settingsSvc.CalcSettings(ctx)
	if err != nil {
		return nil, err
	}

	return s.generate(ctx, customer, year, month, settings)
}

func (s *InvoiceService) generate(ctx context.Context, customer *models.Customer, year, month int, settings CalcSettings) (*models.Invoice, error) {
	weights, err := s.collectionSvc.AggregateForPeriod(ctx, customer.ID, year, month)
	if err != nil {
		return nil, err
	}

	rates, err := s.rateSvc.ResolveForPeriod(ctx, year, month)
	if err != nil {
		return nil, err
	}

	deduction, err := s.deductionRepo.FindByCustomerAndPeriod(ctx, customer.ID, year, month)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		deduction = nil
	}

	autoArrears, err := s.resolveAutoArrears(ctx, customer.ID, year, month, settings)
	if err != nil {
		return nil, err
	}

	invoice := s.calc.Calculate(CalcInput{
		Customer:    customer,
		Year:        year,
		Month:       month,
		Grade1Kg:    weights.Grade1Kg,
		Grade2Kg:    weights.Grade2Kg,
		Details:     weights.Details,
		Rates:       rates,
		Deduction:   deduction,
		AutoArrears: autoArrears,
		Settings:    settings,
	})
	invoice.GeneratedAt = time.Now().UTC()

	existing, err := s.invoiceRepo.FindByCustomerAndPeriod(ctx, customer.ID, year, month)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		// Keep identity and status across regeneration. A paid invoice stays
		// paid even if its figures change.
		invoice.ID = existing.ID
		invoice.Status = existing.Status
		invoice.CreatedAt = existing.CreatedAt
		if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
			return nil, err
		}
		return invoice, nil
	}

	invoice.Status = models.InvoiceStatusGenerated
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// resolveAutoArrears returns the previous month's negative balance as a
// positive arrears figure when the carry-forward setting is on. The deduction
// record's explicit arrears, if any, takes precedence in the calculator.
func (s *InvoiceService) resolveAutoArrears(ctx context.Context, customerID uint, year, month int, settings CalcSettings) (decimal.NullDecimal, error) {
	if !settings.AutoArrearsEnabled {
		return decimal.NullDecimal{}, nil
	}

	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}

	prev, err := s.invoiceRepo.FindByCustomerAndPeriod(ctx, customerID, prevYear, prevMonth)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.NullDecimal{}, nil
		}
		return decimal.NullDecimal{}, err
	}
	if prev.NetAmount.Sign() >= 0 {
		return decimal.NullDecimal{}, nil
	}
	return decimal.NullDecimal{Decimal: prev.NetAmount.Abs(), Valid: true}, nil
}

// GenerateAllForPeriod runs a month-end generation across every grower.
// Failures are collected per grower instead of aborting the run; growers with
// neither collections nor a deduction record are skipped. Cancelling the
// context stops the run after in-flight growers finish.
func (s *InvoiceService) GenerateAllForPeriod(ctx context.Context, year, month int) (*BatchResult, error) {
	if !ValidPeriod(year, month) {
		return nil, ErrInvalidPeriod
	}

	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsSvc.CalcSettings(ctx)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Year: year, Month: month}
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency)

	start := time.Now()
	for i := range customers {
		if ctx.Err() != nil {
			break
		}
		customer := &customers[i]

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			skip, err := s.generateOne(ctx, customer, year, month, settings)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed = append(result.Failed, BatchFailure{
					CustomerID: customer.ID,
					BookNumber: customer.BookNumber,
					Error:      err.Error(),
				})
			case skip:
				result.Skipped++
			default:
				result.Generated++
			}
		}()
	}
	wg.Wait()

	logger.Info(fmt.Sprintf("[Invoices] Month-end run %d-%02d: %d generated, %d skipped, %d failed in %v",
		year, month, result.Generated, result.Skipped, len(result.Failed), time.Since(start)))

	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	return result, nil
}

// generateOne wraps generate with the skip rule for the batch run. A grower
// with no weighings, no deduction record and no arrears to carry forward is
// skipped; a grower whose previous invoice closed negative still gets an
// invoice so the debt rolls into the new month instead of vanishing.
func (s *InvoiceService) generateOne(ctx context.Context, customer *models.Customer, year, month int, settings CalcSettings) (skipped bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	weights, err := s.collectionSvc.AggregateForPeriod(ctx, customer.ID, year, month)
	if err != nil {
		return false, err
	}
	if weights.TotalKg().IsZero() {
		_, derr := s.deductionRepo.FindByCustomerAndPeriod(ctx, customer.ID, year, month)
		if derr != nil {
			if !errors.Is(derr, gorm.ErrRecordNotFound) {
				return false, derr
			}
			carried, aerr := s.resolveAutoArrears(ctx, customer.ID, year, month, settings)
			if aerr != nil {
				return false, aerr
			}
			if !carried.Valid {
				return true, nil
			}
		}
	}

	_, err = s.generate(ctx, customer, year, month, settings)
	return false, err
}

// MonthEndPending reports whether the month before now has weighings on
// record but no invoices yet. Used by the daily reminder job.
func (s *InvoiceService) MonthEndPending(ctx context.Context, now time.Time) (bool, int, int, error) {
	prev := now.AddDate(0, -1, 0)
	year, month := prev.Year(), int(prev.Month())

	collections, err := s.collectionSvc.CountForPeriod(ctx, year, month)
	if err != nil {
		return false, year, month, err
	}
	if collections == 0 {
		return false, year, month, nil
	}

	invoices, err := s.invoiceRepo.CountByPeriod(ctx, year, month)
	if err != nil {
		return false, year, month, err
	}
	return invoices == 0, year, month, nil
}

// UpdateStatus moves an invoice between generated, paid and cancelled.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Invoice, error) {
	if !models.ValidInvoiceStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, status)
	}

	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewInvoiceFSM(invoice)
	if err := fsm.TransitionTo(ctx, status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetByID fetches a single invoice.
func (s *InvoiceService) GetByID(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

// GetByNumber fetches an invoice by its number.
func (s *InvoiceService) GetByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, invoiceNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

// GetForCustomerPeriod fetches a grower's invoice for one month.
func (s *InvoiceService) GetForCustomerPeriod(ctx context.Context, customerID uint, year, month int) (*models.Invoice, error) {
	if !ValidPeriod(year, month) {
		return nil, ErrInvalidPeriod
	}
	invoice, err := s.invoiceRepo.FindByCustomerAndPeriod(ctx, customerID, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return invoice, nil
}

// List returns invoices matching the query with a total count.
func (s *InvoiceService) List(ctx context.Context, query *repository.InvoiceQuery) ([]models.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, query)
}

// ListByPeriod returns every invoice for a month ordered by book number.
func (s *InvoiceService) ListByPeriod(ctx context.Context, year, month int) ([]models.Invoice, error) {
	if !ValidPeriod(year, month) {
		return nil, ErrInvalidPeriod
	}
	return s.invoiceRepo.ListByPeriod(ctx, year, month)
}

// ListByCustomer returns a grower's invoices, newest period first.
func (s *InvoiceService) ListByCustomer(ctx context.Context, customerID uint) ([]models.Invoice, error) {
	return s.invoiceRepo.ListByCustomer(ctx, customerID)
}

// PeriodStats aggregates one month's invoices (cancelled excluded).
func (s *InvoiceService) PeriodStats(ctx context.Context, year, month int) (*repository.InvoicePeriodStats, error) {
	if !ValidPeriod(year, month) {
		return nil, ErrInvalidPeriod
	}
	return s.invoiceRepo.GetPeriodStats(ctx, year, month)
}

// Delete removes an invoice.
func (s *InvoiceService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, id)
}
