package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/repository"
	"gorm.io/gorm"
)

// --- mock repositories ---

type mockCustomerRepo struct {
	repository.CustomerRepository
	customers map[uint]*models.Customer
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	if c, ok := m.customers[id]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCustomerRepo) FindAll(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range m.customers {
		out = append(out, *c)
	}
	return out, nil
}

type mockCollectionRepo struct {
	repository.CollectionRepository
	records []models.Collection
	failFor uint // customer id whose reads fail
}

func (m *mockCollectionRepo) FindForCustomerBetween(ctx context.Context, customerID uint, from, to time.Time) ([]models.Collection, error) {
	if m.failFor != 0 && customerID == m.failFor {
		return nil, errors.New("storage unavailable")
	}
	var out []models.Collection
	for _, c := range m.records {
		if c.CustomerID != customerID {
			continue
		}
		if c.CollectionDate.Before(from) || c.CollectionDate.After(to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type mockRateRepo struct {
	repository.MonthlyRateRepository
	rate *models.MonthlyRate
}

func (m *mockRateRepo) FindByPeriod(ctx context.Context, year, month int) (*models.MonthlyRate, error) {
	if m.rate != nil && m.rate.Year == year && m.rate.Month == month {
		copy := *m.rate
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockDeductionRepo struct {
	repository.DeductionRepository
	items map[string]*models.Deduction
}

func deductionKey(customerID uint, year, month int) string {
	return fmt.Sprintf("%d-%d-%d", customerID, year, month)
}

func (m *mockDeductionRepo) FindByCustomerAndPeriod(ctx context.Context, customerID uint, year, month int) (*models.Deduction, error) {
	if d, ok := m.items[deductionKey(customerID, year, month)]; ok {
		copy := *d
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockSettingRepo struct {
	repository.AppSettingRepository
	values map[string]string
}

func (m *mockSettingRepo) Get(ctx context.Context, key string) (*models.AppSetting, error) {
	if v, ok := m.values[key]; ok {
		return &models.AppSetting{Key: key, Value: v}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSettingRepo) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

type mockInvoiceRepo struct {
	repository.InvoiceRepository
	byID   map[uint]*models.Invoice
	nextID uint
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{byID: make(map[uint]*models.Invoice), nextID: 1}
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	if inv, ok := m.byID[id]; ok {
		copy := *inv
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInvoiceRepo) FindByCustomerAndPeriod(ctx context.Context, customerID uint, year, month int) (*models.Invoice, error) {
	for _, inv := range m.byID {
		if inv.CustomerID == customerID && inv.Year == year && inv.Month == month {
			copy := *inv
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	invoice.ID = m.nextID
	m.nextID++
	copy := *invoice
	m.byID[invoice.ID] = &copy
	return nil
}

func (m *mockInvoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	copy := *invoice
	m.byID[invoice.ID] = &copy
	return nil
}

func (m *mockInvoiceRepo) CountByPeriod(ctx context.Context, year, month int) (int64, error) {
	var count int64
	for _, inv := range m.byID {
		if inv.Year == year && inv.Month == month {
			count++
		}
	}
	return count, nil
}

// --- fixture ---

type invoiceFixture struct {
	svc         *InvoiceService
	invoices    *mockInvoiceRepo
	customers   *mockCustomerRepo
	collections *mockCollectionRepo
	deductions  *mockDeductionRepo
	settings    *mockSettingRepo
	rates       *mockRateRepo
}

func newInvoiceFixture() *invoiceFixture {
	customers := &mockCustomerRepo{customers: map[uint]*models.Customer{
		1: {ID: 1, BookNumber: "B001", GrowerNameEnglish: "K. Perera"},
	}}
	collections := &mockCollectionRepo{}
	rates := &mockRateRepo{rate: &models.MonthlyRate{
		Year:                      2026,
		Month:                     1,
		Grade1Rate:                ndec("200.00"),
		Grade2Rate:                ndec("180.00"),
		SupplyDeductionPercentage: ndec("4.00"),
		TransportRatePerKg:        ndec("5.00"),
		StampFee:                  ndec("10.00"),
	}}
	deductions := &mockDeductionRepo{items: make(map[string]*models.Deduction)}
	settings := &mockSettingRepo{values: make(map[string]string)}
	invoices := newMockInvoiceRepo()

	collectionSvc := NewCollectionService(collections, customers, rates)
	rateSvc := NewMonthlyRateService(rates)
	settingsSvc := NewSettingsService(settings)

	svc := NewInvoiceService(invoices, customers, deductions, collectionSvc, rateSvc, settingsSvc, NewStandardCalculator(), 4)
	return &invoiceFixture{
		svc:         svc,
		invoices:    invoices,
		customers:   customers,
		collections: collections,
		deductions:  deductions,
		settings:    settings,
		rates:       rates,
	}
}

func (f *invoiceFixture) addWeighing(customerID uint, day int, grade, kg string) {
	f.collections.records = append(f.collections.records, models.Collection{
		CustomerID:     customerID,
		BookNumber:     fmt.Sprintf("B%03d", customerID),
		CollectionDate: time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		Grade:          grade,
		WeightKg:       dec(kg),
	})
}

// --- tests ---

func TestGenerateCustomerNotFound(t *testing.T) {
	f := newInvoiceFixture()
	_, err := f.svc.Generate(context.Background(), 99, 2026, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateInvalidPeriod(t *testing.T) {
	f := newInvoiceFixture()
	_, err := f.svc.Generate(context.Background(), 1, 2026, 13)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestGenerateFullInvoice(t *testing.T) {
	f := newInvoiceFixture()
	f.addWeighing(1, 5, models.GradeOne, "100.00")
	f.addWeighing(1, 12, models.GradeTwo, "50.00")

	inv, err := f.svc.Generate(context.Background(), 1, 2026, 1)
	require.NoError(t, err)

	assert.Equal(t, "INV-202601-B001", inv.InvoiceNumber)
	assert.Equal(t, models.InvoiceStatusGenerated, inv.Status)
	assert.True(t, dec("27110.00").Equal(inv.NetAmount), "got %s", inv.NetAmount)
	assert.Len(t, inv.CollectionDetails, 2)
	assert.Equal(t, "2026-01-05", inv.CollectionDetails[0].Date)
	assert.NotZero(t, inv.ID)
}

func TestGenerateWithoutRateCardUsesDefaults(t *testing.T) {
	f := newInvoiceFixture()
	f.rates.rate = nil
	f.addWeighing(1, 5, models.GradeTwo, "150.00")

	inv, err := f.svc.Generate(context.Background(), 1, 2026, 1)
	require.NoError(t, err)

	// default 4% deduction still applies, all prices are zero
	assert.True(t, dec("6").Equal(inv.SupplyDeductionKg))
	assert.True(t, inv.TotalAmount.IsZero())
	assert.True(t, inv.NetAmount.IsZero())
}

func TestRegenerateKeepsIdentityAndStatus(t *testing.T) {
	f := newInvoiceFixture()
	f.addWeighing(1, 5, models.GradeOne, "100.00")

	first, err := f.svc.Generate(context.Background(), 1, 2026, 1)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), first.ID, models.InvoiceStatusPaid)
	require.NoError(t, err)

	// figures change, status and id must not
	f.addWeighing(1, 20, models.GradeOne, "40.00")
	second, err := f.svc.Generate(context.Background(), 1, 2026, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.InvoiceStatusPaid, second.Status)
	assert.True(t, dec("140.00").Equal(second.TotalKg))
}

func TestGenerateAutoArrears(t *testing.T) {
	f := newInvoiceFixture()
	f.settings.values[models.SettingAutoArrears] = "true"
	f.addWeighing(1, 5, models.GradeOne, "100.00")

	// previous month closed in the red
	f.invoices.byID[50] = &models.Invoice{
		ID:         50,
		CustomerID: 1,
		Year:       2025,
		Month:      12,
		NetAmount:  dec("-340.00"),
	}

	inv, err := f.svc.Generate(context.Background(), 1, 2026, 1)
	require.NoError(t, err)

	require.True(t, inv.ArrearsAmount.Valid)
	assert.True(t, dec("340.00").Equal(inv.ArrearsAmount.Decimal))
}

func TestGenerateAutoArrearsDisabled(t *testing.T) {
	f := newInvoiceFixture()
	f.addWeighing(1, 5, models.GradeOne, "100.00")
	f.invoices.byID[50] = &models.Invoice{
		ID: 50, CustomerID: 1, Year: 2025, Month: 12, NetAmount: dec("-340.00"),
	}

	inv, err := f.svc.Generate(context.Background(), 1, 2026, 1)
	require.NoError(t, err)
	assert.False(t, inv.ArrearsAmount.Valid)
}

func TestGenerateAutoArrearsPositivePrevious(t *testing.T) {
	f := newInvoiceFixture()
	f.settings.values[models.SettingAutoArrears] = "true"
	f.addWeighing(1, 5, models.GradeOne, "100.00")
	f.invoices.byID[50] = &models.Invoice{
		ID: 50, CustomerID: 1, Year: 2025, Month: 12, NetAmount: dec("1200.00"),
	}

	inv, err := f.svc.Generate(context.Background(), 1, 2026, 1)
	require.NoError(t, err)
	assert.False(t, inv.ArrearsAmount.Valid)
}

func TestGenerateArrearsCombined(t *testing.T) {
	f := newInvoiceFixture()
	f.settings.values[models.SettingAutoArrears] = "true"
	f.addWeighing(1, 5, models.GradeOne, "100.00")
	f.invoices.byID[50] = &models.Invoice{
		ID: 50, CustomerID: 1, Year: 2025, Month: 12, NetAmount: dec("-340.00"),
	}
	f.deductions.items[deductionKey(1, 2026, 1)] = &models.Deduction{
		CustomerID:    1,
		Year:          2026,
		Month:         1,
		ArrearsAmount: ndec("120.00"),
	}

	inv, err := f.svc.Generate(context.Background(), 1, 2026, 1)
	require.NoError(t, err)

	// entered arrears plus the carried-forward balance
	require.True(t, inv.ArrearsAmount.Valid)
	assert.True(t, dec("460.00").Equal(inv.ArrearsAmount.Decimal), "got %s", inv.ArrearsAmount.Decimal)
}

func TestGenerateAllSkipsAndCollectsFailures(t *testing.T) {
	f := newInvoiceFixture()
	f.customers.customers[2] = &models.Customer{ID: 2, BookNumber: "B002", GrowerNameEnglish: "S. Silva"}
	f.customers.customers[3] = &models.Customer{ID: 3, BookNumber: "B003", GrowerNameEnglish: "N. Fernando"}

	f.addWeighing(1, 5, models.GradeOne, "100.00")
	f.addWeighing(2, 6, models.GradeTwo, "80.00")
	// customer 3 has no collections and no deductions: skipped
	f.collections.failFor = 2

	result, err := f.svc.GenerateAllForPeriod(context.Background(), 2026, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, uint(2), result.Failed[0].CustomerID)
	assert.Equal(t, "B002", result.Failed[0].BookNumber)
	assert.Contains(t, result.Failed[0].Error, "storage unavailable")
}

func TestGenerateAllZeroWeightWithDeductions(t *testing.T) {
	f := newInvoiceFixture()
	// no collections, but an advance was taken: invoice still generated
	f.deductions.items[deductionKey(1, 2026, 1)] = &models.Deduction{
		CustomerID:    1,
		Year:          2026,
		Month:         1,
		AdvanceAmount: ndec("500.00"),
	}

	result, err := f.svc.GenerateAllForPeriod(context.Background(), 2026, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 0, result.Skipped)

	inv, err := f.svc.GetForCustomerPeriod(context.Background(), 1, 2026, 1)
	require.NoError(t, err)
	// 500 advance + 10 stamp against zero earnings
	assert.True(t, dec("-510.00").Equal(inv.NetAmount), "got %s", inv.NetAmount)
}

func TestGenerateAllCarriesArrearsForIdleGrower(t *testing.T) {
	f := newInvoiceFixture()
	f.settings.values[models.SettingAutoArrears] = "true"

	// no weighings and no charges this month, but last month closed negative:
	// the grower must still get an invoice so the debt rolls forward
	f.invoices.byID[50] = &models.Invoice{
		ID: 50, CustomerID: 1, Year: 2025, Month: 12, NetAmount: dec("-500.00"),
	}

	result, err := f.svc.GenerateAllForPeriod(context.Background(), 2026, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 0, result.Skipped)

	inv, err := f.svc.GetForCustomerPeriod(context.Background(), 1, 2026, 1)
	require.NoError(t, err)
	require.True(t, inv.ArrearsAmount.Valid)
	assert.True(t, dec("500.00").Equal(inv.ArrearsAmount.Decimal))
	// 500 arrears + 10 stamp against zero earnings
	assert.True(t, dec("-510.00").Equal(inv.NetAmount), "got %s", inv.NetAmount)
}

func TestGenerateAllCancelledContext(t *testing.T) {
	f := newInvoiceFixture()
	f.addWeighing(1, 5, models.GradeOne, "100.00")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.svc.GenerateAllForPeriod(ctx, 2026, 1)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.Generated)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newInvoiceFixture()
	f.addWeighing(1, 5, models.GradeOne, "100.00")

	inv, err := f.svc.Generate(context.Background(), 1, 2026, 1)
	require.NoError(t, err)

	inv, err = f.svc.UpdateStatus(context.Background(), inv.ID, models.InvoiceStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusCancelled, inv.Status)

	inv, err = f.svc.UpdateStatus(context.Background(), inv.ID, models.InvoiceStatusGenerated)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusGenerated, inv.Status)

	_, err = f.svc.UpdateStatus(context.Background(), inv.ID, "SHIPPED")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestMonthEndPending(t *testing.T) {
	f := newInvoiceFixture()

	// CountBetween is not overridden on the mock; use a dedicated stub
	f.collections.records = nil
	pendingRepo := &mockCollectionRepoWithCount{mockCollectionRepo: f.collections, count: 3}
	collectionSvc := NewCollectionService(pendingRepo, f.customers, f.rates)
	settingsSvc := NewSettingsService(f.settings)
	rateSvc := NewMonthlyRateService(f.rates)
	svc := NewInvoiceService(f.invoices, f.customers, f.deductions, collectionSvc, rateSvc, settingsSvc, NewStandardCalculator(), 1)

	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	pending, year, month, err := svc.MonthEndPending(context.Background(), now)
	require.NoError(t, err)
	assert.True(t, pending)
	assert.Equal(t, 2026, year)
	assert.Equal(t, 1, month)

	// once invoices exist the reminder clears
	f.invoices.byID[1] = &models.Invoice{ID: 1, CustomerID: 1, Year: 2026, Month: 1, NetAmount: decimal.Zero}
	pending, _, _, err = svc.MonthEndPending(context.Background(), now)
	require.NoError(t, err)
	assert.False(t, pending)
}

type mockCollectionRepoWithCount struct {
	*mockCollectionRepo
	count int64
}

func (m *mockCollectionRepoWithCount) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return m.count, nil
}
