package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teadealer/teadealer-api/internal/models"
)

func TestValidPeriod(t *testing.T) {
	assert.True(t, ValidPeriod(2026, 1))
	assert.True(t, ValidPeriod(2026, 12))
	assert.False(t, ValidPeriod(2026, 0))
	assert.False(t, ValidPeriod(2026, 13))
	assert.False(t, ValidPeriod(1999, 6))
}

func TestPeriodBounds(t *testing.T) {
	from, to := PeriodBounds(2026, 1)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), to)

	// leap February
	from, to = PeriodBounds(2024, 2)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), to)

	_, to = PeriodBounds(2026, 2)
	assert.Equal(t, 28, to.Day())
}

func TestAggregateForPeriod(t *testing.T) {
	customers := &mockCustomerRepo{customers: map[uint]*models.Customer{
		1: {ID: 1, BookNumber: "B001"},
	}}
	collections := &mockCollectionRepo{}
	rates := &mockRateRepo{}
	svc := NewCollectionService(collections, customers, rates)

	add := func(day int, grade, kg string) {
		collections.records = append(collections.records, models.Collection{
			CustomerID:     1,
			BookNumber:     "B001",
			CollectionDate: time.Date(2024, 2, day, 0, 0, 0, 0, time.UTC),
			Grade:          grade,
			WeightKg:       dec(kg),
		})
	}
	add(1, models.GradeOne, "10.50")
	add(15, models.GradeTwo, "20.00")
	add(29, models.GradeOne, "5.25") // leap day counts

	// outside the month
	collections.records = append(collections.records, models.Collection{
		CustomerID:     1,
		CollectionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Grade:          models.GradeOne,
		WeightKg:       dec("99.00"),
	})

	weights, err := svc.AggregateForPeriod(context.Background(), 1, 2024, 2)
	require.NoError(t, err)

	assert.True(t, dec("15.75").Equal(weights.Grade1Kg), "got %s", weights.Grade1Kg)
	assert.True(t, dec("20.00").Equal(weights.Grade2Kg))
	assert.True(t, dec("35.75").Equal(weights.TotalKg()))
	require.Len(t, weights.Details, 3)
	assert.Equal(t, "2024-02-29", weights.Details[2].Date)
}

func TestAggregateForPeriodInvalid(t *testing.T) {
	svc := NewCollectionService(&mockCollectionRepo{}, &mockCustomerRepo{}, &mockRateRepo{})
	_, err := svc.AggregateForPeriod(context.Background(), 1, 2024, 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestCalcSettingsDefaults(t *testing.T) {
	settings := &mockSettingRepo{values: map[string]string{}}
	svc := NewSettingsService(settings)

	cs, err := svc.CalcSettings(context.Background())
	require.NoError(t, err)
	assert.False(t, cs.AutoArrearsEnabled)
	assert.Equal(t, "half_up", string(cs.DeductionRounding))

	settings.values[models.SettingAutoArrears] = "true"
	settings.values[models.SettingDeductionRounding] = "ceiling"

	cs, err = svc.CalcSettings(context.Background())
	require.NoError(t, err)
	assert.True(t, cs.AutoArrearsEnabled)
	assert.Equal(t, "ceiling", string(cs.DeductionRounding))

	// flag value matching is case-insensitive
	settings.values[models.SettingAutoArrears] = "True"
	cs, err = svc.CalcSettings(context.Background())
	require.NoError(t, err)
	assert.True(t, cs.AutoArrearsEnabled)
}
