package services

import (
	"context"
	"errors"
	"strings"

	"github.com/teadealer/teadealer-api/internal/models"
	"github.com/teadealer/teadealer-api/internal/money"
	"github.com/teadealer/teadealer-api/internal/repository"
	"gorm.io/gorm"
)

// CalcSettings is the resolved invoice-calculation configuration, read fresh
// from app_settings at the start of every generation call so a settings change
// applies to the next invoice without a restart.
type CalcSettings struct {
	AutoArrearsEnabled bool
	DeductionRounding  money.RoundingMode
}

// SettingsService reads and writes operator-tunable settings
type SettingsService struct {
	settingRepo repository.AppSettingRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingRepo repository.AppSettingRepository) *SettingsService {
	return &SettingsService{settingRepo: settingRepo}
}

// Get returns a single setting value, or "" when the key was never set.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	setting, err := s.settingRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

// Set stores a setting value, inserting or updating as needed.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	return s.settingRepo.Set(ctx, key, value)
}

// GetAll returns every stored setting.
func (s *SettingsService) GetAll(ctx context.Context) ([]models.AppSetting, error) {
	return s.settingRepo.FindAll(ctx)
}

// CalcSettings resolves the invoice calculation settings with their defaults:
// auto arrears off, half_up deduction rounding.
func (s *SettingsService) CalcSettings(ctx context.Context) (CalcSettings, error) {
	out := CalcSettings{
		AutoArrearsEnabled: false,
		DeductionRounding:  money.RoundHalfUp,
	}

	v, err := s.Get(ctx, models.SettingAutoArrears)
	if err != nil {
		return out, err
	}
	out.AutoArrearsEnabled = strings.EqualFold(v, "true")

	v, err = s.Get(ctx, models.SettingDeductionRounding)
	if err != nil {
		return out, err
	}
	out.DeductionRounding = money.ParseRoundingMode(v)

	return out, nil
}
