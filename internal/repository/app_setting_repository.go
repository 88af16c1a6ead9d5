package repository

import (
	"context"

	"github.com/teadealer/teadealer-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppSettingRepository defines the interface for settings data access
type AppSettingRepository interface {
	Get(ctx context.Context, key string) (*models.AppSetting, error)
	Set(ctx context.Context, key, value string) error
	FindAll(ctx context.Context) ([]models.AppSetting, error)
}

type appSettingRepository struct {
	db *gorm.DB
}

// NewAppSettingRepository creates a new app setting repository
func NewAppSettingRepository(db *gorm.DB) AppSettingRepository {
	return &appSettingRepository{db: db}
}

func (r *appSettingRepository) Get(ctx context.Context, key string) (*models.AppSetting, error) {
	var setting models.AppSetting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *appSettingRepository) Set(ctx context.Context, key, value string) error {
	setting := models.AppSetting{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
}

func (r *appSettingRepository) FindAll(ctx context.Context) ([]models.AppSetting, error) {
	var settings []models.AppSetting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}
