package repository

import (
	"context"
	"time"

	"github.com/teadealer/teadealer-api/internal/models"
	"gorm.io/gorm"
)

// CollectionRepository defines the interface for daily weighing data access
type CollectionRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Collection, error)
	Create(ctx context.Context, collection *models.Collection) error
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *CollectionQuery) ([]models.Collection, int64, error)
	FindForCustomerBetween(ctx context.Context, customerID uint, from, to time.Time) ([]models.Collection, error)
	FindByDate(ctx context.Context, date time.Time) ([]models.Collection, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	ExistsForBookDateGrade(ctx context.Context, bookNumber string, date time.Time, grade string, excludeID uint) (bool, error)
}

// CollectionQuery extends ListQuery with weighing-specific filters
type CollectionQuery struct {
	*ListQuery
	BookNumber string
	CustomerID uint
	Grade      string
	From       *time.Time
	To         *time.Time
}

type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) FindByID(ctx context.Context, id uint) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.WithContext(ctx).First(&collection, id).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).Create(collection).Error
}

func (r *collectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).Save(collection).Error
}

func (r *collectionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Collection{}, id).Error
}

func (r *collectionRepository) List(ctx context.Context, query *CollectionQuery) ([]models.Collection, int64, error) {
	var collections []models.Collection
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Collection{})

	if query.BookNumber != "" {
		db = db.Where("book_number = ?", query.BookNumber)
	}
	if query.CustomerID != 0 {
		db = db.Where("customer_id = ?", query.CustomerID)
	}
	if query.Grade != "" {
		db = db.Where("grade = ?", query.Grade)
	}
	if query.From != nil {
		db = db.Where("collection_date >= ?", query.From)
	}
	if query.To != nil {
		db = db.Where("collection_date <= ?", query.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("collection_date DESC, book_number ASC, grade ASC").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&collections).Error
	return collections, total, err
}

func (r *collectionRepository) FindForCustomerBetween(ctx context.Context, customerID uint, from, to time.Time) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND collection_date >= ? AND collection_date <= ?", customerID, from, to).
		Order("collection_date ASC, grade ASC").
		Find(&collections).Error
	return collections, err
}

func (r *collectionRepository) FindByDate(ctx context.Context, date time.Time) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.WithContext(ctx).
		Where("collection_date = ?", date).
		Order("book_number ASC, grade ASC").
		Find(&collections).Error
	return collections, err
}

func (r *collectionRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Where("collection_date >= ? AND collection_date <= ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *collectionRepository) ExistsForBookDateGrade(ctx context.Context, bookNumber string, date time.Time, grade string, excludeID uint) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Where("book_number = ? AND collection_date = ? AND grade = ?", bookNumber, date, grade)
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}
