package repository

import (
	"time"

	"inventera/internal/domain"

	"gorm.io/gorm"
)

// ItemRepository defines the interface for inventory item data operations.
type ItemRepository interface {
	Create(item *domain.Item) error
	FindByID(id uint) (*domain.Item, error)
	ListOrdered() ([]domain.Item, error)
	ListLowStock() ([]domain.Item, error)
	ListStale(before time.Time) ([]domain.Item, error)
	Count() (int64, error)
	Update(item *domain.Item) error
	Delete(id uint) error
}

// gormItemRepository implements ItemRepository using GORM.
type gormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GORM item repository.
func NewGormItemRepository(db *gorm.DB) ItemRepository {
	return &gormItemRepository{db: db}
}

func (r *gormItemRepository) Create(item *domain.Item) error {
	return r.db.Create(item).Error
}

func (r *gormItemRepository) FindByID(id uint) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListOrdered returns every item ordered by category, then name. The
// inventory service relies on this ordering for stable page windows.
func (r *gormItemRepository) ListOrdered() ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.Order("category asc, name asc").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListLowStock returns items at or below their alert threshold. Items with
// either quantity missing are excluded.
func (r *gormItemRepository) ListLowStock() ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.
		Where("quantity IS NOT NULL AND alert_quantity IS NOT NULL").
		Where("quantity <= alert_quantity").
		Order("category asc, name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListStale returns items last checked before the given time, or never.
func (r *gormItemRepository) ListStale(before time.Time) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.
		Where("last_checked <= ? OR last_checked IS NULL", before).
		Order("category asc, name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormItemRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Item{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gormItemRepository) Update(item *domain.Item) error {
	return r.db.Save(item).Error
}

// Delete removes the row for good. A soft delete would keep the unique name
// index occupied and block re-adding an item with the same name.
func (r *gormItemRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&domain.Item{}, id).Error
}
