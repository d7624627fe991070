package repository

import (
	"inventera/internal/domain"

	"gorm.io/gorm"
)

// MappingRepository defines the interface for category-to-tasklist mappings.
type MappingRepository interface {
	Create(mapping *domain.CategoryTaskMapping) error
	FindByID(id uint) (*domain.CategoryTaskMapping, error)
	FindByCategory(category string) (*domain.CategoryTaskMapping, error)
	GetAll() ([]domain.CategoryTaskMapping, error)
	Update(mapping *domain.CategoryTaskMapping) error
	Delete(id uint) error
}

// gormMappingRepository implements MappingRepository using GORM.
type gormMappingRepository struct {
	db *gorm.DB
}

// NewGormMappingRepository creates a new GORM mapping repository.
func NewGormMappingRepository(db *gorm.DB) MappingRepository {
	return &gormMappingRepository{db: db}
}

func (r *gormMappingRepository) Create(mapping *domain.CategoryTaskMapping) error {
	return r.db.Create(mapping).Error
}

func (r *gormMappingRepository) FindByID(id uint) (*domain.CategoryTaskMapping, error) {
	var mapping domain.CategoryTaskMapping
	if err := r.db.First(&mapping, id).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *gormMappingRepository) FindByCategory(category string) (*domain.CategoryTaskMapping, error) {
	var mapping domain.CategoryTaskMapping
	err := r.db.Where("category = ?", category).First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *gormMappingRepository) GetAll() ([]domain.CategoryTaskMapping, error) {
	var mappings []domain.CategoryTaskMapping
	if err := r.db.Order("category asc").Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *gormMappingRepository) Update(mapping *domain.CategoryTaskMapping) error {
	return r.db.Save(mapping).Error
}

// Delete removes the row for good, freeing the category for a new mapping.
func (r *gormMappingRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&domain.CategoryTaskMapping{}, id).Error
}
