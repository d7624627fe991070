package repository

import (
	"errors"

	"inventera/internal/domain"

	"gorm.io/gorm"
)

// SettingsRepository defines the interface for the key-value settings store.
// Get returns the empty string for keys that are missing or cleared, so
// callers only need to check for "".
type SettingsRepository interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Clear(key string) error
}

// gormSettingsRepository implements SettingsRepository using GORM.
type gormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GORM settings repository.
func NewGormSettingsRepository(db *gorm.DB) SettingsRepository {
	return &gormSettingsRepository{db: db}
}

func (r *gormSettingsRepository) Get(key string) (string, error) {
	var setting domain.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	if setting.Value == nil {
		return "", nil
	}
	return *setting.Value, nil
}

// Set upserts the value for a key.
func (r *gormSettingsRepository) Set(key, value string) error {
	var setting domain.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(&domain.Setting{Key: key, Value: &value}).Error
		}
		return err
	}
	setting.Value = &value
	return r.db.Save(&setting).Error
}

// Clear nulls out the value for a key. Clearing an absent key is a no-op.
func (r *gormSettingsRepository) Clear(key string) error {
	var setting domain.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	setting.Value = nil
	return r.db.Save(&setting).Error
}
