package domain

import (
	"time"

	"gorm.io/gorm"
)

// Item is an inventory item. Quantity and AlertQuantity are pointers so a
// missing value can be told apart from zero; the presentation layer renders
// missing values grey.
type Item struct {
	gorm.Model
	Name          string `gorm:"size:32;not null;uniqueIndex"`
	Category      string `gorm:"size:32;not null"`
	Quantity      *int
	Unit          string `gorm:"size:16;not null"`
	AlertQuantity *int
	LastChecked   *time.Time
	TaskID        *string `gorm:"size:64"`
	AddedToTask   *time.Time
}

// LowStock reports whether the item is at or below its alert threshold.
// Items with either value missing are never considered low.
func (i *Item) LowStock() bool {
	if i.Quantity == nil || i.AlertQuantity == nil {
		return false
	}
	return *i.Quantity <= *i.AlertQuantity
}
