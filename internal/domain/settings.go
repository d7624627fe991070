package domain

import "gorm.io/gorm"

// Setting is one row of the generic key-value settings store. Value is a
// pointer so a key can be explicitly cleared without deleting the row.
type Setting struct {
	gorm.Model
	Key   string  `gorm:"size:64;not null;uniqueIndex"`
	Value *string `gorm:"type:text"`
}

// Setting keys used by the OAuth manager and the sync engine.
const (
	SettingClientID            = "google_client_id"
	SettingClientSecret        = "google_client_secret"
	SettingAccessToken         = "google_access_token"
	SettingRefreshToken        = "google_refresh_token"
	SettingDefaultTasklistID   = "default_tasklist_id"
	SettingDefaultTasklistName = "default_tasklist_name"
)

// CategoryTaskMapping associates an inventory category with a Google Tasks
// task list. One mapping per category; the default task list lives in the
// settings store instead.
type CategoryTaskMapping struct {
	gorm.Model
	Category     string `gorm:"size:32;not null;uniqueIndex"`
	TasklistID   string `gorm:"size:64;not null"`
	TasklistName string `gorm:"size:64;not null"`
}
