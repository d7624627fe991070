package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"inventera/internal/domain"
	"inventera/internal/repository"

	"gorm.io/gorm"
)

// staleAfter is how long an item may go unchecked before the staleness check
// reports it.
const staleAfter = 7 * 24 * time.Hour

// TasksClient is the part of the Google Tasks client used by the sync engine.
type TasksClient interface {
	Ready() error
	AddTask(ctx context.Context, tasklistID, title, notes string) (string, error)
	UpdateTask(ctx context.Context, tasklistID, taskID, title, notes string) error
}

// SyncService pushes low-stock items to the external task list and reports
// items that have gone unchecked for too long.
type SyncService interface {
	// SyncLowStock creates or updates one remote task per low-stock item.
	// Returns the number of synced items and per-item error messages; a
	// single item's failure never aborts the batch.
	SyncLowStock(ctx context.Context) (int, []string)

	// StaleItems returns items not checked within the staleness window.
	StaleItems(ctx context.Context) ([]domain.Item, error)
}

type syncService struct {
	items    repository.ItemRepository
	mappings repository.MappingRepository
	settings repository.SettingsRepository
	tasks    TasksClient
	now      func() time.Time
}

// NewSyncService creates a sync service.
func NewSyncService(
	items repository.ItemRepository,
	mappings repository.MappingRepository,
	settings repository.SettingsRepository,
	tasks TasksClient,
) SyncService {
	return &syncService{
		items:    items,
		mappings: mappings,
		settings: settings,
		tasks:    tasks,
		now:      time.Now,
	}
}

func (s *syncService) SyncLowStock(ctx context.Context) (int, []string) {
	synced := 0
	var errs []string

	if err := s.tasks.Ready(); err != nil {
		errs = append(errs, fmt.Sprintf("Google Tasks not authenticated: %v", err))
		return synced, errs
	}

	defaultTasklistID, err := s.settings.Get(domain.SettingDefaultTasklistID)
	if err != nil {
		errs = append(errs, fmt.Sprintf("General error: %v", err))
		return synced, errs
	}
	defaultTasklistName, err := s.settings.Get(domain.SettingDefaultTasklistName)
	if err != nil {
		errs = append(errs, fmt.Sprintf("General error: %v", err))
		return synced, errs
	}
	if defaultTasklistID == "" || defaultTasklistName == "" {
		errs = append(errs, "No default task list configured.")
		return synced, errs
	}

	items, err := s.items.ListLowStock()
	if err != nil {
		errs = append(errs, fmt.Sprintf("General error: %v", err))
		return synced, errs
	}
	log.Printf("Found %d items below alert threshold.", len(items))

	for i := range items {
		item := &items[i]

		// Already synced and not touched since.
		if item.TaskID != nil && item.AddedToTask != nil && item.LastChecked != nil &&
			!item.LastChecked.After(*item.AddedToTask) {
			continue
		}

		tasklistID := defaultTasklistID
		mapping, err := s.mappings.FindByCategory(item.Category)
		if err == nil {
			tasklistID = mapping.TasklistID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			errs = append(errs, fmt.Sprintf("Error syncing %s: %v", item.Name, err))
			continue
		}

		title := item.Name
		notes := taskNotes(item)

		if item.TaskID != nil {
			err := s.tasks.UpdateTask(ctx, tasklistID, *item.TaskID, title, notes)
			if err != nil {
				// The remote task may have been completed or deleted;
				// fall through and create a fresh one.
				log.Printf("Failed to update task for %s, creating a new one: %v", item.Name, err)
				item.TaskID = nil
			} else {
				now := s.now()
				item.AddedToTask = &now
				synced++
			}
		}

		if item.TaskID == nil {
			taskID, err := s.tasks.AddTask(ctx, tasklistID, title, notes)
			if err != nil {
				errs = append(errs, fmt.Sprintf("Failed to create task for %s: %v", item.Name, err))
				continue
			}
			now := s.now()
			item.TaskID = &taskID
			item.AddedToTask = &now
			synced++
		}

		if err := s.items.Update(item); err != nil {
			errs = append(errs, fmt.Sprintf("Error syncing %s: %v", item.Name, err))
		}
	}

	return synced, errs
}

func (s *syncService) StaleItems(ctx context.Context) ([]domain.Item, error) {
	return s.items.ListStale(s.now().Add(-staleAfter))
}

// taskNotes builds the task description shown in Google Tasks. The labels are
// Swedish to match the existing tasks created by this application.
func taskNotes(item *domain.Item) string {
	lastChecked := "Aldrig"
	if item.LastChecked != nil {
		lastChecked = item.LastChecked.Format("2006-01-02")
	}
	return fmt.Sprintf("Kategori: %s\nNuvarande antal: %d %s\nLarmgräns: %d %s\nSenast kontrollerad: %s",
		item.Category, intValue(item.Quantity), item.Unit,
		intValue(item.AlertQuantity), item.Unit, lastChecked)
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
