package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"inventera/internal/domain"
	"inventera/internal/gtasks"
	"inventera/internal/repository"

	"gorm.io/gorm"
)

// ErrMappingNotFound is returned when a mapping id does not exist.
var ErrMappingNotFound = errors.New("mapping not found")

// AuthStatus reports whether the Google integration holds a token.
// Implemented by oauth.Google.
type AuthStatus interface {
	HasToken() bool
}

// TasklistLister lists the available remote task lists.
type TasklistLister interface {
	ListTasklists(ctx context.Context) ([]gtasks.Tasklist, error)
}

// MappingResponse is the representation of a category mapping returned by
// the service.
type MappingResponse struct {
	ID           uint   `json:"id"`
	Category     string `json:"category"`
	TasklistID   string `json:"tasklist_id"`
	TasklistName string `json:"tasklist_name"`
}

// DefaultTasklist is the fallback task list used for categories without a
// mapping of their own.
type DefaultTasklist struct {
	TasklistID   string `json:"tasklist_id"`
	TasklistName string `json:"tasklist_name"`
}

// SettingsOverview is everything the settings page needs.
type SettingsOverview struct {
	Authenticated   bool              `json:"authenticated"`
	Mappings        []MappingResponse `json:"mappings"`
	DefaultTasklist *DefaultTasklist  `json:"default_tasklist"`
	Tasklists       []gtasks.Tasklist `json:"tasklists"`
}

// SettingsService manages category mappings and the default task list.
type SettingsService interface {
	Overview(ctx context.Context) (*SettingsOverview, error)
	UpsertMapping(ctx context.Context, category, tasklistID, tasklistName string) error
	SetDefaultTasklist(ctx context.Context, tasklistID, tasklistName string) error

	// DeleteMapping removes a mapping and returns its category.
	DeleteMapping(ctx context.Context, id uint) (string, error)
}

type settingsService struct {
	mappings  repository.MappingRepository
	settings  repository.SettingsRepository
	auth      AuthStatus
	tasklists TasklistLister
}

// NewSettingsService creates a settings service.
func NewSettingsService(
	mappings repository.MappingRepository,
	settings repository.SettingsRepository,
	auth AuthStatus,
	tasklists TasklistLister,
) SettingsService {
	return &settingsService{
		mappings:  mappings,
		settings:  settings,
		auth:      auth,
		tasklists: tasklists,
	}
}

func (s *settingsService) Overview(ctx context.Context) (*SettingsOverview, error) {
	mappings, err := s.mappings.GetAll()
	if err != nil {
		log.Printf("Error listing mappings: %v", err)
		return nil, errors.New("failed to retrieve mappings")
	}

	responses := make([]MappingResponse, 0, len(mappings))
	for _, m := range mappings {
		responses = append(responses, MappingResponse{
			ID:           m.ID,
			Category:     m.Category,
			TasklistID:   m.TasklistID,
			TasklistName: m.TasklistName,
		})
	}

	overview := &SettingsOverview{
		Authenticated: s.auth.HasToken(),
		Mappings:      responses,
		Tasklists:     []gtasks.Tasklist{},
	}

	defaultID, err := s.settings.Get(domain.SettingDefaultTasklistID)
	if err != nil {
		return nil, err
	}
	defaultName, err := s.settings.Get(domain.SettingDefaultTasklistName)
	if err != nil {
		return nil, err
	}
	if defaultID != "" && defaultName != "" {
		overview.DefaultTasklist = &DefaultTasklist{
			TasklistID:   defaultID,
			TasklistName: defaultName,
		}
	}

	if overview.Authenticated {
		tasklists, err := s.tasklists.ListTasklists(ctx)
		if err != nil {
			// The settings page is still useful without the live list.
			log.Printf("Error fetching task lists: %v", err)
		} else {
			overview.Tasklists = tasklists
		}
	}

	return overview, nil
}

func (s *settingsService) UpsertMapping(ctx context.Context, category, tasklistID, tasklistName string) error {
	if category == "" || tasklistID == "" || tasklistName == "" {
		return errors.New("category, tasklist id and tasklist name are required")
	}

	mapping, err := s.mappings.FindByCategory(category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.mappings.Create(&domain.CategoryTaskMapping{
				Category:     category,
				TasklistID:   tasklistID,
				TasklistName: tasklistName,
			})
		}
		return err
	}

	mapping.TasklistID = tasklistID
	mapping.TasklistName = tasklistName
	return s.mappings.Update(mapping)
}

func (s *settingsService) SetDefaultTasklist(ctx context.Context, tasklistID, tasklistName string) error {
	if tasklistID == "" || tasklistName == "" {
		return errors.New("tasklist id and tasklist name are required")
	}
	if err := s.settings.Set(domain.SettingDefaultTasklistID, tasklistID); err != nil {
		return err
	}
	return s.settings.Set(domain.SettingDefaultTasklistName, tasklistName)
}

func (s *settingsService) DeleteMapping(ctx context.Context, id uint) (string, error) {
	mapping, err := s.mappings.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("mapping %d: %w", id, ErrMappingNotFound)
		}
		return "", err
	}
	if err := s.mappings.Delete(id); err != nil {
		return "", err
	}
	return mapping.Category, nil
}
