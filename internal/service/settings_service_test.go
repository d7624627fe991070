package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventera/internal/domain"
	"inventera/internal/gtasks"
)

type fakeAuthStatus struct {
	hasToken bool
}

func (a *fakeAuthStatus) HasToken() bool { return a.hasToken }

type fakeTasklistLister struct {
	tasklists []gtasks.Tasklist
	err       error
}

func (l *fakeTasklistLister) ListTasklists(ctx context.Context) ([]gtasks.Tasklist, error) {
	return l.tasklists, l.err
}

func TestSettingsOverview(t *testing.T) {
	mappings := newFakeMappingRepo()
	settings := newFakeSettingsRepo()
	require.NoError(t, mappings.Create(&domain.CategoryTaskMapping{
		Category:     "Mejeri",
		TasklistID:   "dairy-list",
		TasklistName: "Mejerivaror",
	}))
	require.NoError(t, settings.Set(domain.SettingDefaultTasklistID, "default-list"))
	require.NoError(t, settings.Set(domain.SettingDefaultTasklistName, "Inköp"))

	lister := &fakeTasklistLister{tasklists: []gtasks.Tasklist{{ID: "default-list", Title: "Inköp"}}}
	svc := NewSettingsService(mappings, settings, &fakeAuthStatus{hasToken: true}, lister)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.True(t, overview.Authenticated)
	require.Len(t, overview.Mappings, 1)
	assert.Equal(t, "Mejeri", overview.Mappings[0].Category)
	require.NotNil(t, overview.DefaultTasklist)
	assert.Equal(t, "default-list", overview.DefaultTasklist.TasklistID)
	assert.Len(t, overview.Tasklists, 1)
}

func TestSettingsOverviewUnauthenticated(t *testing.T) {
	svc := NewSettingsService(newFakeMappingRepo(), newFakeSettingsRepo(),
		&fakeAuthStatus{}, &fakeTasklistLister{})

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.False(t, overview.Authenticated)
	assert.Nil(t, overview.DefaultTasklist)
	assert.Empty(t, overview.Tasklists)
}

func TestSettingsOverviewSurvivesTasklistError(t *testing.T) {
	lister := &fakeTasklistLister{err: errors.New("api down")}
	svc := NewSettingsService(newFakeMappingRepo(), newFakeSettingsRepo(),
		&fakeAuthStatus{hasToken: true}, lister)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Empty(t, overview.Tasklists)
}

func TestUpsertMapping(t *testing.T) {
	mappings := newFakeMappingRepo()
	svc := NewSettingsService(mappings, newFakeSettingsRepo(), &fakeAuthStatus{}, &fakeTasklistLister{})

	require.NoError(t, svc.UpsertMapping(context.Background(), "Mejeri", "list-1", "Mejerivaror"))

	mapping, err := mappings.FindByCategory("Mejeri")
	require.NoError(t, err)
	assert.Equal(t, "list-1", mapping.TasklistID)

	// Second upsert updates in place, one mapping per category.
	require.NoError(t, svc.UpsertMapping(context.Background(), "Mejeri", "list-2", "Mejerihyllan"))

	all, err := mappings.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "list-2", all[0].TasklistID)
}

func TestUpsertMappingRequiresFields(t *testing.T) {
	svc := NewSettingsService(newFakeMappingRepo(), newFakeSettingsRepo(),
		&fakeAuthStatus{}, &fakeTasklistLister{})

	assert.Error(t, svc.UpsertMapping(context.Background(), "", "list-1", "Namn"))
	assert.Error(t, svc.UpsertMapping(context.Background(), "Mejeri", "", "Namn"))
}

func TestSetDefaultTasklist(t *testing.T) {
	settings := newFakeSettingsRepo()
	svc := NewSettingsService(newFakeMappingRepo(), settings, &fakeAuthStatus{}, &fakeTasklistLister{})

	require.NoError(t, svc.SetDefaultTasklist(context.Background(), "default-list", "Inköp"))

	id, err := settings.Get(domain.SettingDefaultTasklistID)
	require.NoError(t, err)
	assert.Equal(t, "default-list", id)
	name, err := settings.Get(domain.SettingDefaultTasklistName)
	require.NoError(t, err)
	assert.Equal(t, "Inköp", name)
}

func TestDeleteMapping(t *testing.T) {
	mappings := newFakeMappingRepo()
	svc := NewSettingsService(mappings, newFakeSettingsRepo(), &fakeAuthStatus{}, &fakeTasklistLister{})

	mapping := &domain.CategoryTaskMapping{Category: "Mejeri", TasklistID: "l", TasklistName: "n"}
	require.NoError(t, mappings.Create(mapping))

	category, err := svc.DeleteMapping(context.Background(), mapping.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mejeri", category)

	_, err = svc.DeleteMapping(context.Background(), mapping.ID)
	assert.ErrorIs(t, err, ErrMappingNotFound)
}
