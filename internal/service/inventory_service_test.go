package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inventera/internal/domain"
)

// fakeItemRepo is an in-memory ItemRepository.
type fakeItemRepo struct {
	items  map[uint]domain.Item
	nextID uint
	err    error
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uint]domain.Item), nextID: 1}
}

func (r *fakeItemRepo) Create(item *domain.Item) error {
	if r.err != nil {
		return r.err
	}
	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) FindByID(id uint) (*domain.Item, error) {
	if r.err != nil {
		return nil, r.err
	}
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (r *fakeItemRepo) ListOrdered() ([]domain.Item, error) {
	if r.err != nil {
		return nil, r.err
	}
	items := make([]domain.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (r *fakeItemRepo) ListLowStock() ([]domain.Item, error) {
	all, err := r.ListOrdered()
	if err != nil {
		return nil, err
	}
	var low []domain.Item
	for _, item := range all {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

func (r *fakeItemRepo) ListStale(before time.Time) ([]domain.Item, error) {
	all, err := r.ListOrdered()
	if err != nil {
		return nil, err
	}
	var stale []domain.Item
	for _, item := range all {
		if item.LastChecked == nil || !item.LastChecked.After(before) {
			stale = append(stale, item)
		}
	}
	return stale, nil
}

func (r *fakeItemRepo) Count() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.items)), nil
}

func (r *fakeItemRepo) Update(item *domain.Item) error {
	if r.err != nil {
		return r.err
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) Delete(id uint) error {
	if r.err != nil {
		return r.err
	}
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepo) seed(name, category string, quantity, alertQuantity int, lastChecked *time.Time) uint {
	item := domain.Item{
		Name:          name,
		Category:      category,
		Quantity:      &quantity,
		Unit:          "st",
		AlertQuantity: &alertQuantity,
		LastChecked:   lastChecked,
	}
	_ = r.Create(&item)
	return item.ID
}

func newTestInventoryService(repo *fakeItemRepo, now time.Time) InventoryService {
	return &inventoryService{repo: repo, now: func() time.Time { return now }}
}

func TestListPageRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeItemRepo()

	// Insert out of order so the test depends on the repository ordering.
	repo.seed("Tvål", "Hygien", 2, 1, &now)
	repo.seed("Mjölk", "Mejeri", 3, 2, &now)
	repo.seed("Smör", "Mejeri", 1, 1, &now)
	repo.seed("Ost", "Mejeri", 5, 1, &now)
	repo.seed("Pasta", "Skafferi", 4, 2, &now)
	repo.seed("Ris", "Skafferi", 2, 1, &now)
	repo.seed("Schampo", "Hygien", 1, 2, &now)

	svc := newTestInventoryService(repo, now)

	perPage := 3
	var collected []string
	for page := 1; ; page++ {
		result, err := svc.ListPage(context.Background(), page, perPage)
		require.NoError(t, err)
		assert.Equal(t, page, result.Pagination.Page)
		assert.Equal(t, 3, result.Pagination.TotalPages)
		assert.Equal(t, int64(7), result.Pagination.TotalItems)
		assert.Equal(t, page > 1, result.Pagination.HasPrev)
		assert.Equal(t, page < result.Pagination.TotalPages, result.Pagination.HasNext)

		// No category appears on a page without items.
		categories := make([]string, 0, len(result.ItemsByCategory))
		for category, items := range result.ItemsByCategory {
			assert.NotEmpty(t, items)
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			for _, item := range result.ItemsByCategory[category] {
				collected = append(collected, item.Name)
			}
		}

		if !result.Pagination.HasNext {
			break
		}
	}

	// Concatenating all pages reproduces the full grouped, name-sorted set
	// exactly once.
	assert.Equal(t, []string{
		"Schampo", "Tvål", // Hygien
		"Mjölk", "Ost", "Smör", // Mejeri
		"Pasta", "Ris", // Skafferi
	}, collected)
}

func TestListPageInvalidInputsFallBack(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeItemRepo()
	repo.seed("Mjölk", "Mejeri", 3, 2, &now)

	svc := newTestInventoryService(repo, now)

	result, err := svc.ListPage(context.Background(), 0, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, 1, result.Pagination.TotalPages)
	assert.Len(t, result.ItemsByCategory["Mejeri"], 1)
}

func TestListPageBeyondLastPageIsEmpty(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeItemRepo()
	repo.seed("Mjölk", "Mejeri", 3, 2, &now)

	svc := newTestInventoryService(repo, now)

	result, err := svc.ListPage(context.Background(), 5, 50)
	require.NoError(t, err)
	assert.Empty(t, result.ItemsByCategory)
	assert.Equal(t, 5, result.Pagination.Page)
	assert.True(t, result.Pagination.HasPrev)
	assert.False(t, result.Pagination.HasNext)
}

func TestListPageEmptyInventory(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestInventoryService(newFakeItemRepo(), now)

	result, err := svc.ListPage(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Empty(t, result.ItemsByCategory)
	assert.Equal(t, 1, result.Pagination.TotalPages)
	assert.Equal(t, int64(0), result.Pagination.TotalItems)
}

func TestListPageClassifiesItems(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	twoDaysAgo := now.Add(-48 * time.Hour)

	repo := newFakeItemRepo()
	repo.seed("Mjölk", "Mejeri", 1, 2, &twoDaysAgo)

	svc := newTestInventoryService(repo, now)

	result, err := svc.ListPage(context.Background(), 1, 50)
	require.NoError(t, err)
	require.Len(t, result.ItemsByCategory["Mejeri"], 1)

	item := result.ItemsByCategory["Mejeri"][0]
	assert.Equal(t, "#ff0000aa", item.WarningColor)
	assert.Equal(t, "#ff9800aa", item.RowColor)
	assert.Equal(t, "08/03", item.LastChecked)
}

func TestUpdateQuantityRefreshesLastChecked(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	old := now.Add(-10 * 24 * time.Hour)

	repo := newFakeItemRepo()
	id := repo.seed("Mjölk", "Mejeri", 1, 2, &old)

	svc := newTestInventoryService(repo, now)

	resp, err := svc.UpdateQuantity(context.Background(), id, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, *resp.Quantity)
	assert.Equal(t, "#00ff00aa", resp.RowColor)
	assert.Equal(t, "#00ff00aa", resp.WarningColor)

	stored, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, now, *stored.LastChecked)
}

func TestUpdateQuantityNotFound(t *testing.T) {
	svc := newTestInventoryService(newFakeItemRepo(), time.Now())

	_, err := svc.UpdateQuantity(context.Background(), 42, 5)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateItemAppliesOnlyProvidedFields(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeItemRepo()
	id := repo.seed("Mjölk", "Mejeri", 3, 2, &now)

	svc := newTestInventoryService(repo, now)

	_, err := svc.UpdateItem(context.Background(), id, UpdateItemRequest{
		AlertQuantity: intPtr(4),
	})
	require.NoError(t, err)

	stored, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Mjölk", stored.Name)
	assert.Equal(t, "Mejeri", stored.Category)
	assert.Equal(t, 3, *stored.Quantity)
	assert.Equal(t, 4, *stored.AlertQuantity)
}

func TestAddItemRequiresFields(t *testing.T) {
	svc := newTestInventoryService(newFakeItemRepo(), time.Now())

	_, err := svc.AddItem(context.Background(), AddItemRequest{Name: "Mjölk"})
	assert.Error(t, err)
}

func TestAddItemDefaultsQuantitiesToZero(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := newFakeItemRepo()
	svc := newTestInventoryService(repo, now)

	resp, err := svc.AddItem(context.Background(), AddItemRequest{
		Name:     "Mjölk",
		Category: "Mejeri",
		Unit:     "liter",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, *resp.Quantity)
	assert.Equal(t, 0, *resp.AlertQuantity)
	// 0 == 0: new items with no quantities sit at the threshold.
	assert.Equal(t, "#ff9800aa", resp.WarningColor)
}

func TestRemoveItem(t *testing.T) {
	repo := newFakeItemRepo()
	now := time.Now()
	id := repo.seed("Mjölk", "Mejeri", 3, 2, &now)

	svc := newTestInventoryService(repo, now)

	name, err := svc.RemoveItem(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Mjölk", name)

	_, err = svc.RemoveItem(context.Background(), id)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestListPageRepositoryError(t *testing.T) {
	repo := newFakeItemRepo()
	repo.err = errors.New("boom")

	svc := newTestInventoryService(repo, time.Now())

	_, err := svc.ListPage(context.Background(), 1, 50)
	assert.Error(t, err)
}
