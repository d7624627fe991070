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

// DefaultItemsPerPage is the page size used when the caller passes an
// invalid one.
const DefaultItemsPerPage = 50

// ErrItemNotFound is returned when an item id does not exist.
var ErrItemNotFound = errors.New("item not found")

// ItemResponse is the standard representation of an item returned by the
// service, including its display classification.
type ItemResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Quantity      *int   `json:"quantity"`
	Unit          string `json:"unit"`
	AlertQuantity *int   `json:"alert_quantity"`
	LastChecked   string `json:"last_checked"`
	RowColor      string `json:"row_color"`
	WarningColor  string `json:"warning_color"`
}

// Pagination describes the position of a page within the full item set.
type Pagination struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
	TotalItems int64 `json:"total_items"`
}

// InventoryPage is one page of items grouped by category. Categories with no
// items on the page are omitted.
type InventoryPage struct {
	ItemsByCategory map[string][]ItemResponse `json:"items_by_category"`
	Pagination      Pagination                `json:"pagination"`
}

// AddItemRequest holds the data needed to create a new item. Name, unit and
// category are required; quantities default to zero when nil.
type AddItemRequest struct {
	Name          string
	Category      string
	Quantity      *int
	Unit          string
	AlertQuantity *int
}

// UpdateItemRequest holds field updates for an existing item. Nil or empty
// fields are left unchanged.
type UpdateItemRequest struct {
	Name          string
	Category      string
	Quantity      *int
	Unit          string
	AlertQuantity *int
}

// InventoryService contains the inventory business logic.
type InventoryService interface {
	// ListPage returns the requested page of items grouped by category.
	// Invalid page or perPage fall back to 1 and DefaultItemsPerPage.
	ListPage(ctx context.Context, page, perPage int) (*InventoryPage, error)

	// UpdateQuantity sets an item's quantity and refreshes its check time.
	UpdateQuantity(ctx context.Context, itemID uint, quantity int) (*ItemResponse, error)

	// UpdateItem applies field updates and refreshes the check time.
	UpdateItem(ctx context.Context, itemID uint, req UpdateItemRequest) (*ItemResponse, error)

	// AddItem creates a new item.
	AddItem(ctx context.Context, req AddItemRequest) (*ItemResponse, error)

	// RemoveItem deletes an item and returns its name.
	RemoveItem(ctx context.Context, itemID uint) (string, error)
}

type inventoryService struct {
	repo repository.ItemRepository
	now  func() time.Time
}

// NewInventoryService creates an inventory service on top of the given
// repository.
func NewInventoryService(repo repository.ItemRepository) InventoryService {
	return &inventoryService{repo: repo, now: time.Now}
}

func (s *inventoryService) ListPage(ctx context.Context, page, perPage int) (*InventoryPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultItemsPerPage
	}

	// Already ordered by category then name, so a single window over the
	// whole slice is the page.
	items, err := s.repo.ListOrdered()
	if err != nil {
		log.Printf("Error listing items: %v", err)
		return nil, errors.New("failed to retrieve items")
	}
	totalItems, err := s.repo.Count()
	if err != nil {
		log.Printf("Error counting items: %v", err)
		return nil, errors.New("failed to retrieve items")
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	byCategory := make(map[string][]ItemResponse)
	now := s.now()
	for _, item := range items[start:end] {
		if item.Category == "" {
			continue
		}
		byCategory[item.Category] = append(byCategory[item.Category], s.toResponse(&item, now))
	}

	return &InventoryPage{
		ItemsByCategory: byCategory,
		Pagination: Pagination{
			Page:       page,
			TotalPages: totalPages,
			HasPrev:    page > 1,
			HasNext:    page < totalPages,
			TotalItems: totalItems,
		},
	}, nil
}

func (s *inventoryService) UpdateQuantity(ctx context.Context, itemID uint, quantity int) (*ItemResponse, error) {
	item, err := s.find(itemID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item.Quantity = &quantity
	item.LastChecked = &now

	if err := s.repo.Update(item); err != nil {
		log.Printf("Error updating quantity for item %d: %v", itemID, err)
		return nil, errors.New("failed to update item")
	}

	resp := s.toResponse(item, now)
	return &resp, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, itemID uint, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.find(itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.Quantity != nil {
		item.Quantity = req.Quantity
	}
	if req.AlertQuantity != nil {
		item.AlertQuantity = req.AlertQuantity
	}
	now := s.now()
	item.LastChecked = &now

	if err := s.repo.Update(item); err != nil {
		log.Printf("Error updating item %d: %v", itemID, err)
		return nil, errors.New("failed to update item")
	}

	resp := s.toResponse(item, now)
	return &resp, nil
}

func (s *inventoryService) AddItem(ctx context.Context, req AddItemRequest) (*ItemResponse, error) {
	if req.Name == "" || req.Unit == "" || req.Category == "" {
		return nil, errors.New("name, unit and category are required")
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	alertQuantity := 0
	if req.AlertQuantity != nil {
		alertQuantity = *req.AlertQuantity
	}

	now := s.now()
	item := &domain.Item{
		Name:          req.Name,
		Category:      req.Category,
		Quantity:      &quantity,
		Unit:          req.Unit,
		AlertQuantity: &alertQuantity,
		LastChecked:   &now,
	}

	if err := s.repo.Create(item); err != nil {
		log.Printf("Error creating item %q: %v", req.Name, err)
		return nil, errors.New("failed to create item")
	}

	resp := s.toResponse(item, now)
	return &resp, nil
}

func (s *inventoryService) RemoveItem(ctx context.Context, itemID uint) (string, error) {
	item, err := s.find(itemID)
	if err != nil {
		return "", err
	}

	if err := s.repo.Delete(itemID); err != nil {
		log.Printf("Error deleting item %d: %v", itemID, err)
		return "", errors.New("failed to delete item")
	}

	return item.Name, nil
}

func (s *inventoryService) find(itemID uint) (*domain.Item, error) {
	item, err := s.repo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %d: %w", itemID, ErrItemNotFound)
		}
		log.Printf("Error fetching item %d: %v", itemID, err)
		return nil, errors.New("failed to retrieve item")
	}
	return item, nil
}

func (s *inventoryService) toResponse(item *domain.Item, now time.Time) ItemResponse {
	lastChecked := ""
	if item.LastChecked != nil {
		lastChecked = item.LastChecked.Format("02/01")
	}
	return ItemResponse{
		ID:            item.ID,
		Name:          item.Name,
		Category:      item.Category,
		Quantity:      item.Quantity,
		Unit:          item.Unit,
		AlertQuantity: item.AlertQuantity,
		LastChecked:   lastChecked,
		RowColor:      RowColor(now, item.LastChecked),
		WarningColor:  WarningColor(item.Quantity, item.AlertQuantity),
	}
}
