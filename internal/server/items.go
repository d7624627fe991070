package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"inventera/internal/service"
)

// parseNonNegative parses a form value that must be a non-negative integer.
// Mirrors the frontend contract: digits only, no sign.
func parseNonNegative(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// optionalQuantity parses a quantity field that may be absent or invalid, in
// which case the field is left unchanged.
func optionalQuantity(s string) *int {
	if n, ok := parseNonNegative(s); ok {
		return &n
	}
	return nil
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := chi.URLParam(r, "page"); pageStr != "" {
		if n, err := strconv.Atoi(pageStr); err == nil {
			page = n
		}
	}

	result, err := s.inventory.ListPage(r.Context(), page, service.DefaultItemsPerPage)
	if err != nil {
		log.Printf("Error rendering inventory page: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Ett fel uppstod vid hämtning av data.")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) updateQuantityHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ogiltig förfrågan")
		return
	}

	itemID, err := strconv.ParseUint(r.PostFormValue("item_id"), 10, 64)
	if err != nil || itemID == 0 {
		s.respond(w, r, false, "Artikel hittades inte", "/")
		return
	}

	newQuantity, ok := parseNonNegative(r.PostFormValue("new_quantity"))
	if !ok {
		log.Printf("Invalid quantity: item_id: %d, new_quantity: %q", itemID, r.PostFormValue("new_quantity"))
		s.respond(w, r, false, "Antal måste vara ett positivt heltal", "/")
		return
	}

	item, err := s.inventory.UpdateQuantity(r.Context(), uint(itemID), newQuantity)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			log.Printf("Item not found: %d", itemID)
			s.respond(w, r, false, "Artikel hittades inte", "/")
			return
		}
		log.Printf("Error updating quantity: %v", err)
		s.respond(w, r, false, "Ett fel uppstod", "/")
		return
	}

	if isAJAX(r) {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":        "success",
			"item_id":       item.ID,
			"new_quantity":  newQuantity,
			"last_checked":  item.LastChecked,
			"row_color":     item.RowColor,
			"warning_color": item.WarningColor,
			"button_class":  "",
		})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) updateItemsHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ogiltig förfrågan")
		return
	}

	// Bulk updates: every update_item* key carries an item id, with the
	// field values in id-suffixed inputs.
	for key, values := range r.PostForm {
		if !strings.HasPrefix(key, "update_item") || len(values) == 0 {
			continue
		}
		itemID, err := strconv.ParseUint(values[0], 10, 64)
		if err != nil {
			continue
		}
		idStr := values[0]

		req := service.UpdateItemRequest{
			Name:          r.PostFormValue("name_" + idStr),
			Category:      r.PostFormValue("category_" + idStr),
			Unit:          r.PostFormValue("unit_" + idStr),
			Quantity:      optionalQuantity(r.PostFormValue("quantity_" + idStr)),
			AlertQuantity: optionalQuantity(r.PostFormValue("alert_quantity_" + idStr)),
		}

		item, err := s.inventory.UpdateItem(r.Context(), uint(itemID), req)
		if err != nil {
			if errors.Is(err, service.ErrItemNotFound) {
				continue
			}
			log.Printf("Error updating items: %v", err)
			s.respond(w, r, false, "Ett fel uppstod", "/inventory")
			return
		}

		if isAJAX(r) {
			respondWithJSON(w, http.StatusOK, map[string]interface{}{
				"status":        "success",
				"item_id":       item.ID,
				"item":          item,
				"row_color":     item.RowColor,
				"warning_color": item.WarningColor,
			})
			return
		}
	}

	if r.PostForm.Has("add_item") {
		req := service.AddItemRequest{
			Name:          r.PostFormValue("new_name"),
			Category:      r.PostFormValue("new_category"),
			Unit:          r.PostFormValue("new_unit"),
			Quantity:      optionalQuantity(r.PostFormValue("new_quantity")),
			AlertQuantity: optionalQuantity(r.PostFormValue("new_alert_quantity")),
		}

		if req.Name == "" || req.Unit == "" || req.Category == "" {
			s.respond(w, r, false, "Alla fält måste fyllas i", "/inventory")
			return
		}

		if _, err := s.inventory.AddItem(r.Context(), req); err != nil {
			log.Printf("Error adding item: %v", err)
			s.respond(w, r, false, "Ett fel uppstod", "/inventory")
			return
		}

		s.respond(w, r, true, "Artikel tillagd", "/inventory")
		return
	}

	http.Redirect(w, r, "/inventory", http.StatusSeeOther)
}

func (s *Server) removeItemHandler(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseUint(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil || itemID == 0 {
		s.respond(w, r, false, "Artikel hittades inte", "/inventory")
		return
	}

	log.Printf("Removing item with ID: %d", itemID)
	name, err := s.inventory.RemoveItem(r.Context(), uint(itemID))
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			s.respond(w, r, false, "Artikel hittades inte", "/inventory")
			return
		}
		log.Printf("Error removing item: %v", err)
		s.respond(w, r, false, "Ett fel uppstod", "/inventory")
		return
	}

	s.respond(w, r, true, "Artikel "+name+" borttagen", "/inventory")
}
