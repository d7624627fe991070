package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"inventera/internal/service"
)

func (s *Server) settingsHandler(w http.ResponseWriter, r *http.Request) {
	overview, err := s.settings.Overview(r.Context())
	if err != nil {
		log.Printf("Error rendering settings page: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Ett fel uppstod vid hämtning av inställningar.")
		return
	}
	respondWithJSON(w, http.StatusOK, overview)
}

func (s *Server) saveCredentialsHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ogiltig förfrågan")
		return
	}

	clientID := strings.TrimSpace(r.PostFormValue("client_id"))
	clientSecret := strings.TrimSpace(r.PostFormValue("client_secret"))
	if clientID == "" || clientSecret == "" {
		s.respond(w, r, false, "Alla fält måste anges", "/settings")
		return
	}

	if err := s.oauth.SaveCredentials(clientID, clientSecret); err != nil {
		log.Printf("Error saving credentials: %v", err)
		s.respond(w, r, false, "Ett fel uppstod vid sparande av uppgifter", "/settings")
		return
	}

	s.respond(w, r, true, "Uppgifter sparade", "/settings")
}

func (s *Server) removeCredentialsHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.oauth.RemoveCredentials(); err != nil {
		log.Printf("Error removing credentials: %v", err)
		s.respond(w, r, false, "Ett fel uppstod vid borttagning av uppgifter", "/settings")
		return
	}
	s.respond(w, r, true, "Uppgifter borttagna", "/settings")
}

func (s *Server) updateMappingHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ogiltig förfrågan")
		return
	}

	category := r.PostFormValue("category")
	tasklistID := r.PostFormValue("tasklist_id")
	tasklistName := r.PostFormValue("tasklist_name")
	if category == "" || tasklistID == "" || tasklistName == "" {
		s.respond(w, r, false, "Alla fält måste anges", "/settings")
		return
	}

	if err := s.settings.UpsertMapping(r.Context(), category, tasklistID, tasklistName); err != nil {
		log.Printf("Error updating mapping: %v", err)
		s.respond(w, r, false, "Ett fel uppstod vid uppdatering av mappning", "/settings")
		return
	}

	s.respond(w, r, true, fmt.Sprintf("Mappning för %s uppdaterad", category), "/settings")
}

func (s *Server) setDefaultHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Ogiltig förfrågan")
		return
	}

	tasklistID := r.PostFormValue("tasklist_id")
	tasklistName := r.PostFormValue("tasklist_name")
	if tasklistID == "" || tasklistName == "" {
		s.respond(w, r, false, "Alla fält måste anges", "/settings")
		return
	}

	if err := s.settings.SetDefaultTasklist(r.Context(), tasklistID, tasklistName); err != nil {
		log.Printf("Error setting default task list: %v", err)
		s.respond(w, r, false, "Ett fel uppstod vid uppdatering av standarduppgiftslista", "/settings")
		return
	}

	s.respond(w, r, true, "Standarduppgiftslista uppdaterad", "/settings")
}

func (s *Server) deleteMappingHandler(w http.ResponseWriter, r *http.Request) {
	mappingID, err := strconv.ParseUint(chi.URLParam(r, "mappingID"), 10, 64)
	if err != nil || mappingID == 0 {
		s.respond(w, r, false, "Mappning hittades inte", "/settings")
		return
	}

	category, err := s.settings.DeleteMapping(r.Context(), uint(mappingID))
	if err != nil {
		if errors.Is(err, service.ErrMappingNotFound) {
			s.respond(w, r, false, "Mappning hittades inte", "/settings")
			return
		}
		log.Printf("Error deleting mapping: %v", err)
		s.respond(w, r, false, "Ett fel uppstod vid borttagning av mappning", "/settings")
		return
	}

	s.respond(w, r, true, fmt.Sprintf("Mappning för %s borttagen", category), "/settings")
}

func (s *Server) syncTasksHandler(w http.ResponseWriter, r *http.Request) {
	synced, syncErrors := s.sync.SyncLowStock(r.Context())

	if len(syncErrors) > 0 {
		errorMessage := strings.Join(syncErrors, "\n")
		log.Printf("Errors during sync: %s", errorMessage)

		if isAJAX(r) {
			respondWithJSON(w, http.StatusOK, map[string]string{
				"status":  "partial",
				"message": fmt.Sprintf("Synkade %d artiklar med fel: %s", synced, errorMessage),
			})
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.respond(w, r, true, fmt.Sprintf("Synkade %d artiklar till Google Tasks", synced), "/")
}
