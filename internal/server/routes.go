package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.indexHandler)
	r.Get("/index", s.indexHandler)
	r.Get("/index/{page}", s.indexHandler)
	r.Get("/inventory", s.indexHandler)
	r.Get("/inventory/{page}", s.indexHandler)

	r.Post("/update_quantity", s.updateQuantityHandler)
	r.Post("/update_items", s.updateItemsHandler)
	r.Post("/remove_item/{itemID}", s.removeItemHandler)

	r.Get("/settings", s.settingsHandler)
	r.Post("/settings/credentials", s.saveCredentialsHandler)
	r.Post("/settings/credentials/remove", s.removeCredentialsHandler)
	r.Post("/settings/mapping", s.updateMappingHandler)
	r.Post("/settings/default", s.setDefaultHandler)
	r.Post("/settings/delete_mapping/{mappingID}", s.deleteMappingHandler)

	r.Post("/sync_tasks", s.syncTasksHandler)

	r.Get("/oauth/authorize", s.oauthAuthorizeHandler)
	r.Get("/oauth/callback", s.oauthCallbackHandler)
	r.Post("/oauth/revoke", s.oauthRevokeHandler)

	r.Get("/health", s.healthHandler)

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}
