package server

import (
	"errors"
	"log"
	"net/http"

	"inventera/internal/oauth"
)

func (s *Server) oauthAuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	authURL, err := s.oauth.AuthURL("")
	if err != nil {
		if errors.Is(err, oauth.ErrNotConfigured) {
			s.respond(w, r, false, "OAuth är inte konfigurerat", "/settings")
			return
		}
		log.Printf("Error building authorization URL: %v", err)
		s.respond(w, r, false, "Ett fel uppstod", "/settings")
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *Server) oauthCallbackHandler(w http.ResponseWriter, r *http.Request) {
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		log.Printf("OAuth callback returned error: %s", errMsg)
		s.respond(w, r, false, "Autentisering nekades", "/settings")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		s.respond(w, r, false, "Ingen autentiseringskod mottagen", "/settings")
		return
	}

	if _, err := s.oauth.Exchange(r.Context(), code); err != nil {
		log.Printf("Error fetching token: %v", err)
		s.respond(w, r, false, "Ett fel uppstod vid autentisering", "/settings")
		return
	}

	s.respond(w, r, true, "Autentisering lyckades", "/settings")
}

func (s *Server) oauthRevokeHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.oauth.Revoke(r.Context()); err != nil {
		if errors.Is(err, oauth.ErrNoToken) {
			s.respond(w, r, false, "Ingen token att återkalla", "/settings")
			return
		}
		log.Printf("Error revoking token: %v", err)
		s.respond(w, r, false, "Ett fel uppstod vid återkallning", "/settings")
		return
	}

	s.respond(w, r, true, "Åtkomst återkallad", "/settings")
}
