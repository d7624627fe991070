package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// isAJAX reports whether the request came from the frontend's fetch layer.
// AJAX requests get a JSON status object, plain form posts get a redirect.
func isAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// respond answers a form endpoint: JSON {status, message} for AJAX requests,
// a redirect otherwise. redirectURL falls back to "/".
func (s *Server) respond(w http.ResponseWriter, r *http.Request, success bool, message, redirectURL string) {
	if isAJAX(r) {
		status := "success"
		code := http.StatusOK
		if !success {
			status = "error"
			code = http.StatusBadRequest
		}
		respondWithJSON(w, code, map[string]string{"status": status, "message": message})
		return
	}
	if redirectURL == "" {
		redirectURL = "/"
	}
	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"status": "error", "message": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
