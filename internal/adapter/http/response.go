package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/projectpulse/projectpulse/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// writeError maps domain error kinds to HTTP statuses: business-rule
// violations are 422, missing resources 404, anything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "An unexpected error occurred. Please try again later."

	switch {
	case domain.IsValidation(err):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case domain.IsNotFound(err):
		status = http.StatusNotFound
		message = err.Error()
	}

	writeJSON(w, status, map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    status,
		"error":     http.StatusText(status),
		"message":   message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    http.StatusBadRequest,
		"error":     http.StatusText(http.StatusBadRequest),
		"message":   message,
	})
}

// actorFrom extracts the optional actor name attached to a mutation.
// Identity is not verified here; an absent actor is recorded as SYSTEM
// further down the pipeline.
func actorFrom(r *http.Request) string {
	return r.Header.Get("X-Actor-Name")
}
