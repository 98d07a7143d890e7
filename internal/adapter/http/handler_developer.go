package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/usecase"
)

// DeveloperService is the developer use case surface the handler depends on
type DeveloperService interface {
	GetDeveloper(ctx context.Context, id string) (*domain.Developer, error)
	ListDevelopers(ctx context.Context, page, pageSize int) ([]*domain.Developer, int, error)
	CreateDeveloper(ctx context.Context, req usecase.DeveloperRequest, actor string) (*domain.Developer, error)
	UpdateDeveloper(ctx context.Context, id string, req usecase.DeveloperRequest, actor string) (*domain.Developer, error)
	DeleteDeveloper(ctx context.Context, id string, actor string) error
	GetTopDevelopers(ctx context.Context, limit int) ([]*domain.Developer, error)
}

// DeveloperHandler handles HTTP requests for developers
type DeveloperHandler struct {
	developers DeveloperService
}

// NewDeveloperHandler creates a new developer handler
func NewDeveloperHandler(developers DeveloperService) *DeveloperHandler {
	return &DeveloperHandler{developers: developers}
}

// RegisterRoutes registers developer routes
func (h *DeveloperHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/developers", h.CreateDeveloper).Methods("POST")
	router.HandleFunc("/api/v1/developers", h.ListDevelopers).Methods("GET")
	router.HandleFunc("/api/v1/developers/top", h.TopDevelopers).Methods("GET")
	router.HandleFunc("/api/v1/developers/{id}", h.GetDeveloper).Methods("GET")
	router.HandleFunc("/api/v1/developers/{id}", h.UpdateDeveloper).Methods("PUT")
	router.HandleFunc("/api/v1/developers/{id}", h.DeleteDeveloper).Methods("DELETE")
}

// CreateDeveloper handles developer creation
func (h *DeveloperHandler) CreateDeveloper(w http.ResponseWriter, r *http.Request) {
	var req usecase.DeveloperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Malformed JSON request: "+err.Error())
		return
	}

	developer, err := h.developers.CreateDeveloper(r.Context(), req, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, developer)
}

// GetDeveloper handles retrieving a single developer
func (h *DeveloperHandler) GetDeveloper(w http.ResponseWriter, r *http.Request) {
	developer, err := h.developers.GetDeveloper(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, developer)
}

// ListDevelopers handles listing developers with pagination
func (h *DeveloperHandler) ListDevelopers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	developers, total, err := h.developers.ListDevelopers(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"developers": developers,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}

// UpdateDeveloper handles developer updates
func (h *DeveloperHandler) UpdateDeveloper(w http.ResponseWriter, r *http.Request) {
	var req usecase.DeveloperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Malformed JSON request: "+err.Error())
		return
	}

	developer, err := h.developers.UpdateDeveloper(r.Context(), mux.Vars(r)["id"], req, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, developer)
}

// DeleteDeveloper handles developer deletion
func (h *DeveloperHandler) DeleteDeveloper(w http.ResponseWriter, r *http.Request) {
	if err := h.developers.DeleteDeveloper(r.Context(), mux.Vars(r)["id"], actorFrom(r)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TopDevelopers handles listing developers with the most assigned tasks
func (h *DeveloperHandler) TopDevelopers(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	developers, err := h.developers.GetTopDevelopers(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, developers)
}
