package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/usecase"
)

// AuditService is the audit query surface the handler depends on
type AuditService interface {
	ListEntries(ctx context.Context, q usecase.AuditQuery) (*domain.AuditPage, error)
}

// AuditHandler handles HTTP requests for the audit trail
type AuditHandler struct {
	entries AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(entries AuditService) *AuditHandler {
	return &AuditHandler{entries: entries}
}

// RegisterRoutes registers audit routes
func (h *AuditHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/logs", h.ListEntries).Methods("GET")
}

// ListEntries handles audit listing with optional filters, pagination and
// sorting. Timestamps are RFC3339.
func (h *AuditHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := usecase.AuditQuery{
		EntityKind:    params.Get("entity_kind"),
		ActorName:     params.Get("actor_name"),
		SortField:     params.Get("sort_field"),
		SortDirection: params.Get("sort_direction"),
	}

	if fromStr := params.Get("time_from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			writeBadRequest(w, "Invalid parameter value: 'time_from' must be an RFC3339 timestamp")
			return
		}
		q.TimeFrom = &from
	}
	if toStr := params.Get("time_to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			writeBadRequest(w, "Invalid parameter value: 'time_to' must be an RFC3339 timestamp")
			return
		}
		q.TimeTo = &to
	}

	if pageStr := params.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			writeBadRequest(w, "Invalid parameter value: 'page' must be an integer")
			return
		}
		q.Page = page
	}
	if sizeStr := params.Get("page_size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			writeBadRequest(w, "Invalid parameter value: 'page_size' must be an integer")
			return
		}
		q.PageSize = size
	}

	page, err := h.entries.ListEntries(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
