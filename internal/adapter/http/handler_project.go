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

// ProjectService is the project use case surface the handler depends on
type ProjectService interface {
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context, page, pageSize int) ([]*domain.Project, int, error)
	CreateProject(ctx context.Context, req usecase.CreateProjectRequest, actor string) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, req usecase.UpdateProjectRequest, actor string) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string, actor string) error
	FindProjectsWithoutTasks(ctx context.Context) ([]*domain.Project, error)
}

// ProjectHandler handles HTTP requests for projects
type ProjectHandler struct {
	projects ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// RegisterRoutes registers project routes
func (h *ProjectHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/projects", h.CreateProject).Methods("POST")
	router.HandleFunc("/api/v1/projects", h.ListProjects).Methods("GET")
	router.HandleFunc("/api/v1/projects/without-tasks", h.ProjectsWithoutTasks).Methods("GET")
	router.HandleFunc("/api/v1/projects/{id}", h.GetProject).Methods("GET")
	router.HandleFunc("/api/v1/projects/{id}", h.UpdateProject).Methods("PUT")
	router.HandleFunc("/api/v1/projects/{id}", h.DeleteProject).Methods("DELETE")
}

// CreateProject handles project creation
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Malformed JSON request: "+err.Error())
		return
	}

	project, err := h.projects.CreateProject(r.Context(), req, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// GetProject handles retrieving a single project
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetProject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// ListProjects handles listing projects with pagination
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	projects, total, err := h.projects.ListProjects(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects":  projects,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// UpdateProject handles project updates
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req usecase.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Malformed JSON request: "+err.Error())
		return
	}

	project, err := h.projects.UpdateProject(r.Context(), mux.Vars(r)["id"], req, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// DeleteProject handles project deletion
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.DeleteProject(r.Context(), mux.Vars(r)["id"], actorFrom(r)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ProjectsWithoutTasks handles listing projects that have no tasks
func (h *ProjectHandler) ProjectsWithoutTasks(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.FindProjectsWithoutTasks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func parsePagination(r *http.Request) (int, int) {
	page := 0
	pageSize := 0

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil {
			page = parsed
		}
	}
	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		if parsed, err := strconv.Atoi(sizeStr); err == nil {
			pageSize = parsed
		}
	}

	return page, pageSize
}
