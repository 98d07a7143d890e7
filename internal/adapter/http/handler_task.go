package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/usecase"
)

// TaskService is the task use case surface the handler depends on
type TaskService interface {
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, page, pageSize int) ([]*domain.Task, int, error)
	CreateTask(ctx context.Context, req usecase.TaskRequest, actor string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, req usecase.TaskRequest, actor string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string, actor string) error
	GetTasksByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	GetTasksByDeveloper(ctx context.Context, developerID string) ([]*domain.Task, error)
	GetOverdueTasks(ctx context.Context) ([]*domain.Task, error)
}

// TaskHandler handles HTTP requests for tasks
type TaskHandler struct {
	tasks TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// RegisterRoutes registers task routes
func (h *TaskHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/tasks", h.CreateTask).Methods("POST")
	router.HandleFunc("/api/v1/tasks", h.ListTasks).Methods("GET")
	router.HandleFunc("/api/v1/tasks/overdue", h.OverdueTasks).Methods("GET")
	router.HandleFunc("/api/v1/tasks/project/{projectId}", h.TasksByProject).Methods("GET")
	router.HandleFunc("/api/v1/tasks/developer/{developerId}", h.TasksByDeveloper).Methods("GET")
	router.HandleFunc("/api/v1/tasks/{id}", h.GetTask).Methods("GET")
	router.HandleFunc("/api/v1/tasks/{id}", h.UpdateTask).Methods("PUT")
	router.HandleFunc("/api/v1/tasks/{id}", h.DeleteTask).Methods("DELETE")
}

// CreateTask handles task creation
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req usecase.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Malformed JSON request: "+err.Error())
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), req, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// GetTask handles retrieving a single task
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.GetTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// ListTasks handles listing tasks with pagination
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	tasks, total, err := h.tasks.ListTasks(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks":     tasks,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// UpdateTask handles task updates
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req usecase.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Malformed JSON request: "+err.Error())
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), mux.Vars(r)["id"], req, actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles task deletion
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.DeleteTask(r.Context(), mux.Vars(r)["id"], actorFrom(r)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TasksByProject handles listing the tasks of one project
func (h *TaskHandler) TasksByProject(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.GetTasksByProject(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// TasksByDeveloper handles listing the tasks assigned to one developer
func (h *TaskHandler) TasksByDeveloper(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.GetTasksByDeveloper(r.Context(), mux.Vars(r)["developerId"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// OverdueTasks handles listing overdue tasks
func (h *TaskHandler) OverdueTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.GetOverdueTasks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}
