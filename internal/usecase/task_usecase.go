package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"

	"github.com/projectpulse/projectpulse/internal/audit"
	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/ports"
)

// TaskRequest represents the request to create or update a task
type TaskRequest struct {
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Status               domain.TaskStatus `json:"status"`
	DueDate              time.Time         `json:"due_date"`
	ProjectID            string            `json:"project_id"`
	AssignedDeveloperIDs []string          `json:"assigned_developer_ids"`
}

// Validate checks the field-level business rules for tasks.
func (r TaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Status, validation.Required, validation.In(domain.ValidTaskStatuses...)),
		validation.Field(&r.DueDate, validation.Required),
		validation.Field(&r.ProjectID, validation.Required),
	)
}

// taskPage is the cached shape of one listing page.
type taskPage struct {
	Tasks []*domain.Task `json:"tasks"`
	Total int            `json:"total"`
}

// TaskUseCase handles task business logic. Creating or moving a task checks
// that the referenced project and developers exist before anything is
// persisted.
type TaskUseCase struct {
	mutationPipeline
	tasks      ports.TaskRepository
	projects   ports.ProjectRepository
	developers ports.DeveloperRepository
}

// NewTaskUseCase creates a new task use case.
func NewTaskUseCase(tasks ports.TaskRepository, projects ports.ProjectRepository, developers ports.DeveloperRepository, cache ports.EntityCache, recorder *audit.Recorder, log *logrus.Logger) *TaskUseCase {
	return &TaskUseCase{
		mutationPipeline: mutationPipeline{cache: cache, recorder: recorder, log: log},
		tasks:            tasks,
		projects:         projects,
		developers:       developers,
	}
}

// GetTask retrieves a task by ID through the cache.
func (uc *TaskUseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.NewValidationError("task id is required")
	}

	data, err := uc.cache.GetEntity(ctx, domain.KindTask, id, func(ctx context.Context) ([]byte, error) {
		task, err := uc.tasks.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(task)
	})
	if err != nil {
		return nil, err
	}

	var task domain.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to decode cached task: %w", err)
	}
	return &task, nil
}

// ListTasks retrieves one page of tasks with the total count.
func (uc *TaskUseCase) ListTasks(ctx context.Context, page, pageSize int) ([]*domain.Task, int, error) {
	page, pageSize = normalizePage(page, pageSize)

	view := fmt.Sprintf("page:%d:%d", page, pageSize)
	data, err := uc.cache.GetList(ctx, domain.KindTask, view, func(ctx context.Context) ([]byte, error) {
		tasks, total, err := uc.tasks.FindAll(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		return json.Marshal(taskPage{Tasks: tasks, Total: total})
	})
	if err != nil {
		return nil, 0, err
	}

	var result taskPage
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, 0, fmt.Errorf("failed to decode cached task page: %w", err)
	}
	return result.Tasks, result.Total, nil
}

// CreateTask validates references and persists a new task.
func (uc *TaskUseCase) CreateTask(ctx context.Context, req TaskRequest, actor string) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if err := uc.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	task := domain.NewTask(req.Title, req.Description, req.Status, req.DueDate, req.ProjectID, req.AssignedDeveloperIDs)
	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	uc.completeCreate(ctx, domain.KindTask, task.ID, actor, task)
	return task, nil
}

// UpdateTask validates references and persists changes to an existing task.
func (uc *TaskUseCase) UpdateTask(ctx context.Context, id string, req TaskRequest, actor string) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	task, err := uc.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	task.Apply(req.Title, req.Description, req.Status, req.DueDate, req.ProjectID, req.AssignedDeveloperIDs)
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	uc.completeUpdate(ctx, domain.KindTask, task.ID, actor, task)
	return task, nil
}

// DeleteTask removes a task.
func (uc *TaskUseCase) DeleteTask(ctx context.Context, id string, actor string) error {
	if id == "" {
		return domain.NewValidationError("task id is required")
	}

	if _, err := uc.tasks.FindByID(ctx, id); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	uc.completeDelete(ctx, domain.KindTask, id, actor)
	return nil
}

// GetTasksByProject lists the tasks of one project.
func (uc *TaskUseCase) GetTasksByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	if projectID == "" {
		return nil, domain.NewValidationError("project id is required")
	}
	tasks, err := uc.tasks.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by project: %w", err)
	}
	return tasks, nil
}

// GetTasksByDeveloper lists the tasks assigned to one developer.
func (uc *TaskUseCase) GetTasksByDeveloper(ctx context.Context, developerID string) ([]*domain.Task, error) {
	if developerID == "" {
		return nil, domain.NewValidationError("developer id is required")
	}
	tasks, err := uc.tasks.FindByDeveloperID(ctx, developerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by developer: %w", err)
	}
	return tasks, nil
}

// GetOverdueTasks lists tasks past their due date that are not completed.
func (uc *TaskUseCase) GetOverdueTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := uc.tasks.FindOverdue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	return tasks, nil
}

func (uc *TaskUseCase) checkReferences(ctx context.Context, req TaskRequest) error {
	exists, err := uc.projects.Exists(ctx, req.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return domain.NewNotFound(domain.KindProject, req.ProjectID)
	}

	for _, devID := range req.AssignedDeveloperIDs {
		exists, err := uc.developers.Exists(ctx, devID)
		if err != nil {
			return fmt.Errorf("failed to check developer: %w", err)
		}
		if !exists {
			return domain.NewNotFound(domain.KindDeveloper, devID)
		}
	}
	return nil
}
