package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"

	"github.com/projectpulse/projectpulse/internal/audit"
	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/ports"
)

// CreateProjectRequest represents the request to create a project
type CreateProjectRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Deadline    time.Time            `json:"deadline"`
	Status      domain.ProjectStatus `json:"status"`
}

// Validate checks the business rules for project creation.
func (r CreateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Deadline, validation.Required, validation.By(dateNotPast)),
		validation.Field(&r.Status, validation.Required, validation.In(domain.ValidProjectStatuses...)),
	)
}

// UpdateProjectRequest represents the request to update a project.
// Unlike creation, an already-past deadline is accepted so that existing
// overdue projects can still be edited.
type UpdateProjectRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Deadline    time.Time            `json:"deadline"`
	Status      domain.ProjectStatus `json:"status"`
}

// Validate checks the business rules for project updates.
func (r UpdateProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Deadline, validation.Required),
		validation.Field(&r.Status, validation.Required, validation.In(domain.ValidProjectStatuses...)),
	)
}

// dateNotPast rejects dates before the current day.
func dateNotPast(value interface{}) error {
	d, ok := value.(time.Time)
	if !ok || d.IsZero() {
		return nil
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if d.Before(today) {
		return errors.New("must not be in the past")
	}
	return nil
}

// projectPage is the cached shape of one listing page.
type projectPage struct {
	Projects []*domain.Project `json:"projects"`
	Total    int               `json:"total"`
}

// ProjectUseCase handles project business logic: validation, persistence,
// cache coordination and audit recording.
type ProjectUseCase struct {
	mutationPipeline
	projects ports.ProjectRepository
}

// NewProjectUseCase creates a new project use case.
func NewProjectUseCase(projects ports.ProjectRepository, cache ports.EntityCache, recorder *audit.Recorder, log *logrus.Logger) *ProjectUseCase {
	return &ProjectUseCase{
		mutationPipeline: mutationPipeline{cache: cache, recorder: recorder, log: log},
		projects:         projects,
	}
}

// GetProject retrieves a project by ID through the cache.
func (uc *ProjectUseCase) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	if id == "" {
		return nil, domain.NewValidationError("project id is required")
	}

	data, err := uc.cache.GetEntity(ctx, domain.KindProject, id, func(ctx context.Context) ([]byte, error) {
		project, err := uc.projects.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(project)
	})
	if err != nil {
		return nil, err
	}

	var project domain.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to decode cached project: %w", err)
	}
	return &project, nil
}

// ListProjects retrieves one page of projects with the total count.
func (uc *ProjectUseCase) ListProjects(ctx context.Context, page, pageSize int) ([]*domain.Project, int, error) {
	page, pageSize = normalizePage(page, pageSize)

	view := fmt.Sprintf("page:%d:%d", page, pageSize)
	data, err := uc.cache.GetList(ctx, domain.KindProject, view, func(ctx context.Context) ([]byte, error) {
		projects, total, err := uc.projects.FindAll(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		return json.Marshal(projectPage{Projects: projects, Total: total})
	})
	if err != nil {
		return nil, 0, err
	}

	var result projectPage
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, 0, fmt.Errorf("failed to decode cached project page: %w", err)
	}
	return result.Projects, result.Total, nil
}

// CreateProject validates and persists a new project, then invalidates
// cached listings and records a CREATE audit entry.
func (uc *ProjectUseCase) CreateProject(ctx context.Context, req CreateProjectRequest, actor string) (*domain.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	project := domain.NewProject(req.Name, req.Description, req.Deadline, req.Status)
	if err := uc.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	uc.completeCreate(ctx, domain.KindProject, project.ID, actor, project)
	return project, nil
}

// UpdateProject validates and persists changes to an existing project.
func (uc *ProjectUseCase) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest, actor string) (*domain.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	project, err := uc.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Apply(req.Name, req.Description, req.Deadline, req.Status)
	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	uc.completeUpdate(ctx, domain.KindProject, project.ID, actor, project)
	return project, nil
}

// DeleteProject removes a project.
func (uc *ProjectUseCase) DeleteProject(ctx context.Context, id string, actor string) error {
	if id == "" {
		return domain.NewValidationError("project id is required")
	}

	if _, err := uc.projects.FindByID(ctx, id); err != nil {
		return err
	}
	if err := uc.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	uc.completeDelete(ctx, domain.KindProject, id, actor)
	return nil
}

// FindProjectsWithoutTasks lists projects that have no tasks.
func (uc *ProjectUseCase) FindProjectsWithoutTasks(ctx context.Context) ([]*domain.Project, error) {
	projects, err := uc.projects.FindWithoutTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects without tasks: %w", err)
	}
	return projects, nil
}
