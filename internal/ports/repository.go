package ports

import (
	"context"

	"github.com/projectpulse/projectpulse/internal/domain"
)

// ProjectRepository defines the persistence operations for projects
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindAll(ctx context.Context, page, pageSize int) ([]*domain.Project, int, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	FindWithoutTasks(ctx context.Context) ([]*domain.Project, error)
}

// TaskRepository defines the persistence operations for tasks
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	FindAll(ctx context.Context, page, pageSize int) ([]*domain.Task, int, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	FindByProjectID(ctx context.Context, projectID string) ([]*domain.Task, error)
	FindByDeveloperID(ctx context.Context, developerID string) ([]*domain.Task, error)
	FindOverdue(ctx context.Context) ([]*domain.Task, error)
}

// DeveloperRepository defines the persistence operations for developers
type DeveloperRepository interface {
	Create(ctx context.Context, developer *domain.Developer) error
	FindByID(ctx context.Context, id string) (*domain.Developer, error)
	FindAll(ctx context.Context, page, pageSize int) ([]*domain.Developer, int, error)
	Update(ctx context.Context, developer *domain.Developer) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindTopByTaskCount(ctx context.Context, limit int) ([]*domain.Developer, error)
}

// AuditRepository defines the persistence operations for the audit trail.
// The store is append-only: entries are never updated or removed.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error)
	Count(ctx context.Context, filter domain.AuditFilter) (int, error)
}
