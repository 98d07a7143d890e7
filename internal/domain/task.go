package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "NOT_STARTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
)

// ValidTaskStatuses lists the accepted task status values.
var ValidTaskStatuses = []interface{}{
	TaskStatusNotStarted,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusBlocked,
}

// Task represents a unit of work inside a project
type Task struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Status               TaskStatus `json:"status"`
	DueDate              time.Time  `json:"due_date"`
	ProjectID            string     `json:"project_id"`
	AssignedDeveloperIDs []string   `json:"assigned_developer_ids"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewTask creates a new task with a generated identifier.
func NewTask(title, description string, status TaskStatus, dueDate time.Time, projectID string, developerIDs []string) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:                   uuid.NewString(),
		Title:                title,
		Description:          description,
		Status:               status,
		DueDate:              dueDate,
		ProjectID:            projectID,
		AssignedDeveloperIDs: developerIDs,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// Apply overwrites the mutable fields of the task.
func (t *Task) Apply(title, description string, status TaskStatus, dueDate time.Time, projectID string, developerIDs []string) {
	t.Title = title
	t.Description = description
	t.Status = status
	t.DueDate = dueDate
	t.ProjectID = projectID
	t.AssignedDeveloperIDs = developerIDs
	t.UpdatedAt = time.Now().UTC()
}

// IsOverdue reports whether the task is past its due date and not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskStatusCompleted && t.DueDate.Before(now)
}
