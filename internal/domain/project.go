package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the status of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusOnHold    ProjectStatus = "ON_HOLD"
)

// ValidProjectStatuses lists the accepted project status values.
var ValidProjectStatuses = []interface{}{
	ProjectStatusActive,
	ProjectStatusCompleted,
	ProjectStatusOnHold,
}

// Project represents a tracked project
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Deadline    time.Time     `json:"deadline"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewProject creates a new project with a generated identifier.
func NewProject(name, description string, deadline time.Time, status ProjectStatus) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Deadline:    deadline,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply overwrites the mutable fields of the project.
func (p *Project) Apply(name, description string, deadline time.Time, status ProjectStatus) {
	p.Name = name
	p.Description = description
	p.Deadline = deadline
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
}
