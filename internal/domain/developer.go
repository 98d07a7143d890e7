package domain

import (
	"time"

	"github.com/google/uuid"
)

// Developer represents a developer that tasks can be assigned to
type Developer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Skills    []string  `json:"skills"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDeveloper creates a new developer with a generated identifier.
func NewDeveloper(name, email string, skills []string) *Developer {
	now := time.Now().UTC()
	return &Developer{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Skills:    skills,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply overwrites the mutable fields of the developer.
func (d *Developer) Apply(name, email string, skills []string) {
	d.Name = name
	d.Email = email
	d.Skills = skills
	d.UpdatedAt = time.Now().UTC()
}
