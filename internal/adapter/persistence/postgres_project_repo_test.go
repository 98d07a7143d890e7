package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectpulse/projectpulse/internal/domain"
)

func projectRow(project *domain.Project) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "deadline", "status", "created_at", "updated_at"}).
		AddRow(project.ID, project.Name, project.Description, project.Deadline, string(project.Status), project.CreatedAt, project.UpdatedAt)
}

func sampleProject() *domain.Project {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Project{
		ID:          "p-1",
		Name:        "Apollo",
		Description: "Launch tracking",
		Deadline:    ts.Add(30 * 24 * time.Hour),
		Status:      domain.ProjectStatusActive,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func TestPostgresProjectRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProjectRepository(db)
	project := sampleProject()

	mock.ExpectExec("INSERT INTO projects").
		WithArgs(project.ID, project.Name, project.Description, project.Deadline, "ACTIVE", project.CreatedAt, project.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), project)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProjectRepository(db)
	project := sampleProject()

	mock.ExpectQuery(`SELECT id, name, description, deadline, status, created_at, updated_at FROM projects WHERE id = \$1`).
		WithArgs(project.ID).
		WillReturnRows(projectRow(project))

	found, err := repo.FindByID(context.Background(), project.ID)

	require.NoError(t, err)
	assert.Equal(t, project.Name, found.Name)
	assert.Equal(t, project.Status, found.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectRepository_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProjectRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM projects WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "deadline", "status", "created_at", "updated_at"}))

	_, err = repo.FindByID(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectRepository_FindAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProjectRepository(db)
	project := sampleProject()

	mock.ExpectQuery(`SELECT .+ FROM projects ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 20).
		WillReturnRows(projectRow(project))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))

	projects, total, err := repo.FindAll(context.Background(), 2, 10)

	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, 21, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectRepository_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProjectRepository(db)
	project := sampleProject()

	mock.ExpectExec("UPDATE projects").
		WithArgs(project.ID, project.Name, project.Description, project.Deadline, "ACTIVE", project.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), project)

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProjectRepository(db)

	mock.ExpectExec(`DELETE FROM projects WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(context.Background(), "p-1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectRepository_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProjectRepository(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "p-1")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProjectRepository_FindWithoutTasks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresProjectRepository(db)
	project := sampleProject()

	mock.ExpectQuery(`WHERE NOT EXISTS \(SELECT 1 FROM tasks t WHERE t.project_id = p.id\)`).
		WillReturnRows(projectRow(project))

	projects, err := repo.FindWithoutTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Apollo", projects[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
