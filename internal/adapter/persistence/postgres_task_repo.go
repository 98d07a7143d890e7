package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/ports"
)

// PostgresTaskRepository implements TaskRepository using PostgreSQL.
// Task writes touch two tables (tasks and task_developers), so each write
// runs inside a single transaction.
type PostgresTaskRepository struct {
	db *sql.DB
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository
func NewPostgresTaskRepository(db *sql.DB) ports.TaskRepository {
	return &PostgresTaskRepository{db: db}
}

const taskColumns = "id, title, description, status, due_date, project_id, created_at, updated_at"

// Create saves a new task together with its developer assignments
func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tasks (id, title, description, status, due_date, project_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		task.DueDate,
		task.ProjectID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := insertAssignments(ctx, tx, task.ID, task.AssignedDeveloperIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID, including developer assignments
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound(domain.KindTask, id)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := r.loadAssignments(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// FindAll retrieves one page of tasks and the total task count
func (r *PostgresTaskRepository) FindAll(ctx context.Context, page, pageSize int) ([]*domain.Task, int, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, pageSize, page*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	for _, task := range tasks {
		if err := r.loadAssignments(ctx, task); err != nil {
			return nil, 0, err
		}
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return tasks, total, nil
}

// Update updates an existing task and replaces its developer assignments
func (r *PostgresTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, due_date = $5, project_id = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		task.DueDate,
		task.ProjectID,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFound(domain.KindTask, task.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_developers WHERE task_id = $1`, task.ID); err != nil {
		return fmt.Errorf("failed to clear task assignments: %w", err)
	}
	if err := insertAssignments(ctx, tx, task.ID, task.AssignedDeveloperIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task: %w", err)
	}
	return nil
}

// Delete removes a task; assignments go with it via the schema's cascade
func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFound(domain.KindTask, id)
	}

	return nil
}

// FindByProjectID retrieves the tasks of one project
func (r *PostgresTaskRepository) FindByProjectID(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY created_at DESC`
	return r.queryTasks(ctx, query, projectID)
}

// FindByDeveloperID retrieves the tasks assigned to one developer
func (r *PostgresTaskRepository) FindByDeveloperID(ctx context.Context, developerID string) ([]*domain.Task, error) {
	query := `
		SELECT t.id, t.title, t.description, t.status, t.due_date, t.project_id, t.created_at, t.updated_at
		FROM tasks t
		JOIN task_developers td ON td.task_id = t.id
		WHERE td.developer_id = $1
		ORDER BY t.created_at DESC
	`
	return r.queryTasks(ctx, query, developerID)
}

// FindOverdue retrieves tasks past their due date that are not completed
func (r *PostgresTaskRepository) FindOverdue(ctx context.Context) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE due_date < NOW() AND status <> 'COMPLETED'
		ORDER BY due_date ASC
	`
	return r.queryTasks(ctx, query)
}

func (r *PostgresTaskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, err
	}

	for _, task := range tasks {
		if err := r.loadAssignments(ctx, task); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) loadAssignments(ctx context.Context, task *domain.Task) error {
	rows, err := r.db.QueryContext(ctx, `SELECT developer_id FROM task_developers WHERE task_id = $1 ORDER BY developer_id`, task.ID)
	if err != nil {
		return fmt.Errorf("failed to query task assignments: %w", err)
	}
	defer rows.Close()

	var developerIDs []string
	for rows.Next() {
		var devID string
		if err := rows.Scan(&devID); err != nil {
			return fmt.Errorf("failed to scan task assignment: %w", err)
		}
		developerIDs = append(developerIDs, devID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating task assignments: %w", err)
	}

	task.AssignedDeveloperIDs = developerIDs
	return nil
}

func insertAssignments(ctx context.Context, tx *sql.Tx, taskID string, developerIDs []string) error {
	for _, devID := range developerIDs {
		_, err := tx.ExecContext(ctx, `INSERT INTO task_developers (task_id, developer_id) VALUES ($1, $2)`, taskID, devID)
		if err != nil {
			return fmt.Errorf("failed to assign developer %s: %w", devID, err)
		}
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.DueDate,
		&task.ProjectID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func collectTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}
