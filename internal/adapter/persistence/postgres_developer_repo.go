package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/ports"
)

// PostgresDeveloperRepository implements DeveloperRepository using PostgreSQL
type PostgresDeveloperRepository struct {
	db *sql.DB
}

// NewPostgresDeveloperRepository creates a new PostgreSQL developer repository
func NewPostgresDeveloperRepository(db *sql.DB) ports.DeveloperRepository {
	return &PostgresDeveloperRepository{db: db}
}

const developerColumns = "id, name, email, skills, created_at, updated_at"

// Create saves a new developer
func (r *PostgresDeveloperRepository) Create(ctx context.Context, developer *domain.Developer) error {
	query := `
		INSERT INTO developers (id, name, email, skills, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		developer.ID,
		developer.Name,
		developer.Email,
		pq.Array(developer.Skills),
		developer.CreatedAt,
		developer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create developer: %w", err)
	}

	return nil
}

// FindByID retrieves a developer by its ID
func (r *PostgresDeveloperRepository) FindByID(ctx context.Context, id string) (*domain.Developer, error) {
	query := `SELECT ` + developerColumns + ` FROM developers WHERE id = $1`

	developer, err := scanDeveloper(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound(domain.KindDeveloper, id)
		}
		return nil, fmt.Errorf("failed to find developer: %w", err)
	}
	return developer, nil
}

// FindAll retrieves one page of developers and the total developer count
func (r *PostgresDeveloperRepository) FindAll(ctx context.Context, page, pageSize int) ([]*domain.Developer, int, error) {
	query := `SELECT ` + developerColumns + ` FROM developers ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, pageSize, page*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query developers: %w", err)
	}
	defer rows.Close()

	developers, err := collectDevelopers(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM developers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count developers: %w", err)
	}

	return developers, total, nil
}

// Update updates an existing developer
func (r *PostgresDeveloperRepository) Update(ctx context.Context, developer *domain.Developer) error {
	query := `
		UPDATE developers
		SET name = $2, email = $3, skills = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		developer.ID,
		developer.Name,
		developer.Email,
		pq.Array(developer.Skills),
		developer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update developer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFound(domain.KindDeveloper, developer.ID)
	}

	return nil
}

// Delete removes a developer
func (r *PostgresDeveloperRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM developers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete developer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewNotFound(domain.KindDeveloper, id)
	}

	return nil
}

// Exists reports whether a developer with the given ID exists
func (r *PostgresDeveloperRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM developers WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check developer existence: %w", err)
	}
	return exists, nil
}

// ExistsByEmail reports whether a developer with the given email exists
func (r *PostgresDeveloperRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM developers WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check developer email: %w", err)
	}
	return exists, nil
}

// FindTopByTaskCount retrieves the developers with the most assigned tasks
func (r *PostgresDeveloperRepository) FindTopByTaskCount(ctx context.Context, limit int) ([]*domain.Developer, error) {
	query := `
		SELECT d.id, d.name, d.email, d.skills, d.created_at, d.updated_at
		FROM developers d
		LEFT JOIN task_developers td ON td.developer_id = d.id
		GROUP BY d.id, d.name, d.email, d.skills, d.created_at, d.updated_at
		ORDER BY COUNT(td.task_id) DESC, d.name ASC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top developers: %w", err)
	}
	defer rows.Close()

	return collectDevelopers(rows)
}

func scanDeveloper(row rowScanner) (*domain.Developer, error) {
	var developer domain.Developer
	err := row.Scan(
		&developer.ID,
		&developer.Name,
		&developer.Email,
		pq.Array(&developer.Skills),
		&developer.CreatedAt,
		&developer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &developer, nil
}

func collectDevelopers(rows *sql.Rows) ([]*domain.Developer, error) {
	var developers []*domain.Developer
	for rows.Next() {
		developer, err := scanDeveloper(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan developer: %w", err)
		}
		developers = append(developers, developer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating developers: %w", err)
	}
	return developers, nil
}
