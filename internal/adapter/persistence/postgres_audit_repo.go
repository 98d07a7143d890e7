package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/ports"
)

// PostgresAuditRepository implements AuditRepository using PostgreSQL.
// The table is append-only: this repository exposes no update or delete.
type PostgresAuditRepository struct {
	db *sql.DB
}

// NewPostgresAuditRepository creates a new PostgreSQL audit repository
func NewPostgresAuditRepository(db *sql.DB) ports.AuditRepository {
	return &PostgresAuditRepository{db: db}
}

// auditSortColumns maps exposed sort fields to table columns. Callers are
// expected to have validated the sort field; an unknown field falls back to
// the timestamp column rather than interpolating caller input into SQL.
var auditSortColumns = map[string]string{
	"timestamp":   "occurred_at",
	"action_type": "action_type",
	"entity_kind": "entity_kind",
	"entity_id":   "entity_id",
	"actor_name":  "actor_name",
}

// Append stores a new audit entry, assigning its identifier
func (r *PostgresAuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO audit_entries (id, action_type, entity_kind, entity_id, occurred_at, actor_name, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		string(entry.ActionType),
		entry.EntityKind,
		entry.EntityID,
		entry.Timestamp,
		entry.ActorName,
		entry.Payload,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

// List retrieves one page of audit entries matching the filter
func (r *PostgresAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error) {
	query := `
		SELECT id, action_type, entity_kind, entity_id, occurred_at, actor_name, payload
		FROM audit_entries
		WHERE 1=1
	`

	conditions, args := buildAuditConditions(filter)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	column, ok := auditSortColumns[filter.SortField]
	if !ok {
		column = "occurred_at"
	}
	direction := "DESC"
	if filter.SortDirection == domain.SortAsc {
		direction = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	argIndex := len(args) + 1
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.PageSize, filter.Page*filter.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		err := rows.Scan(
			&entry.ID,
			&entry.ActionType,
			&entry.EntityKind,
			&entry.EntityID,
			&entry.Timestamp,
			&entry.ActorName,
			&entry.Payload,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}

// Count returns the number of audit entries matching the filter, using the
// same conditions as List so page and total are always consistent
func (r *PostgresAuditRepository) Count(ctx context.Context, filter domain.AuditFilter) (int, error) {
	query := `SELECT COUNT(*) FROM audit_entries WHERE 1=1`

	conditions, args := buildAuditConditions(filter)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	return count, nil
}

// buildAuditConditions conjoins only the filter dimensions that are set.
// An omitted dimension adds no condition at all.
func buildAuditConditions(filter domain.AuditFilter) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.EntityKind != nil {
		conditions = append(conditions, fmt.Sprintf("entity_kind = $%d", argIndex))
		args = append(args, *filter.EntityKind)
		argIndex++
	}

	if filter.ActorName != nil {
		conditions = append(conditions, fmt.Sprintf("actor_name = $%d", argIndex))
		args = append(args, *filter.ActorName)
		argIndex++
	}

	if filter.TimeFrom != nil {
		conditions = append(conditions, fmt.Sprintf("occurred_at >= $%d", argIndex))
		args = append(args, *filter.TimeFrom)
		argIndex++
	}

	if filter.TimeTo != nil {
		conditions = append(conditions, fmt.Sprintf("occurred_at <= $%d", argIndex))
		args = append(args, *filter.TimeTo)
		argIndex++
	}

	return conditions, args
}
