package domain

import "time"

// ActionType identifies the kind of mutation an audit entry records.
type ActionType string

const (
	ActionCreate ActionType = "CREATE"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
)

// ActorSystem is recorded when a mutation carries no actor name.
const ActorSystem = "SYSTEM"

// Entity kinds used for audit entries and cache namespaces.
const (
	KindProject   = "Project"
	KindTask      = "Task"
	KindDeveloper = "Developer"
)

// AuditEntry is an immutable record of one committed mutation. Entries are
// appended once and never updated or deleted by this service.
type AuditEntry struct {
	ID         string     `json:"id"`
	ActionType ActionType `json:"action_type"`
	EntityKind string     `json:"entity_kind"`
	EntityID   string     `json:"entity_id"`
	Timestamp  time.Time  `json:"timestamp"`
	ActorName  string     `json:"actor_name"`
	Payload    string     `json:"payload"`
}

// AuditFilter describes an audit listing query. Nil filter fields mean
// "no constraint on this dimension". TimeFrom and TimeTo bound Timestamp
// inclusively.
type AuditFilter struct {
	EntityKind    *string
	ActorName     *string
	TimeFrom      *time.Time
	TimeTo        *time.Time
	Page          int
	PageSize      int
	SortField     string
	SortDirection string
}

// Audit sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// AuditSortFields lists the fields an audit listing may be sorted by.
var AuditSortFields = map[string]struct{}{
	"timestamp":   {},
	"action_type": {},
	"entity_kind": {},
	"entity_id":   {},
	"actor_name":  {},
}

// AuditPage is one page of audit entries together with the total number of
// entries matching the filter across all pages.
type AuditPage struct {
	Entries       []*AuditEntry `json:"entries"`
	TotalMatching int           `json:"total_matching"`
	Page          int           `json:"page"`
	PageSize      int           `json:"page_size"`
}
