package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/ports"
)

// AuditQuery represents one audit listing request. Every filter dimension is
// optional; supplied filters are conjoined. Omission means "no constraint",
// never "match empty".
type AuditQuery struct {
	EntityKind    string
	ActorName     string
	TimeFrom      *time.Time
	TimeTo        *time.Time
	Page          int
	PageSize      int
	SortField     string
	SortDirection string
}

// AuditUseCase builds and executes filtered, paginated, sorted reads over the
// audit store.
type AuditUseCase struct {
	entries ports.AuditRepository
	log     *logrus.Logger
}

// NewAuditUseCase creates a new audit query use case.
func NewAuditUseCase(entries ports.AuditRepository, log *logrus.Logger) *AuditUseCase {
	return &AuditUseCase{entries: entries, log: log}
}

// ListEntries returns one page of audit entries and the total number of
// entries matching the query. The count and the page are produced from the
// same predicate so they are always consistent with each other.
func (uc *AuditUseCase) ListEntries(ctx context.Context, q AuditQuery) (*domain.AuditPage, error) {
	filter, err := uc.buildFilter(q)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	total, err := uc.entries.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}

	if entries == nil {
		entries = []*domain.AuditEntry{}
	}
	return &domain.AuditPage{
		Entries:       entries,
		TotalMatching: total,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
	}, nil
}

func (uc *AuditUseCase) buildFilter(q AuditQuery) (domain.AuditFilter, error) {
	filter := domain.AuditFilter{
		TimeFrom:      q.TimeFrom,
		TimeTo:        q.TimeTo,
		SortField:     q.SortField,
		SortDirection: q.SortDirection,
	}

	if q.EntityKind != "" {
		kind := q.EntityKind
		filter.EntityKind = &kind
	}
	if q.ActorName != "" {
		actor := q.ActorName
		filter.ActorName = &actor
	}

	filter.Page, filter.PageSize = normalizePage(q.Page, q.PageSize)

	if filter.SortField == "" {
		filter.SortField = "timestamp"
	}
	// A misspelled sort field is a caller error, not a silent fallback.
	if _, ok := domain.AuditSortFields[filter.SortField]; !ok {
		return domain.AuditFilter{}, domain.NewValidationError(fmt.Sprintf("unknown sort field: %s", filter.SortField))
	}

	if filter.SortDirection == "" {
		filter.SortDirection = domain.SortDesc
	}
	if filter.SortDirection != domain.SortAsc && filter.SortDirection != domain.SortDesc {
		return domain.AuditFilter{}, domain.NewValidationError(fmt.Sprintf("invalid sort direction: %s", filter.SortDirection))
	}

	return filter, nil
}
