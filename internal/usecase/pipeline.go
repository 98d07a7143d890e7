package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/projectpulse/projectpulse/internal/audit"
	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/ports"
)

// mutationPipeline carries the post-commit steps shared by every entity
// mutation: cache invalidation followed by a best-effort audit append.
// Callers invoke complete* only after the repository commit has returned,
// never before: invalidating first would let a concurrent reader repopulate
// the cache with the pre-mutation value, which would then survive
// indefinitely because entries carry no TTL. Neither step can flip an
// already-committed mutation to failed.
type mutationPipeline struct {
	cache    ports.EntityCache
	recorder *audit.Recorder
	log      *logrus.Logger
}

// completeCreate runs after a committed create. The new id was never cached,
// so only list views need clearing.
func (p *mutationPipeline) completeCreate(ctx context.Context, kind, id, actor string, snapshot interface{}) {
	p.cache.InvalidateAll(ctx, kind)
	p.recorder.Record(ctx, domain.ActionCreate, kind, id, actor, snapshot)
}

// completeUpdate runs after a committed update.
func (p *mutationPipeline) completeUpdate(ctx context.Context, kind, id, actor string, snapshot interface{}) {
	p.cache.Invalidate(ctx, kind, id)
	p.cache.InvalidateAll(ctx, kind)
	p.recorder.Record(ctx, domain.ActionUpdate, kind, id, actor, snapshot)
}

// completeDelete runs after a committed delete. Deletes carry no snapshot.
func (p *mutationPipeline) completeDelete(ctx context.Context, kind, id, actor string) {
	p.cache.Invalidate(ctx, kind, id)
	p.cache.InvalidateAll(ctx, kind)
	p.recorder.Record(ctx, domain.ActionDelete, kind, id, actor, nil)
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func normalizePage(page, pageSize int) (int, int) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
