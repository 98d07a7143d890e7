package ports

import "context"

// CacheLoader loads the authoritative value for a cache key on a miss.
type CacheLoader func(ctx context.Context) ([]byte, error)

// EntityCache is a read-through cache keyed by (entity kind, id), with
// separate namespaced keys for materialized list views. Invalidation is
// best effort and never fails from the caller's point of view; callers
// must only invalidate after the underlying store commit is durable.
type EntityCache interface {
	// GetEntity returns the cached snapshot for (kind, id), or calls load,
	// stores the result and returns it.
	GetEntity(ctx context.Context, kind, id string, load CacheLoader) ([]byte, error)

	// GetList behaves like GetEntity for a named list view of a kind.
	GetList(ctx context.Context, kind, view string, load CacheLoader) ([]byte, error)

	// Invalidate removes the entry for (kind, id) if present. Idempotent.
	Invalidate(ctx context.Context, kind, id string)

	// InvalidateAll removes every cached list view of the kind.
	InvalidateAll(ctx context.Context, kind string)
}
