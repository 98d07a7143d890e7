package cache

import (
	"context"

	"github.com/projectpulse/projectpulse/internal/ports"
)

// NoopCache passes every read straight to the loader and caches nothing.
// Used when Redis is unreachable at startup: the service stays available
// with every lookup served by the authoritative store.
type NoopCache struct{}

// NewNoopCache creates a cache that never stores anything.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetEntity(ctx context.Context, kind, id string, load ports.CacheLoader) ([]byte, error) {
	return load(ctx)
}

func (n *NoopCache) GetList(ctx context.Context, kind, view string, load ports.CacheLoader) ([]byte, error) {
	return load(ctx)
}

func (n *NoopCache) Invalidate(ctx context.Context, kind, id string) {}

func (n *NoopCache) InvalidateAll(ctx context.Context, kind string) {}
