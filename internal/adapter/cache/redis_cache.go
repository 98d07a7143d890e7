package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/projectpulse/projectpulse/internal/ports"
)

// Coordinator is a Redis-backed read-through cache for entity snapshots and
// list views. Entries carry no TTL: they are removed only by invalidation
// after a committed write. Any Redis failure degrades a read to a direct
// store load and is never surfaced to the caller.
type Coordinator struct {
	client *redis.Client
	log    *logrus.Logger
}

// NewCoordinator creates a cache coordinator on an existing Redis client.
func NewCoordinator(client *redis.Client, log *logrus.Logger) *Coordinator {
	return &Coordinator{client: client, log: log}
}

func entityKey(kind, id string) string {
	return fmt.Sprintf("%s:%s", kind, id)
}

func listKey(kind, view string) string {
	return fmt.Sprintf("%s:list:%s", kind, view)
}

// GetEntity returns the cached snapshot for (kind, id) or loads it from the
// authoritative store and populates the cache. Concurrent misses for the same
// key may each load and overwrite the entry; they converge to the same value
// absent an interleaved write.
func (c *Coordinator) GetEntity(ctx context.Context, kind, id string, load ports.CacheLoader) ([]byte, error) {
	return c.getThrough(ctx, entityKey(kind, id), load)
}

// GetList behaves like GetEntity for a named list view of a kind.
func (c *Coordinator) GetList(ctx context.Context, kind, view string, load ports.CacheLoader) ([]byte, error) {
	return c.getThrough(ctx, listKey(kind, view), load)
}

func (c *Coordinator) getThrough(ctx context.Context, key string, load ports.CacheLoader) ([]byte, error) {
	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return cached, nil
	}
	if err != redis.Nil {
		c.log.WithField("key", key).WithError(err).Warn("cache read failed, falling back to store")
	}

	data, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, key, data, 0).Err(); err != nil {
		c.log.WithField("key", key).WithError(err).Warn("cache populate failed")
	}

	return data, nil
}

// Invalidate removes the entry for (kind, id) if present. Idempotent; a
// failure is logged and the entry goes stale until the next write.
func (c *Coordinator) Invalidate(ctx context.Context, kind, id string) {
	key := entityKey(kind, id)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.WithField("key", key).WithError(err).Warn("cache invalidation failed")
	}
}

// InvalidateAll removes every cached list view of the kind.
func (c *Coordinator) InvalidateAll(ctx context.Context, kind string) {
	pattern := listKey(kind, "*")
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.WithField("pattern", pattern).WithError(err).Warn("cache list scan failed")
		return
	}

	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.WithField("pattern", pattern).WithError(err).Warn("cache list invalidation failed")
	}
}
