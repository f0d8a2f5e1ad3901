// Package cache is a read-through Redis cache for query results. The corpus
// is fixed for the process lifetime, so entries only ever expire by TTL;
// invalidation exists for operational use, not correctness.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/search/engine"
	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/config"
	pkgredis "github.com/Yateesh1508/IR-ASSIGNMENT/pkg/redis"
)

const keyPrefix = "search:"

// Store is the key-value surface the cache needs. *redis.Client from
// pkg/redis satisfies it; Get must return an error matching
// pkgredis.IsMiss when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

// QueryCache caches engine results keyed by (normalized query, limit).
type QueryCache struct {
	client Store
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a QueryCache over an established store.
func New(client Store, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// GetOrCompute returns the cached result for (query, limit) or runs
// computeFn, storing its result. Concurrent misses for the same key are
// collapsed to a single computation. The bool reports a cache hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	limit int,
	computeFn func() (*engine.Result, error),
) (*engine.Result, bool, error) {
	if result, ok := c.get(ctx, query, limit); ok {
		return result, true, nil
	}
	key := c.buildKey(query, limit)
	val, err, _ := c.group.Do(key, func() (any, error) {
		if result, ok := c.get(ctx, query, limit); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*engine.Result), false, nil
}

func (c *QueryCache) get(ctx context.Context, query string, limit int) (*engine.Result, bool) {
	data, err := c.client.Get(ctx, c.buildKey(query, limit))
	if err != nil {
		if pkgredis.IsMiss(err) {
			c.misses.Add(1)
			return nil, false
		}
		c.logger.Warn("cache get failed", "error", err)
		return nil, false
	}
	var result engine.Result
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	c.hits.Add(1)
	return &result, true
}

func (c *QueryCache) set(ctx context.Context, key string, result *engine.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops every cached query result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.DeletePrefix(ctx, keyPrefix)
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Info("query cache invalidated", "deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) buildKey(query string, limit int) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	raw := fmt.Sprintf("%s:limit=%d", normalized, limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
