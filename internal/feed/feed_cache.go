package feed

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotCacheKey = "shifts:feed:snapshot"

// Cache holds the most recent Snapshot behind a TTL, with explicit
// invalidation. A miss is (zero, false, nil); errors are backend failures.
type Cache interface {
	Get(ctx context.Context) (Snapshot, bool, error)
	Set(ctx context.Context, snap Snapshot) error
	Invalidate(ctx context.Context) error
}

// MemoryCache is the default single-process backend.
type MemoryCache struct {
	mu        sync.RWMutex
	snap      Snapshot
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(ctx context.Context) (Snapshot, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.expiresAt.IsZero() || c.now().After(c.expiresAt) {
		return Snapshot{}, false, nil
	}
	return c.snap, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, snap Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

func (c *MemoryCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = Snapshot{}
	c.expiresAt = time.Time{}
	return nil
}

// RedisCache shares the snapshot between replicas, JSON-encoded under one key
// with the TTL enforced by redis itself.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) (Snapshot, bool, error) {
	val, err := c.rdb.Get(ctx, snapshotCacheKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		// Corrupted cache entry, treat as a miss so the next load repairs it.
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

func (c *RedisCache) Set(ctx context.Context, snap Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, snapshotCacheKey, b, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, snapshotCacheKey).Err()
}
