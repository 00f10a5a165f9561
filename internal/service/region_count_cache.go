package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"export-readiness/internal/domain"
)

// RegionCountCache guarda el conteo de empresas por región durante un TTL.
type RegionCountCache interface {
	Get(ctx context.Context) ([]domain.RegionCount, bool, error)
	Set(ctx context.Context, counts []domain.RegionCount, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type memoryRegionCountCache struct {
	mu        sync.Mutex
	counts    []domain.RegionCount
	expiresAt time.Time
	now       func() time.Time
}

func NewMemoryRegionCountCache() RegionCountCache {
	return &memoryRegionCountCache{now: time.Now}
}

func (c *memoryRegionCountCache) Get(_ context.Context) ([]domain.RegionCount, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil || !c.now().Before(c.expiresAt) {
		c.counts = nil
		return nil, false, nil
	}
	return append([]domain.RegionCount(nil), c.counts...), true, nil
}

func (c *memoryRegionCountCache) Set(_ context.Context, counts []domain.RegionCount, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = append(make([]domain.RegionCount, 0, len(counts)), counts...)
	c.expiresAt = c.now().Add(ttl)
	return nil
}

func (c *memoryRegionCountCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = nil
	return nil
}

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisRegionCountCache struct {
	client redisKVClient
	key    string
}

func NewRedisRegionCountCache(client *redis.Client) RegionCountCache {
	if client == nil {
		return nil
	}
	return &redisRegionCountCache{
		client: client,
		key:    "density:region_counts",
	}
}

func (c *redisRegionCountCache) Get(ctx context.Context) ([]domain.RegionCount, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var counts []domain.RegionCount
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, false, err
	}
	return counts, true, nil
}

func (c *redisRegionCountCache) Set(ctx context.Context, counts []domain.RegionCount, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.key, raw, ttl).Err()
}

func (c *redisRegionCountCache) Invalidate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Del(ctx, c.key).Err()
}
