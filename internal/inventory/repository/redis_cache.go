package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/pkg/logger"
)

const allocationKeyPrefix = "inventory:allocations:project:"

// RedisAllocationCache implements domain.AllocationReportCache with Redis.
// Failures are logged and treated as cache misses.
type RedisAllocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAllocationCache creates a new allocation report cache
func NewRedisAllocationCache(client *redis.Client, ttl time.Duration) *RedisAllocationCache {
	return &RedisAllocationCache{client: client, ttl: ttl}
}

func allocationKey(projectID uint) string {
	return fmt.Sprintf("%s%d", allocationKeyPrefix, projectID)
}

// Get returns the cached report of a project
func (c *RedisAllocationCache) Get(ctx context.Context, projectID uint) ([]domain.AllocationStock, bool) {
	if c.client == nil {
		return nil, false
	}

	key := allocationKey(projectID)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to read allocation report from cache")
		}
		return nil, false
	}

	var rows []domain.AllocationStock
	if err := json.Unmarshal(payload, &rows); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Discarding malformed cached allocation report")
		return nil, false
	}

	logger.Debug(ctx).Str("cache_key", key).Msg("Cache hit")
	return rows, true
}

// Set stores the report of a project
func (c *RedisAllocationCache) Set(ctx context.Context, projectID uint, rows []domain.AllocationStock) {
	if c.client == nil {
		return
	}

	key := allocationKey(projectID)
	payload, err := json.Marshal(rows)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to encode allocation report")
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to cache allocation report")
		return
	}

	logger.Debug(ctx).Str("cache_key", key).Dur("ttl", c.ttl).Int("rows", len(rows)).Msg("Allocation report cached")
}

// Invalidate drops the cached reports of the given projects
func (c *RedisAllocationCache) Invalidate(ctx context.Context, projectIDs ...uint) {
	if c.client == nil || len(projectIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(projectIDs))
	for _, id := range projectIDs {
		keys = append(keys, allocationKey(id))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn(ctx).Err(err).Strs("cache_keys", keys).Msg("Failed to invalidate allocation reports")
	}
}
