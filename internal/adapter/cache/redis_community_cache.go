package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/internal/infrastructure/metrics"
	"outdoormatch/pkg/logger"
)

const communityListKey = "communities:list"

// ConnectRedis configures a Redis client using the supplied URL.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}

	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	return client, nil
}

// RedisCommunityCache holds the community list. Cache errors are logged and
// reported as a miss; the store stays the source of truth.
type RedisCommunityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCommunityCache(client *redis.Client, ttl time.Duration) *RedisCommunityCache {
	return &RedisCommunityCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisCommunityCache) GetList(ctx context.Context) ([]entity.CommunitySummary, bool) {
	cached, err := c.client.Get(ctx, communityListKey).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Failed to read community cache: %v", err)
		}
		metrics.IncCacheLookup("miss")
		return nil, false
	}

	var list []entity.CommunitySummary
	if err := json.Unmarshal([]byte(cached), &list); err != nil {
		logger.Warn("Discarding unreadable community cache entry: %v", err)
		metrics.IncCacheLookup("miss")
		return nil, false
	}

	metrics.IncCacheLookup("hit")
	return list, true
}

func (c *RedisCommunityCache) SetList(ctx context.Context, list []entity.CommunitySummary) {
	payload, err := json.Marshal(list)
	if err != nil {
		logger.Warn("Failed to encode community cache entry: %v", err)
		return
	}
	if err := c.client.Set(ctx, communityListKey, payload, c.ttl).Err(); err != nil {
		logger.Warn("Failed to store community cache: %v", err)
	}
}

func (c *RedisCommunityCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, communityListKey).Err(); err != nil {
		logger.Warn("Failed to invalidate community cache: %v", err)
	}
}
