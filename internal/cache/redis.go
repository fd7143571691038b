package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arpangb16/Prometheus-travel-planner/config"
	"github.com/arpangb16/Prometheus-travel-planner/internal/domain"
)

// RedisCache keeps recent search results keyed by query fingerprint so
// repeated identical searches skip the provider round trip.
type RedisCache struct {
	client     *redis.Client
	resultsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, resultsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		resultsTTL: resultsTTL,
	}
}

func (c *RedisCache) GetSearchResult(ctx context.Context, key string) (*domain.SearchResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RedisCache) SetSearchResult(ctx context.Context, key string, result *domain.SearchResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.resultsTTL).Err()
}
