package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/adega-delivery/backend/internal/config"
	"github.com/adega-delivery/backend/internal/domain"
)

const keyPrefix = "geocode:"

// GeocodeCache stores geocoding results in Redis so multiple API instances
// share one cache. Expiry is enforced by Redis TTL.
type GeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGeocodeCache(cfg config.RedisConfig, ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: ttl,
	}
}

func (c *GeocodeCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *GeocodeCache) Close() error {
	return c.client.Close()
}

type cachedCoords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c *GeocodeCache) Get(ctx context.Context, key string) (*domain.Coordinates, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var cached cachedCoords
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry: %w", err)
	}

	return &domain.Coordinates{Lat: cached.Lat, Lng: cached.Lng}, true, nil
}

func (c *GeocodeCache) Put(ctx context.Context, key string, coords domain.Coordinates) error {
	raw, err := json.Marshal(cachedCoords{Lat: coords.Lat, Lng: coords.Lng})
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
