package settingsrepo

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/Masudcse27/bs-library-management-system/model"
)

const cacheKey = "library:settings"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Cache interface {
	Get(ctx context.Context) (model.Settings, bool, error)
	Set(ctx context.Context, s model.Settings) error
	Invalidate(ctx context.Context) error
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) Cache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context) (model.Settings, bool, error) {
	var s model.Settings
	raw, err := c.rdb.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return s, false, nil
	}
	if err != nil {
		return s, false, err
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, false, err
	}
	return s, true, nil
}

func (c *redisCache) Set(ctx context.Context, s model.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey, raw, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, cacheKey).Err()
}

// NopCache is used when no Redis is configured.
type NopCache struct{}

func (NopCache) Get(context.Context) (model.Settings, bool, error) {
	return model.Settings{}, false, nil
}
func (NopCache) Set(context.Context, model.Settings) error { return nil }
func (NopCache) Invalidate(context.Context) error          { return nil }
