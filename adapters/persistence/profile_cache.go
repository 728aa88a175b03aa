package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
)

const profileCacheKeyPrefix = "profile:user:"

type redisProfileCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisProfileCache(rdb redis.Cmdable, ttl time.Duration) service.ProfileCache {
	return &redisProfileCache{rdb: rdb, ttl: ttl}
}

func profileCacheKey(userID uuid.UUID) string {
	return profileCacheKeyPrefix + userID.String()
}

func (c *redisProfileCache) Get(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	data, err := c.rdb.Get(ctx, profileCacheKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get profile: %w", err)
	}

	p := &profile.Profile{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}
	return p, nil
}

func (c *redisProfileCache) Set(ctx context.Context, p *profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile for cache: %w", err)
	}
	if err := c.rdb.Set(ctx, profileCacheKey(p.UserID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set profile: %w", err)
	}
	return nil
}

func (c *redisProfileCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.rdb.Del(ctx, profileCacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del profile: %w", err)
	}
	return nil
}
