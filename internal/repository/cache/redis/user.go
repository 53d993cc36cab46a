package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/repository/cache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	rdb        *redis.Client
	expiration time.Duration
}

func NewCache(rdb *redis.Client, expiration time.Duration) *Cache {
	if expiration <= 0 {
		expiration = cache.DefaultExpiredTime
	}
	return &Cache{
		rdb:        rdb,
		expiration: expiration,
	}
}

func (c *Cache) Get(ctx context.Context, orgID int64, role domain.Role) ([]domain.User, error) {
	key := cache.UserKey(orgID, role)
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// 键不存在
			return nil, cache.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get recipients from redis %w", err)
	}
	var users []domain.User
	err = json.Unmarshal(val, &users)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipients %w", err)
	}
	return users, nil
}

func (c *Cache) Set(ctx context.Context, orgID int64, role domain.Role, users []domain.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to marshal recipients %w", err)
	}
	err = c.rdb.Set(ctx, cache.UserKey(orgID, role), data, c.expiration).Err()
	if err != nil {
		return fmt.Errorf("failed to set recipients to redis %w", err)
	}
	return nil
}

func (c *Cache) Del(ctx context.Context, orgID int64, role domain.Role) error {
	return c.rdb.Del(ctx, cache.UserKey(orgID, role)).Err()
}
