package ioc

import (
	"time"

	"gitee.com/flycash/alert-platform/internal/repository/cache"
	"gitee.com/flycash/alert-platform/internal/repository/cache/local"
	rediscache "gitee.com/flycash/alert-platform/internal/repository/cache/redis"
	"github.com/gotomicro/ego/core/econf"
	ca "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLocalExpiration = time.Minute
	defaultCleanupInterval = 10 * time.Minute
)

func InitGoCache() *ca.Cache {
	return ca.New(defaultLocalExpiration, defaultCleanupInterval)
}

// InitUserCache 本地缓存在前，redis 在后
func InitUserCache(rdb *redis.Client, c *ca.Cache) cache.UserCache {
	expiration := econf.GetDuration("cache.user.expiration")
	return local.NewLocalCache(rediscache.NewCache(rdb, expiration), c)
}
