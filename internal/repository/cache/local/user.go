package local

import (
	"context"
	"strings"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/repository/cache"
	"github.com/gotomicro/ego/core/elog"
	ca "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const defaultExpiration = time.Minute

// Cache 本地缓存，没有命中的时候查 next（一般是 redis）
type Cache struct {
	next   cache.UserCache
	c      *ca.Cache
	logger *elog.Component
}

func NewLocalCache(next cache.UserCache, c *ca.Cache) *Cache {
	return &Cache{
		next:   next,
		c:      c,
		logger: elog.DefaultLogger,
	}
}

func (l *Cache) Get(ctx context.Context, orgID int64, role domain.Role) ([]domain.User, error) {
	key := cache.UserKey(orgID, role)
	if v, ok := l.c.Get(key); ok {
		return v.([]domain.User), nil
	}
	users, err := l.next.Get(ctx, orgID, role)
	if err != nil {
		return nil, err
	}
	l.c.Set(key, users, defaultExpiration)
	return users, nil
}

func (l *Cache) Set(ctx context.Context, orgID int64, role domain.Role, users []domain.User) error {
	l.c.Set(cache.UserKey(orgID, role), users, defaultExpiration)
	return l.next.Set(ctx, orgID, role, users)
}

func (l *Cache) Del(ctx context.Context, orgID int64, role domain.Role) error {
	l.c.Delete(cache.UserKey(orgID, role))
	return l.next.Del(ctx, orgID, role)
}

// Watch 监听 redis 的 keyspace 事件，其他实例修改了接收人就删掉本地的副本。
// 需要 redis 开启 notify-keyspace-events，ctx 被取消的时候退出
func (l *Cache) Watch(ctx context.Context, rdb *redis.Client) {
	pubsub := rdb.PSubscribe(ctx, "__keyspace@*__:"+cache.RecipientPrefix+":*")
	defer pubsub.Close()
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			l.handleKeyEvent(msg.Channel, msg.Payload)
		}
	}
}

func (l *Cache) handleKeyEvent(channel, event string) {
	idx := strings.Index(channel, ":")
	if idx < 0 || idx == len(channel)-1 {
		l.logger.Error("监听redis键不正确", elog.String("channel", channel))
		return
	}
	key := channel[idx+1:]
	switch event {
	case "set", "del", "expired":
		l.c.Delete(key)
	}
}
