package ioc

import (
	"time"

	"gitee.com/flycash/alert-platform/internal/pkg/ratelimit"
	"gitee.com/flycash/alert-platform/internal/web"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/server/egin"
	"github.com/redis/go-redis/v9"
)

func InitJwtAuth() *web.JwtAuth {
	key := econf.GetString("jwt.key")
	if key == "" {
		panic("jwt.key 不能为空")
	}
	return web.NewJwtAuth(key)
}

// InitTickLimiter 手动调度默认每个组织每分钟 3 次
func InitTickLimiter(rdb *redis.Client) ratelimit.Limiter {
	type Config struct {
		Interval time.Duration `yaml:"interval"`
		Rate     int           `yaml:"rate"`
	}
	cfg := Config{
		Interval: time.Minute,
		Rate:     3,
	}
	err := econf.UnmarshalKey("ratelimit.tick", &cfg)
	if err != nil {
		panic(err)
	}
	return ratelimit.NewRedisSlidingWindowLimiter(rdb, cfg.Interval, cfg.Rate)
}

func InitGinServer(handler *web.Handler) *egin.Component {
	server := egin.Load("server.http").Build()
	handler.PublicRoutes(server.Engine)
	return server
}
