package ioc

import (
	"context"
	"time"

	"gitee.com/flycash/alert-platform/internal/event/push"
	"gitee.com/flycash/alert-platform/internal/pkg/mqx2"
	"github.com/ecodeclub/mq-api"
	"github.com/ecodeclub/mq-api/memory"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/core/elog"
)

// InitPushProducer 配置了 kafka 地址就直接发 kafka，否则退化成进程内的内存队列
func InitPushProducer() push.Producer {
	type Config struct {
		Addr       string `yaml:"addr"`
		Partitions int    `yaml:"partitions"`
	}
	var cfg Config
	err := econf.UnmarshalKey("push.kafka", &cfg)
	if err != nil {
		panic(err)
	}
	if cfg.Addr != "" {
		p, err := mqx2.NewGeneralProducer[push.Event](cfg.Addr, push.Topic)
		if err != nil {
			panic(err)
		}
		return push.NewKafkaProducer(p)
	}
	elog.DefaultLogger.Warn("没有配置 push.kafka.addr，实时推送使用内存队列")
	p, err := push.NewMQProducer(initMemoryMQ(max(cfg.Partitions, 1)))
	if err != nil {
		panic(err)
	}
	return p
}

func initMemoryMQ(partitions int) mq.MQ {
	q := memory.NewMQ()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := q.CreateTopic(ctx, push.Topic, partitions)
	if err != nil {
		panic(err)
	}
	return q
}
