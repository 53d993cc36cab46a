package metrics

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	successStatus = "success"
	errorStatus   = "error"
)

// Hook 实现了 redis.Hook 接口，为告警平台的 Redis 操作添加指标收集。
// 用户缓存、分布式锁、限流都走同一个客户端
type Hook struct {
	commandCounter          *prometheus.CounterVec
	commandDuration         *prometheus.SummaryVec
	pipelineCounter         *prometheus.CounterVec
	pipelineCommandsCounter prometheus.Counter
	pipelineDuration        prometheus.Summary
	connectionCounter       *prometheus.CounterVec
}

// NewMetricsHook reg 为 nil 的时候不注册，测试里直接读指标
func NewMetricsHook(reg prometheus.Registerer) *Hook {
	objectives := map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.95: 0.005, 0.99: 0.001}
	h := &Hook{
		commandCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "alert_platform",
				Name:      "redis_commands_total",
				Help:      "Total number of Redis commands executed",
			},
			[]string{"command", "status"},
		),
		commandDuration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace:  "alert_platform",
				Name:       "redis_command_duration_seconds",
				Help:       "Redis command execution time in seconds",
				Objectives: objectives,
			},
			[]string{"command"},
		),
		pipelineCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "alert_platform",
				Name:      "redis_pipeline_commands_total",
				Help:      "Total number of Redis pipeline executions",
			},
			[]string{"status"},
		),
		pipelineCommandsCounter: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "alert_platform",
				Name:      "redis_pipeline_command_count_total",
				Help:      "Total number of commands in Redis pipelines",
			},
		),
		pipelineDuration: prometheus.NewSummary(
			prometheus.SummaryOpts{
				Namespace:  "alert_platform",
				Name:       "redis_pipeline_duration_seconds",
				Help:       "Redis pipeline execution time in seconds",
				Objectives: objectives,
			},
		),
		connectionCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "alert_platform",
				Name:      "redis_connections_total",
				Help:      "Total number of Redis connections created",
			},
			[]string{"status"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			h.commandCounter,
			h.commandDuration,
			h.pipelineCounter,
			h.pipelineCommandsCounter,
			h.pipelineDuration,
			h.connectionCounter,
		)
	}
	return h
}

// ProcessHook 处理Redis命令的指标收集
func (h *Hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		cmdName := cmd.Name()
		startTime := time.Now()

		err := next(ctx, cmd)

		h.commandDuration.WithLabelValues(cmdName).Observe(time.Since(startTime).Seconds())
		// 缓存未命中不算失败
		status := successStatus
		if err != nil && !errors.Is(err, redis.Nil) {
			status = errorStatus
		}
		h.commandCounter.WithLabelValues(cmdName, status).Inc()
		return err
	}
}

// ProcessPipelineHook 处理Redis管道命令的指标收集
func (h *Hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if len(cmds) == 0 {
			return next(ctx, cmds)
		}
		startTime := time.Now()

		err := next(ctx, cmds)

		h.pipelineDuration.Observe(time.Since(startTime).Seconds())
		h.pipelineCommandsCounter.Add(float64(len(cmds)))
		status := successStatus
		for _, cmd := range cmds {
			if cmdErr := cmd.Err(); cmdErr != nil && !errors.Is(cmdErr, redis.Nil) {
				status = errorStatus
				break
			}
		}
		if err != nil {
			status = errorStatus
		}
		h.pipelineCounter.WithLabelValues(status).Inc()
		return err
	}
}

// DialHook 处理Redis连接的指标收集
func (h *Hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		status := successStatus
		if err != nil {
			status = errorStatus
		}
		h.connectionCounter.WithLabelValues(status).Inc()
		return conn, err
	}
}

// WithMetrics 为Redis客户端添加指标收集功能
func WithMetrics(client *redis.Client, reg prometheus.Registerer) *redis.Client {
	client.AddHook(NewMetricsHook(reg))
	return client
}
