package metrics

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHook_ProcessHook(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		err        error
		wantStatus string
	}{
		{
			name:       "成功",
			wantStatus: successStatus,
		},
		{
			name:       "键不存在不算失败",
			err:        redis.Nil,
			wantStatus: successStatus,
		},
		{
			name:       "失败",
			err:        errors.New("mock redis error"),
			wantStatus: errorStatus,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := NewMetricsHook(nil)
			process := h.ProcessHook(func(ctx context.Context, cmd redis.Cmder) error {
				return tc.err
			})
			cmd := redis.NewStringCmd(context.Background(), "get", "alert:users:1:csr")
			err := process(context.Background(), cmd)
			assert.Equal(t, tc.err, err)
			assert.Equal(t, float64(1), testutil.ToFloat64(h.commandCounter.WithLabelValues("get", tc.wantStatus)))
		})
	}
}

func TestHook_ProcessPipelineHook(t *testing.T) {
	t.Parallel()

	h := NewMetricsHook(nil)
	process := h.ProcessPipelineHook(func(ctx context.Context, cmds []redis.Cmder) error {
		if len(cmds) > 1 {
			cmds[1].SetErr(errors.New("mock redis error"))
		}
		return nil
	})
	cmds := []redis.Cmder{
		redis.NewStringCmd(context.Background(), "get", "a"),
		redis.NewStatusCmd(context.Background(), "set", "b", "1"),
	}
	require.NoError(t, process(context.Background(), cmds))
	assert.Equal(t, float64(2), testutil.ToFloat64(h.pipelineCommandsCounter))
	assert.Equal(t, float64(1), testutil.ToFloat64(h.pipelineCounter.WithLabelValues(errorStatus)))

	// 空管道直接透传
	require.NoError(t, process(context.Background(), nil))
	assert.Equal(t, float64(2), testutil.ToFloat64(h.pipelineCommandsCounter))
}

func TestHook_DialHook(t *testing.T) {
	t.Parallel()

	h := NewMetricsHook(nil)
	dial := h.DialHook(func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("mock dial error")
	})
	_, err := dial(context.Background(), "tcp", "127.0.0.1:6379")
	assert.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(h.connectionCounter.WithLabelValues(errorStatus)))
}

func TestNewMetricsHook_Register(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	NewMetricsHook(reg)
	// 重复注册会 panic
	assert.Panics(t, func() {
		NewMetricsHook(reg)
	})
}
