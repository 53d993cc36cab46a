package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetry(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "默认配置", cfg: DefaultConfig()},
		{
			name: "指数退避",
			cfg: Config{
				Type: "exponential",
				ExponentialBackoff: &ExponentialBackoffConfig{
					InitialInterval: time.Millisecond,
					MaxInterval:     time.Second,
					MaxRetries:      5,
				},
			},
		},
		{name: "缺少配置", cfg: Config{Type: "fixed"}, wantErr: true},
		{name: "未知类型", cfg: Config{Type: "unknown"}, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := NewRetry(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, ok := s.Next()
			assert.True(t, ok)
		})
	}
}

func TestDefaultConfig_MaxRetries(t *testing.T) {
	t.Parallel()

	s, err := NewRetry(DefaultConfig())
	require.NoError(t, err)
	cnt := 0
	for {
		if _, ok := s.Next(); !ok {
			break
		}
		cnt++
	}
	assert.Equal(t, 3, cnt)
}
