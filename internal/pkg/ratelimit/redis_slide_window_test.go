//go:build e2e

package ratelimit

import (
	"fmt"
	"testing"
	"time"

	testioc "gitee.com/flycash/alert-platform/internal/test/ioc"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestRedisSlidingWindowLimiter(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(RedisSlidingWindowLimiterTestSuite))
}

type RedisSlidingWindowLimiterTestSuite struct {
	suite.Suite
	rdb redis.Cmdable
}

func (s *RedisSlidingWindowLimiterTestSuite) SetupSuite() {
	s.rdb = testioc.InitRedisClient()
}

func (s *RedisSlidingWindowLimiterTestSuite) newLimiter() *RedisSlidingWindowLimiter {
	return NewRedisSlidingWindowLimiter(s.rdb, 100*time.Millisecond, 5)
}

// 生成唯一的测试键，避免测试冲突
func (s *RedisSlidingWindowLimiterTestSuite) getUniqueKey(name string) string {
	return fmt.Sprintf("test:%s:%d", name, time.Now().UnixNano())
}

func (s *RedisSlidingWindowLimiterTestSuite) TestLimit_SingleRequest() {
	t := s.T()
	ctx := t.Context()
	key := s.getUniqueKey("single_request")

	limiter := s.newLimiter()
	limited, err := limiter.Limit(ctx, key)
	require.NoError(t, err)
	assert.False(t, limited, "第一个请求不应该被限流")

	cnt, err := s.rdb.ZCard(ctx, limiter.getCountKey(key)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), cnt, "应该记录一个请求")

	s.rdb.Del(ctx, limiter.getCountKey(key))
}

func (s *RedisSlidingWindowLimiterTestSuite) TestLimit_ExceedThreshold() {
	t := s.T()
	ctx := t.Context()
	key := s.getUniqueKey("exceed_threshold")

	limiter := s.newLimiter()
	for i := 0; i < 5; i++ {
		limited, err := limiter.Limit(ctx, key)
		require.NoError(t, err)
		assert.False(t, limited, fmt.Sprintf("第%d个请求不应该被限流", i+1))
	}

	limited, err := limiter.Limit(ctx, key)
	require.NoError(t, err)
	assert.True(t, limited, "第6个请求应该被限流")

	// 被限流的请求不计入窗口
	cnt, err := s.rdb.ZCard(ctx, limiter.getCountKey(key)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(5), cnt)

	s.rdb.Del(ctx, limiter.getCountKey(key))
}

func (s *RedisSlidingWindowLimiterTestSuite) TestLimit_DifferentKeys() {
	t := s.T()
	ctx := t.Context()
	key1 := s.getUniqueKey("key1")
	key2 := s.getUniqueKey("key2")

	limiter := s.newLimiter()
	for i := 0; i < 5; i++ {
		limited, err := limiter.Limit(ctx, key1)
		require.NoError(t, err)
		assert.False(t, limited)
	}

	limited, err := limiter.Limit(ctx, key1)
	require.NoError(t, err)
	assert.True(t, limited, "key1应该被限流")

	limited, err = limiter.Limit(ctx, key2)
	require.NoError(t, err)
	assert.False(t, limited, "key2不应该被限流")

	s.rdb.Del(ctx, limiter.getCountKey(key1), limiter.getCountKey(key2))
}

func (s *RedisSlidingWindowLimiterTestSuite) TestLimit_WindowSliding() {
	t := s.T()
	ctx := t.Context()
	key := s.getUniqueKey("window_sliding")

	limiter := s.newLimiter()
	for i := 0; i < 5; i++ {
		limited, err := limiter.Limit(ctx, key)
		require.NoError(t, err)
		assert.False(t, limited)
	}
	limited, err := limiter.Limit(ctx, key)
	require.NoError(t, err)
	assert.True(t, limited, "窗口已满应该被限流")

	// 100ms 窗口加上余量
	time.Sleep(150 * time.Millisecond)

	limited, err = limiter.Limit(ctx, key)
	require.NoError(t, err)
	assert.False(t, limited, "窗口滑动后不应该被限流")

	s.rdb.Del(ctx, limiter.getCountKey(key))
}
