//go:build e2e

package push

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gitee.com/flycash/alert-platform/internal/pkg/mqx2"
	testioc "gitee.com/flycash/alert-platform/internal/test/ioc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestKafkaProducerSuite(t *testing.T) {
	suite.Run(t, new(KafkaProducerTestSuite))
}

type KafkaProducerTestSuite struct {
	suite.Suite
}

func (s *KafkaProducerTestSuite) SetupSuite() {
	testioc.InitTopic()
}

func (s *KafkaProducerTestSuite) TestProduce() {
	t := s.T()

	gp, err := mqx2.NewGeneralProducer[Event](testioc.KafkaAddr(), Topic)
	require.NoError(t, err)
	defer gp.Close()
	producer := NewKafkaProducer(gp)

	consumer := testioc.InitConsumer("push-gateway-e2e")
	defer consumer.Close()
	require.NoError(t, consumer.SubscribeTopics([]string{Topic}, nil))

	evt := Event{
		Type:    EventTypeGoalAtRisk,
		OrgID:   time.Now().UnixNano(),
		GoalID:  12,
		Title:   "目标存在风险",
		Message: "时间过半，进度不足",
		SentAt:  time.Now().UnixMilli(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, producer.Produce(ctx, evt))

	// 同一个 topic 上可能有之前的消息
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		msg, err := consumer.ReadMessage(time.Second)
		if err != nil {
			continue
		}
		if string(msg.Key) != evt.Key() {
			continue
		}
		var got Event
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, evt, got)
		return
	}
	t.Fatal("没有消费到推送事件")
}
