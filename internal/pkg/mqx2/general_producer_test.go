//go:build e2e

package mqx2_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"gitee.com/flycash/alert-platform/internal/pkg/mqx2"
	testioc "gitee.com/flycash/alert-platform/internal/test/ioc"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ruleFired struct {
	RuleID  int64  `json:"ruleId"`
	AlertID uint64 `json:"alertId,string"`
}

func TestGeneralProducer(t *testing.T) {
	suite.Run(t, new(GeneralProducerTestSuite))
}

type GeneralProducerTestSuite struct {
	suite.Suite
	topic string
}

func (s *GeneralProducerTestSuite) SetupSuite() {
	s.topic = fmt.Sprintf("mqx2_rule_fired_%d", time.Now().UnixNano())
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{"bootstrap.servers": testioc.KafkaAddr()})
	s.Require().NoError(err)
	defer admin.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = admin.CreateTopics(ctx, []kafka.TopicSpecification{{Topic: s.topic, NumPartitions: 3}})
	s.Require().NoError(err)
}

func (s *GeneralProducerTestSuite) TestProduceWithKey() {
	t := s.T()

	producer, err := mqx2.NewGeneralProducer[ruleFired](testioc.KafkaAddr(), s.topic)
	require.NoError(t, err)
	defer producer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events := []ruleFired{
		{RuleID: 7, AlertID: 1 << 60},
		{RuleID: 7, AlertID: 1<<60 + 1},
	}
	for _, evt := range events {
		require.NoError(t, producer.ProduceWithKey(ctx, "rule:7", evt))
	}

	consumer := testioc.InitConsumer(fmt.Sprintf("mqx2-%d", time.Now().UnixNano()))
	defer consumer.Close()
	require.NoError(t, consumer.SubscribeTopics([]string{s.topic}, nil))

	var (
		got        []ruleFired
		partitions = map[int32]struct{}{}
	)
	deadline := time.Now().Add(15 * time.Second)
	for len(got) < len(events) && time.Now().Before(deadline) {
		msg, err := consumer.ReadMessage(time.Second)
		if err != nil {
			continue
		}
		assert.Equal(t, "rule:7", string(msg.Key))
		partitions[msg.TopicPartition.Partition] = struct{}{}
		var evt ruleFired
		require.NoError(t, json.Unmarshal(msg.Value, &evt))
		got = append(got, evt)
	}
	// 相同 key 落在同一个分区，顺序不变
	assert.Equal(t, events, got)
	assert.Len(t, partitions, 1)
}

func (s *GeneralProducerTestSuite) TestProduceCanceled() {
	t := s.T()

	producer, err := mqx2.NewGeneralProducer[ruleFired](testioc.KafkaAddr(), s.topic)
	require.NoError(t, err)
	defer producer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = producer.Produce(ctx, ruleFired{RuleID: 8})
	// 投递结果可能先于 ctx 返回
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
