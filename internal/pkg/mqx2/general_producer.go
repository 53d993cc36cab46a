package mqx2

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const defaultFlushTimeoutMs = 3000

// GeneralProducer 把 T 序列化成 JSON 发送到固定的 topic
type GeneralProducer[T any] struct {
	producer *kafka.Producer
	topic    string
}

func NewGeneralProducer[T any](addr, topic string) (*GeneralProducer[T], error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": addr,
	})
	if err != nil {
		return nil, fmt.Errorf("创建生产者失败: %w", err)
	}
	return &GeneralProducer[T]{
		producer: producer,
		topic:    topic,
	}, nil
}

func (p *GeneralProducer[T]) Produce(ctx context.Context, evt T) error {
	return p.ProduceWithKey(ctx, "", evt)
}

// ProduceWithKey 相同 key 的消息会进入同一个分区
func (p *GeneralProducer[T]) ProduceWithKey(ctx context.Context, key string, evt T) error {
	val, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化消息失败 %w", err)
	}
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Value:          val,
	}
	if key != "" {
		msg.Key = []byte(key)
	}
	deliveryChan := make(chan kafka.Event, 1)
	err = p.producer.Produce(msg, deliveryChan)
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("未知的投递结果 %v", e)
		}
		return m.TopicPartition.Error
	}
}

func (p *GeneralProducer[T]) Close() {
	p.producer.Flush(defaultFlushTimeoutMs)
	p.producer.Close()
}
