package push

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"gitee.com/flycash/alert-platform/internal/pkg/mqx2"
	"github.com/ecodeclub/mq-api"
)

const Topic = "alert_push_events"

type EventType string

const (
	EventTypeAlert         EventType = "alert"
	EventTypeGoalThreshold EventType = "goal_threshold_crossed"
	EventTypeGoalAtRisk    EventType = "goal_at_risk"
)

// Event 实时推送事件，UserID 和 OrgID 二选一：发给个人或者整个组织
type Event struct {
	Type      EventType `json:"type"`
	UserID    int64     `json:"userId,omitempty"`
	OrgID     int64     `json:"orgId,omitempty"`
	AlertID   uint64    `json:"alertId,omitempty"`
	GoalID    int64     `json:"goalId,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity,omitempty"`
	AlertType string    `json:"alertType,omitempty"`
	ActionURL string    `json:"actionUrl,omitempty"`
	SentAt    int64     `json:"sentAt"`
}

// Key 同一个接收方的事件进入同一个分区
func (e Event) Key() string {
	if e.UserID > 0 {
		return "user:" + strconv.FormatInt(e.UserID, 10)
	}
	return "org:" + strconv.FormatInt(e.OrgID, 10)
}

// Producer 尽力而为，不保证送达
//
//go:generate mockgen -source=./producer.go -package=pushmocks -destination=./mocks/producer.mock.go Producer
type Producer interface {
	Produce(ctx context.Context, evt Event) error
}

// MQProducer 基于 mq-api，测试环境使用内存实现
type MQProducer struct {
	producer mq.Producer
}

func NewMQProducer(q mq.MQ) (*MQProducer, error) {
	producer, err := q.Producer(Topic)
	if err != nil {
		return nil, err
	}
	return &MQProducer{producer: producer}, nil
}

func (p *MQProducer) Produce(ctx context.Context, evt Event) error {
	val, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化推送事件失败 %w", err)
	}
	_, err = p.producer.Produce(ctx, &mq.Message{
		Topic: Topic,
		Key:   []byte(evt.Key()),
		Value: val,
	})
	return err
}

// KafkaProducer 直接使用 kafka
type KafkaProducer struct {
	producer *mqx2.GeneralProducer[Event]
}

func NewKafkaProducer(producer *mqx2.GeneralProducer[Event]) *KafkaProducer {
	return &KafkaProducer{producer: producer}
}

func (p *KafkaProducer) Produce(ctx context.Context, evt Event) error {
	return p.producer.ProduceWithKey(ctx, evt.Key(), evt)
}
