package goal

import (
	"context"
	"fmt"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/event/push"
	"gitee.com/flycash/alert-platform/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

//go:generate mockgen -source=./service.go -destination=./mocks/goal.mock.go -package=goalmocks Service
type Service interface {
	// Refresh 重新计算目标的进度和状态并保存，返回里程碑和风险事件
	Refresh(ctx context.Context, goalID int64) (domain.Goal, []domain.GoalEvent, error)
	RefreshGoal(ctx context.Context, goal domain.Goal) (domain.Goal, []domain.GoalEvent, error)
}

type service struct {
	repo     repository.GoalRepository
	engine   *Engine
	producer push.Producer
	logger   *elog.Component
}

func NewService(repo repository.GoalRepository, engine *Engine, producer push.Producer) Service {
	return &service{
		repo:     repo,
		engine:   engine,
		producer: producer,
		logger:   elog.DefaultLogger,
	}
}

func (s *service) Refresh(ctx context.Context, goalID int64) (domain.Goal, []domain.GoalEvent, error) {
	g, err := s.repo.GetByID(ctx, goalID)
	if err != nil {
		return domain.Goal{}, nil, err
	}
	return s.RefreshGoal(ctx, g)
}

func (s *service) RefreshGoal(ctx context.Context, g domain.Goal) (domain.Goal, []domain.GoalEvent, error) {
	// 终态的目标进度冻结
	if g.Status.IsTerminal() {
		return g, nil, nil
	}
	from := g.Status
	s.engine.CalculateProgress(&g)
	s.engine.UpdateStatus(&g)
	events := s.engine.CheckAlerts(&g)
	// 先保存里程碑标记，再推送。写回冲突说明别人已经处理过，不能再推送
	if err := s.repo.SaveProgress(ctx, g, from); err != nil {
		return domain.Goal{}, nil, err
	}
	g.Version++
	s.publish(ctx, g, events)
	return g, events, nil
}

func (s *service) publish(ctx context.Context, g domain.Goal, events []domain.GoalEvent) {
	now := g.Progress.LastUpdated.UnixMilli()
	for _, evt := range events {
		pe := push.Event{
			OrgID:  g.OrgID,
			GoalID: g.ID,
			SentAt: now,
		}
		switch evt.Type {
		case domain.GoalEventThresholdCrossed:
			pe.Type = push.EventTypeGoalThreshold
			pe.Title = fmt.Sprintf("目标「%s」已完成 %.0f%%", g.Name, evt.Threshold)
			pe.Message = fmt.Sprintf("当前进度 %.1f%%", evt.Percentage)
		case domain.GoalEventAtRisk:
			pe.Type = push.EventTypeGoalAtRisk
			pe.Title = fmt.Sprintf("目标「%s」存在风险", g.Name)
			pe.Message = fmt.Sprintf("时间已过去 %.1f%%，进度只有 %.1f%%", evt.TimeProgress, evt.Percentage)
		default:
			continue
		}
		if err := s.producer.Produce(ctx, pe); err != nil {
			s.logger.Warn("推送目标事件失败",
				elog.Int64("goalID", g.ID),
				elog.String("type", string(evt.Type)),
				elog.FieldErr(err))
		}
	}
}
