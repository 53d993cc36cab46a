package rule

import (
	"context"
	"fmt"
	"math"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	"gitee.com/flycash/alert-platform/internal/repository"
	"gitee.com/flycash/alert-platform/internal/service/goal"
)

const (
	day = 24 * time.Hour
	// goalScanBatchSize goal_progress 需要扫描组织内所有非终态目标
	goalScanBatchSize = 100
)

// Evaluator 判断一条告警规则当前是否满足触发条件。
// 每种告警类型只取第一个命中的对象，剩下的留给后续的检查
//
//go:generate mockgen -source=./evaluator.go -destination=./mocks/evaluator.mock.go -package=rulemocks Evaluator
type Evaluator interface {
	Evaluate(ctx context.Context, rule domain.AlertRule, now time.Time) (domain.TriggerResult, error)
}

type evaluator struct {
	goals      repository.GoalRepository
	compliance repository.ComplianceEventRepository
	engine     *goal.Engine
}

func NewEvaluator(goals repository.GoalRepository,
	compliance repository.ComplianceEventRepository,
	engine *goal.Engine,
) Evaluator {
	return &evaluator{
		goals:      goals,
		compliance: compliance,
		engine:     engine,
	}
}

func (e *evaluator) Evaluate(ctx context.Context, rule domain.AlertRule, now time.Time) (domain.TriggerResult, error) {
	var (
		res domain.TriggerResult
		err error
	)
	switch rule.AlertType {
	case domain.AlertTypeGoalAtRisk, domain.AlertTypeGoalBehind:
		res, err = e.goalByStatus(ctx, rule)
	case domain.AlertTypeGoalOverdue:
		res, err = e.goalOverdue(ctx, rule, now)
	case domain.AlertTypeGoalProgress:
		res, err = e.goalProgress(ctx, rule)
	case domain.AlertTypeComplianceDueSoon:
		res, err = e.complianceDueSoon(ctx, rule, now)
	case domain.AlertTypeComplianceOverdue:
		res, err = e.complianceOverdue(ctx, rule, now)
	default:
		// 未知类型不触发，也不算错误
		return domain.NoTrigger(), nil
	}
	if err != nil || !res.ShouldTrigger {
		return res, err
	}
	res.Context["ruleName"] = rule.Name
	res.Context["alertType"] = rule.AlertType.String()
	return res, nil
}

func (e *evaluator) goalByStatus(ctx context.Context, rule domain.AlertRule) (domain.TriggerResult, error) {
	goals, err := e.goals.FindByStatuses(ctx, rule.OrgID, rule.GoalStatuses(), 1)
	if err != nil {
		return domain.TriggerResult{}, err
	}
	if len(goals) == 0 {
		return domain.NoTrigger(), nil
	}
	return e.goalTrigger(goals[0]), nil
}

func (e *evaluator) goalOverdue(ctx context.Context, rule domain.AlertRule, now time.Time) (domain.TriggerResult, error) {
	goals, err := e.goals.FindOverdue(ctx, rule.OrgID, now, 1)
	if err != nil {
		return domain.TriggerResult{}, err
	}
	if len(goals) == 0 {
		return domain.NoTrigger(), nil
	}
	g := goals[0]
	res := e.goalTrigger(g)
	res.Context["endDate"] = g.EndDate.Format(time.DateOnly)
	res.Context["daysOverdue"] = daysOverdue(g.EndDate, now)
	return res, nil
}

func (e *evaluator) goalProgress(ctx context.Context, rule domain.AlertRule) (domain.TriggerResult, error) {
	threshold := rule.Conditions.ProgressThreshold
	if threshold <= 0 {
		return domain.TriggerResult{}, fmt.Errorf("%w: 规则 %d 没有配置 ProgressThreshold", errs.ErrInvalidParameter, rule.ID)
	}
	var cursor int64
	for {
		goals, err := e.goals.FindNonTerminal(ctx, rule.OrgID, cursor, goalScanBatchSize)
		if err != nil {
			return domain.TriggerResult{}, err
		}
		for _, g := range goals {
			if e.engine.Percentage(g) >= threshold {
				res := e.goalTrigger(g)
				res.Context["threshold"] = threshold
				return res, nil
			}
			cursor = g.ID
		}
		if len(goals) < goalScanBatchSize {
			return domain.NoTrigger(), nil
		}
	}
}

func (e *evaluator) goalTrigger(g domain.Goal) domain.TriggerResult {
	return domain.TriggerResult{
		ShouldTrigger: true,
		SourceType:    domain.SourceTypeGoal,
		SourceID:      g.ID,
		Context: map[string]any{
			"goalId":     g.ID,
			"goalName":   g.Name,
			"status":     g.Status.String(),
			"percentage": e.engine.Percentage(g),
		},
	}
}

func (e *evaluator) complianceDueSoon(ctx context.Context, rule domain.AlertRule, now time.Time) (domain.TriggerResult, error) {
	days := rule.ComplianceDaysBeforeDue()
	// 包含恰好在 now + days 截止的事项
	to := now.Add(time.Duration(days)*day + time.Millisecond)
	events, err := e.compliance.FindByDueRange(ctx, rule.OrgID, now, to,
		domain.OutstandingComplianceStatuses(), 1)
	if err != nil {
		return domain.TriggerResult{}, err
	}
	if len(events) == 0 {
		return domain.NoTrigger(), nil
	}
	res := complianceTrigger(events[0])
	res.Context["daysUntilDue"] = daysUntilDue(events[0].DueDate, now)
	return res, nil
}

func (e *evaluator) complianceOverdue(ctx context.Context, rule domain.AlertRule, now time.Time) (domain.TriggerResult, error) {
	events, err := e.compliance.FindByDueRange(ctx, rule.OrgID, time.Time{}, now,
		domain.OutstandingComplianceStatuses(), 1)
	if err != nil {
		return domain.TriggerResult{}, err
	}
	if len(events) == 0 {
		return domain.NoTrigger(), nil
	}
	res := complianceTrigger(events[0])
	res.Context["daysOverdue"] = daysOverdue(events[0].DueDate, now)
	return res, nil
}

func complianceTrigger(evt domain.ComplianceEvent) domain.TriggerResult {
	return domain.TriggerResult{
		ShouldTrigger: true,
		SourceType:    domain.SourceTypeComplianceEvent,
		SourceID:      evt.ID,
		Context: map[string]any{
			"eventId":    evt.ID,
			"eventTitle": evt.Title,
			"dueDate":    evt.DueDate.Format(time.DateOnly),
			"status":     evt.Status.String(),
		},
	}
}

// daysUntilDue 不足一天按一天算
func daysUntilDue(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// daysOverdue 按完整天数计算
func daysOverdue(due, now time.Time) int {
	return int(math.Floor(now.Sub(due).Hours() / 24))
}
