package goal

import (
	"math"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
)

const (
	atRiskTimeProgress = 80
	atRiskPercentage   = 80
	behindTimeProgress = 50
	behindPercentage   = 50
	onTrackRatio       = 0.9
)

// Engine 目标进度和状态的计算，只有它可以修改 Progress 和 Status
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Percentage 完成百分比，限制在 [0, 100]，目标值为 0 时为 0
func (e *Engine) Percentage(g domain.Goal) float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	return math.Max(0, math.Min(100, g.CurrentValue/g.TargetValue*100))
}

// TimeProgress 已经过去的时间占比，不做截断。时间窗口为 0 时视为已经全部过去
func (e *Engine) TimeProgress(g domain.Goal, now time.Time) float64 {
	window := g.EndDate.Sub(g.StartDate)
	if window <= 0 {
		return 100
	}
	return float64(now.Sub(g.StartDate)) / float64(window) * 100
}

func (e *Engine) CalculateProgress(g *domain.Goal) float64 {
	g.Progress.Percentage = e.Percentage(*g)
	g.Progress.LastUpdated = e.now()
	return g.Progress.Percentage
}

// UpdateStatus 终态不再变化。风险判断要在 on_track 之前
func (e *Engine) UpdateStatus(g *domain.Goal) domain.GoalStatus {
	if g.Status.IsTerminal() {
		return g.Status
	}
	now := e.now()
	pct := g.Progress.Percentage
	tp := e.TimeProgress(*g, now)
	switch {
	case pct >= 100:
		g.Status = domain.GoalStatusCompleted
		g.CompletedAt = now
	case tp >= atRiskTimeProgress && pct < atRiskPercentage:
		g.Status = domain.GoalStatusAtRisk
	case tp >= behindTimeProgress && pct < behindPercentage:
		g.Status = domain.GoalStatusBehind
	case pct >= tp*onTrackRatio:
		g.Status = domain.GoalStatusOnTrack
	default:
		g.Status = domain.GoalStatusActive
	}
	return g.Status
}

// CheckAlerts 里程碑事件只产生一次，风险事件每次满足条件都会产生
func (e *Engine) CheckAlerts(g *domain.Goal) []domain.GoalEvent {
	now := e.now()
	pct := g.Progress.Percentage
	var events []domain.GoalEvent
	for i := range g.Thresholds {
		th := &g.Thresholds[i]
		if th.Notified || pct < th.Percentage {
			continue
		}
		th.Notified = true
		th.NotifiedAt = now
		events = append(events, domain.GoalEvent{
			Type:       domain.GoalEventThresholdCrossed,
			GoalID:     g.ID,
			OrgID:      g.OrgID,
			GoalName:   g.Name,
			Threshold:  th.Percentage,
			Percentage: pct,
		})
	}

	risk := g.RiskThresholdOrDefault()
	tp := e.TimeProgress(*g, now)
	if tp >= risk && pct < risk {
		events = append(events, domain.GoalEvent{
			Type:         domain.GoalEventAtRisk,
			GoalID:       g.ID,
			OrgID:        g.OrgID,
			GoalName:     g.Name,
			Threshold:    risk,
			Percentage:   pct,
			TimeProgress: tp,
		})
	}
	return events
}
