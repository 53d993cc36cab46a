package goal

import (
	"testing"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(now time.Time) *Engine {
	return &Engine{now: func() time.Time { return now }}
}

func tenDayGoal(current float64) domain.Goal {
	return domain.Goal{
		ID:           1,
		OrgID:        10,
		Name:         "覆盖学生人数",
		GoalType:     domain.GoalTypeStudentsReached,
		StartDate:    baseTime,
		EndDate:      baseTime.Add(10 * 24 * time.Hour),
		TargetValue:  100,
		CurrentValue: current,
		Status:       domain.GoalStatusActive,
	}
}

func TestEngine_CalculateProgress(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		target  float64
		current float64
		want    float64
	}{
		{name: "正常比例", target: 200, current: 50, want: 25},
		{name: "超过目标值截断到100", target: 100, current: 250, want: 100},
		{name: "目标值为0", target: 0, current: 30, want: 0},
		{name: "负数截断到0", target: 100, current: -5, want: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			now := baseTime.Add(time.Hour)
			e := newTestEngine(now)
			g := domain.Goal{TargetValue: tc.target, CurrentValue: tc.current}
			got := e.CalculateProgress(&g)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, g.Progress.Percentage)
			assert.Equal(t, now, g.Progress.LastUpdated)
		})
	}
}

func TestEngine_UpdateStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		goal       func() domain.Goal
		now        time.Time
		wantStatus domain.GoalStatus
	}{
		{
			// 时间过去 90%，完成 85%，不满足风险条件，85 >= 81
			name:       "时间进度90完成85为on_track",
			goal:       func() domain.Goal { return tenDayGoal(85) },
			now:        baseTime.Add(9 * 24 * time.Hour),
			wantStatus: domain.GoalStatusOnTrack,
		},
		{
			name:       "时间进度60完成40为behind",
			goal:       func() domain.Goal { return tenDayGoal(40) },
			now:        baseTime.Add(6 * 24 * time.Hour),
			wantStatus: domain.GoalStatusBehind,
		},
		{
			name:       "时间进度90完成75为at_risk",
			goal:       func() domain.Goal { return tenDayGoal(75) },
			now:        baseTime.Add(9 * 24 * time.Hour),
			wantStatus: domain.GoalStatusAtRisk,
		},
		{
			// 74 >= 81*0.9 同时满足 on_track 的比例，但风险优先
			name:       "风险判断优先于on_track",
			goal:       func() domain.Goal { return tenDayGoal(74) },
			now:        baseTime.Add(81 * 24 * time.Hour / 10),
			wantStatus: domain.GoalStatusAtRisk,
		},
		{
			name:       "完成100为completed",
			goal:       func() domain.Goal { return tenDayGoal(100) },
			now:        baseTime.Add(2 * 24 * time.Hour),
			wantStatus: domain.GoalStatusCompleted,
		},
		{
			name:       "进度落后于时间为active",
			goal:       func() domain.Goal { return tenDayGoal(10) },
			now:        baseTime.Add(3 * 24 * time.Hour),
			wantStatus: domain.GoalStatusActive,
		},
		{
			name: "时间窗口为0视为全部过去",
			goal: func() domain.Goal {
				g := tenDayGoal(60)
				g.EndDate = g.StartDate
				return g
			},
			now:        baseTime,
			wantStatus: domain.GoalStatusAtRisk,
		},
		{
			name: "已取消不再变化",
			goal: func() domain.Goal {
				g := tenDayGoal(100)
				g.Status = domain.GoalStatusCancelled
				return g
			},
			now:        baseTime.Add(5 * 24 * time.Hour),
			wantStatus: domain.GoalStatusCancelled,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(tc.now)
			g := tc.goal()
			e.CalculateProgress(&g)
			got := e.UpdateStatus(&g)
			assert.Equal(t, tc.wantStatus, got)
			assert.Equal(t, tc.wantStatus, g.Status)
			if got == domain.GoalStatusCompleted {
				assert.Equal(t, tc.now, g.CompletedAt)
			}
		})
	}
}

func TestEngine_UpdateStatus_TerminalIsSticky(t *testing.T) {
	t.Parallel()
	e := newTestEngine(baseTime.Add(5 * 24 * time.Hour))
	g := tenDayGoal(100)
	e.CalculateProgress(&g)
	require.Equal(t, domain.GoalStatusCompleted, e.UpdateStatus(&g))
	completedAt := g.CompletedAt

	// 数值回落之后也不会离开终态
	g.CurrentValue = 10
	e.now = func() time.Time { return baseTime.Add(9 * 24 * time.Hour) }
	e.CalculateProgress(&g)
	assert.Equal(t, domain.GoalStatusCompleted, e.UpdateStatus(&g))
	assert.Equal(t, completedAt, g.CompletedAt)
}

func TestEngine_CheckAlerts(t *testing.T) {
	t.Parallel()

	now := baseTime.Add(9 * 24 * time.Hour)
	e := newTestEngine(now)
	g := tenDayGoal(60)
	g.Thresholds = []domain.Threshold{
		{Percentage: 25},
		{Percentage: 50},
		{Percentage: 75},
	}
	e.CalculateProgress(&g)

	events := e.CheckAlerts(&g)
	require.Len(t, events, 3)
	assert.Equal(t, domain.GoalEventThresholdCrossed, events[0].Type)
	assert.Equal(t, float64(25), events[0].Threshold)
	assert.Equal(t, domain.GoalEventThresholdCrossed, events[1].Type)
	assert.Equal(t, float64(50), events[1].Threshold)
	// 时间过去 90%，完成 60%，低于默认风险阈值 80
	assert.Equal(t, domain.GoalEventAtRisk, events[2].Type)
	assert.Equal(t, float64(domain.DefaultRiskThreshold), events[2].Threshold)
	assert.True(t, g.Thresholds[0].Notified)
	assert.True(t, g.Thresholds[1].Notified)
	assert.False(t, g.Thresholds[2].Notified)
	assert.Equal(t, now, g.Thresholds[0].NotifiedAt)

	// 里程碑只通知一次，风险事件会重复
	events = e.CheckAlerts(&g)
	require.Len(t, events, 1)
	assert.Equal(t, domain.GoalEventAtRisk, events[0].Type)

	// 数值回落之后里程碑标记也不会重置
	g.CurrentValue = 10
	e.CalculateProgress(&g)
	e.CheckAlerts(&g)
	assert.True(t, g.Thresholds[0].Notified)
	assert.True(t, g.Thresholds[1].Notified)
}

func TestEngine_CheckAlerts_CustomRiskThreshold(t *testing.T) {
	t.Parallel()

	e := newTestEngine(baseTime.Add(6 * 24 * time.Hour))
	g := tenDayGoal(55)
	g.RiskThreshold = 60
	e.CalculateProgress(&g)

	events := e.CheckAlerts(&g)
	require.Len(t, events, 1)
	assert.Equal(t, domain.GoalEventAtRisk, events[0].Type)
	assert.Equal(t, float64(60), events[0].Threshold)
	assert.InDelta(t, 60, events[0].TimeProgress, 0.0001)
}

func TestEngine_PercentageBounds(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	for _, v := range []struct{ target, current float64 }{
		{0, 0}, {0, 100}, {1, 1e9}, {1e9, 1}, {100, -100}, {3, 1},
	} {
		pct := e.Percentage(domain.Goal{TargetValue: v.target, CurrentValue: v.current})
		assert.GreaterOrEqual(t, pct, float64(0))
		assert.LessOrEqual(t, pct, float64(100))
	}
}
