package rule

import (
	"context"
	"errors"
	"testing"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	repomocks "gitee.com/flycash/alert-platform/internal/repository/mocks"
	"gitee.com/flycash/alert-platform/internal/service/goal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type mocks struct {
	goals      *repomocks.MockGoalRepository
	compliance *repomocks.MockComplianceEventRepository
}

func testRule(typ domain.AlertType) domain.AlertRule {
	return domain.AlertRule{
		ID:        7,
		OrgID:     100,
		Name:      "测试规则",
		AlertType: typ,
		Status:    domain.RuleStatusActive,
	}
}

func TestEvaluator_Evaluate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		rule domain.AlertRule
		mock func(m mocks)

		wantTrigger bool
		wantSource  domain.SourceType
		wantID      int64
		wantContext map[string]any
		wantErr     error
	}{
		{
			name: "goal_at_risk取第一个命中的目标",
			rule: testRule(domain.AlertTypeGoalAtRisk),
			mock: func(m mocks) {
				m.goals.EXPECT().FindByStatuses(gomock.Any(), int64(100),
					[]domain.GoalStatus{domain.GoalStatusAtRisk}, 1).
					Return([]domain.Goal{{ID: 3, Name: "学校覆盖", Status: domain.GoalStatusAtRisk, TargetValue: 200, CurrentValue: 50}}, nil)
			},
			wantTrigger: true,
			wantSource:  domain.SourceTypeGoal,
			wantID:      3,
			wantContext: map[string]any{
				"goalId":     int64(3),
				"goalName":   "学校覆盖",
				"status":     "at_risk",
				"percentage": float64(25),
				"ruleName":   "测试规则",
				"alertType":  "goal_at_risk",
			},
		},
		{
			name: "goal_behind使用规则配置的状态",
			rule: func() domain.AlertRule {
				r := testRule(domain.AlertTypeGoalBehind)
				r.Conditions.GoalStatuses = []domain.GoalStatus{domain.GoalStatusBehind, domain.GoalStatusAtRisk}
				return r
			}(),
			mock: func(m mocks) {
				m.goals.EXPECT().FindByStatuses(gomock.Any(), int64(100),
					[]domain.GoalStatus{domain.GoalStatusBehind, domain.GoalStatusAtRisk}, 1).
					Return(nil, nil)
			},
		},
		{
			// 截止日期是昨天，状态还是 active
			name: "goal_overdue触发并带上截止日期",
			rule: testRule(domain.AlertTypeGoalOverdue),
			mock: func(m mocks) {
				m.goals.EXPECT().FindOverdue(gomock.Any(), int64(100), now, 1).
					Return([]domain.Goal{{
						ID:        9,
						Name:      "预算执行",
						Status:    domain.GoalStatusActive,
						StartDate: now.Add(-30 * day),
						EndDate:   now.Add(-day),
					}}, nil)
			},
			wantTrigger: true,
			wantSource:  domain.SourceTypeGoal,
			wantID:      9,
			wantContext: map[string]any{
				"goalId":      int64(9),
				"goalName":    "预算执行",
				"status":      "active",
				"percentage":  float64(0),
				"endDate":     "2025-06-14",
				"daysOverdue": 1,
				"ruleName":    "测试规则",
				"alertType":   "goal_overdue",
			},
		},
		{
			name: "查询失败",
			rule: testRule(domain.AlertTypeGoalOverdue),
			mock: func(m mocks) {
				m.goals.EXPECT().FindOverdue(gomock.Any(), int64(100), now, 1).
					Return(nil, errors.New("mock db error"))
			},
			wantErr: errors.New("mock db error"),
		},
		{
			name: "compliance_due_soon默认7天",
			rule: testRule(domain.AlertTypeComplianceDueSoon),
			mock: func(m mocks) {
				m.compliance.EXPECT().FindByDueRange(gomock.Any(), int64(100), now,
					now.Add(7*day+time.Millisecond), domain.OutstandingComplianceStatuses(), 1).
					Return([]domain.ComplianceEvent{{
						ID:      21,
						Title:   "年度审计",
						DueDate: now.Add(2*day + time.Hour),
						Status:  domain.ComplianceStatusPending,
					}}, nil)
			},
			wantTrigger: true,
			wantSource:  domain.SourceTypeComplianceEvent,
			wantID:      21,
			wantContext: map[string]any{
				"eventId":      int64(21),
				"eventTitle":   "年度审计",
				"dueDate":      "2025-06-17",
				"status":       "pending",
				"daysUntilDue": 3,
				"ruleName":     "测试规则",
				"alertType":    "compliance_due_soon",
			},
		},
		{
			name: "compliance_due_soon自定义天数没有命中",
			rule: func() domain.AlertRule {
				r := testRule(domain.AlertTypeComplianceDueSoon)
				r.Conditions.ComplianceDaysBeforeDue = 3
				return r
			}(),
			mock: func(m mocks) {
				m.compliance.EXPECT().FindByDueRange(gomock.Any(), int64(100), now,
					now.Add(3*day+time.Millisecond), domain.OutstandingComplianceStatuses(), 1).
					Return(nil, nil)
			},
		},
		{
			name: "compliance_overdue计算逾期天数",
			rule: testRule(domain.AlertTypeComplianceOverdue),
			mock: func(m mocks) {
				m.compliance.EXPECT().FindByDueRange(gomock.Any(), int64(100), time.Time{}, now,
					domain.OutstandingComplianceStatuses(), 1).
					Return([]domain.ComplianceEvent{{
						ID:      22,
						Title:   "安全培训",
						DueDate: now.Add(-5*day - time.Hour),
						Status:  domain.ComplianceStatusInProgress,
					}}, nil)
			},
			wantTrigger: true,
			wantSource:  domain.SourceTypeComplianceEvent,
			wantID:      22,
			wantContext: map[string]any{
				"eventId":     int64(22),
				"eventTitle":  "安全培训",
				"dueDate":     "2025-06-10",
				"status":      "in_progress",
				"daysOverdue": 5,
				"ruleName":    "测试规则",
				"alertType":   "compliance_overdue",
			},
		},
		{
			name: "未知类型不触发",
			rule: testRule(domain.AlertType("unknown")),
			mock: func(m mocks) {},
		},
		{
			name:    "goal_progress没有阈值",
			rule:    testRule(domain.AlertTypeGoalProgress),
			mock:    func(m mocks) {},
			wantErr: errs.ErrInvalidParameter,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks{
				goals:      repomocks.NewMockGoalRepository(ctrl),
				compliance: repomocks.NewMockComplianceEventRepository(ctrl),
			}
			tc.mock(m)
			e := NewEvaluator(m.goals, m.compliance, goal.NewEngine())
			res, err := e.Evaluate(context.Background(), tc.rule, now)
			if tc.wantErr != nil {
				assert.ErrorContains(t, err, tc.wantErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTrigger, res.ShouldTrigger)
			if !tc.wantTrigger {
				return
			}
			assert.Equal(t, tc.wantSource, res.SourceType)
			assert.Equal(t, tc.wantID, res.SourceID)
			assert.Equal(t, tc.wantContext, res.Context)
		})
	}
}

func TestEvaluator_GoalProgressScansPages(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	goals := repomocks.NewMockGoalRepository(ctrl)
	first := make([]domain.Goal, 0, goalScanBatchSize)
	for i := 1; i <= goalScanBatchSize; i++ {
		first = append(first, domain.Goal{ID: int64(i), TargetValue: 100, CurrentValue: 10})
	}
	gomock.InOrder(
		goals.EXPECT().FindNonTerminal(gomock.Any(), int64(100), int64(0), goalScanBatchSize).Return(first, nil),
		goals.EXPECT().FindNonTerminal(gomock.Any(), int64(100), int64(goalScanBatchSize), goalScanBatchSize).
			Return([]domain.Goal{
				{ID: 101, TargetValue: 100, CurrentValue: 60},
				{ID: 102, TargetValue: 100, CurrentValue: 90},
				{ID: 103, TargetValue: 100, CurrentValue: 95},
			}, nil),
	)

	r := testRule(domain.AlertTypeGoalProgress)
	r.Conditions.ProgressThreshold = 75
	e := NewEvaluator(goals, repomocks.NewMockComplianceEventRepository(ctrl), goal.NewEngine())
	res, err := e.Evaluate(context.Background(), r, now)
	require.NoError(t, err)
	assert.True(t, res.ShouldTrigger)
	assert.Equal(t, int64(102), res.SourceID)
	assert.Equal(t, float64(90), res.Context["percentage"])
	assert.Equal(t, float64(75), res.Context["threshold"])
}

func TestEvaluator_GoalProgressNoMatch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	goals := repomocks.NewMockGoalRepository(ctrl)
	goals.EXPECT().FindNonTerminal(gomock.Any(), int64(100), int64(0), goalScanBatchSize).
		Return([]domain.Goal{{ID: 1, TargetValue: 0, CurrentValue: 10}}, nil)

	r := testRule(domain.AlertTypeGoalProgress)
	r.Conditions.ProgressThreshold = 50
	e := NewEvaluator(goals, repomocks.NewMockComplianceEventRepository(ctrl), goal.NewEngine())
	res, err := e.Evaluate(context.Background(), r, now)
	require.NoError(t, err)
	assert.False(t, res.ShouldTrigger)
}

func TestDays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, daysUntilDue(now.Add(time.Minute), now))
	assert.Equal(t, 7, daysUntilDue(now.Add(7*day), now))
	assert.Equal(t, 0, daysOverdue(now.Add(-time.Hour), now))
	assert.Equal(t, 2, daysOverdue(now.Add(-2*day), now))
}
