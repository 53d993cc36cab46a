package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	id "gitee.com/flycash/alert-platform/internal/pkg/id_generator"
	repomocks "gitee.com/flycash/alert-platform/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func overdueRule() domain.AlertRule {
	return domain.AlertRule{
		ID:        7,
		OrgID:     100,
		Name:      "目标逾期",
		AlertType: domain.AlertTypeGoalOverdue,
		MessageTemplate: domain.MessageTemplate{
			Title:     "目标「{{goalName}}」已逾期",
			Message:   "截止日期 {{endDate}}，负责人 {{owner}}",
			ActionURL: "/goals/{{goalId}}",
		},
		NotificationSettings: domain.NotificationSettings{
			Enabled:    true,
			Recipients: []int64{3, 5, 3},
		},
		Status: domain.RuleStatusActive,
	}
}

func overdueTrigger() domain.TriggerResult {
	return domain.TriggerResult{
		ShouldTrigger: true,
		SourceType:    domain.SourceTypeGoal,
		SourceID:      9,
		Context: map[string]any{
			"goalId":   int64(9),
			"goalName": "预算执行",
			"endDate":  "2025-06-14",
		},
	}
}

func TestDeduplicator_TryCreateAlert(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		rule    domain.AlertRule
		trigger domain.TriggerResult
		mock    func(t *testing.T, repo *repomocks.MockAlertRepository)

		wantNew bool
		wantID  uint64
		wantErr error
	}{
		{
			name:    "新建告警",
			rule:    overdueRule(),
			trigger: overdueTrigger(),
			mock: func(t *testing.T, repo *repomocks.MockAlertRepository) {
				repo.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a domain.Alert) (domain.Alert, bool, error) {
						assert.Equal(t, uint64(1000), a.ID)
						assert.Equal(t, int64(100), a.OrgID)
						assert.Equal(t, int64(7), a.RuleID)
						assert.Equal(t, domain.SourceTypeGoal, a.SourceType)
						assert.Equal(t, int64(9), a.SourceID)
						assert.Equal(t, domain.SeverityCritical, a.Severity)
						assert.Equal(t, "目标「预算执行」已逾期", a.Title)
						assert.Equal(t, "截止日期 2025-06-14，负责人 {{owner}}", a.Message)
						assert.Equal(t, "/goals/9", a.ActionURL)
						assert.Equal(t, domain.AlertStatusPending, a.Status)
						assert.Equal(t, testNow.Add(domain.DefaultAlertExpiration), a.ExpiresAt)
						assert.Equal(t, []domain.Recipient{{UserID: 3}, {UserID: 5}}, a.Recipients)
						assert.Equal(t, "7:goal:9", a.DedupKey())
						return a, true, nil
					})
			},
			wantNew: true,
			wantID:  1000,
		},
		{
			name:    "已经存在打开的告警",
			rule:    overdueRule(),
			trigger: overdueTrigger(),
			mock: func(t *testing.T, repo *repomocks.MockAlertRepository) {
				repo.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).
					Return(domain.Alert{ID: 1, Status: domain.AlertStatusSent}, false, nil)
			},
			wantNew: false,
			wantID:  1,
		},
		{
			name: "触发结果没有来源类型时按告警类型推断",
			rule: func() domain.AlertRule {
				r := overdueRule()
				r.AlertType = domain.AlertTypeComplianceDueSoon
				r.NotificationSettings.Recipients = nil
				return r
			}(),
			trigger: domain.TriggerResult{ShouldTrigger: true, SourceID: 21, Context: map[string]any{}},
			mock: func(t *testing.T, repo *repomocks.MockAlertRepository) {
				repo.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a domain.Alert) (domain.Alert, bool, error) {
						assert.Equal(t, domain.SourceTypeComplianceEvent, a.SourceType)
						assert.Equal(t, domain.SeverityMedium, a.Severity)
						assert.Empty(t, a.Recipients)
						return a, true, nil
					})
			},
			wantNew: true,
			wantID:  1000,
		},
		{
			name:    "没有触发",
			rule:    overdueRule(),
			trigger: domain.NoTrigger(),
			mock:    func(t *testing.T, repo *repomocks.MockAlertRepository) {},
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name:    "存储失败",
			rule:    overdueRule(),
			trigger: overdueTrigger(),
			mock: func(t *testing.T, repo *repomocks.MockAlertRepository) {
				repo.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).
					Return(domain.Alert{}, false, errs.ErrAlertDuplicate)
			},
			wantErr: errs.ErrAlertDuplicate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repomocks.NewMockAlertRepository(ctrl)
			tc.mock(t, repo)
			d := NewDeduplicator(repo, id.NewSequenceGenerator(999), 0).(*deduplicator)
			d.now = func() time.Time { return testNow }

			a, isNew, err := d.TryCreateAlert(context.Background(), tc.rule, tc.trigger)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantNew, isNew)
			assert.Equal(t, tc.wantID, a.ID)
		})
	}
}
