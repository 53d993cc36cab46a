package repository

import (
	"context"
	"testing"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	daopkg "gitee.com/flycash/alert-platform/internal/repository/dao"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestAlertRuleRepository_Create(t *testing.T) {
	t.Parallel()

	valid := func() domain.AlertRule {
		return domain.AlertRule{
			OrgID:           100,
			Name:            "合规逾期",
			AlertType:       domain.AlertTypeComplianceOverdue,
			Status:          domain.RuleStatusActive,
			CheckInterval:   30 * time.Minute,
			MessageTemplate: domain.MessageTemplate{Title: "{{eventTitle}} 已逾期"},
		}
	}

	testCases := []struct {
		name string
		rule domain.AlertRule
		mock func(mock sqlmock.Sqlmock)

		wantErr error
	}{
		{
			name: "新建启用规则",
			rule: valid(),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO `alert_rules`").WillReturnResult(sqlmock.NewResult(7, 1))
			},
		},
		{
			name: "缺少组织",
			rule: func() domain.AlertRule {
				r := valid()
				r.OrgID = 0
				return r
			}(),
			mock:    func(mock sqlmock.Sqlmock) {},
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name: "未知告警类型",
			rule: func() domain.AlertRule {
				r := valid()
				r.AlertType = "goal_stale"
				return r
			}(),
			mock:    func(mock sqlmock.Sqlmock) {},
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name: "goal_progress阈值越界",
			rule: func() domain.AlertRule {
				r := valid()
				r.AlertType = domain.AlertTypeGoalProgress
				r.Conditions.ProgressThreshold = 120
				return r
			}(),
			mock:    func(mock sqlmock.Sqlmock) {},
			wantErr: errs.ErrInvalidParameter,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMockDB(t)
			tc.mock(mock)

			repo := NewAlertRuleRepository(daopkg.NewAlertRuleDAO(db))
			before := time.Now().Truncate(time.Millisecond)
			rule, err := repo.Create(context.Background(), tc.rule)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), rule.ID)
			assert.Equal(t, domain.SourceTypeComplianceEvent, rule.SourceType)
			assert.Equal(t, 30*time.Minute, rule.CheckInterval)
			// 启用的规则马上到期
			assert.False(t, rule.NextCheck.Before(before))
			assert.True(t, rule.IsDue(time.Now().Add(time.Millisecond)))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGoalRepository_CreateValidates(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		name string
		goal domain.Goal
	}{
		{
			name: "开始时间不早于结束时间",
			goal: domain.Goal{OrgID: 1, GoalType: domain.GoalTypeCustom, StartDate: start, EndDate: start},
		},
		{
			name: "目标值为负",
			goal: domain.Goal{OrgID: 1, GoalType: domain.GoalTypeCustom, StartDate: start,
				EndDate: start.Add(time.Hour), TargetValue: -1},
		},
		{
			name: "未知目标类型",
			goal: domain.Goal{OrgID: 1, GoalType: "revenue", StartDate: start, EndDate: start.Add(time.Hour)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMockDB(t)

			repo := NewGoalRepository(daopkg.NewGoalDAO(db))
			_, err := repo.Create(context.Background(), tc.goal)
			assert.ErrorIs(t, err, errs.ErrInvalidParameter)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
