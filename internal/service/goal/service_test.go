package goal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	"gitee.com/flycash/alert-platform/internal/event/push"
	pushmocks "gitee.com/flycash/alert-platform/internal/event/push/mocks"
	"gitee.com/flycash/alert-platform/internal/repository"
	repomocks "gitee.com/flycash/alert-platform/internal/repository/mocks"
	goalmocks "gitee.com/flycash/alert-platform/internal/service/goal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestService_Refresh(t *testing.T) {
	t.Parallel()

	now := baseTime.Add(9 * 24 * time.Hour)
	withThresholds := func(current float64) domain.Goal {
		g := tenDayGoal(current)
		g.Thresholds = []domain.Threshold{{Percentage: 25}, {Percentage: 50}}
		return g
	}

	testCases := []struct {
		name  string
		mock  func(t *testing.T, ctrl *gomock.Controller) (repository.GoalRepository, push.Producer)
		after func(t *testing.T, g domain.Goal, events []domain.GoalEvent)

		wantErr error
	}{
		{
			name: "落后且跨过里程碑",
			mock: func(t *testing.T, ctrl *gomock.Controller) (repository.GoalRepository, push.Producer) {
				repo := repomocks.NewMockGoalRepository(ctrl)
				producer := pushmocks.NewMockProducer(ctrl)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(withThresholds(30), nil)
				repo.EXPECT().SaveProgress(gomock.Any(), gomock.Any(), domain.GoalStatusActive).
					DoAndReturn(func(_ context.Context, g domain.Goal, _ domain.GoalStatus) error {
						assert.Equal(t, domain.GoalStatusAtRisk, g.Status)
						assert.True(t, g.Thresholds[0].Notified)
						assert.False(t, g.Thresholds[1].Notified)
						return nil
					})
				expectPush := func(typ push.EventType) *gomock.Call {
					return producer.EXPECT().Produce(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, evt push.Event) error {
							assert.Equal(t, typ, evt.Type)
							assert.Equal(t, int64(10), evt.OrgID)
							assert.Equal(t, int64(1), evt.GoalID)
							assert.Zero(t, evt.UserID)
							return nil
						})
				}
				gomock.InOrder(
					expectPush(push.EventTypeGoalThreshold),
					expectPush(push.EventTypeGoalAtRisk),
				)
				return repo, producer
			},
			after: func(t *testing.T, g domain.Goal, events []domain.GoalEvent) {
				assert.Equal(t, float64(30), g.Progress.Percentage)
				assert.Equal(t, int64(1), g.Version)
				require.Len(t, events, 2)
				assert.Equal(t, domain.GoalEventThresholdCrossed, events[0].Type)
				assert.Equal(t, float64(25), events[0].Threshold)
				assert.Equal(t, domain.GoalEventAtRisk, events[1].Type)
			},
		},
		{
			name: "推送失败不影响结果",
			mock: func(t *testing.T, ctrl *gomock.Controller) (repository.GoalRepository, push.Producer) {
				repo := repomocks.NewMockGoalRepository(ctrl)
				producer := pushmocks.NewMockProducer(ctrl)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(withThresholds(95), nil)
				repo.EXPECT().SaveProgress(gomock.Any(), gomock.Any(), domain.GoalStatusActive).Return(nil)
				producer.EXPECT().Produce(gomock.Any(), gomock.Any()).
					Return(errors.New("mock push error")).Times(2)
				return repo, producer
			},
			after: func(t *testing.T, g domain.Goal, events []domain.GoalEvent) {
				assert.Equal(t, domain.GoalStatusOnTrack, g.Status)
				assert.Len(t, events, 2)
			},
		},
		{
			name: "保存失败不推送",
			mock: func(t *testing.T, ctrl *gomock.Controller) (repository.GoalRepository, push.Producer) {
				repo := repomocks.NewMockGoalRepository(ctrl)
				producer := pushmocks.NewMockProducer(ctrl)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(withThresholds(30), nil)
				repo.EXPECT().SaveProgress(gomock.Any(), gomock.Any(), domain.GoalStatusActive).Return(errors.New("mock db error"))
				return repo, producer
			},
			wantErr: errors.New("mock db error"),
		},
		{
			// 另一个刷新已经写回了里程碑，或者目标刚被取消
			name: "写回冲突不推送",
			mock: func(t *testing.T, ctrl *gomock.Controller) (repository.GoalRepository, push.Producer) {
				repo := repomocks.NewMockGoalRepository(ctrl)
				producer := pushmocks.NewMockProducer(ctrl)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(withThresholds(30), nil)
				repo.EXPECT().SaveProgress(gomock.Any(), gomock.Any(), domain.GoalStatusActive).
					Return(fmt.Errorf("%w: id=1", errs.ErrGoalProgressConflict))
				return repo, producer
			},
			wantErr: errs.ErrGoalProgressConflict,
		},
		{
			name: "终态目标不再刷新",
			mock: func(t *testing.T, ctrl *gomock.Controller) (repository.GoalRepository, push.Producer) {
				repo := repomocks.NewMockGoalRepository(ctrl)
				producer := pushmocks.NewMockProducer(ctrl)
				g := withThresholds(30)
				g.Status = domain.GoalStatusCancelled
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(g, nil)
				return repo, producer
			},
			after: func(t *testing.T, g domain.Goal, events []domain.GoalEvent) {
				assert.Equal(t, domain.GoalStatusCancelled, g.Status)
				assert.False(t, g.Thresholds[0].Notified)
				assert.Empty(t, events)
			},
		},
		{
			name: "目标不存在",
			mock: func(t *testing.T, ctrl *gomock.Controller) (repository.GoalRepository, push.Producer) {
				repo := repomocks.NewMockGoalRepository(ctrl)
				producer := pushmocks.NewMockProducer(ctrl)
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(domain.Goal{}, errs.ErrGoalNotFound)
				return repo, producer
			},
			wantErr: errs.ErrGoalNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo, producer := tc.mock(t, ctrl)
			svc := NewService(repo, newTestEngine(now), producer)
			g, events, err := svc.Refresh(context.Background(), 1)
			if tc.wantErr != nil {
				assert.ErrorContains(t, err, tc.wantErr.Error())
				return
			}
			require.NoError(t, err)
			tc.after(t, g, events)
		})
	}
}

func TestRefreshCron_Do(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repomocks.NewMockGoalRepository(ctrl)
	svc := goalmocks.NewMockService(ctrl)

	page := func(start int64, n int) []domain.Goal {
		res := make([]domain.Goal, 0, n)
		for i := 0; i < n; i++ {
			g := tenDayGoal(10)
			g.ID = start + int64(i)
			res = append(res, g)
		}
		return res
	}
	gomock.InOrder(
		repo.EXPECT().ListNonTerminal(gomock.Any(), int64(0), 2).Return(page(1, 2), nil),
		repo.EXPECT().ListNonTerminal(gomock.Any(), int64(2), 2).Return(page(3, 1), nil),
	)
	var refreshed []int64
	svc.EXPECT().RefreshGoal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g domain.Goal) (domain.Goal, []domain.GoalEvent, error) {
			refreshed = append(refreshed, g.ID)
			if g.ID == 2 {
				return domain.Goal{}, nil, errors.New("mock refresh error")
			}
			return g, nil, nil
		}).Times(3)

	cron := NewRefreshCron(repo, svc)
	cron.batchSize = 2
	err := cron.Do(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, refreshed)
}

func TestRefreshCron_DoListError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repomocks.NewMockGoalRepository(ctrl)
	repo.EXPECT().ListNonTerminal(gomock.Any(), int64(0), 100).Return(nil, errors.New("mock db error"))

	cron := NewRefreshCron(repo, goalmocks.NewMockService(ctrl))
	err := cron.Do(context.Background())
	assert.Error(t, err)
}
