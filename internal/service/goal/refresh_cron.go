package goal

import (
	"context"
	"time"

	"gitee.com/flycash/alert-platform/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

// RefreshCron 定时刷新所有非终态目标的进度和状态
type RefreshCron struct {
	repo      repository.GoalRepository
	svc       Service
	batchSize int
	logger    *elog.Component
}

func NewRefreshCron(repo repository.GoalRepository, svc Service) *RefreshCron {
	return &RefreshCron{
		repo:      repo,
		svc:       svc,
		batchSize: 100,
		logger:    elog.DefaultLogger,
	}
}

func (t *RefreshCron) Do(ctx context.Context) error {
	var cursor int64
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		next, cnt, err := t.oneLoop(ctx, cursor)
		if err != nil {
			// 一般都是无可挽回的错误了，等下一次定时任务
			t.logger.Error("查找目标失败", elog.Int64("cursor", cursor), elog.FieldErr(err))
			return err
		}
		if cnt < t.batchSize {
			return nil
		}
		cursor = next
	}
}

func (t *RefreshCron) oneLoop(ctx context.Context, cursor int64) (int64, int, error) {
	findCtx, cancel := context.WithTimeout(ctx, time.Second*3)
	goals, err := t.repo.ListNonTerminal(findCtx, cursor, t.batchSize)
	cancel()
	if err != nil {
		return cursor, 0, err
	}

	refreshCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	for _, g := range goals {
		_, _, err = t.svc.RefreshGoal(refreshCtx, g)
		if err != nil {
			t.logger.Error("刷新目标进度失败", elog.Int64("goalID", g.ID), elog.FieldErr(err))
		}
		cursor = g.ID
	}
	return cursor, len(goals), nil
}
