package ioc

import (
	"context"

	"gitee.com/flycash/alert-platform/internal/service/scheduler"
	"github.com/gotomicro/ego/server/egin"
	"github.com/gotomicro/ego/task/ecron"
)

type App struct {
	GinServer *egin.Component
	Scheduler *scheduler.Scheduler
	Tasks     []Task
	Crons     []ecron.Ecron
}

// StartTasks 后台任务随 ctx 退出
func (a *App) StartTasks(ctx context.Context) error {
	for _, t := range a.Tasks {
		go func(t Task) {
			t.Start(ctx)
		}(t)
	}
	return a.Scheduler.Start(ctx)
}

type Task interface {
	Start(ctx context.Context)
}
