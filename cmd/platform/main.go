package main

import (
	"context"

	"gitee.com/flycash/alert-platform/cmd/platform/ioc"
	prodioc "gitee.com/flycash/alert-platform/internal/ioc"
	"github.com/gotomicro/ego"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/server/egovernor"
)

func main() {
	e := ego.New()

	tp := prodioc.InitZipkinTracer()
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			elog.Error("Shutdown zipkinTracer", elog.FieldErr(err))
		}
	}()

	app := ioc.InitApp()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := app.StartTasks(ctx); err != nil {
		elog.Panic("startup", elog.FieldErr(err))
	}

	err := e.Serve(
		egovernor.Load("server.governor").Build(),
		app.GinServer,
	).Cron(app.Crons...).
		Run()
	if err != nil {
		elog.Panic("startup", elog.FieldErr(err))
	}
	// 等待正在执行的一轮调度结束
	if err := app.Scheduler.Stop(); err != nil {
		elog.Error("停止调度器失败", elog.FieldErr(err))
	}
}
