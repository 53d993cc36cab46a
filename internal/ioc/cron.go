package ioc

import (
	"gitee.com/flycash/alert-platform/internal/service/goal"
	"github.com/gotomicro/ego/task/ecron"
)

func Crons(c *goal.RefreshCron) []ecron.Ecron {
	c1 := ecron.Load("cron.goalRefresh").Build(ecron.WithJob(c.Do))
	return []ecron.Ecron{c1}
}
