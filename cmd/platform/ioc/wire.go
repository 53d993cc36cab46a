//go:build wireinject

package ioc

import (
	"gitee.com/flycash/alert-platform/internal/ioc"
	"gitee.com/flycash/alert-platform/internal/repository"
	"gitee.com/flycash/alert-platform/internal/repository/dao"
	"gitee.com/flycash/alert-platform/internal/service/alert"
	"gitee.com/flycash/alert-platform/internal/service/goal"
	"gitee.com/flycash/alert-platform/internal/service/rule"
	"gitee.com/flycash/alert-platform/internal/service/scheduler"
	"gitee.com/flycash/alert-platform/internal/web"
	"github.com/google/wire"
)

var (
	BaseSet = wire.NewSet(
		ioc.InitDB,
		ioc.InitDistributedLock,
		ioc.InitIDGenerator,
		ioc.InitRedisClient,
		ioc.InitPushProducer,
		ioc.InitGoCache,
		ioc.InitUserCache,
	)
	repoSet = wire.NewSet(
		repository.NewAlertRuleRepository,
		dao.NewAlertRuleDAO,
		repository.NewAlertRepository,
		dao.NewAlertDAO,
		repository.NewGoalRepository,
		dao.NewGoalDAO,
		repository.NewComplianceEventRepository,
		dao.NewComplianceEventDAO,
		repository.NewUserRepository,
		dao.NewUserDAO,
		repository.NewNotificationRepository,
		dao.NewNotificationDAO,
	)
	goalSvcSet = wire.NewSet(
		goal.NewEngine,
		goal.NewService,
		goal.NewRefreshCron,
	)
	alertSvcSet = wire.NewSet(
		rule.NewEvaluator,
		ioc.InitDeduplicator,
		ioc.InitAlertService,
		ioc.InitDispatcher,
		ioc.InitScheduler,
		alert.NewExpiryTask,
	)
	webSet = wire.NewSet(
		ioc.InitJwtAuth,
		ioc.InitTickLimiter,
		web.NewHandler,
		wire.Bind(new(web.Ticker), new(*scheduler.Scheduler)),
		ioc.InitGinServer,
	)
)

func InitApp() *ioc.App {
	wire.Build(
		// 基础设施
		BaseSet,
		repoSet,

		// 目标进度
		goalSvcSet,

		// 告警规则调度和通知
		alertSvcSet,

		// HTTP 接口
		webSet,

		ioc.InitTasks,
		ioc.Crons,
		wire.Struct(new(ioc.App), "*"),
	)
	return new(ioc.App)
}
