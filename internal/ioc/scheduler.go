package ioc

import (
	"gitee.com/flycash/alert-platform/internal/event/push"
	id "gitee.com/flycash/alert-platform/internal/pkg/id_generator"
	"gitee.com/flycash/alert-platform/internal/repository"
	"gitee.com/flycash/alert-platform/internal/service/alert"
	"gitee.com/flycash/alert-platform/internal/service/dispatcher"
	"gitee.com/flycash/alert-platform/internal/service/rule"
	"gitee.com/flycash/alert-platform/internal/service/scheduler"
	"github.com/gotomicro/ego/core/econf"
	"github.com/meoying/dlock-go"
	"github.com/prometheus/client_golang/prometheus"
)

func InitScheduler(
	rules repository.AlertRuleRepository,
	evaluator rule.Evaluator,
	dedup alert.Deduplicator,
	d dispatcher.Dispatcher,
	alertSvc alert.Service,
	dclient dlock.Client,
) *scheduler.Scheduler {
	cfg := scheduler.DefaultConfig()
	err := econf.UnmarshalKey("alert.scheduler", &cfg)
	if err != nil {
		panic(err)
	}
	return scheduler.NewScheduler(rules, evaluator, dedup, d, alertSvc, dclient,
		scheduler.NewMetrics(prometheus.DefaultRegisterer), cfg)
}

// InitDispatcher 外面包一层链路追踪
func InitDispatcher(
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	alerts repository.AlertRepository,
	producer push.Producer,
	idGen id.Generator,
) dispatcher.Dispatcher {
	concurrency := econf.GetInt("alert.dispatcher.concurrency")
	d := dispatcher.NewDispatcher(users, notifications, alerts, producer, idGen, concurrency)
	return dispatcher.NewObservabilityDispatcher(d)
}
