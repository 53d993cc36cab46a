package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 调度器的指标，registerer 为 nil 的时候不注册
type Metrics struct {
	ticks        prometheus.Counter
	skippedTicks prometheus.Counter
	checked      prometheus.Counter
	triggered    prometheus.Counter
	errors       prometheus.Counter
	tickDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alert_scheduler_ticks_total",
			Help: "告警调度执行次数",
		}),
		skippedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alert_scheduler_skipped_ticks_total",
			Help: "上一轮还没有结束或者没有抢到锁而跳过的次数",
		}),
		checked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alert_rules_checked_total",
			Help: "检查过的告警规则数量",
		}),
		triggered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alert_rules_triggered_total",
			Help: "产生新告警的规则数量",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alert_rule_errors_total",
			Help: "检查失败的告警规则数量",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "alert_scheduler_tick_duration_seconds",
			Help:    "一轮告警调度的耗时（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ticks, m.skippedTicks, m.checked, m.triggered, m.errors, m.tickDuration)
	}
	return m
}

func (m *Metrics) observe(summary tickResult) {
	m.ticks.Inc()
	m.checked.Add(float64(summary.Checked))
	m.triggered.Add(float64(summary.Triggered))
	m.errors.Add(float64(summary.Errors))
	m.tickDuration.Observe(summary.duration.Seconds())
}

func (m *Metrics) skip() {
	m.skippedTicks.Inc()
}
