package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	"gitee.com/flycash/alert-platform/internal/repository"
	"gitee.com/flycash/alert-platform/internal/service/alert"
	"gitee.com/flycash/alert-platform/internal/service/dispatcher"
	"gitee.com/flycash/alert-platform/internal/service/rule"
	"github.com/gotomicro/ego/core/elog"
	"github.com/meoying/dlock-go"
	"golang.org/x/sync/errgroup"
)

const (
	lockTimeout = 3 * time.Second
	// markTimeout 推进 nextCheck 不跟随调用方的 ctx
	markTimeout = 3 * time.Second
)

type Config struct {
	// Interval 两次调度之间的间隔
	Interval    time.Duration `yaml:"interval"`
	BatchSize   int           `yaml:"batchSize"`
	Concurrency int           `yaml:"concurrency"`
	// LockKey 多实例部署的时候使用分布式锁，同一时间只有一个实例在调度
	LockKey         string        `yaml:"lockKey"`
	LockExpiration  time.Duration `yaml:"lockExpiration"`
	ExpireBatchSize int           `yaml:"expireBatchSize"`
}

func DefaultConfig() Config {
	return Config{
		Interval:        15 * time.Minute,
		BatchSize:       100,
		Concurrency:     10,
		LockKey:         "alert_platform_rule_scheduler",
		LockExpiration:  10 * time.Minute,
		ExpireBatchSize: 100,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = def.Interval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.LockKey == "" {
		c.LockKey = def.LockKey
	}
	if c.LockExpiration <= 0 {
		c.LockExpiration = def.LockExpiration
	}
	if c.ExpireBatchSize <= 0 {
		c.ExpireBatchSize = def.ExpireBatchSize
	}
	return c
}

type tickResult struct {
	domain.TickSummary
	duration time.Duration
}

// Scheduler 定时检查到期的告警规则。
// 同一个实例上一轮还在执行的时候，新的一轮直接跳过，不排队
type Scheduler struct {
	rules      repository.AlertRuleRepository
	evaluator  rule.Evaluator
	dedup      alert.Deduplicator
	dispatcher dispatcher.Dispatcher
	alertSvc   alert.Service
	// dclient 可以为 nil，单实例部署不需要分布式锁
	dclient dlock.Client
	metrics *Metrics
	cfg     Config

	running atomic.Bool

	mu       sync.Mutex
	cancel   context.CancelFunc
	loopDone chan struct{}
	inflight sync.WaitGroup

	now    func() time.Time
	logger *elog.Component
}

func NewScheduler(
	rules repository.AlertRuleRepository,
	evaluator rule.Evaluator,
	dedup alert.Deduplicator,
	d dispatcher.Dispatcher,
	alertSvc alert.Service,
	dclient dlock.Client,
	metrics *Metrics,
	cfg Config,
) *Scheduler {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Scheduler{
		rules:      rules,
		evaluator:  evaluator,
		dedup:      dedup,
		dispatcher: d,
		alertSvc:   alertSvc,
		dclient:    dclient,
		metrics:    metrics,
		cfg:        cfg.withDefaults(),
		now:        time.Now,
		logger:     elog.DefaultLogger,
	}
}

// Start 启动定时调度，重复启动返回 errs.ErrSchedulerStarted
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return errs.ErrSchedulerStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loopDone = make(chan struct{})
	go s.loop(ctx, s.loopDone)
	return nil
}

// Stop 停止定时调度，并且等待正在执行的一轮结束
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return errs.ErrSchedulerNotStarted
	}
	s.cancel()
	done := s.loopDone
	s.cancel, s.loopDone = nil, nil
	s.mu.Unlock()

	<-done
	s.inflight.Wait()
	return nil
}

// Running 是否有一轮调度正在执行
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.inflight.Add(1)
			go func() {
				defer s.inflight.Done()
				// 已经开始的一轮不因为 Stop 被打断
				tickCtx := context.WithoutCancel(ctx)
				if _, err := s.Tick(tickCtx); err != nil {
					s.logger.Error("告警调度失败", elog.FieldErr(err))
				}
			}()
		}
	}
}

// Tick 执行一轮调度。单条规则失败只计数，不影响其他规则
func (s *Scheduler) Tick(ctx context.Context) (domain.TickSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.skip()
		s.logger.Warn("上一轮告警调度还没有结束，跳过本轮")
		return domain.TickSummary{Skipped: true}, nil
	}
	defer s.running.Store(false)

	if s.dclient != nil {
		unlock, ok := s.tryLock(ctx)
		if !ok {
			s.metrics.skip()
			return domain.TickSummary{Skipped: true}, nil
		}
		defer unlock()
	}

	start := time.Now()
	now := s.now()
	summary, err := s.checkDueRules(ctx, now)
	s.expireAlerts(ctx, now)
	s.metrics.observe(tickResult{TickSummary: summary, duration: time.Since(start)})
	s.logger.Info("告警调度结束",
		elog.Int("checked", summary.Checked),
		elog.Int("triggered", summary.Triggered),
		elog.Int("errors", summary.Errors))
	return summary, err
}

func (s *Scheduler) tryLock(ctx context.Context) (func(), bool) {
	lock, err := s.dclient.NewLock(ctx, s.cfg.LockKey, s.cfg.LockExpiration)
	if err != nil {
		s.logger.Error("初始化分布式锁失败", elog.FieldErr(err))
		return nil, false
	}
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	err = lock.Lock(lockCtx)
	cancel()
	if err != nil {
		// 其他实例正在调度
		s.logger.Debug("没有抢到分布式锁，跳过本轮", elog.FieldErr(err))
		return nil, false
	}
	return func() {
		unCtx, cancel := context.WithTimeout(context.Background(), lockTimeout)
		defer cancel()
		//nolint:contextcheck // ctx 可能已经被取消，仍然要释放锁
		if err := lock.Unlock(unCtx); err != nil {
			s.logger.Error("释放分布式锁失败", elog.FieldErr(err))
		}
	}, true
}

func (s *Scheduler) checkDueRules(ctx context.Context, now time.Time) (domain.TickSummary, error) {
	var (
		summary domain.TickSummary
		mu      sync.Mutex
		cursor  int64
	)
	for {
		rules, err := s.rules.FindDue(ctx, now, cursor, s.cfg.BatchSize)
		if err != nil {
			return summary, fmt.Errorf("查找到期的告警规则失败: %w", err)
		}
		var eg errgroup.Group
		eg.SetLimit(s.cfg.Concurrency)
		for _, r := range rules {
			eg.Go(func() error {
				triggered, err1 := s.checkRule(ctx, r, now)
				mu.Lock()
				defer mu.Unlock()
				summary.Checked++
				if triggered {
					summary.Triggered++
				}
				if err1 != nil {
					summary.Errors++
				}
				return nil
			})
		}
		_ = eg.Wait()
		if len(rules) < s.cfg.BatchSize {
			return summary, nil
		}
		cursor = rules[len(rules)-1].ID
	}
}

// checkRule 评估、去重、通知、推进 nextCheck 在一条规则内是顺序执行的。
// 不管成功与否都要推进 nextCheck，避免一条坏规则一直被重复检查
func (s *Scheduler) checkRule(ctx context.Context, r domain.AlertRule, now time.Time) (bool, error) {
	triggered, err := s.evaluateAndAlert(ctx, r, now)
	if err != nil {
		s.logger.Error("检查告警规则失败",
			elog.Int64("ruleID", r.ID),
			elog.String("alertType", r.AlertType.String()),
			elog.FieldErr(err))
	}
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
	defer cancel()
	if err1 := s.rules.MarkChecked(markCtx, r.ID, now, r.NextCheckAfter(now)); err1 != nil {
		s.logger.Error("更新规则检查时间失败", elog.Int64("ruleID", r.ID), elog.FieldErr(err1))
		if err == nil {
			err = err1
		}
	}
	return triggered, err
}

func (s *Scheduler) evaluateAndAlert(ctx context.Context, r domain.AlertRule, now time.Time) (bool, error) {
	res, err := s.evaluator.Evaluate(ctx, r, now)
	if err != nil {
		return false, fmt.Errorf("评估失败: %w", err)
	}
	if !res.ShouldTrigger {
		return false, nil
	}
	a, isNew, err := s.dedup.TryCreateAlert(ctx, r, res)
	if err != nil {
		return false, fmt.Errorf("创建告警失败: %w", err)
	}
	if !isNew {
		// 已经有打开的告警，不重复通知
		return false, nil
	}
	if err = s.rules.MarkTriggered(ctx, r.ID, now); err != nil {
		s.logger.Error("更新规则触发次数失败", elog.Int64("ruleID", r.ID), elog.FieldErr(err))
	}
	if _, err = s.dispatcher.Dispatch(ctx, a, r); err != nil {
		return true, fmt.Errorf("发送告警 %d 失败: %w", a.ID, err)
	}
	return true, nil
}

func (s *Scheduler) expireAlerts(ctx context.Context, now time.Time) {
	if s.alertSvc == nil {
		return
	}
	cnt, err := s.alertSvc.ExpireOverdue(ctx, now, s.cfg.ExpireBatchSize)
	if err != nil {
		s.logger.Warn("清理过期告警失败", elog.FieldErr(err))
		return
	}
	if cnt > 0 {
		s.logger.Info("清理过期告警", elog.Int("count", cnt))
	}
}
