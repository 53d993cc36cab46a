package alert

import (
	"context"
	"time"

	"gitee.com/flycash/alert-platform/internal/pkg/loopjob"
	"github.com/meoying/dlock-go"
)

const ExpiryTaskKey = "alert_expire_overdue"

// ExpiryTask 后台持续清理过期的打开告警，集群内同一时间只有一个实例在执行
type ExpiryTask struct {
	dclient   dlock.Client
	svc       Service
	batchSize int
	sleep     time.Duration
	now       func() time.Time
}

func NewExpiryTask(dclient dlock.Client, svc Service) *ExpiryTask {
	return &ExpiryTask{
		dclient:   dclient,
		svc:       svc,
		batchSize: 100,
		sleep:     time.Minute,
		now:       time.Now,
	}
}

func (t *ExpiryTask) Start(ctx context.Context) {
	lj := loopjob.NewInfiniteLoop(t.dclient, t.oneLoop, ExpiryTaskKey)
	lj.Run(ctx)
}

func (t *ExpiryTask) oneLoop(ctx context.Context) error {
	cnt, err := t.svc.ExpireOverdue(ctx, t.now(), t.batchSize)
	if err != nil {
		return err
	}
	// 过期的不多，休息一下
	if cnt < t.batchSize {
		select {
		case <-ctx.Done():
		case <-time.After(t.sleep):
		}
	}
	return nil
}
