package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/event/push"
	id "gitee.com/flycash/alert-platform/internal/pkg/id_generator"
	"gitee.com/flycash/alert-platform/internal/repository"
	"github.com/ecodeclub/ekit/slice"
	"github.com/gotomicro/ego/core/elog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// Dispatcher 只对新建的告警发送通知。单个接收人失败不影响其他接收人，
// 全部处理完之后告警从 pending 进入 sent
//
//go:generate mockgen -source=./dispatcher.go -destination=./mocks/dispatcher.mock.go -package=dispatchermocks Dispatcher
type Dispatcher interface {
	Dispatch(ctx context.Context, alert domain.Alert, rule domain.AlertRule) (domain.Alert, error)
}

type dispatcher struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	alerts        repository.AlertRepository
	producer      push.Producer
	idGen         id.Generator
	concurrency   int
	now           func() time.Time
	logger        *elog.Component
}

func NewDispatcher(
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	alerts repository.AlertRepository,
	producer push.Producer,
	idGen id.Generator,
	concurrency int,
) Dispatcher {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &dispatcher{
		users:         users,
		notifications: notifications,
		alerts:        alerts,
		producer:      producer,
		idGen:         idGen,
		concurrency:   concurrency,
		now:           time.Now,
		logger:        elog.DefaultLogger,
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, alert domain.Alert, rule domain.AlertRule) (domain.Alert, error) {
	if !rule.NotificationSettings.Enabled {
		// 告警保持 pending，只在列表里可见
		return alert, nil
	}
	recipients, err := d.resolveRecipients(ctx, alert, rule)
	if err != nil {
		return alert, fmt.Errorf("解析告警接收人失败: %w", err)
	}
	alert.Recipients = recipients

	var (
		mu      sync.Mutex
		sendErr *multierror.Error
	)
	pushEnabled := rule.NotificationSettings.PushEnabled()
	var eg errgroup.Group
	eg.SetLimit(d.concurrency)
	for i := range alert.Recipients {
		// 每个 goroutine 只修改自己下标的接收人
		r := &alert.Recipients[i]
		eg.Go(func() error {
			if err1 := d.deliver(ctx, alert, r, pushEnabled); err1 != nil {
				mu.Lock()
				sendErr = multierror.Append(sendErr, fmt.Errorf("user %d: %w", r.UserID, err1))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()
	if sendErr != nil {
		d.logger.Warn("部分接收人通知失败",
			elog.Any("alertID", alert.ID),
			elog.Int("failed", len(sendErr.Errors)),
			elog.Int("total", len(alert.Recipients)),
			elog.FieldErr(sendErr))
	}

	from := alert.Status
	alert.Status = domain.AlertStatusSent
	if err = d.alerts.Transition(ctx, alert, []domain.AlertStatus{from}); err != nil {
		return alert, fmt.Errorf("告警状态更新为 sent 失败: %w", err)
	}
	alert.Version++
	return alert, nil
}

// resolveRecipients 规则显式配置了接收人就用规则的，否则通知组织内所有 CSR
func (d *dispatcher) resolveRecipients(ctx context.Context, alert domain.Alert, rule domain.AlertRule) ([]domain.Recipient, error) {
	if len(alert.Recipients) > 0 {
		return alert.Recipients, nil
	}
	userIDs := rule.NotificationSettings.Recipients
	if len(userIDs) == 0 {
		users, err := d.users.FindByRole(ctx, alert.OrgID, domain.RoleCSR)
		if err != nil {
			return nil, err
		}
		userIDs = slice.Map(users, func(_ int, src domain.User) int64 {
			return src.ID
		})
	}
	seen := make(map[int64]struct{}, len(userIDs))
	res := make([]domain.Recipient, 0, len(userIDs))
	for _, uid := range userIDs {
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		res = append(res, domain.Recipient{UserID: uid})
	}
	return res, nil
}

func (d *dispatcher) deliver(ctx context.Context, alert domain.Alert, r *domain.Recipient, pushEnabled bool) error {
	if r.NotificationID != 0 {
		return nil
	}
	n := domain.NewAlertNotification(alert, r.UserID)
	nid, err := d.idGen.NextID()
	if err != nil {
		return err
	}
	n.ID = nid
	n, err = d.notifications.Create(ctx, n)
	if err != nil {
		return err
	}
	now := d.now()
	r.NotificationID = n.ID
	r.SentAt = now
	if !pushEnabled {
		return nil
	}
	err = d.producer.Produce(ctx, push.Event{
		Type:      push.EventTypeAlert,
		UserID:    r.UserID,
		AlertID:   alert.ID,
		Title:     alert.Title,
		Message:   alert.Message,
		Severity:  alert.Severity.String(),
		AlertType: alert.AlertType.String(),
		ActionURL: alert.ActionURL,
		SentAt:    now.UnixMilli(),
	})
	if err != nil {
		// 站内通知已经落库，推送失败只记录日志
		d.logger.Warn("实时推送失败",
			elog.Any("alertID", alert.ID),
			elog.Int64("userID", r.UserID),
			elog.FieldErr(err))
	}
	return nil
}
