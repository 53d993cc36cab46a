package alert

import (
	"context"
	"fmt"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	id "gitee.com/flycash/alert-platform/internal/pkg/id_generator"
	"gitee.com/flycash/alert-platform/internal/repository"
)

// Deduplicator 把一次触发变成最多一条打开状态的告警。
// 只有 isNew 为 true 的时候调用方才应该发送通知
//
//go:generate mockgen -source=./deduplicator.go -destination=./mocks/deduplicator.mock.go -package=alertmocks Deduplicator
type Deduplicator interface {
	TryCreateAlert(ctx context.Context, rule domain.AlertRule, trigger domain.TriggerResult) (domain.Alert, bool, error)
}

type deduplicator struct {
	repo       repository.AlertRepository
	idGen      id.Generator
	expiration time.Duration
	now        func() time.Time
}

func NewDeduplicator(repo repository.AlertRepository, idGen id.Generator, expiration time.Duration) Deduplicator {
	if expiration <= 0 {
		expiration = domain.DefaultAlertExpiration
	}
	return &deduplicator{
		repo:       repo,
		idGen:      idGen,
		expiration: expiration,
		now:        time.Now,
	}
}

func (d *deduplicator) TryCreateAlert(ctx context.Context, rule domain.AlertRule,
	trigger domain.TriggerResult,
) (domain.Alert, bool, error) {
	if !trigger.ShouldTrigger {
		return domain.Alert{}, false, fmt.Errorf("%w: 规则 %d 没有触发", errs.ErrInvalidParameter, rule.ID)
	}
	alertID, err := d.idGen.NextID()
	if err != nil {
		return domain.Alert{}, false, fmt.Errorf("生成告警ID失败: %w", err)
	}
	sourceType := trigger.SourceType
	if sourceType == domain.SourceTypeUnknown {
		sourceType = rule.AlertType.SourceType()
	}
	msg := RenderMessage(rule.MessageTemplate, trigger.Context)
	now := d.now()
	a := domain.Alert{
		ID:         alertID,
		OrgID:      rule.OrgID,
		RuleID:     rule.ID,
		SourceType: sourceType,
		SourceID:   trigger.SourceID,
		AlertType:  rule.AlertType,
		Severity:   rule.AlertType.Severity(),
		Title:      msg.Title,
		Message:    msg.Message,
		ActionURL:  msg.ActionURL,
		Context:    trigger.Context,
		Recipients: explicitRecipients(rule.NotificationSettings.Recipients),
		Status:     domain.AlertStatusPending,
		ExpiresAt:  now.Add(d.expiration),
		Ctime:      now,
		Utime:      now,
	}
	return d.repo.CreateIfAbsent(ctx, a)
}

// explicitRecipients 规则上显式配置的接收人，去重并保持顺序
func explicitRecipients(userIDs []int64) []domain.Recipient {
	if len(userIDs) == 0 {
		return nil
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
	return res
}
