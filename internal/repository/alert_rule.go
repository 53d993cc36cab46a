package repository

import (
	"context"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/pkg/dao"
	daopkg "gitee.com/flycash/alert-platform/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

//go:generate mockgen -source=./alert_rule.go -destination=./mocks/alert_rule.mock.go -package=repomocks
type AlertRuleRepository interface {
	Create(ctx context.Context, rule domain.AlertRule) (domain.AlertRule, error)
	GetByID(ctx context.Context, id int64) (domain.AlertRule, error)
	// FindDue 按照 ID 升序分页，cursor 为上一页最后一条规则的 ID
	FindDue(ctx context.Context, now time.Time, cursor int64, limit int) ([]domain.AlertRule, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RuleStatus) error
	MarkChecked(ctx context.Context, id int64, checkedAt, nextCheck time.Time) error
	// MarkTriggered 原子地增加触发次数
	MarkTriggered(ctx context.Context, id int64, triggeredAt time.Time) error
}

type alertRuleRepository struct {
	dao daopkg.AlertRuleDAO
}

func NewAlertRuleRepository(d daopkg.AlertRuleDAO) AlertRuleRepository {
	return &alertRuleRepository{dao: d}
}

func (r *alertRuleRepository) Create(ctx context.Context, rule domain.AlertRule) (domain.AlertRule, error) {
	if err := rule.Validate(); err != nil {
		return domain.AlertRule{}, err
	}
	if rule.SourceType == domain.SourceTypeUnknown {
		rule.SourceType = rule.AlertType.SourceType()
	}
	entity, err := r.dao.Create(ctx, r.toEntity(rule))
	if err != nil {
		return domain.AlertRule{}, err
	}
	return r.toDomain(entity), nil
}

func (r *alertRuleRepository) GetByID(ctx context.Context, id int64) (domain.AlertRule, error) {
	entity, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.AlertRule{}, err
	}
	return r.toDomain(entity), nil
}

func (r *alertRuleRepository) FindDue(ctx context.Context, now time.Time, cursor int64, limit int) ([]domain.AlertRule, error) {
	entities, err := r.dao.FindDue(ctx, now.UnixMilli(), cursor, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, func(_ int, src daopkg.AlertRule) domain.AlertRule {
		return r.toDomain(src)
	}), nil
}

func (r *alertRuleRepository) UpdateStatus(ctx context.Context, id int64, status domain.RuleStatus) error {
	return r.dao.UpdateStatus(ctx, id, status.String(), time.Now().UnixMilli())
}

func (r *alertRuleRepository) MarkChecked(ctx context.Context, id int64, checkedAt, nextCheck time.Time) error {
	return r.dao.MarkChecked(ctx, id, checkedAt.UnixMilli(), nextCheck.UnixMilli())
}

func (r *alertRuleRepository) MarkTriggered(ctx context.Context, id int64, triggeredAt time.Time) error {
	return r.dao.MarkTriggered(ctx, id, triggeredAt.UnixMilli())
}

func (r *alertRuleRepository) toEntity(rule domain.AlertRule) daopkg.AlertRule {
	interval := rule.CheckInterval
	if interval <= 0 {
		interval = domain.DefaultCheckInterval
	}
	return daopkg.AlertRule{
		ID:                   rule.ID,
		OrgID:                rule.OrgID,
		Name:                 rule.Name,
		AlertType:            rule.AlertType.String(),
		SourceType:           rule.SourceType.String(),
		Conditions:           dao.NewJSONColumn(rule.Conditions),
		NotificationSettings: dao.NewJSONColumn(rule.NotificationSettings),
		MessageTemplate:      dao.NewJSONColumn(rule.MessageTemplate),
		Status:               rule.Status.String(),
		CheckInterval:        int64(interval / time.Minute),
		NextCheck:            toMillis(rule.NextCheck),
		LastChecked:          toMillis(rule.LastChecked),
		LastTriggered:        toMillis(rule.LastTriggered),
		TriggerCount:         rule.TriggerCount,
	}
}

func (r *alertRuleRepository) toDomain(entity daopkg.AlertRule) domain.AlertRule {
	return domain.AlertRule{
		ID:                   entity.ID,
		OrgID:                entity.OrgID,
		Name:                 entity.Name,
		AlertType:            domain.AlertType(entity.AlertType),
		SourceType:           domain.SourceType(entity.SourceType),
		Conditions:           entity.Conditions.Val,
		NotificationSettings: entity.NotificationSettings.Val,
		MessageTemplate:      entity.MessageTemplate.Val,
		Status:               domain.RuleStatus(entity.Status),
		CheckInterval:        time.Duration(entity.CheckInterval) * time.Minute,
		NextCheck:            fromMillis(entity.NextCheck),
		LastChecked:          fromMillis(entity.LastChecked),
		LastTriggered:        fromMillis(entity.LastTriggered),
		TriggerCount:         entity.TriggerCount,
		Ctime:                time.UnixMilli(entity.Ctime),
		Utime:                time.UnixMilli(entity.Utime),
	}
}
