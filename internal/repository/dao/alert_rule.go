package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	"gitee.com/flycash/alert-platform/internal/pkg/dao"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

type AlertRuleDAO interface {
	Create(ctx context.Context, rule AlertRule) (AlertRule, error)
	GetByID(ctx context.Context, id int64) (AlertRule, error)
	// FindDue 按照 ID 升序分页查找到期的规则，cursor 为上一页最后一条的 ID
	FindDue(ctx context.Context, now int64, cursor int64, limit int) ([]AlertRule, error)
	UpdateStatus(ctx context.Context, id int64, status string, nextCheck int64) error
	MarkChecked(ctx context.Context, id int64, checkedAt, nextCheck int64) error
	MarkTriggered(ctx context.Context, id int64, triggeredAt int64) error
}

// AlertRule 告警规则表
type AlertRule struct {
	ID                   int64                                       `gorm:"primaryKey;autoIncrement;comment:'告警规则ID'"`
	OrgID                int64                                       `gorm:"type:BIGINT;NOT NULL;index:idx_org_id;comment:'组织ID'"`
	Name                 string                                      `gorm:"type:VARCHAR(256);NOT NULL;comment:'规则名称'"`
	AlertType            string                                      `gorm:"type:VARCHAR(64);NOT NULL;comment:'告警类型'"`
	SourceType           string                                      `gorm:"type:VARCHAR(64);NOT NULL;comment:'监控对象类型'"`
	Conditions           dao.JSONColumn[domain.RuleConditions]       `gorm:"type:JSON;comment:'触发条件'"`
	NotificationSettings dao.JSONColumn[domain.NotificationSettings] `gorm:"type:JSON;comment:'通知策略'"`
	MessageTemplate      dao.JSONColumn[domain.MessageTemplate]      `gorm:"type:JSON;comment:'消息模板'"`
	Status               string                                      `gorm:"type:ENUM('active','inactive','paused');NOT NULL;DEFAULT:'active';index:idx_status_next_check,priority:1;comment:'规则状态'"`
	CheckInterval        int64                                       `gorm:"type:BIGINT;NOT NULL;DEFAULT:60;comment:'检查间隔，单位分钟'"`
	NextCheck            int64                                       `gorm:"type:BIGINT;NOT NULL;DEFAULT:0;index:idx_status_next_check,priority:2;comment:'下一次检查时间，0 表示尽快检查'"`
	LastChecked          int64                                       `gorm:"type:BIGINT;NOT NULL;DEFAULT:0"`
	LastTriggered        int64                                       `gorm:"type:BIGINT;NOT NULL;DEFAULT:0"`
	TriggerCount         int64                                       `gorm:"type:BIGINT;NOT NULL;DEFAULT:0"`
	Ctime                int64
	Utime                int64
}

func (AlertRule) TableName() string {
	return "alert_rules"
}

type alertRuleDAO struct {
	db *egorm.Component
}

func NewAlertRuleDAO(db *egorm.Component) AlertRuleDAO {
	return &alertRuleDAO{db: db}
}

func (d *alertRuleDAO) Create(ctx context.Context, rule AlertRule) (AlertRule, error) {
	now := time.Now().UnixMilli()
	rule.Ctime, rule.Utime = now, now
	// 新建的启用规则立刻参与下一次调度
	if rule.Status == domain.RuleStatusActive.String() && rule.NextCheck == 0 {
		rule.NextCheck = now
	}
	err := d.db.WithContext(ctx).Create(&rule).Error
	return rule, err
}

func (d *alertRuleDAO) GetByID(ctx context.Context, id int64) (AlertRule, error) {
	var rule AlertRule
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AlertRule{}, fmt.Errorf("%w: id=%d", errs.ErrAlertRuleNotFound, id)
		}
		return AlertRule{}, err
	}
	return rule, nil
}

func (d *alertRuleDAO) FindDue(ctx context.Context, now int64, cursor int64, limit int) ([]AlertRule, error) {
	var res []AlertRule
	err := d.db.WithContext(ctx).
		Where("status = ? AND next_check <= ? AND id > ?", domain.RuleStatusActive.String(), now, cursor).
		Order("id ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (d *alertRuleDAO) UpdateStatus(ctx context.Context, id int64, status string, nextCheck int64) error {
	updates := map[string]any{
		"status": status,
		"utime":  time.Now().UnixMilli(),
	}
	// 重新启用的时候立刻检查一次
	if status == domain.RuleStatusActive.String() {
		updates["next_check"] = nextCheck
	}
	res := d.db.WithContext(ctx).Model(&AlertRule{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", errs.ErrAlertRuleNotFound, id)
	}
	return nil
}

func (d *alertRuleDAO) MarkChecked(ctx context.Context, id int64, checkedAt, nextCheck int64) error {
	return d.db.WithContext(ctx).Model(&AlertRule{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_checked": checkedAt,
			"next_check":   nextCheck,
			"utime":        time.Now().UnixMilli(),
		}).Error
}

func (d *alertRuleDAO) MarkTriggered(ctx context.Context, id int64, triggeredAt int64) error {
	return d.db.WithContext(ctx).Model(&AlertRule{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_triggered": triggeredAt,
			"trigger_count":  gorm.Expr("trigger_count + 1"),
			"utime":          time.Now().UnixMilli(),
		}).Error
}
