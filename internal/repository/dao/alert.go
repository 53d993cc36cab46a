package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	"gitee.com/flycash/alert-platform/internal/pkg/dao"
	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// 去重键冲突之后，已有的告警可能在查询之前就被关闭了，这时候重新插入
const maxCreateAttempts = 3

type AlertDAO interface {
	// CreateIfAbsent 依赖 open_key 上的唯一索引，插入成功返回 true；
	// 已经存在处于打开状态的告警，返回已有告警和 false
	CreateIfAbsent(ctx context.Context, alert Alert) (Alert, bool, error)
	GetByID(ctx context.Context, id uint64) (Alert, error)
	// CASUpdate 基于版本号更新状态、接收人和处理信息，from 为允许的原状态
	CASUpdate(ctx context.Context, alert Alert, from []string) error
	ListByOrg(ctx context.Context, orgID int64, status string, offset, limit int) ([]Alert, error)
	// FindExpired 查找已经过期但仍处于打开状态的告警
	FindExpired(ctx context.Context, now int64, limit int) ([]Alert, error)
}

// Alert 告警表
type Alert struct {
	ID         uint64 `gorm:"primaryKey;comment:'雪花算法ID'"`
	OrgID      int64  `gorm:"type:BIGINT;NOT NULL;index:idx_org_status,priority:1;comment:'组织ID'"`
	RuleID     int64  `gorm:"type:BIGINT;NOT NULL;index:idx_rule_source,priority:1;comment:'告警规则ID'"`
	SourceType string `gorm:"type:VARCHAR(64);NOT NULL;comment:'监控对象类型'"`
	SourceID   int64  `gorm:"type:BIGINT;NOT NULL;index:idx_rule_source,priority:2;comment:'监控对象ID'"`
	// OpenKey 只在 pending/sent 状态下有值，唯一索引保证同一个规则同一个对象最多一条打开的告警
	OpenKey    sql.NullString                     `gorm:"type:VARCHAR(128);uniqueIndex:uk_open_key;comment:'去重键'"`
	AlertType  string                             `gorm:"type:VARCHAR(64);NOT NULL;comment:'告警类型'"`
	Severity   string                             `gorm:"type:ENUM('low','medium','high','critical');NOT NULL;comment:'告警级别'"`
	Title      string                             `gorm:"type:VARCHAR(512);NOT NULL"`
	Message    string                             `gorm:"type:TEXT"`
	ActionURL  string                             `gorm:"type:VARCHAR(1024)"`
	Context    dao.JSONColumn[map[string]any]     `gorm:"type:JSON;comment:'触发上下文'"`
	Recipients dao.JSONColumn[[]domain.Recipient] `gorm:"type:JSON;comment:'接收人'"`
	Status     string                             `gorm:"type:ENUM('pending','sent','acknowledged','resolved','dismissed');NOT NULL;DEFAULT:'pending';index:idx_org_status,priority:2;index:idx_status_expires,priority:1"`
	ExpiresAt  int64                              `gorm:"type:BIGINT;NOT NULL;index:idx_status_expires,priority:2;comment:'过期时间'"`

	ResolvedBy      int64
	ResolvedAt      int64
	ResolutionNotes string `gorm:"type:TEXT"`
	DismissedBy     int64
	DismissedAt     int64
	DismissReason   string `gorm:"type:VARCHAR(512)"`

	Version int `gorm:"type:INT;NOT NULL;DEFAULT:1;comment:'版本号，用于CAS操作'"`
	Ctime   int64
	Utime   int64
}

func (Alert) TableName() string {
	return "alerts"
}

type alertDAO struct {
	db *egorm.Component
}

func NewAlertDAO(db *egorm.Component) AlertDAO {
	return &alertDAO{db: db}
}

func (d *alertDAO) CreateIfAbsent(ctx context.Context, alert Alert) (Alert, bool, error) {
	if !alert.OpenKey.Valid {
		return Alert{}, false, fmt.Errorf("%w: 新建告警必须带有去重键", errs.ErrInvalidParameter)
	}
	now := time.Now().UnixMilli()
	alert.Ctime, alert.Utime = now, now
	alert.Version = 1

	for i := 0; i < maxCreateAttempts; i++ {
		err := d.db.WithContext(ctx).Create(&alert).Error
		if err == nil {
			return alert, true, nil
		}
		if !isUniqueConstraintError(err) {
			return Alert{}, false, err
		}
		var existing Alert
		err = d.db.WithContext(ctx).Where("open_key = ?", alert.OpenKey.String).First(&existing).Error
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Alert{}, false, err
		}
	}
	return Alert{}, false, fmt.Errorf("%w: openKey=%s", errs.ErrAlertDuplicate, alert.OpenKey.String)
}

func (d *alertDAO) GetByID(ctx context.Context, id uint64) (Alert, error) {
	var alert Alert
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Alert{}, fmt.Errorf("%w: id=%d", errs.ErrAlertNotFound, id)
		}
		return Alert{}, err
	}
	return alert, nil
}

func (d *alertDAO) CASUpdate(ctx context.Context, alert Alert, from []string) error {
	updates := map[string]any{
		"status":           alert.Status,
		"open_key":         alert.OpenKey,
		"recipients":       alert.Recipients,
		"resolved_by":      alert.ResolvedBy,
		"resolved_at":      alert.ResolvedAt,
		"resolution_notes": alert.ResolutionNotes,
		"dismissed_by":     alert.DismissedBy,
		"dismissed_at":     alert.DismissedAt,
		"dismiss_reason":   alert.DismissReason,
		"version":          gorm.Expr("version + 1"),
		"utime":            time.Now().UnixMilli(),
	}
	res := d.db.WithContext(ctx).Model(&Alert{}).
		Where("id = ? AND version = ? AND status IN ?", alert.ID, alert.Version, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected < 1 {
		return fmt.Errorf("并发竞争失败 %w, id %d", errs.ErrAlertVersionMismatch, alert.ID)
	}
	return nil
}

func (d *alertDAO) ListByOrg(ctx context.Context, orgID int64, status string, offset, limit int) ([]Alert, error) {
	var res []Alert
	query := d.db.WithContext(ctx).Where("org_id = ?", orgID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("ctime DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (d *alertDAO) FindExpired(ctx context.Context, now int64, limit int) ([]Alert, error) {
	var res []Alert
	err := d.db.WithContext(ctx).
		Where("status IN ? AND expires_at < ?", []string{
			domain.AlertStatusPending.String(),
			domain.AlertStatusSent.String(),
		}, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

// isUniqueConstraintError 检查是否是唯一索引冲突错误
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	me := new(mysql.MySQLError)
	if ok := errors.As(err, &me); ok {
		const uniqueIndexErrNo uint16 = 1062
		return me.Number == uniqueIndexErrNo
	}
	return false
}
