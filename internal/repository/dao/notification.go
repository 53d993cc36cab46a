package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/alert-platform/internal/errs"
	"gitee.com/flycash/alert-platform/internal/pkg/dao"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

type NotificationDAO interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	GetByID(ctx context.Context, id uint64) (Notification, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id uint64, userID int64, readAt int64) error
}

// Notification 站内通知表，每个接收人一条
type Notification struct {
	ID       uint64                         `gorm:"primaryKey;comment:'雪花算法ID'"`
	UserID   int64                          `gorm:"type:BIGINT;NOT NULL;index:idx_user_ctime,priority:1;comment:'接收人'"`
	OrgID    int64                          `gorm:"type:BIGINT;NOT NULL"`
	AlertID  uint64                         `gorm:"type:BIGINT UNSIGNED;NOT NULL;index:idx_alert_id;comment:'关联的告警'"`
	Type     string                         `gorm:"type:VARCHAR(64);NOT NULL"`
	Severity string                         `gorm:"type:VARCHAR(16);NOT NULL"`
	Title    string                         `gorm:"type:VARCHAR(512);NOT NULL"`
	Message  string                         `gorm:"type:TEXT"`
	Metadata dao.JSONColumn[map[string]any] `gorm:"type:JSON"`
	ReadAt   int64                          `gorm:"type:BIGINT;NOT NULL;DEFAULT:0"`
	Ctime    int64                          `gorm:"index:idx_user_ctime,priority:2"`
	Utime    int64
}

type notificationDAO struct {
	db *egorm.Component
}

func NewNotificationDAO(db *egorm.Component) NotificationDAO {
	return &notificationDAO{db: db}
}

func (d *notificationDAO) Create(ctx context.Context, n Notification) (Notification, error) {
	now := time.Now().UnixMilli()
	n.Ctime, n.Utime = now, now
	err := d.db.WithContext(ctx).Create(&n).Error
	return n, err
}

func (d *notificationDAO) GetByID(ctx context.Context, id uint64) (Notification, error) {
	var n Notification
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Notification{}, fmt.Errorf("%w: id=%d", errs.ErrNotificationNotFound, id)
		}
		return Notification{}, err
	}
	return n, nil
}

func (d *notificationDAO) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]Notification, error) {
	var res []Notification
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ctime DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

// MarkRead 已读时间只记录第一次
func (d *notificationDAO) MarkRead(ctx context.Context, id uint64, userID int64, readAt int64) error {
	res := d.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"read_at": gorm.Expr("IF(read_at = 0, ?, read_at)", readAt),
			"utime":   time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d, userID=%d", errs.ErrNotificationNotFound, id, userID)
	}
	return nil
}
