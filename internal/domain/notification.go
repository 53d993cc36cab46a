package domain

import (
	"fmt"
	"time"

	"gitee.com/flycash/alert-platform/internal/errs"
)

// Notification 站内通知，每个接收人一条
type Notification struct {
	ID       uint64
	UserID   int64
	OrgID    int64
	AlertID  uint64
	Type     AlertType
	Severity Severity
	Title    string
	Message  string
	// Metadata 告警的 actionUrl 以及渲染时使用的上下文
	Metadata map[string]any
	ReadAt   time.Time
	Ctime    time.Time
}

func (n *Notification) Validate() error {
	if n.UserID <= 0 {
		return fmt.Errorf("%w: UserID = %d", errs.ErrInvalidParameter, n.UserID)
	}
	if n.AlertID == 0 {
		return fmt.Errorf("%w: AlertID = %d", errs.ErrInvalidParameter, n.AlertID)
	}
	if n.Title == "" {
		return fmt.Errorf("%w: Title 不能为空", errs.ErrInvalidParameter)
	}
	return nil
}

// NewAlertNotification 根据告警生成一个接收人的站内通知
func NewAlertNotification(alert Alert, userID int64) Notification {
	meta := make(map[string]any, len(alert.Context)+1)
	for k, v := range alert.Context {
		meta[k] = v
	}
	if alert.ActionURL != "" {
		meta["actionUrl"] = alert.ActionURL
	}
	return Notification{
		UserID:   userID,
		OrgID:    alert.OrgID,
		AlertID:  alert.ID,
		Type:     alert.AlertType,
		Severity: alert.Severity,
		Title:    alert.Title,
		Message:  alert.Message,
		Metadata: meta,
	}
}
