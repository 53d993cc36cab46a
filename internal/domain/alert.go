package domain

import (
	"fmt"
	"time"

	"gitee.com/flycash/alert-platform/internal/errs"
)

// DefaultAlertExpiration 告警默认 7 天后过期
const DefaultAlertExpiration = 7 * 24 * time.Hour

// Severity 告警级别
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) String() string {
	return string(s)
}

// AlertStatus 告警状态
type AlertStatus string

const (
	AlertStatusPending      AlertStatus = "pending"
	AlertStatusSent         AlertStatus = "sent"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
	AlertStatusDismissed    AlertStatus = "dismissed"
)

func (s AlertStatus) String() string {
	return string(s)
}

// IsOpen pending 和 sent 状态的告警占用去重键
func (s AlertStatus) IsOpen() bool {
	return s == AlertStatusPending || s == AlertStatusSent
}

// IsActionable 还可以被确认、解决、忽略
func (s AlertStatus) IsActionable() bool {
	return s.IsOpen() || s == AlertStatusAcknowledged
}

// OpenAlertStatuses 去重不变式覆盖的状态
func OpenAlertStatuses() []AlertStatus {
	return []AlertStatus{AlertStatusPending, AlertStatusSent}
}

// Recipient 告警接收人
type Recipient struct {
	UserID         int64     `json:"userId"`
	NotificationID uint64    `json:"notificationId,omitempty"`
	SentAt         time.Time `json:"sentAt,omitempty"`
	ReadAt         time.Time `json:"readAt,omitempty"`
	Acknowledged   bool      `json:"acknowledged"`
	AcknowledgedAt time.Time `json:"acknowledgedAt,omitempty"`
}

// Alert 告警，同一个 (RuleID, SourceID) 最多只有一条处于 pending/sent 状态
type Alert struct {
	ID         uint64
	OrgID      int64
	RuleID     int64
	SourceType SourceType
	SourceID   int64
	AlertType  AlertType
	Severity   Severity
	Title      string
	Message    string
	ActionURL  string
	Context    map[string]any
	Recipients []Recipient
	Status     AlertStatus
	ExpiresAt  time.Time

	ResolvedBy      int64
	ResolvedAt      time.Time
	ResolutionNotes string

	DismissedBy   int64
	DismissedAt   time.Time
	DismissReason string

	Version int
	Ctime   time.Time
	Utime   time.Time
}

// DedupKey 去重键
func DedupKey(ruleID int64, sourceType SourceType, sourceID int64) string {
	return fmt.Sprintf("%d:%s:%d", ruleID, sourceType, sourceID)
}

func (a *Alert) DedupKey() string {
	return DedupKey(a.RuleID, a.SourceType, a.SourceID)
}

func (a *Alert) IsExpired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && a.ExpiresAt.Before(now)
}

func (a *Alert) recipient(userID int64) (*Recipient, error) {
	for i := range a.Recipients {
		if a.Recipients[i].UserID == userID {
			return &a.Recipients[i], nil
		}
	}
	return nil, fmt.Errorf("%w: alertID=%d, userID=%d", errs.ErrRecipientNotFound, a.ID, userID)
}

// MarkRead 只记录已读时间，不改变状态
func (a *Alert) MarkRead(userID int64, now time.Time) error {
	r, err := a.recipient(userID)
	if err != nil {
		return err
	}
	if r.ReadAt.IsZero() {
		r.ReadAt = now
	}
	return nil
}

// Acknowledge 单个接收人确认，全部接收人都确认之后告警进入 acknowledged
func (a *Alert) Acknowledge(userID int64, now time.Time) error {
	if !a.Status.IsActionable() {
		return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidAlertTransition, a.Status, AlertStatusAcknowledged)
	}
	r, err := a.recipient(userID)
	if err != nil {
		return err
	}
	if !r.Acknowledged {
		r.Acknowledged = true
		r.AcknowledgedAt = now
	}
	if a.allAcknowledged() {
		a.Status = AlertStatusAcknowledged
	}
	return nil
}

func (a *Alert) allAcknowledged() bool {
	if len(a.Recipients) == 0 {
		return false
	}
	for _, r := range a.Recipients {
		if !r.Acknowledged {
			return false
		}
	}
	return true
}

func (a *Alert) Resolve(resolverID int64, notes string, now time.Time) error {
	if !a.Status.IsActionable() {
		return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidAlertTransition, a.Status, AlertStatusResolved)
	}
	a.Status = AlertStatusResolved
	a.ResolvedBy = resolverID
	a.ResolvedAt = now
	a.ResolutionNotes = notes
	return nil
}

func (a *Alert) Dismiss(userID int64, reason string, now time.Time) error {
	if !a.Status.IsActionable() {
		return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidAlertTransition, a.Status, AlertStatusDismissed)
	}
	a.Status = AlertStatusDismissed
	a.DismissedBy = userID
	a.DismissedAt = now
	a.DismissReason = reason
	return nil
}

// TriggerResult 规则评估的结果
type TriggerResult struct {
	ShouldTrigger bool
	SourceType    SourceType
	SourceID      int64
	Context       map[string]any
}

// NoTrigger 没有触发
func NoTrigger() TriggerResult {
	return TriggerResult{}
}

// TickSummary 一次调度的汇总
type TickSummary struct {
	Checked   int  `json:"checked"`
	Triggered int  `json:"triggered"`
	Errors    int  `json:"errors"`
	Skipped   bool `json:"skipped,omitempty"`
}
