package web

import (
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
)

const (
	CodeOK              = 0
	CodeBadRequest      = 400001
	CodeUnauthorized    = 401001
	CodeForbidden       = 403001
	CodeNotFound        = 404001
	CodeConflict        = 409001
	CodeTooManyRequests = 429001
	CodeInternal        = 500001
)

type Result struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

type ListAlertsResp struct {
	Alerts []AlertVO `json:"alerts"`
}

type ResolveReq struct {
	Notes string `json:"notes"`
}

type DismissReq struct {
	Reason string `json:"reason"`
}

type RecipientVO struct {
	UserID         int64  `json:"userId"`
	NotificationID uint64 `json:"notificationId,omitempty"`
	SentAt         int64  `json:"sentAt,omitempty"`
	ReadAt         int64  `json:"readAt,omitempty"`
	Acknowledged   bool   `json:"acknowledged"`
	AcknowledgedAt int64  `json:"acknowledgedAt,omitempty"`
}

type AlertVO struct {
	ID         uint64         `json:"id,string"`
	RuleID     int64          `json:"ruleId"`
	SourceType string         `json:"sourceType"`
	SourceID   int64          `json:"sourceId"`
	AlertType  string         `json:"alertType"`
	Severity   string         `json:"severity"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	ActionURL  string         `json:"actionUrl,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
	Recipients []RecipientVO  `json:"recipients"`
	Status     string         `json:"status"`
	ExpiresAt  int64          `json:"expiresAt"`
	Ctime      int64          `json:"ctime"`
}

type EvaluateResp struct {
	ShouldTrigger bool           `json:"shouldTrigger"`
	SourceType    string         `json:"sourceType,omitempty"`
	SourceID      int64          `json:"sourceId,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
}

type GoalEventVO struct {
	Type         string  `json:"type"`
	Threshold    float64 `json:"threshold"`
	Percentage   float64 `json:"percentage"`
	TimeProgress float64 `json:"timeProgress,omitempty"`
}

type RefreshGoalResp struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Percentage  float64       `json:"percentage"`
	Status      string        `json:"status"`
	CompletedAt int64         `json:"completedAt,omitempty"`
	Events      []GoalEventVO `json:"events"`
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func newAlertVO(a domain.Alert) AlertVO {
	recipients := make([]RecipientVO, 0, len(a.Recipients))
	for _, r := range a.Recipients {
		recipients = append(recipients, RecipientVO{
			UserID:         r.UserID,
			NotificationID: r.NotificationID,
			SentAt:         millis(r.SentAt),
			ReadAt:         millis(r.ReadAt),
			Acknowledged:   r.Acknowledged,
			AcknowledgedAt: millis(r.AcknowledgedAt),
		})
	}
	return AlertVO{
		ID:         a.ID,
		RuleID:     a.RuleID,
		SourceType: a.SourceType.String(),
		SourceID:   a.SourceID,
		AlertType:  a.AlertType.String(),
		Severity:   a.Severity.String(),
		Title:      a.Title,
		Message:    a.Message,
		ActionURL:  a.ActionURL,
		Context:    a.Context,
		Recipients: recipients,
		Status:     a.Status.String(),
		ExpiresAt:  millis(a.ExpiresAt),
		Ctime:      millis(a.Ctime),
	}
}
