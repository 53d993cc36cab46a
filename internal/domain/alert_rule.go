package domain

import (
	"fmt"
	"time"

	"gitee.com/flycash/alert-platform/internal/errs"
)

// AlertType 告警类型，目录是固定的
type AlertType string

const (
	AlertTypeGoalAtRisk        AlertType = "goal_at_risk"
	AlertTypeGoalBehind        AlertType = "goal_behind"
	AlertTypeGoalOverdue       AlertType = "goal_overdue"
	AlertTypeGoalProgress      AlertType = "goal_progress"
	AlertTypeComplianceDueSoon AlertType = "compliance_due_soon"
	AlertTypeComplianceOverdue AlertType = "compliance_overdue"
)

func (t AlertType) String() string {
	return string(t)
}

func (t AlertType) IsValid() bool {
	switch t {
	case AlertTypeGoalAtRisk, AlertTypeGoalBehind, AlertTypeGoalOverdue, AlertTypeGoalProgress,
		AlertTypeComplianceDueSoon, AlertTypeComplianceOverdue:
		return true
	default:
		return false
	}
}

// Severity 告警级别在创建告警的时候计算一次，之后不再变化
func (t AlertType) Severity() Severity {
	switch t {
	case AlertTypeGoalOverdue, AlertTypeComplianceOverdue:
		return SeverityCritical
	case AlertTypeGoalAtRisk:
		return SeverityHigh
	case AlertTypeComplianceDueSoon:
		return SeverityMedium
	case AlertTypeGoalBehind, AlertTypeGoalProgress:
		return SeverityLow
	default:
		return SeverityLow
	}
}

// SourceType 返回该告警类型监控的领域对象
func (t AlertType) SourceType() SourceType {
	switch t {
	case AlertTypeGoalAtRisk, AlertTypeGoalBehind, AlertTypeGoalOverdue, AlertTypeGoalProgress:
		return SourceTypeGoal
	case AlertTypeComplianceDueSoon, AlertTypeComplianceOverdue:
		return SourceTypeComplianceEvent
	default:
		return SourceTypeUnknown
	}
}

// SourceType 告警监控的对象类型
type SourceType string

const (
	SourceTypeUnknown         SourceType = ""
	SourceTypeGoal            SourceType = "goal"
	SourceTypeComplianceEvent SourceType = "compliance_event"
)

func (s SourceType) String() string {
	return string(s)
}

// RuleStatus 告警规则状态
type RuleStatus string

const (
	RuleStatusActive   RuleStatus = "active"
	RuleStatusInactive RuleStatus = "inactive"
	RuleStatusPaused   RuleStatus = "paused"
)

func (s RuleStatus) String() string {
	return string(s)
}

func (s RuleStatus) IsValid() bool {
	return s == RuleStatusActive || s == RuleStatusInactive || s == RuleStatusPaused
}

// Channel 通知渠道
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelPush  Channel = "push"
)

const (
	DefaultCheckInterval           = 60 * time.Minute
	DefaultComplianceDaysBeforeDue = 7
)

// RuleConditions 不同告警类型使用其中不同的字段
type RuleConditions struct {
	// GoalStatuses goal_at_risk / goal_behind 关注的目标状态
	GoalStatuses []GoalStatus `json:"goalStatuses,omitempty"`
	// ProgressThreshold goal_progress 使用，百分比
	ProgressThreshold float64 `json:"progressThreshold,omitempty"`
	// ComplianceDaysBeforeDue compliance_due_soon 使用
	ComplianceDaysBeforeDue int `json:"complianceDaysBeforeDue,omitempty"`
}

// NotificationSettings 通知策略
type NotificationSettings struct {
	Enabled  bool      `json:"enabled"`
	Channels []Channel `json:"channels,omitempty"`
	// Recipients 为空的时候，通知组织内所有 CSR 角色的用户
	Recipients []int64 `json:"recipients,omitempty"`
}

// PushEnabled 没有配置渠道的时候，默认推送
func (n NotificationSettings) PushEnabled() bool {
	if len(n.Channels) == 0 {
		return true
	}
	for _, c := range n.Channels {
		if c == ChannelPush {
			return true
		}
	}
	return false
}

// MessageTemplate 中可以使用 {{key}} 占位符
type MessageTemplate struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	ActionURL string `json:"actionUrl,omitempty"`
}

// AlertRule 告警规则
type AlertRule struct {
	ID                   int64
	OrgID                int64
	Name                 string
	AlertType            AlertType
	SourceType           SourceType
	Conditions           RuleConditions
	NotificationSettings NotificationSettings
	MessageTemplate      MessageTemplate
	Status               RuleStatus
	CheckInterval        time.Duration
	NextCheck            time.Time
	LastChecked          time.Time
	LastTriggered        time.Time
	TriggerCount         int64
	Ctime                time.Time
	Utime                time.Time
}

// Interval 返回检查间隔，没有设置就使用默认值
func (r AlertRule) Interval() time.Duration {
	if r.CheckInterval <= 0 {
		return DefaultCheckInterval
	}
	return r.CheckInterval
}

// NextCheckAfter 不管本次有没有触发，下一次检查都是 now + 检查间隔
func (r AlertRule) NextCheckAfter(now time.Time) time.Time {
	return now.Add(r.Interval())
}

// IsDue 没有设置 NextCheck 也认为到期了
func (r AlertRule) IsDue(now time.Time) bool {
	if r.Status != RuleStatusActive {
		return false
	}
	return r.NextCheck.IsZero() || !r.NextCheck.After(now)
}

func (r AlertRule) ComplianceDaysBeforeDue() int {
	if r.Conditions.ComplianceDaysBeforeDue <= 0 {
		return DefaultComplianceDaysBeforeDue
	}
	return r.Conditions.ComplianceDaysBeforeDue
}

// GoalStatuses 返回规则关注的目标状态，没有配置时按告警类型取默认值
func (r AlertRule) GoalStatuses() []GoalStatus {
	if len(r.Conditions.GoalStatuses) > 0 {
		return r.Conditions.GoalStatuses
	}
	switch r.AlertType {
	case AlertTypeGoalAtRisk:
		return []GoalStatus{GoalStatusAtRisk}
	case AlertTypeGoalBehind:
		return []GoalStatus{GoalStatusBehind}
	default:
		return nil
	}
}

func (r AlertRule) Validate() error {
	if r.OrgID <= 0 {
		return fmt.Errorf("%w: OrgID = %d", errs.ErrInvalidParameter, r.OrgID)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: Name = %q", errs.ErrInvalidParameter, r.Name)
	}
	if !r.AlertType.IsValid() {
		return fmt.Errorf("%w: AlertType = %q", errs.ErrInvalidParameter, r.AlertType)
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("%w: Status = %q", errs.ErrInvalidParameter, r.Status)
	}
	if r.CheckInterval < 0 {
		return fmt.Errorf("%w: CheckInterval = %s", errs.ErrInvalidParameter, r.CheckInterval)
	}
	if r.MessageTemplate.Title == "" {
		return fmt.Errorf("%w: MessageTemplate.Title 不能为空", errs.ErrInvalidParameter)
	}
	if r.AlertType == AlertTypeGoalProgress &&
		(r.Conditions.ProgressThreshold <= 0 || r.Conditions.ProgressThreshold > 100) {
		return fmt.Errorf("%w: ProgressThreshold = %v", errs.ErrInvalidParameter, r.Conditions.ProgressThreshold)
	}
	return nil
}
