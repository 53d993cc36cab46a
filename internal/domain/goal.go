package domain

import (
	"fmt"
	"time"

	"gitee.com/flycash/alert-platform/internal/errs"
)

// DefaultRiskThreshold 目标没有配置风险阈值时使用，百分比
const DefaultRiskThreshold = 80

// GoalType 目标类型
type GoalType string

const (
	GoalTypeStudentsReached    GoalType = "students_reached"
	GoalTypeSchoolsReached     GoalType = "schools_reached"
	GoalTypeBudgetUtilization  GoalType = "budget_utilization"
	GoalTypeCampaignCompletion GoalType = "campaign_completion"
	GoalTypeEngagementLift     GoalType = "engagement_lift"
	GoalTypeCertificatesIssued GoalType = "certificates_issued"
	GoalTypeCustom             GoalType = "custom"
)

func (t GoalType) IsValid() bool {
	switch t {
	case GoalTypeStudentsReached, GoalTypeSchoolsReached, GoalTypeBudgetUtilization,
		GoalTypeCampaignCompletion, GoalTypeEngagementLift, GoalTypeCertificatesIssued, GoalTypeCustom:
		return true
	default:
		return false
	}
}

// GoalStatus 目标状态
type GoalStatus string

const (
	GoalStatusDraft     GoalStatus = "draft"
	GoalStatusActive    GoalStatus = "active"
	GoalStatusOnTrack   GoalStatus = "on_track"
	GoalStatusAtRisk    GoalStatus = "at_risk"
	GoalStatusBehind    GoalStatus = "behind"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

func (s GoalStatus) String() string {
	return string(s)
}

// IsTerminal completed 和 cancelled 之后状态不再变化
func (s GoalStatus) IsTerminal() bool {
	return s == GoalStatusCompleted || s == GoalStatusCancelled
}

// TerminalGoalStatuses 终态
func TerminalGoalStatuses() []GoalStatus {
	return []GoalStatus{GoalStatusCompleted, GoalStatusCancelled}
}

// Threshold 里程碑，Notified 只能从 false 变成 true
type Threshold struct {
	Percentage float64   `json:"percentage"`
	Notified   bool      `json:"notified"`
	NotifiedAt time.Time `json:"notifiedAt,omitempty"`
}

type Progress struct {
	Percentage  float64
	LastUpdated time.Time
}

// Goal 目标。CurrentValue 由外部的统计任务刷新，
// Progress 和 Status 只由进度引擎修改
type Goal struct {
	ID            int64
	OrgID         int64
	Name          string
	GoalType      GoalType
	Period        string
	StartDate     time.Time
	EndDate       time.Time
	TargetValue   float64
	CurrentValue  float64
	Progress      Progress
	Status        GoalStatus
	CompletedAt   time.Time
	Thresholds    []Threshold
	RiskThreshold float64
	// Version 每次写回进度加一
	Version       int64
	Ctime         time.Time
	Utime         time.Time
}

func (g *Goal) RiskThresholdOrDefault() float64 {
	if g.RiskThreshold <= 0 {
		return DefaultRiskThreshold
	}
	return g.RiskThreshold
}

func (g *Goal) Validate() error {
	if g.OrgID <= 0 {
		return fmt.Errorf("%w: OrgID = %d", errs.ErrInvalidParameter, g.OrgID)
	}
	if !g.GoalType.IsValid() {
		return fmt.Errorf("%w: GoalType = %q", errs.ErrInvalidParameter, g.GoalType)
	}
	if !g.StartDate.Before(g.EndDate) {
		return fmt.Errorf("%w: StartDate 必须早于 EndDate", errs.ErrInvalidParameter)
	}
	if g.TargetValue < 0 {
		return fmt.Errorf("%w: TargetValue = %v", errs.ErrInvalidParameter, g.TargetValue)
	}
	if g.CurrentValue < 0 {
		return fmt.Errorf("%w: CurrentValue = %v", errs.ErrInvalidParameter, g.CurrentValue)
	}
	return nil
}

// GoalEventType 进度检查产生的事件类型
type GoalEventType string

const (
	// GoalEventThresholdCrossed 每个里程碑只会产生一次
	GoalEventThresholdCrossed GoalEventType = "threshold_crossed"
	// GoalEventAtRisk 条件持续满足的时候每次检查都会产生
	GoalEventAtRisk GoalEventType = "at_risk"
)

type GoalEvent struct {
	Type         GoalEventType
	GoalID       int64
	OrgID        int64
	GoalName     string
	Threshold    float64
	Percentage   float64
	TimeProgress float64
}
