package domain

import "time"

// ComplianceStatus 合规事项状态
type ComplianceStatus string

const (
	ComplianceStatusPending    ComplianceStatus = "pending"
	ComplianceStatusInProgress ComplianceStatus = "in_progress"
	ComplianceStatusCompleted  ComplianceStatus = "completed"
	ComplianceStatusOverdue    ComplianceStatus = "overdue"
	ComplianceStatusCancelled  ComplianceStatus = "cancelled"
)

func (s ComplianceStatus) String() string {
	return string(s)
}

// OutstandingComplianceStatuses 还没有完成的合规事项
func OutstandingComplianceStatuses() []ComplianceStatus {
	return []ComplianceStatus{ComplianceStatusPending, ComplianceStatusInProgress}
}

// ComplianceEvent 合规事项，这里只读
type ComplianceEvent struct {
	ID      int64
	OrgID   int64
	Title   string
	DueDate time.Time
	Status  ComplianceStatus
}
