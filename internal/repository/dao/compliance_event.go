package dao

import (
	"context"
	"time"

	"github.com/ego-component/egorm"
)

type ComplianceEventDAO interface {
	Create(ctx context.Context, event ComplianceEvent) (ComplianceEvent, error)
	// FindByDueRange 查找 due_date 在 [from, to) 之间的合规事项，按照 ID 升序
	FindByDueRange(ctx context.Context, orgID int64, from, to int64, statuses []string, limit int) ([]ComplianceEvent, error)
}

// ComplianceEvent 合规事项表，由其他模块维护，这里只读
type ComplianceEvent struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	OrgID   int64  `gorm:"type:BIGINT;NOT NULL;index:idx_org_due,priority:1"`
	Title   string `gorm:"type:VARCHAR(256);NOT NULL"`
	DueDate int64  `gorm:"type:BIGINT;NOT NULL;index:idx_org_due,priority:2"`
	Status  string `gorm:"type:ENUM('pending','in_progress','completed','overdue','cancelled');NOT NULL;DEFAULT:'pending'"`
	Ctime   int64
	Utime   int64
}

func (ComplianceEvent) TableName() string {
	return "compliance_events"
}

type complianceEventDAO struct {
	db *egorm.Component
}

func NewComplianceEventDAO(db *egorm.Component) ComplianceEventDAO {
	return &complianceEventDAO{db: db}
}

func (d *complianceEventDAO) Create(ctx context.Context, event ComplianceEvent) (ComplianceEvent, error) {
	now := time.Now().UnixMilli()
	event.Ctime, event.Utime = now, now
	err := d.db.WithContext(ctx).Create(&event).Error
	return event, err
}

func (d *complianceEventDAO) FindByDueRange(ctx context.Context, orgID int64, from, to int64, statuses []string, limit int) ([]ComplianceEvent, error) {
	var res []ComplianceEvent
	err := d.db.WithContext(ctx).
		Where("org_id = ? AND due_date >= ? AND due_date < ? AND status IN ?", orgID, from, to, statuses).
		Order("id ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}
