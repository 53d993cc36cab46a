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

// 查询结果都按照 ID 升序，规则评估时"取第一条"才是稳定的
type GoalDAO interface {
	Create(ctx context.Context, goal Goal) (Goal, error)
	GetByID(ctx context.Context, id int64) (Goal, error)
	FindByStatuses(ctx context.Context, orgID int64, statuses []string, limit int) ([]Goal, error)
	// FindOverdue end_date 早于 now 且不是终态
	FindOverdue(ctx context.Context, orgID int64, now int64, limit int) ([]Goal, error)
	// FindNonTerminal 某个组织下非终态的目标，cursor 为上一页最后一条的 ID
	FindNonTerminal(ctx context.Context, orgID int64, cursor int64, limit int) ([]Goal, error)
	// ListNonTerminal 跨组织分页，cursor 为上一页最后一条的 ID
	ListNonTerminal(ctx context.Context, cursor int64, limit int) ([]Goal, error)
	// SaveProgress 按照版本号和读出时的状态写回进度，终态的目标不会被覆盖
	SaveProgress(ctx context.Context, goal Goal, from string) error
}

// Goal 目标表
type Goal struct {
	ID              int64                              `gorm:"primaryKey;autoIncrement;comment:'目标ID'"`
	OrgID           int64                              `gorm:"type:BIGINT;NOT NULL;index:idx_org_status,priority:1;comment:'组织ID'"`
	Name            string                             `gorm:"type:VARCHAR(256);NOT NULL"`
	GoalType        string                             `gorm:"type:VARCHAR(64);NOT NULL;comment:'目标类型'"`
	Period          string                             `gorm:"type:VARCHAR(64)"`
	StartDate       int64                              `gorm:"type:BIGINT;NOT NULL"`
	EndDate         int64                              `gorm:"type:BIGINT;NOT NULL;index:idx_end_date"`
	TargetValue     float64                            `gorm:"NOT NULL;DEFAULT:0"`
	CurrentValue    float64                            `gorm:"NOT NULL;DEFAULT:0;comment:'由外部统计任务刷新'"`
	Percentage      float64                            `gorm:"NOT NULL;DEFAULT:0;comment:'完成百分比'"`
	ProgressUpdated int64                              `gorm:"type:BIGINT;NOT NULL;DEFAULT:0"`
	Status          string                             `gorm:"type:ENUM('draft','active','on_track','at_risk','behind','completed','cancelled');NOT NULL;DEFAULT:'draft';index:idx_org_status,priority:2"`
	CompletedAt     int64                              `gorm:"type:BIGINT;NOT NULL;DEFAULT:0"`
	Thresholds      dao.JSONColumn[[]domain.Threshold] `gorm:"type:JSON;comment:'里程碑'"`
	RiskThreshold   float64                            `gorm:"NOT NULL;DEFAULT:0;comment:'风险阈值，0 表示使用默认值'"`
	Version         int64                              `gorm:"type:BIGINT;NOT NULL;DEFAULT:0;comment:'版本号'"`
	Ctime           int64
	Utime           int64
}

func (Goal) TableName() string {
	return "goals"
}

type goalDAO struct {
	db *egorm.Component
}

func NewGoalDAO(db *egorm.Component) GoalDAO {
	return &goalDAO{db: db}
}

func (d *goalDAO) Create(ctx context.Context, goal Goal) (Goal, error) {
	now := time.Now().UnixMilli()
	goal.Ctime, goal.Utime = now, now
	err := d.db.WithContext(ctx).Create(&goal).Error
	return goal, err
}

func (d *goalDAO) GetByID(ctx context.Context, id int64) (Goal, error) {
	var goal Goal
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Goal{}, fmt.Errorf("%w: id=%d", errs.ErrGoalNotFound, id)
		}
		return Goal{}, err
	}
	return goal, nil
}

func (d *goalDAO) FindByStatuses(ctx context.Context, orgID int64, statuses []string, limit int) ([]Goal, error) {
	var res []Goal
	if len(statuses) == 0 {
		return res, nil
	}
	err := d.db.WithContext(ctx).
		Where("org_id = ? AND status IN ?", orgID, statuses).
		Order("id ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (d *goalDAO) FindOverdue(ctx context.Context, orgID int64, now int64, limit int) ([]Goal, error) {
	var res []Goal
	err := d.db.WithContext(ctx).
		Where("org_id = ? AND end_date < ? AND status NOT IN ?", orgID, now, terminalGoalStatuses()).
		Order("id ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (d *goalDAO) FindNonTerminal(ctx context.Context, orgID int64, cursor int64, limit int) ([]Goal, error) {
	var res []Goal
	err := d.db.WithContext(ctx).
		Where("org_id = ? AND id > ? AND status NOT IN ?", orgID, cursor, terminalGoalStatuses()).
		Order("id ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (d *goalDAO) ListNonTerminal(ctx context.Context, cursor int64, limit int) ([]Goal, error) {
	var res []Goal
	err := d.db.WithContext(ctx).
		Where("id > ? AND status NOT IN ?", cursor, terminalGoalStatuses()).
		Order("id ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (d *goalDAO) SaveProgress(ctx context.Context, goal Goal, from string) error {
	res := d.db.WithContext(ctx).Model(&Goal{}).
		Where("id = ? AND version = ? AND status = ? AND status NOT IN ?",
			goal.ID, goal.Version, from, terminalGoalStatuses()).
		Updates(map[string]any{
			"percentage":       goal.Percentage,
			"progress_updated": goal.ProgressUpdated,
			"status":           goal.Status,
			"completed_at":     goal.CompletedAt,
			"thresholds":       goal.Thresholds,
			"version":          gorm.Expr("version + 1"),
			"utime":            time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected < 1 {
		return fmt.Errorf("%w: id=%d, version=%d", errs.ErrGoalProgressConflict, goal.ID, goal.Version)
	}
	return nil
}

func terminalGoalStatuses() []string {
	return []string{domain.GoalStatusCompleted.String(), domain.GoalStatusCancelled.String()}
}
