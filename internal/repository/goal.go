package repository

import (
	"context"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/pkg/dao"
	daopkg "gitee.com/flycash/alert-platform/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

//go:generate mockgen -source=./goal.go -destination=./mocks/goal.mock.go -package=repomocks
type GoalRepository interface {
	Create(ctx context.Context, goal domain.Goal) (domain.Goal, error)
	GetByID(ctx context.Context, id int64) (domain.Goal, error)
	FindByStatuses(ctx context.Context, orgID int64, statuses []domain.GoalStatus, limit int) ([]domain.Goal, error)
	FindOverdue(ctx context.Context, orgID int64, now time.Time, limit int) ([]domain.Goal, error)
	FindNonTerminal(ctx context.Context, orgID int64, cursor int64, limit int) ([]domain.Goal, error)
	ListNonTerminal(ctx context.Context, cursor int64, limit int) ([]domain.Goal, error)
	// SaveProgress 只写回进度引擎负责的字段，from 是读出时的状态。
	// 目标在这期间被修改过或者已经是终态，返回 errs.ErrGoalProgressConflict
	SaveProgress(ctx context.Context, goal domain.Goal, from domain.GoalStatus) error
}

type goalRepository struct {
	dao daopkg.GoalDAO
}

func NewGoalRepository(d daopkg.GoalDAO) GoalRepository {
	return &goalRepository{dao: d}
}

func (r *goalRepository) Create(ctx context.Context, goal domain.Goal) (domain.Goal, error) {
	if err := goal.Validate(); err != nil {
		return domain.Goal{}, err
	}
	entity, err := r.dao.Create(ctx, r.toEntity(goal))
	if err != nil {
		return domain.Goal{}, err
	}
	return r.toDomain(entity), nil
}

func (r *goalRepository) GetByID(ctx context.Context, id int64) (domain.Goal, error) {
	entity, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Goal{}, err
	}
	return r.toDomain(entity), nil
}

func (r *goalRepository) FindByStatuses(ctx context.Context, orgID int64, statuses []domain.GoalStatus, limit int) ([]domain.Goal, error) {
	entities, err := r.dao.FindByStatuses(ctx, orgID, slice.Map(statuses, func(_ int, src domain.GoalStatus) string {
		return src.String()
	}), limit)
	return r.toDomains(entities), err
}

func (r *goalRepository) FindOverdue(ctx context.Context, orgID int64, now time.Time, limit int) ([]domain.Goal, error) {
	entities, err := r.dao.FindOverdue(ctx, orgID, now.UnixMilli(), limit)
	return r.toDomains(entities), err
}

func (r *goalRepository) FindNonTerminal(ctx context.Context, orgID int64, cursor int64, limit int) ([]domain.Goal, error) {
	entities, err := r.dao.FindNonTerminal(ctx, orgID, cursor, limit)
	return r.toDomains(entities), err
}

func (r *goalRepository) ListNonTerminal(ctx context.Context, cursor int64, limit int) ([]domain.Goal, error) {
	entities, err := r.dao.ListNonTerminal(ctx, cursor, limit)
	return r.toDomains(entities), err
}

func (r *goalRepository) SaveProgress(ctx context.Context, goal domain.Goal, from domain.GoalStatus) error {
	return r.dao.SaveProgress(ctx, r.toEntity(goal), from.String())
}

func (r *goalRepository) toDomains(entities []daopkg.Goal) []domain.Goal {
	return slice.Map(entities, func(_ int, src daopkg.Goal) domain.Goal {
		return r.toDomain(src)
	})
}

func (r *goalRepository) toEntity(goal domain.Goal) daopkg.Goal {
	return daopkg.Goal{
		ID:              goal.ID,
		OrgID:           goal.OrgID,
		Name:            goal.Name,
		GoalType:        string(goal.GoalType),
		Period:          goal.Period,
		StartDate:       toMillis(goal.StartDate),
		EndDate:         toMillis(goal.EndDate),
		TargetValue:     goal.TargetValue,
		CurrentValue:    goal.CurrentValue,
		Percentage:      goal.Progress.Percentage,
		ProgressUpdated: toMillis(goal.Progress.LastUpdated),
		Status:          goal.Status.String(),
		CompletedAt:     toMillis(goal.CompletedAt),
		Thresholds:      dao.NewJSONColumn(goal.Thresholds),
		RiskThreshold:   goal.RiskThreshold,
		Version:         goal.Version,
	}
}

func (r *goalRepository) toDomain(entity daopkg.Goal) domain.Goal {
	return domain.Goal{
		ID:           entity.ID,
		OrgID:        entity.OrgID,
		Name:         entity.Name,
		GoalType:     domain.GoalType(entity.GoalType),
		Period:       entity.Period,
		StartDate:    fromMillis(entity.StartDate),
		EndDate:      fromMillis(entity.EndDate),
		TargetValue:  entity.TargetValue,
		CurrentValue: entity.CurrentValue,
		Progress: domain.Progress{
			Percentage:  entity.Percentage,
			LastUpdated: fromMillis(entity.ProgressUpdated),
		},
		Status:        domain.GoalStatus(entity.Status),
		CompletedAt:   fromMillis(entity.CompletedAt),
		Thresholds:    entity.Thresholds.Val,
		RiskThreshold: entity.RiskThreshold,
		Version:       entity.Version,
		Ctime:         time.UnixMilli(entity.Ctime),
		Utime:         time.UnixMilli(entity.Utime),
	}
}
