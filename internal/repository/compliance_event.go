package repository

import (
	"context"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	daopkg "gitee.com/flycash/alert-platform/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

//go:generate mockgen -source=./compliance_event.go -destination=./mocks/compliance_event.mock.go -package=repomocks
type ComplianceEventRepository interface {
	Create(ctx context.Context, event domain.ComplianceEvent) (domain.ComplianceEvent, error)
	// FindByDueRange 查找截止时间在 [from, to) 之间的合规事项，from 为零值表示不限制下界
	FindByDueRange(ctx context.Context, orgID int64, from, to time.Time,
		statuses []domain.ComplianceStatus, limit int) ([]domain.ComplianceEvent, error)
}

type complianceEventRepository struct {
	dao daopkg.ComplianceEventDAO
}

func NewComplianceEventRepository(d daopkg.ComplianceEventDAO) ComplianceEventRepository {
	return &complianceEventRepository{dao: d}
}

func (r *complianceEventRepository) Create(ctx context.Context, event domain.ComplianceEvent) (domain.ComplianceEvent, error) {
	entity, err := r.dao.Create(ctx, daopkg.ComplianceEvent{
		OrgID:   event.OrgID,
		Title:   event.Title,
		DueDate: toMillis(event.DueDate),
		Status:  event.Status.String(),
	})
	if err != nil {
		return domain.ComplianceEvent{}, err
	}
	return r.toDomain(entity), nil
}

func (r *complianceEventRepository) FindByDueRange(ctx context.Context, orgID int64, from, to time.Time,
	statuses []domain.ComplianceStatus, limit int,
) ([]domain.ComplianceEvent, error) {
	entities, err := r.dao.FindByDueRange(ctx, orgID, toMillis(from), to.UnixMilli(),
		slice.Map(statuses, func(_ int, src domain.ComplianceStatus) string {
			return src.String()
		}), limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, func(_ int, src daopkg.ComplianceEvent) domain.ComplianceEvent {
		return r.toDomain(src)
	}), nil
}

func (r *complianceEventRepository) toDomain(entity daopkg.ComplianceEvent) domain.ComplianceEvent {
	return domain.ComplianceEvent{
		ID:      entity.ID,
		OrgID:   entity.OrgID,
		Title:   entity.Title,
		DueDate: fromMillis(entity.DueDate),
		Status:  domain.ComplianceStatus(entity.Status),
	}
}
