package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	"gitee.com/flycash/alert-platform/internal/pkg/dao"
	daopkg "gitee.com/flycash/alert-platform/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
	"github.com/gotomicro/ego/core/elog"
)

// ExpiredDismissReason 过期自动忽略时记录的原因
const ExpiredDismissReason = "expired"

//go:generate mockgen -source=./alert.go -destination=./mocks/alert.mock.go -package=repomocks
type AlertRepository interface {
	// CreateIfAbsent 同一个 (RuleID, SourceType, SourceID) 最多只有一条 pending/sent 状态的告警，
	// 已经存在的时候原样返回已有告警，isNew 为 false
	CreateIfAbsent(ctx context.Context, alert domain.Alert) (domain.Alert, bool, error)
	GetByID(ctx context.Context, id uint64) (domain.Alert, error)
	// Transition 把告警当前的内容按照版本号写回，要求原状态在 from 之内
	Transition(ctx context.Context, alert domain.Alert, from []domain.AlertStatus) error
	ListByOrg(ctx context.Context, orgID int64, status domain.AlertStatus, offset, limit int) ([]domain.Alert, error)
	// ExpireOverdue 把过期的打开告警标记为 dismissed，返回处理的数量
	ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error)
}

type alertRepository struct {
	dao    daopkg.AlertDAO
	logger *elog.Component
}

func NewAlertRepository(d daopkg.AlertDAO) AlertRepository {
	return &alertRepository{
		dao:    d,
		logger: elog.DefaultLogger,
	}
}

func (r *alertRepository) CreateIfAbsent(ctx context.Context, alert domain.Alert) (domain.Alert, bool, error) {
	alert.Status = domain.AlertStatusPending
	entity, isNew, err := r.dao.CreateIfAbsent(ctx, r.toEntity(alert))
	if err != nil {
		return domain.Alert{}, false, err
	}
	return r.toDomain(entity), isNew, nil
}

func (r *alertRepository) GetByID(ctx context.Context, id uint64) (domain.Alert, error) {
	entity, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Alert{}, err
	}
	return r.toDomain(entity), nil
}

func (r *alertRepository) Transition(ctx context.Context, alert domain.Alert, from []domain.AlertStatus) error {
	return r.dao.CASUpdate(ctx, r.toEntity(alert), slice.Map(from, func(_ int, src domain.AlertStatus) string {
		return src.String()
	}))
}

func (r *alertRepository) ListByOrg(ctx context.Context, orgID int64, status domain.AlertStatus, offset, limit int) ([]domain.Alert, error) {
	entities, err := r.dao.ListByOrg(ctx, orgID, status.String(), offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, func(_ int, src daopkg.Alert) domain.Alert {
		return r.toDomain(src)
	}), nil
}

func (r *alertRepository) ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error) {
	entities, err := r.dao.FindExpired(ctx, now.UnixMilli(), limit)
	if err != nil {
		return 0, err
	}
	cnt := 0
	for i := range entities {
		alert := r.toDomain(entities[i])
		from := alert.Status
		if err1 := alert.Dismiss(0, ExpiredDismissReason, now); err1 != nil {
			continue
		}
		err1 := r.Transition(ctx, alert, []domain.AlertStatus{from})
		if err1 != nil {
			// 并发被处理掉了，下一轮再看
			if !errors.Is(err1, errs.ErrAlertVersionMismatch) {
				r.logger.Error("过期告警标记失败", elog.Any("alertID", alert.ID), elog.FieldErr(err1))
			}
			continue
		}
		cnt++
	}
	return cnt, nil
}

func (r *alertRepository) toEntity(alert domain.Alert) daopkg.Alert {
	var openKey sql.NullString
	if alert.Status.IsOpen() {
		openKey = sql.NullString{String: alert.DedupKey(), Valid: true}
	}
	return daopkg.Alert{
		ID:              alert.ID,
		OrgID:           alert.OrgID,
		RuleID:          alert.RuleID,
		SourceType:      alert.SourceType.String(),
		SourceID:        alert.SourceID,
		OpenKey:         openKey,
		AlertType:       alert.AlertType.String(),
		Severity:        alert.Severity.String(),
		Title:           alert.Title,
		Message:         alert.Message,
		ActionURL:       alert.ActionURL,
		Context:         dao.NewJSONColumn(alert.Context),
		Recipients:      dao.NewJSONColumn(alert.Recipients),
		Status:          alert.Status.String(),
		ExpiresAt:       toMillis(alert.ExpiresAt),
		ResolvedBy:      alert.ResolvedBy,
		ResolvedAt:      toMillis(alert.ResolvedAt),
		ResolutionNotes: alert.ResolutionNotes,
		DismissedBy:     alert.DismissedBy,
		DismissedAt:     toMillis(alert.DismissedAt),
		DismissReason:   alert.DismissReason,
		Version:         alert.Version,
	}
}

func (r *alertRepository) toDomain(entity daopkg.Alert) domain.Alert {
	return domain.Alert{
		ID:              entity.ID,
		OrgID:           entity.OrgID,
		RuleID:          entity.RuleID,
		SourceType:      domain.SourceType(entity.SourceType),
		SourceID:        entity.SourceID,
		AlertType:       domain.AlertType(entity.AlertType),
		Severity:        domain.Severity(entity.Severity),
		Title:           entity.Title,
		Message:         entity.Message,
		ActionURL:       entity.ActionURL,
		Context:         entity.Context.Val,
		Recipients:      entity.Recipients.Val,
		Status:          domain.AlertStatus(entity.Status),
		ExpiresAt:       fromMillis(entity.ExpiresAt),
		ResolvedBy:      entity.ResolvedBy,
		ResolvedAt:      fromMillis(entity.ResolvedAt),
		ResolutionNotes: entity.ResolutionNotes,
		DismissedBy:     entity.DismissedBy,
		DismissedAt:     fromMillis(entity.DismissedAt),
		DismissReason:   entity.DismissReason,
		Version:         entity.Version,
		Ctime:           time.UnixMilli(entity.Ctime),
		Utime:           time.UnixMilli(entity.Utime),
	}
}
