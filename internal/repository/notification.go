package repository

import (
	"context"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/pkg/dao"
	daopkg "gitee.com/flycash/alert-platform/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

// NotificationRepository 站内通知，是"是否已经通知过用户"的依据
//
//go:generate mockgen -source=./notification.go -destination=./mocks/notification.mock.go -package=repomocks
type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id uint64, userID int64) error
}

type notificationRepository struct {
	dao daopkg.NotificationDAO
}

func NewNotificationRepository(d daopkg.NotificationDAO) NotificationRepository {
	return &notificationRepository{dao: d}
}

func (r *notificationRepository) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	entity, err := r.dao.Create(ctx, daopkg.Notification{
		ID:       n.ID,
		UserID:   n.UserID,
		OrgID:    n.OrgID,
		AlertID:  n.AlertID,
		Type:     n.Type.String(),
		Severity: n.Severity.String(),
		Title:    n.Title,
		Message:  n.Message,
		Metadata: dao.NewJSONColumn(n.Metadata),
	})
	if err != nil {
		return domain.Notification{}, err
	}
	return r.toDomain(entity), nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]domain.Notification, error) {
	entities, err := r.dao.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, func(_ int, src daopkg.Notification) domain.Notification {
		return r.toDomain(src)
	}), nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint64, userID int64) error {
	return r.dao.MarkRead(ctx, id, userID, time.Now().UnixMilli())
}

func (r *notificationRepository) toDomain(entity daopkg.Notification) domain.Notification {
	return domain.Notification{
		ID:       entity.ID,
		UserID:   entity.UserID,
		OrgID:    entity.OrgID,
		AlertID:  entity.AlertID,
		Type:     domain.AlertType(entity.Type),
		Severity: domain.Severity(entity.Severity),
		Title:    entity.Title,
		Message:  entity.Message,
		Metadata: entity.Metadata.Val,
		ReadAt:   fromMillis(entity.ReadAt),
		Ctime:    time.UnixMilli(entity.Ctime),
	}
}
