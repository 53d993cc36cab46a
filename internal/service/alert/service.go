package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	"gitee.com/flycash/alert-platform/internal/pkg/retry"
	"gitee.com/flycash/alert-platform/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

// Service 告警的生命周期，告警离开 pending/sent 之后去重键被释放
//
//go:generate mockgen -source=./service.go -destination=./mocks/service.mock.go -package=alertmocks Service
type Service interface {
	Acknowledge(ctx context.Context, orgID int64, alertID uint64, userID int64) (domain.Alert, error)
	Resolve(ctx context.Context, orgID int64, alertID uint64, resolverID int64, notes string) (domain.Alert, error)
	Dismiss(ctx context.Context, orgID int64, alertID uint64, userID int64, reason string) (domain.Alert, error)
	MarkRead(ctx context.Context, orgID int64, alertID uint64, userID int64) (domain.Alert, error)
	List(ctx context.Context, orgID int64, status domain.AlertStatus, offset, limit int) ([]domain.Alert, error)
	// ExpireOverdue 把过期的打开告警标记为 dismissed
	ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error)
}

type service struct {
	repo     repository.AlertRepository
	retryCfg retry.Config
	now      func() time.Time
	logger   *elog.Component
}

func NewService(repo repository.AlertRepository, retryCfg retry.Config) Service {
	return &service{
		repo:     repo,
		retryCfg: retryCfg,
		now:      time.Now,
		logger:   elog.DefaultLogger,
	}
}

func (s *service) Acknowledge(ctx context.Context, orgID int64, alertID uint64, userID int64) (domain.Alert, error) {
	return s.mutate(ctx, orgID, alertID, func(a *domain.Alert, now time.Time) error {
		return a.Acknowledge(userID, now)
	})
}

func (s *service) Resolve(ctx context.Context, orgID int64, alertID uint64, resolverID int64, notes string) (domain.Alert, error) {
	return s.mutate(ctx, orgID, alertID, func(a *domain.Alert, now time.Time) error {
		return a.Resolve(resolverID, notes, now)
	})
}

func (s *service) Dismiss(ctx context.Context, orgID int64, alertID uint64, userID int64, reason string) (domain.Alert, error) {
	return s.mutate(ctx, orgID, alertID, func(a *domain.Alert, now time.Time) error {
		return a.Dismiss(userID, reason, now)
	})
}

func (s *service) MarkRead(ctx context.Context, orgID int64, alertID uint64, userID int64) (domain.Alert, error) {
	return s.mutate(ctx, orgID, alertID, func(a *domain.Alert, now time.Time) error {
		return a.MarkRead(userID, now)
	})
}

func (s *service) List(ctx context.Context, orgID int64, status domain.AlertStatus, offset, limit int) ([]domain.Alert, error) {
	if offset < 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: offset=%d, limit=%d", errs.ErrInvalidParameter, offset, limit)
	}
	return s.repo.ListByOrg(ctx, orgID, status, offset, limit)
}

func (s *service) ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error) {
	return s.repo.ExpireOverdue(ctx, now, limit)
}

// mutate 读取告警，修改之后按照版本号写回，版本冲突的时候重新读取再试
func (s *service) mutate(ctx context.Context, orgID int64, alertID uint64,
	fn func(a *domain.Alert, now time.Time) error,
) (domain.Alert, error) {
	strategy, err := retry.NewRetry(s.retryCfg)
	if err != nil {
		return domain.Alert{}, err
	}
	for {
		a, err := s.repo.GetByID(ctx, alertID)
		if err != nil {
			return domain.Alert{}, err
		}
		if a.OrgID != orgID {
			return domain.Alert{}, fmt.Errorf("%w: alertID=%d", errs.ErrAlertNotFound, alertID)
		}
		from := a.Status
		if err = fn(&a, s.now()); err != nil {
			return domain.Alert{}, err
		}
		err = s.repo.Transition(ctx, a, []domain.AlertStatus{from})
		if err == nil {
			a.Version++
			return a, nil
		}
		if !errors.Is(err, errs.ErrAlertVersionMismatch) {
			return domain.Alert{}, err
		}
		interval, ok := strategy.Next()
		if !ok {
			s.logger.Warn("告警并发修改，重试次数耗尽", elog.Any("alertID", alertID))
			return domain.Alert{}, err
		}
		select {
		case <-ctx.Done():
			return domain.Alert{}, ctx.Err()
		case <-time.After(interval):
		}
	}
}
