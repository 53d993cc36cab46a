package repository

import (
	"context"
	"errors"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/repository/cache"
	daopkg "gitee.com/flycash/alert-platform/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
	"github.com/gotomicro/ego/core/elog"
)

// UserRepository 用户目录，用来把"组织内所有 CSR"解析成具体的接收人
//
//go:generate mockgen -source=./user.go -destination=./mocks/user.mock.go -package=repomocks
type UserRepository interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	FindByRole(ctx context.Context, orgID int64, role domain.Role) ([]domain.User, error)
}

type userRepository struct {
	dao    daopkg.UserDAO
	cache  cache.UserCache
	logger *elog.Component
}

func NewUserRepository(d daopkg.UserDAO, c cache.UserCache) UserRepository {
	return &userRepository{
		dao:    d,
		cache:  c,
		logger: elog.DefaultLogger,
	}
}

func (r *userRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	entity, err := r.dao.Create(ctx, daopkg.User{
		OrgID: u.OrgID,
		Name:  u.Name,
		Role:  u.Role.String(),
	})
	if err != nil {
		return domain.User{}, err
	}
	// 新用户要尽快能收到告警
	if err1 := r.cache.Del(ctx, u.OrgID, u.Role); err1 != nil {
		r.logger.Warn("删除接收人缓存失败", elog.Int64("orgID", u.OrgID), elog.FieldErr(err1))
	}
	return r.toDomain(entity), nil
}

func (r *userRepository) FindByRole(ctx context.Context, orgID int64, role domain.Role) ([]domain.User, error) {
	users, err := r.cache.Get(ctx, orgID, role)
	if err == nil {
		return users, nil
	}
	if !errors.Is(err, cache.ErrKeyNotFound) {
		r.logger.Warn("读取接收人缓存失败，回查数据库", elog.Int64("orgID", orgID), elog.FieldErr(err))
	}
	entities, err := r.dao.FindByRole(ctx, orgID, role.String())
	if err != nil {
		return nil, err
	}
	users = slice.Map(entities, func(_ int, src daopkg.User) domain.User {
		return r.toDomain(src)
	})
	if err1 := r.cache.Set(ctx, orgID, role, users); err1 != nil {
		r.logger.Warn("写入接收人缓存失败", elog.Int64("orgID", orgID), elog.FieldErr(err1))
	}
	return users, nil
}

func (r *userRepository) toDomain(entity daopkg.User) domain.User {
	return domain.User{
		ID:    entity.ID,
		OrgID: entity.OrgID,
		Name:  entity.Name,
		Role:  domain.Role(entity.Role),
	}
}
