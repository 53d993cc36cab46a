package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
)

const (
	RecipientPrefix = "recipients"
	// DefaultExpiredTime 接收人列表变化不频繁，过期之后回查数据库
	DefaultExpiredTime = 10 * time.Minute
)

var ErrKeyNotFound = errors.New("key not found")

//go:generate mockgen -source=./user.go -destination=./mocks/user.mock.go -package=cachemocks
type UserCache interface {
	Get(ctx context.Context, orgID int64, role domain.Role) ([]domain.User, error)
	Set(ctx context.Context, orgID int64, role domain.Role, users []domain.User) error
	Del(ctx context.Context, orgID int64, role domain.Role) error
}

func UserKey(orgID int64, role domain.Role) string {
	return fmt.Sprintf("%s:%d:%s", RecipientPrefix, orgID, role)
}
