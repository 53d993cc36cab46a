package dao

import (
	"context"
	"time"

	"github.com/ego-component/egorm"
)

type UserDAO interface {
	Create(ctx context.Context, u User) (User, error)
	FindByRole(ctx context.Context, orgID int64, role string) ([]User, error)
}

// User 用户目录，只用来解析告警接收人
type User struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	OrgID int64  `gorm:"type:BIGINT;NOT NULL;index:idx_org_role,priority:1"`
	Name  string `gorm:"type:VARCHAR(128);NOT NULL"`
	Role  string `gorm:"type:VARCHAR(32);NOT NULL;index:idx_org_role,priority:2"`
	Ctime int64
	Utime int64
}

type userDAO struct {
	db *egorm.Component
}

func NewUserDAO(db *egorm.Component) UserDAO {
	return &userDAO{db: db}
}

func (d *userDAO) Create(ctx context.Context, u User) (User, error) {
	now := time.Now().UnixMilli()
	u.Ctime, u.Utime = now, now
	err := d.db.WithContext(ctx).Create(&u).Error
	return u, err
}

func (d *userDAO) FindByRole(ctx context.Context, orgID int64, role string) ([]User, error) {
	var res []User
	err := d.db.WithContext(ctx).
		Where("org_id = ? AND role = ?", orgID, role).
		Order("id ASC").
		Find(&res).Error
	return res, err
}
