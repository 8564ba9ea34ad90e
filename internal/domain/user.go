package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	IsStaff      bool      `gorm:"not null;default:false" json:"isStaff"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"isSuperuser"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Role 写入 JWT 的角色；staff 视为 admin
func (u *User) Role() string {
	if u.IsStaff {
		return RoleAdmin
	}
	return RoleUser
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserFilter 管理端用户列表条件
type UserFilter struct {
	Query  string
	Offset int
	Limit  int
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, f UserFilter) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	// DeleteCascade 删除用户及其名下全部记录，返回需要清理的图片 key
	DeleteCascade(ctx context.Context, id string) ([]string, error)
}
