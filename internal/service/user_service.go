package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"go-gin-gallery/internal/core/auth"
	"go-gin-gallery/internal/core/storage"
	"go-gin-gallery/internal/domain"
	"go-gin-gallery/pkg/utils"
)

type UserService struct {
	users domain.UserRepository
	store storage.Store
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, store storage.Store, jwt *auth.JWTer, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, store: store, jwt: jwt, log: log}
}

// NormalizeEmail 去空白并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) CreateUser(ctx context.Context, email, password, name string) (*domain.User, error) {
	return s.create(ctx, email, password, name, false)
}

// CreateSuperuser staff + superuser，签发的 token 角色为 admin
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (*domain.User, error) {
	return s.create(ctx, email, password, "", true)
}

func (s *UserService) create(ctx context.Context, email, password, name string, super bool) (*domain.User, error) {
	ve := &domain.ValidationError{}
	email = NormalizeEmail(email)
	if email == "" {
		ve.Add("email", "Users must have an email address.")
	} else if len(email) > MaxNameLen {
		ve.Add("email", msgMaxLen(MaxNameLen))
	}
	checkPassword(ve, password)
	name = strings.TrimSpace(name)
	if len([]rune(name)) > MaxNameLen {
		ve.Add("name", msgMaxLen(MaxNameLen))
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      super,
		IsSuperuser:  super,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.String("uid", u.ID), zap.Bool("superuser", super))
	return u, nil
}

func checkPassword(ve *domain.ValidationError, password string) {
	switch {
	case len([]rune(password)) < utils.MinPasswordLen:
		ve.Add("password", msgMinLen(utils.MinPasswordLen))
	case len(password) > 72:
		ve.Add("password", msgMaxLen(72))
	}
}

// Authenticate 校验邮箱密码并签发 token；任何失败都归为 ErrInvalidCredentials
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	if !u.IsActive || !utils.CheckPassword(password, u.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}
	return s.jwt.Issue(u.ID, u.Role())
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// IsActive 给鉴权中间件用：用户不存在视为不可用
func (s *UserService) IsActive(ctx context.Context, id string) (bool, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsActive, nil
}

// UpdateProfile nil 字段不修改
func (s *UserService) UpdateProfile(ctx context.Context, id string, name, password *string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ve := &domain.ValidationError{}
	if name != nil {
		n := strings.TrimSpace(*name)
		if len([]rune(n)) > MaxNameLen {
			ve.Add("name", msgMaxLen(MaxNameLen))
		}
		u.Name = n
	}
	if password != nil {
		checkPassword(ve, *password)
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	if password != nil {
		hash, err := utils.HashPassword(*password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.users.List(ctx, f)
}

// Ban 停用账号；已签发的 token 由鉴权中间件拒绝
func (s *UserService) Ban(ctx context.Context, id string) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsActive {
		return nil
	}
	u.IsActive = false
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}
	s.log.Info("user banned", zap.String("uid", id))
	return nil
}

// Delete 硬删除用户及名下所有记录，然后清理图片文件（失败只记日志）
func (s *UserService) Delete(ctx context.Context, id string) error {
	keys, err := s.users.DeleteCascade(ctx, id)
	if err != nil {
		return err
	}
	if s.store != nil {
		for _, k := range keys {
			if err := s.store.Delete(ctx, k); err != nil {
				s.log.Warn("delete image failed", zap.String("key", k), zap.Error(err))
			}
		}
	}
	s.log.Info("user deleted", zap.String("uid", id), zap.Int("images", len(keys)))
	return nil
}
