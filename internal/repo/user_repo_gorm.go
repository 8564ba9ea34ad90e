package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"go-gin-gallery/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + s + "%"
		q = q.Where("email LIKE ? OR name LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	users := []domain.User{}
	if err := q.Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// DeleteCascade 在一个事务里删除用户名下的关联行、画廊、标签、作品和用户本身
func (r *UserRepo) DeleteCascade(ctx context.Context, id string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.GalleryItem{}).
			Where("user_id = ? AND image <> ?", id, "").
			Pluck("image", &keys).Error; err != nil {
			return err
		}

		galleries := tx.Model(&domain.Gallery{}).Select("id").Where("user_id = ?", id)
		tags := tx.Model(&domain.Tag{}).Select("id").Where("user_id = ?", id)
		items := tx.Model(&domain.GalleryItem{}).Select("id").Where("user_id = ?", id)

		// 别人画廊里引用了本用户的标签/作品，也一并解除
		if err := tx.Where("gallery_id IN (?) OR tag_id IN (?)", galleries, tags).
			Delete(&domain.GalleryTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("gallery_id IN (?) OR gallery_item_id IN (?)", galleries, items).
			Delete(&domain.GalleryGalleryItem{}).Error; err != nil {
			return err
		}
		for _, m := range []any{&domain.Gallery{}, &domain.Tag{}, &domain.GalleryItem{}} {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&domain.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
