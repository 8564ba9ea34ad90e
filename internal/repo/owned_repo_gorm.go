package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-gin-gallery/internal/domain"
)

// OwnedRepo 按 user_id 归属读写；joinModel/joinColumn 指向画廊关联表中引用本实体的列
type OwnedRepo[T any] struct {
	db         *gorm.DB
	joinModel  any
	joinColumn string
}

func (r *OwnedRepo[T]) ListOwned(ctx context.Context, userID string, assignedOnly bool) ([]T, error) {
	tx := r.db.WithContext(ctx)
	q := tx.Model(new(T)).Where("user_id = ?", userID)
	if assignedOnly {
		// IN 子查询天然去重
		q = q.Where("id IN (?)", tx.Model(r.joinModel).Select(r.joinColumn))
	}
	out := []T{}
	if err := q.Order("name DESC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OwnedRepo[T]) Create(ctx context.Context, m *T) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *OwnedRepo[T]) FindOwned(ctx context.Context, userID string, id uint) (*T, error) {
	m := new(T)
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(m).Error; err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *OwnedRepo[T]) MissingOwned(ctx context.Context, userID string, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := r.db.WithContext(ctx).Model(new(T)).
		Where("id IN ? AND user_id = ?", ids, userID).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	have := make(map[uint]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var missing []uint
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type TagRepo struct{ OwnedRepo[domain.Tag] }

var _ domain.TagRepository = (*TagRepo)(nil)

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{OwnedRepo[domain.Tag]{db: db, joinModel: &domain.GalleryTag{}, joinColumn: "tag_id"}}
}

type GalleryItemRepo struct{ OwnedRepo[domain.GalleryItem] }

var _ domain.GalleryItemRepository = (*GalleryItemRepo)(nil)

func NewGalleryItemRepo(db *gorm.DB) *GalleryItemRepo {
	return &GalleryItemRepo{OwnedRepo[domain.GalleryItem]{db: db, joinModel: &domain.GalleryGalleryItem{}, joinColumn: "gallery_item_id"}}
}

// UpdateImage 只改图片相关列
func (r *GalleryItemRepo) UpdateImage(ctx context.Context, id uint, key, blurHash string) error {
	res := r.db.WithContext(ctx).Model(&domain.GalleryItem{}).Where("id = ?", id).Updates(map[string]any{
		"image":           key,
		"image_blur_hash": blurHash,
		"updated_at":      time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
