package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-gin-gallery/internal/domain"
)

type GalleryRepo struct{ db *gorm.DB }

var _ domain.GalleryRepository = (*GalleryRepo)(nil)

func NewGalleryRepo(db *gorm.DB) *GalleryRepo { return &GalleryRepo{db: db} }

func byID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

func (r *GalleryRepo) withMembers(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Tags", byID).Preload("GalleryItems", byID)
}

// List 归属过滤 + 成员过滤；维度之间 AND，维度内命中任意一个即可
func (r *GalleryRepo) List(ctx context.Context, userID string, f domain.GalleryFilter) ([]domain.Gallery, error) {
	tx := r.db.WithContext(ctx)
	q := tx.Model(&domain.Gallery{}).Where("user_id = ?", userID)
	if len(f.TagIDs) > 0 {
		q = q.Where("id IN (?)", tx.Model(&domain.GalleryTag{}).Select("gallery_id").Where("tag_id IN ?", f.TagIDs))
	}
	if len(f.ItemIDs) > 0 {
		q = q.Where("id IN (?)", tx.Model(&domain.GalleryGalleryItem{}).Select("gallery_id").Where("gallery_item_id IN ?", f.ItemIDs))
	}
	out := []domain.Gallery{}
	if err := r.withMembers(q).Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GalleryRepo) FindOwned(ctx context.Context, userID string, id uint) (*domain.Gallery, error) {
	var g domain.Gallery
	err := r.withMembers(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&g).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *GalleryRepo) Create(ctx context.Context, g *domain.Gallery, m domain.GalleryMembers) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(g).Error; err != nil {
			return err
		}
		return replaceMembers(tx, g.ID, m)
	})
}

func (r *GalleryRepo) Update(ctx context.Context, g *domain.Gallery, m domain.GalleryMembers) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Gallery{}).
			Where("id = ? AND user_id = ?", g.ID, g.UserID).
			Updates(map[string]any{
				"title":       g.Title,
				"description": g.Description,
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return replaceMembers(tx, g.ID, m)
	})
}

// Delete 先删关联行再删画廊，外键约束开启时顺序不能反
func (r *GalleryRepo) Delete(ctx context.Context, userID string, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Gallery{}).Where("id = ? AND user_id = ?", id, userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Where("gallery_id = ?", id).Delete(&domain.GalleryTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("gallery_id = ?", id).Delete(&domain.GalleryGalleryItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Gallery{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// replaceMembers 整体替换（不是并集）；nil 维度保持不变
func replaceMembers(tx *gorm.DB, galleryID uint, m domain.GalleryMembers) error {
	if m.TagIDs != nil {
		if err := tx.Where("gallery_id = ?", galleryID).Delete(&domain.GalleryTag{}).Error; err != nil {
			return err
		}
		if ids := *m.TagIDs; len(ids) > 0 {
			rows := make([]domain.GalleryTag, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, domain.GalleryTag{GalleryID: galleryID, TagID: id})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}
	if m.ItemIDs != nil {
		if err := tx.Where("gallery_id = ?", galleryID).Delete(&domain.GalleryGalleryItem{}).Error; err != nil {
			return err
		}
		if ids := *m.ItemIDs; len(ids) > 0 {
			rows := make([]domain.GalleryGalleryItem, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, domain.GalleryGalleryItem{GalleryID: galleryID, GalleryItemID: id})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
