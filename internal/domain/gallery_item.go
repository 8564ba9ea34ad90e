package domain

import (
	"context"
	"time"
)

type GalleryItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Blurb         string    `gorm:"size:255;not null" json:"blurb"`
	UserID        string    `gorm:"type:varchar(32);not null;index" json:"-"`
	Image         string    `gorm:"size:255" json:"image,omitempty"` // storage key，空表示无图
	ImageBlurHash string    `gorm:"size:64" json:"imageBlurHash,omitempty"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

func (GalleryItem) TableName() string { return "gallery_items" }

func (i GalleryItem) String() string { return i.Name }

// OwnedRepository 标签 / 作品共用的按归属读写
type OwnedRepository[T any] interface {
	ListOwned(ctx context.Context, userID string, assignedOnly bool) ([]T, error)
	Create(ctx context.Context, m *T) error
	FindOwned(ctx context.Context, userID string, id uint) (*T, error)
	// MissingOwned 返回 ids 中不存在或不属于 userID 的那些
	MissingOwned(ctx context.Context, userID string, ids []uint) ([]uint, error)
}

type TagRepository interface {
	OwnedRepository[Tag]
}

type GalleryItemRepository interface {
	OwnedRepository[GalleryItem]
	UpdateImage(ctx context.Context, id uint, key, blurHash string) error
}
