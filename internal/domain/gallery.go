package domain

import (
	"context"
	"time"
)

type Gallery struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	UserID       string        `gorm:"type:varchar(32);not null;index" json:"-"`
	Title        string        `gorm:"size:255;not null" json:"title"`
	Description  string        `gorm:"type:text;not null" json:"description"`
	GalleryItems []GalleryItem `gorm:"many2many:gallery_gallery_items" json:"galleryItems"`
	Tags         []Tag         `gorm:"many2many:gallery_tags" json:"tags"`
	CreatedAt    time.Time     `json:"-"`
	UpdatedAt    time.Time     `json:"-"`
}

func (Gallery) TableName() string { return "galleries" }

func (g Gallery) String() string { return g.Title }

// GalleryTag 显式的 gallery ↔ tag 关联表
type GalleryTag struct {
	GalleryID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID     uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (GalleryTag) TableName() string { return "gallery_tags" }

// GalleryGalleryItem 显式的 gallery ↔ gallery item 关联表
type GalleryGalleryItem struct {
	GalleryID     uint `gorm:"primaryKey;autoIncrement:false"`
	GalleryItemID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (GalleryGalleryItem) TableName() string { return "gallery_gallery_items" }

// GalleryFilter 列表过滤；nil 表示该维度不限
type GalleryFilter struct {
	TagIDs  []uint
	ItemIDs []uint
}

// GalleryMembers 成员整体替换；nil 表示不动
type GalleryMembers struct {
	TagIDs  *[]uint
	ItemIDs *[]uint
}

type GalleryRepository interface {
	List(ctx context.Context, userID string, f GalleryFilter) ([]Gallery, error)
	FindOwned(ctx context.Context, userID string, id uint) (*Gallery, error)
	Create(ctx context.Context, g *Gallery, m GalleryMembers) error
	Update(ctx context.Context, g *Gallery, m GalleryMembers) error
	Delete(ctx context.Context, userID string, id uint) error
}
