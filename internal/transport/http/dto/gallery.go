package dto

import "go-gin-gallery/internal/domain"

// Operation 请求的操作类型，决定画廊的输出形状
type Operation int

const (
	OpList Operation = iota
	OpCreate
	OpUpdate
	OpRetrieve
)

func (o Operation) String() string {
	switch o {
	case OpList:
		return "list"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpRetrieve:
		return "retrieve"
	}
	return "unknown"
}

// GalleryFlat 成员只给 id
type GalleryFlat struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Tags         []uint `json:"tags"`
	GalleryItems []uint `json:"gallery_items"`
}

// GalleryDetail 成员内嵌为完整对象（只读）
type GalleryDetail struct {
	ID           uint          `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Tags         []Tag         `json:"tags"`
	GalleryItems []GalleryItem `json:"gallery_items"`
}

var galleryShapes = map[Operation]func(*domain.Gallery) any{
	OpList:     func(g *domain.Gallery) any { return NewGalleryFlat(g) },
	OpCreate:   func(g *domain.Gallery) any { return NewGalleryFlat(g) },
	OpUpdate:   func(g *domain.Gallery) any { return NewGalleryFlat(g) },
	OpRetrieve: func(g *domain.Gallery) any { return NewGalleryDetail(g) },
}

// Gallery 按操作类型选择输出形状；未知操作退回扁平形状
func Gallery(op Operation, g *domain.Gallery) any {
	if f, ok := galleryShapes[op]; ok {
		return f(g)
	}
	return NewGalleryFlat(g)
}

func Galleries(op Operation, gs []domain.Gallery) []any {
	out := make([]any, len(gs))
	for i := range gs {
		out[i] = Gallery(op, &gs[i])
	}
	return out
}

func NewGalleryFlat(g *domain.Gallery) GalleryFlat {
	tags := make([]uint, len(g.Tags))
	for i, t := range g.Tags {
		tags[i] = t.ID
	}
	items := make([]uint, len(g.GalleryItems))
	for i, it := range g.GalleryItems {
		items[i] = it.ID
	}
	return GalleryFlat{ID: g.ID, Title: g.Title, Description: g.Description, Tags: tags, GalleryItems: items}
}

func NewGalleryDetail(g *domain.Gallery) GalleryDetail {
	return GalleryDetail{
		ID:           g.ID,
		Title:        g.Title,
		Description:  g.Description,
		Tags:         NewTags(g.Tags),
		GalleryItems: NewGalleryItems(g.GalleryItems),
	}
}
