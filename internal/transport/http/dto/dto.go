// Package dto 把领域实体转换成对外 JSON 形状
package dto

import "go-gin-gallery/internal/domain"

type Tag struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type GalleryItem struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Blurb string `json:"blurb"`
}

// GalleryItemImage 上传接口的返回
type GalleryItemImage struct {
	ID       uint   `json:"id"`
	Image    string `json:"image"`
	BlurHash string `json:"blurhash,omitempty"`
}

type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewTag(t domain.Tag) Tag { return Tag{ID: t.ID, Name: t.Name} }

func NewTags(ts []domain.Tag) []Tag {
	out := make([]Tag, len(ts))
	for i, t := range ts {
		out[i] = NewTag(t)
	}
	return out
}

func NewGalleryItem(it domain.GalleryItem) GalleryItem {
	return GalleryItem{ID: it.ID, Name: it.Name, Blurb: it.Blurb}
}

func NewGalleryItems(its []domain.GalleryItem) []GalleryItem {
	out := make([]GalleryItem, len(its))
	for i, it := range its {
		out[i] = NewGalleryItem(it)
	}
	return out
}

func NewUser(u *domain.User) User { return User{Email: u.Email, Name: u.Name} }
