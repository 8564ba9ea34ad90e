package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-gin-gallery/internal/core/cache"
	"go-gin-gallery/internal/domain"
)

// GalleryInput 写入用的扁平表示；nil 表示请求里没有该字段
type GalleryInput struct {
	Title        *string
	Description  *string
	Tags         *[]uint
	GalleryItems *[]uint
	// Null 请求里显式传了 null 的列表字段
	Null []string
}

type GalleryService struct {
	galleries domain.GalleryRepository
	tags      domain.TagRepository
	items     domain.GalleryItemRepository
	cache     *cache.Cache
	detailTTL time.Duration
	log       *zap.Logger
}

// NewGalleryService c 为 nil 时详情不走缓存
func NewGalleryService(
	galleries domain.GalleryRepository,
	tags domain.TagRepository,
	items domain.GalleryItemRepository,
	c *cache.Cache,
	detailTTL time.Duration,
	log *zap.Logger,
) *GalleryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GalleryService{galleries: galleries, tags: tags, items: items, cache: c, detailTTL: detailTTL, log: log}
}

// detailKey 缓存自带 "gallery:" 前缀
func detailKey(userID string, id uint) string { return fmt.Sprintf("detail:%s:%d", userID, id) }

func (s *GalleryService) List(ctx context.Context, userID string, f domain.GalleryFilter) ([]domain.Gallery, error) {
	return s.galleries.List(ctx, userID, f)
}

func (s *GalleryService) Get(ctx context.Context, userID string, id uint) (*domain.Gallery, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, detailKey(userID, id), s.detailTTL, func(ctx context.Context) (*domain.Gallery, error) {
		return s.galleries.FindOwned(ctx, userID, id)
	})
}

func (s *GalleryService) Create(ctx context.Context, userID string, in GalleryInput) (*domain.Gallery, error) {
	g := &domain.Gallery{UserID: userID}
	m, err := s.validate(ctx, userID, g, in, false)
	if err != nil {
		return nil, err
	}
	if err := s.galleries.Create(ctx, g, m); err != nil {
		return nil, err
	}
	return s.galleries.FindOwned(ctx, userID, g.ID)
}

// Update partial=false 为整体替换：缺省的 tags / gallery_items 会被清空；
// partial=true 只改请求里出现的字段，出现的列表整体替换
func (s *GalleryService) Update(ctx context.Context, userID string, id uint, in GalleryInput, partial bool) (*domain.Gallery, error) {
	g, err := s.galleries.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !partial {
		empty := []uint{}
		if in.Tags == nil {
			in.Tags = &empty
		}
		if in.GalleryItems == nil {
			in.GalleryItems = &empty
		}
	}
	m, err := s.validate(ctx, userID, g, in, partial)
	if err != nil {
		return nil, err
	}
	if err := s.galleries.Update(ctx, g, m); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID, id)
	return s.galleries.FindOwned(ctx, userID, id)
}

func (s *GalleryService) Delete(ctx context.Context, userID string, id uint) error {
	if err := s.galleries.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, userID, id)
	return nil
}

func (s *GalleryService) invalidate(ctx context.Context, userID string, id uint) {
	if err := s.cache.Invalidate(ctx, detailKey(userID, id)); err != nil {
		s.log.Warn("invalidate gallery cache", zap.Uint("gallery", id), zap.Error(err))
	}
}

// validate 把输入合并进 g，并校验成员都属于当前用户
func (s *GalleryService) validate(ctx context.Context, userID string, g *domain.Gallery, in GalleryInput, partial bool) (domain.GalleryMembers, error) {
	ve := &domain.ValidationError{}
	if !partial || in.Title != nil {
		g.Title = requiredText(ve, "title", in.Title, MaxNameLen)
	}
	if !partial || in.Description != nil {
		g.Description = requiredText(ve, "description", in.Description, 0)
	}

	for _, f := range in.Null {
		ve.Add(f, MsgNull)
	}

	var m domain.GalleryMembers
	if in.Tags != nil {
		ids := uniqueIDs(*in.Tags)
		missing, err := s.tags.MissingOwned(ctx, userID, ids)
		if err != nil {
			return m, err
		}
		for _, id := range missing {
			ve.Add("tags", msgInvalidPK(id))
		}
		m.TagIDs = &ids
	}
	if in.GalleryItems != nil {
		ids := uniqueIDs(*in.GalleryItems)
		missing, err := s.items.MissingOwned(ctx, userID, ids)
		if err != nil {
			return m, err
		}
		for _, id := range missing {
			ve.Add("gallery_items", msgInvalidPK(id))
		}
		m.ItemIDs = &ids
	}
	return m, ve.OrNil()
}
