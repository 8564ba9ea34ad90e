package service

import (
	"context"

	"go-gin-gallery/internal/domain"
)

type TagService struct {
	tags domain.TagRepository
}

func NewTagService(tags domain.TagRepository) *TagService { return &TagService{tags: tags} }

func (s *TagService) List(ctx context.Context, userID string, assignedOnly bool) ([]domain.Tag, error) {
	return s.tags.ListOwned(ctx, userID, assignedOnly)
}

func (s *TagService) Create(ctx context.Context, userID, name string) (*domain.Tag, error) {
	ve := &domain.ValidationError{}
	name = requiredText(ve, "name", &name, MaxNameLen)
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	t := &domain.Tag{Name: name, UserID: userID}
	if err := s.tags.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
