package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-gin-gallery/internal/core/database"
	"go-gin-gallery/internal/domain"
	"go-gin-gallery/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

type fixture struct {
	ctx       context.Context
	users     *UserRepo
	tags      *TagRepo
	items     *GalleryItemRepo
	galleries *GalleryRepo
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		ctx:       context.Background(),
		users:     NewUserRepo(db),
		tags:      NewTagRepo(db),
		items:     NewGalleryItemRepo(db),
		galleries: NewGalleryRepo(db),
	}
}

func (f *fixture) user(t *testing.T, email string) *domain.User {
	t.Helper()
	u := &domain.User{ID: utils.NewID(), Email: email, Name: "n", PasswordHash: "x", IsActive: true}
	require.NoError(t, f.users.Create(f.ctx, u))
	return u
}

func (f *fixture) tag(t *testing.T, u *domain.User, name string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: name, UserID: u.ID}
	require.NoError(t, f.tags.Create(f.ctx, tag))
	return tag
}

func (f *fixture) item(t *testing.T, u *domain.User, name string) *domain.GalleryItem {
	t.Helper()
	it := &domain.GalleryItem{Name: name, Blurb: "blurb", UserID: u.ID}
	require.NoError(t, f.items.Create(f.ctx, it))
	return it
}

func (f *fixture) gallery(t *testing.T, u *domain.User, title string, tagIDs, itemIDs []uint) *domain.Gallery {
	t.Helper()
	g := &domain.Gallery{UserID: u.ID, Title: title, Description: "d"}
	require.NoError(t, f.galleries.Create(f.ctx, g, domain.GalleryMembers{TagIDs: &tagIDs, ItemIDs: &itemIDs}))
	return g
}

func tagNames(tags []domain.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Name
	}
	return out
}

func galleryIDs(gs []domain.Gallery) []uint {
	out := make([]uint, len(gs))
	for i, g := range gs {
		out[i] = g.ID
	}
	return out
}
