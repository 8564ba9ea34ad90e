package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-gin-gallery/internal/core/auth"
	"go-gin-gallery/internal/core/cache"
	"go-gin-gallery/internal/core/config"
	"go-gin-gallery/internal/core/database"
	"go-gin-gallery/internal/core/storage"
	"go-gin-gallery/internal/domain"
	"go-gin-gallery/internal/repo"
)

type env struct {
	ctx       context.Context
	store     *storage.Local
	userRepo  *repo.UserRepo
	itemRepo  *repo.GalleryItemRepo
	users     *UserService
	tags      *TagService
	items     *GalleryItemService
	galleries *GalleryService
	jwt       *auth.JWTer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithCache(t, nil)
}

// newEnvWithCache c 不为 nil 时画廊详情走缓存
func newEnvWithCache(t *testing.T, c *cache.Cache) *env {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	store, err := storage.NewLocal(t.TempDir(), "/media")
	require.NoError(t, err)

	jwter := auth.NewJWTer(config.JWT{Secret: "test-secret", Issuer: "test", AccessTokenTTLMin: 5})
	userRepo := repo.NewUserRepo(db)
	tagRepo := repo.NewTagRepo(db)
	itemRepo := repo.NewGalleryItemRepo(db)
	return &env{
		ctx:       context.Background(),
		store:     store,
		userRepo:  userRepo,
		itemRepo:  itemRepo,
		users:     NewUserService(userRepo, store, jwter, nil),
		tags:      NewTagService(tagRepo),
		items:     NewGalleryItemService(itemRepo, store, 1<<20, nil),
		galleries: NewGalleryService(repo.NewGalleryRepo(db), tagRepo, itemRepo, c, time.Minute, nil),
		jwt:       jwter,
	}
}

func (e *env) user(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := e.users.CreateUser(e.ctx, email, "secret1", "name")
	require.NoError(t, err)
	return u
}

func (e *env) tag(t *testing.T, uid, name string) *domain.Tag {
	t.Helper()
	tag, err := e.tags.Create(e.ctx, uid, name)
	require.NoError(t, err)
	return tag
}

func (e *env) item(t *testing.T, uid, name string) *domain.GalleryItem {
	t.Helper()
	it, err := e.items.Create(e.ctx, uid, name, "blurb")
	require.NoError(t, err)
	return it
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func ptr[T any](v T) *T { return &v }

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	ve, ok := err.(*domain.ValidationError)
	require.True(t, ok, "expected *domain.ValidationError, got %T: %v", err, err)
	return ve.Fields
}
