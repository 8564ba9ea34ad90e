package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-gallery/internal/domain"
	"go-gin-gallery/pkg/utils"
)

func TestUserRepo_CreateAndFind(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@example.com")

	got, err := f.users.FindByEmail(f.ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = f.users.FindByID(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)

	_, err = f.users.FindByID(f.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.user(t, "dup@example.com")

	err := f.users.Create(f.ctx, &domain.User{ID: utils.NewID(), Email: "dup@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserRepo_List(t *testing.T) {
	f := newFixture(t)
	f.user(t, "alice@example.com")
	f.user(t, "bob@example.com")
	f.user(t, "carol@other.org")

	users, total, err := f.users.List(f.ctx, domain.UserFilter{Query: "example", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	users, total, err = f.users.List(f.ctx, domain.UserFilter{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 1)
}

func TestUserRepo_DeleteCascade(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")

	tag := f.tag(t, owner, "mine")
	item := f.item(t, owner, "mine")
	require.NoError(t, f.items.UpdateImage(f.ctx, item.ID, "uploads/gallery-items/x.png", ""))
	f.gallery(t, owner, "owner gallery", []uint{tag.ID}, []uint{item.ID})

	// 其他用户的画廊引用了 owner 的标签
	otherTag := f.tag(t, other, "theirs")
	otherGallery := f.gallery(t, other, "other gallery", []uint{tag.ID, otherTag.ID}, []uint{item.ID})

	keys, err := f.users.DeleteCascade(f.ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/gallery-items/x.png"}, keys)

	_, err = f.users.FindByID(f.ctx, owner.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	tags, err := f.tags.ListOwned(f.ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Empty(t, tags)

	g, err := f.galleries.FindOwned(f.ctx, other.ID, otherGallery.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"theirs"}, tagNames(g.Tags))
	assert.Empty(t, g.GalleryItems)

	_, err = f.users.DeleteCascade(f.ctx, owner.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
