package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-gallery/internal/domain"
)

func TestOwnedRepo_ListOwned_OrderAndScope(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "u@example.com")
	v := f.user(t, "v@example.com")

	first := f.tag(t, u, "Beta")
	f.tag(t, u, "Alpha")
	second := f.tag(t, u, "Beta")
	f.tag(t, u, "Gamma")
	f.tag(t, v, "Zeta")

	tags, err := f.tags.ListOwned(f.ctx, u.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma", "Beta", "Beta", "Alpha"}, tagNames(tags))
	// 同名按插入顺序
	assert.Equal(t, first.ID, tags[1].ID)
	assert.Equal(t, second.ID, tags[2].ID)
}

func TestOwnedRepo_ListOwned_AssignedOnly(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "u@example.com")

	assigned := f.tag(t, u, "assigned")
	f.tag(t, u, "unassigned")
	// 同一标签被两个画廊引用，结果不重复
	f.gallery(t, u, "g1", []uint{assigned.ID}, nil)
	f.gallery(t, u, "g2", []uint{assigned.ID}, nil)

	tags, err := f.tags.ListOwned(f.ctx, u.ID, true)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, assigned.ID, tags[0].ID)

	all, err := f.tags.ListOwned(f.ctx, u.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOwnedRepo_ListOwned_ItemsAssignedOnly(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "u@example.com")

	a := f.item(t, u, "a")
	f.item(t, u, "b")
	f.gallery(t, u, "g1", nil, []uint{a.ID})
	f.gallery(t, u, "g2", nil, []uint{a.ID})

	items, err := f.items.ListOwned(f.ctx, u.ID, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)
}

func TestOwnedRepo_FindOwned(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "u@example.com")
	v := f.user(t, "v@example.com")
	it := f.item(t, u, "mine")

	got, err := f.items.FindOwned(f.ctx, u.ID, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Name)

	_, err = f.items.FindOwned(f.ctx, v.ID, it.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOwnedRepo_MissingOwned(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "u@example.com")
	v := f.user(t, "v@example.com")
	mine := f.tag(t, u, "mine")
	theirs := f.tag(t, v, "theirs")

	missing, err := f.tags.MissingOwned(f.ctx, u.ID, []uint{mine.ID, theirs.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, []uint{theirs.ID, 9999}, missing)

	missing, err = f.tags.MissingOwned(f.ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestGalleryItemRepo_UpdateImage(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "u@example.com")
	it := f.item(t, u, "x")

	require.NoError(t, f.items.UpdateImage(f.ctx, it.ID, "uploads/gallery-items/a.png", "LKO2?U%2Tw=w"))
	got, err := f.items.FindOwned(f.ctx, u.ID, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/gallery-items/a.png", got.Image)
	assert.Equal(t, "LKO2?U%2Tw=w", got.ImageBlurHash)
	assert.Equal(t, "x", got.Name)

	assert.ErrorIs(t, f.items.UpdateImage(f.ctx, 9999, "k", ""), domain.ErrNotFound)
}
