package service

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-gallery/internal/core/cache"
	"go-gin-gallery/internal/core/config"
	"go-gin-gallery/internal/domain"
)

func tagIDs(g *domain.Gallery) []uint {
	out := make([]uint, len(g.Tags))
	for i, t := range g.Tags {
		out[i] = t.ID
	}
	return out
}

func TestGalleryService_CachedDetailFollowsWrites(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.FromConfig(config.Redis{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	e := newEnvWithCache(t, c)

	u := e.user(t, "u@example.com")
	t1 := e.tag(t, u.ID, "t1")
	t2 := e.tag(t, u.ID, "t2")
	it := e.item(t, u.ID, "i1")
	g, err := e.galleries.Create(e.ctx, u.ID, GalleryInput{
		Title: ptr("T"), Description: ptr("D"), Tags: &[]uint{t1.ID}, GalleryItems: &[]uint{it.ID},
	})
	require.NoError(t, err)
	key := "gallery:" + detailKey(u.ID, g.ID)

	got, err := e.galleries.Get(e.ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{t1.ID}, tagIDs(got))
	require.Len(t, got.GalleryItems, 1)
	assert.Equal(t, "blurb", got.GalleryItems[0].Blurb)
	assert.True(t, mr.Exists(key))

	// 第二次命中缓存，经过 JSON 往返后内容一致
	cached, err := e.galleries.Get(e.ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Title, cached.Title)
	assert.Equal(t, tagIDs(got), tagIDs(cached))

	// PUT 换标签、清空作品
	_, err = e.galleries.Update(e.ctx, u.ID, g.ID, GalleryInput{Title: ptr("T"), Description: ptr("D"), Tags: &[]uint{t2.ID}}, false)
	require.NoError(t, err)
	got, err = e.galleries.Get(e.ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{t2.ID}, tagIDs(got))
	assert.Empty(t, got.GalleryItems)

	// PATCH 只改标题
	_, err = e.galleries.Update(e.ctx, u.ID, g.ID, GalleryInput{Title: ptr("T2")}, true)
	require.NoError(t, err)
	got, err = e.galleries.Get(e.ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "T2", got.Title)
	assert.Equal(t, []uint{t2.ID}, tagIDs(got))

	require.NoError(t, e.galleries.Delete(e.ctx, u.ID, g.ID))
	assert.False(t, mr.Exists(key))
	_, err = e.galleries.Get(e.ctx, u.ID, g.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, mr.Exists(key))
}

func TestGalleryService_CacheKeyedPerUser(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.FromConfig(config.Redis{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	e := newEnvWithCache(t, c)

	u := e.user(t, "u@example.com")
	v := e.user(t, "v@example.com")
	g, err := e.galleries.Create(e.ctx, u.ID, GalleryInput{Title: ptr("T"), Description: ptr("D")})
	require.NoError(t, err)

	_, err = e.galleries.Get(e.ctx, u.ID, g.ID)
	require.NoError(t, err)
	_, err = e.galleries.Get(e.ctx, v.ID, g.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
