package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-gallery/internal/core/config"
)

type payload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestFromConfig_DisabledWithoutAddr(t *testing.T) {
	assert.Nil(t, FromConfig(config.Redis{}))
}

func TestNilCache_LoadsThrough(t *testing.T) {
	var c *Cache
	calls := 0
	load := func(context.Context) (*payload, error) {
		calls++
		return &payload{ID: 1, Name: "a"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, &payload{ID: 1, Name: "a"}, got)
	}
	assert.Equal(t, 2, calls)
	assert.NoError(t, c.Invalidate(context.Background(), "k"))
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}

func TestNilCache_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := GetOrLoadJSON(nil, context.Background(), "k", time.Minute, func(context.Context) (*payload, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
