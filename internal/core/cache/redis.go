package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"go-gin-gallery/internal/core/config"
)

// Cache Redis 读穿缓存；nil *Cache 表示未启用，所有方法直接回源
type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Prefix: "gallery:",
	}
}

// FromConfig addr 为空时返回 nil
func FromConfig(c config.Redis) *Cache {
	if c.Addr == "" {
		return nil
	}
	return New(c.Addr, c.Password, c.DB)
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.RDB.Close()
}

// verTTL 版本号 key 的过期时间，远大于一次回源的耗时即可
const verTTL = 24 * time.Hour

func (c *Cache) verKey(key string) string { return key + ":ver" }

// GetOrLoad 读穿缓存。回源前记下版本号，写回时版本已被 Invalidate 改过就放弃写回，
// 避免把失效前读到的旧数据写进缓存
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	key = c.Prefix + key
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源；回源不跟随第一个调用方的取消
	v, err, _ := c.sf.Do(key, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		ver, verErr := c.version(lctx, key)
		b, e := load(lctx)
		if e != nil {
			return nil, e
		}
		if verErr == nil {
			_ = c.setIfVersion(lctx, key, ver, b, ttl)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) version(ctx context.Context, key string) (string, error) {
	ver, err := c.RDB.Get(ctx, c.verKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return ver, err
}

func (c *Cache) setIfVersion(ctx context.Context, key, ver string, b []byte, ttl time.Duration) error {
	vk := c.verKey(key)
	return c.RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != ver {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, b, ttl)
			return nil
		})
		return err
	}, vk)
}

var errStale = errors.New("cache: value changed during load")

// Invalidate 写操作后删除相关 key 并推进版本号；失败只影响命中率
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			full := c.Prefix + k
			p.Incr(ctx, c.verKey(full))
			p.Expire(ctx, c.verKey(full), verTTL)
			p.Del(ctx, full)
		}
		return nil
	})
	return err
}
