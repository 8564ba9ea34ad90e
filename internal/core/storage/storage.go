// Package storage stores uploaded gallery item images on the local filesystem or an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"go-gin-gallery/internal/core/config"
)

// GalleryItemImageDir is the key prefix for gallery item images.
const GalleryItemImageDir = "uploads/gallery-items"

var ErrInvalidKey = errors.New("storage: invalid key")

// Store abstracts raw image byte storage.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL renders the public URL of a stored key.
	URL(key string) string
}

// New builds the Store selected by cfg.Driver.
func New(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.Root, cfg.PublicURL)
	case "s3":
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}
}

// GalleryItemImageKey returns uploads/gallery-items/<uuid>.<ext>. The extension is taken
// from the uploaded filename; fallbackExt is used when the name has none.
func GalleryItemImageKey(filename, fallbackExt string) string {
	ext := extension(filename)
	if ext == "" {
		ext = sanitizeExt(fallbackExt)
	}
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	return path.Join(GalleryItemImageDir, name)
}

func extension(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return ""
	}
	return sanitizeExt(base[i+1:])
}

// sanitizeExt 只保留字母数字，防止 key 被用户输入带偏
func sanitizeExt(ext string) string {
	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= 10 {
			break
		}
	}
	return b.String()
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	clean := path.Clean(key)
	return clean == key && !strings.HasPrefix(clean, "../") && clean != ".."
}

func joinURL(base, key string) string {
	if base == "" {
		return key
	}
	return strings.TrimRight(base, "/") + "/" + key
}
