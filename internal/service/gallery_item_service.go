package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/bbrks/go-blurhash"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"go-gin-gallery/internal/core/storage"
	"go-gin-gallery/internal/domain"
)

const (
	// 解码前按头部尺寸拦截超大图
	maxImagePixels = 50_000_000
	// BlurHash 在缩略图上计算
	blurHashThumb = 32
)

var imageUploads = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "gallery_item_image_uploads_total", Help: "Gallery item image uploads by result"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(imageUploads) }

type GalleryItemService struct {
	items    domain.GalleryItemRepository
	store    storage.Store
	maxBytes int64
	log      *zap.Logger
}

// NewGalleryItemService maxBytes <= 0 表示不限制图片大小
func NewGalleryItemService(items domain.GalleryItemRepository, store storage.Store, maxBytes int64, log *zap.Logger) *GalleryItemService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GalleryItemService{items: items, store: store, maxBytes: maxBytes, log: log}
}

func (s *GalleryItemService) List(ctx context.Context, userID string, assignedOnly bool) ([]domain.GalleryItem, error) {
	return s.items.ListOwned(ctx, userID, assignedOnly)
}

func (s *GalleryItemService) Create(ctx context.Context, userID, name, blurb string) (*domain.GalleryItem, error) {
	ve := &domain.ValidationError{}
	name = requiredText(ve, "name", &name, MaxNameLen)
	blurb = requiredText(ve, "blurb", &blurb, MaxNameLen)
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	it := &domain.GalleryItem{Name: name, Blurb: blurb, UserID: userID}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// MaxBytes 上传大小上限（handler 读取 multipart 时用）
func (s *GalleryItemService) MaxBytes() int64 { return s.maxBytes }

// ImageURL 空 key 返回空串
func (s *GalleryItemService) ImageURL(key string) string {
	if key == "" || s.store == nil {
		return ""
	}
	return s.store.URL(key)
}

// UploadImage 校验图片、写入存储、更新记录；只改 image 相关列。
// data 为 nil 表示请求里没有文件。校验失败时原图片保持不变
func (s *GalleryItemService) UploadImage(ctx context.Context, userID string, id uint, filename string, data []byte) (*domain.GalleryItem, error) {
	it, err := s.items.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	img, format, err := s.decode(data)
	if err != nil {
		imageUploads.WithLabelValues("invalid").Inc()
		return nil, err
	}
	hash, err := blurHash(img)
	if err != nil {
		s.log.Warn("blurhash failed", zap.Uint("item", id), zap.Error(err))
	}

	key := storage.GalleryItemImageKey(filename, format)
	if err := s.store.Put(ctx, key, data, "image/"+format); err != nil {
		imageUploads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("store image: %w", err)
	}
	if err := s.items.UpdateImage(ctx, it.ID, key, hash); err != nil {
		imageUploads.WithLabelValues("error").Inc()
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.log.Warn("rollback image failed", zap.String("key", key), zap.Error(derr))
		}
		return nil, err
	}

	if old := it.Image; old != "" && old != key {
		if err := s.store.Delete(ctx, old); err != nil {
			s.log.Warn("delete previous image failed", zap.String("key", old), zap.Error(err))
		}
	}
	imageUploads.WithLabelValues("ok").Inc()
	it.Image, it.ImageBlurHash = key, hash
	return it, nil
}

func (s *GalleryItemService) decode(data []byte) (image.Image, string, error) {
	if data == nil {
		return nil, "", domain.NewValidationError("image", MsgNoFile)
	}
	if len(data) == 0 {
		return nil, "", domain.NewValidationError("image", MsgEmptyFile)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, "", domain.NewValidationError("image",
			fmt.Sprintf("Ensure this file is no larger than %d bytes.", s.maxBytes))
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", domain.NewValidationError("image", MsgInvalidImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, "", domain.NewValidationError("image", "Image dimensions are too large.")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", domain.NewValidationError("image", MsgInvalidImage)
	}
	return img, format, nil
}

func blurHash(img image.Image) (string, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > blurHashThumb || h > blurHashThumb {
		if w >= h {
			w, h = blurHashThumb, max(1, h*blurHashThumb/w)
		} else {
			w, h = max(1, w*blurHashThumb/h), blurHashThumb
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}
	return blurhash.Encode(4, 3, img)
}
