package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gallery/internal/service"
	"go-gin-gallery/internal/transport/http/dto"
	httpez "go-gin-gallery/internal/transport/http/ez"
)

type GalleryItemHandler struct {
	svc *service.GalleryItemService
	log *zap.Logger
}

func NewGalleryItemHandler(svc *service.GalleryItemService, log *zap.Logger) *GalleryItemHandler {
	return &GalleryItemHandler{svc: svc, log: log}
}

func (h *GalleryItemHandler) Priority() int { return 20 }

func (h *GalleryItemHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed, h.log)

	httpez.RegisterAction(ez, httpez.Action[struct{}, []dto.GalleryItem]{
		Method: http.MethodGet,
		Path:   "/gallery-items",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]dto.GalleryItem, error) {
			assigned, err := service.ParseFlag("assigned_only", c.Query("assigned_only"))
			if err != nil {
				return nil, err
			}
			items, err := h.svc.List(c.Request.Context(), httpez.UserID(c), assigned)
			if err != nil {
				return nil, err
			}
			return dto.NewGalleryItems(items), nil
		},
	})

	type createIn struct {
		Name  string `json:"name"  binding:"required,max=255"`
		Blurb string `json:"blurb" binding:"required,max=255"`
	}
	httpez.RegisterAction(ez, httpez.Action[createIn, dto.GalleryItem]{
		Method: http.MethodPost,
		Path:   "/gallery-items",
		Binder: httpez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createIn) (dto.GalleryItem, error) {
			it, err := h.svc.Create(c.Request.Context(), httpez.UserID(c), in.Name, in.Blurb)
			if err != nil {
				return dto.GalleryItem{}, err
			}
			return dto.NewGalleryItem(*it), nil
		},
	})

	// multipart 字段 image
	httpez.RegisterAction(ez, httpez.Action[struct{}, dto.GalleryItemImage]{
		Method: http.MethodPost,
		Path:   "/gallery-items/:id/upload-image",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (dto.GalleryItemImage, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return dto.GalleryItemImage{}, err
			}
			filename, data, err := h.readImage(c)
			if err != nil {
				return dto.GalleryItemImage{}, err
			}
			it, err := h.svc.UploadImage(c.Request.Context(), httpez.UserID(c), id, filename, data)
			if err != nil {
				return dto.GalleryItemImage{}, err
			}
			return dto.GalleryItemImage{ID: it.ID, Image: h.svc.ImageURL(it.Image), BlurHash: it.ImageBlurHash}, nil
		},
	})
}

// readImage 缺少文件时返回 nil data，由 service 给出字段错误
func (h *GalleryItemHandler) readImage(c *gin.Context) (string, []byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return "", nil, err
		}
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil, nil
		}
		return "", nil, httpez.Fields(map[string][]string{
			"image": {"The submitted data was not a file. Check the encoding type on the form."},
		})
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if max := h.svc.MaxBytes(); max > 0 {
		// 多读 1 字节让 service 判断超限
		r = io.LimitReader(f, max+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, err
	}
	return fh.Filename, data, nil
}
