package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gallery/internal/domain"
	"go-gin-gallery/internal/service"
	"go-gin-gallery/internal/transport/http/dto"
	httpez "go-gin-gallery/internal/transport/http/ez"
)

type GalleryHandler struct {
	svc *service.GalleryService
	log *zap.Logger
}

func NewGalleryHandler(svc *service.GalleryService, log *zap.Logger) *GalleryHandler {
	return &GalleryHandler{svc: svc, log: log}
}

func (h *GalleryHandler) Priority() int { return 30 }

// galleryIn 写入永远用扁平形状
type galleryIn struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Tags         idList  `json:"tags"`
	GalleryItems idList  `json:"gallery_items"`
}

// idList 区分字段缺省和显式 null
type idList struct {
	set  bool
	null bool
	ids  []uint
}

func (l *idList) UnmarshalJSON(b []byte) error {
	l.set = true
	if string(b) == "null" {
		l.null = true
		return nil
	}
	return json.Unmarshal(b, &l.ids)
}

func (l idList) ptr() *[]uint {
	if !l.set || l.null {
		return nil
	}
	ids := l.ids
	if ids == nil {
		ids = []uint{}
	}
	return &ids
}

func (in *galleryIn) input() service.GalleryInput {
	out := service.GalleryInput{
		Title:        in.Title,
		Description:  in.Description,
		Tags:         in.Tags.ptr(),
		GalleryItems: in.GalleryItems.ptr(),
	}
	if in.Tags.null {
		out.Null = append(out.Null, "tags")
	}
	if in.GalleryItems.null {
		out.Null = append(out.Null, "gallery_items")
	}
	return out
}

func (h *GalleryHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed, h.log)

	httpez.RegisterAction(ez, httpez.Action[struct{}, []any]{
		Method: http.MethodGet,
		Path:   "/galleries",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]any, error) {
			f, err := galleryFilter(c)
			if err != nil {
				return nil, err
			}
			gs, err := h.svc.List(c.Request.Context(), httpez.UserID(c), f)
			if err != nil {
				return nil, err
			}
			return dto.Galleries(dto.OpList, gs), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[galleryIn, any]{
		Method: http.MethodPost,
		Path:   "/galleries",
		Binder: httpez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *galleryIn) (any, error) {
			g, err := h.svc.Create(c.Request.Context(), httpez.UserID(c), in.input())
			if err != nil {
				return nil, err
			}
			return dto.Gallery(dto.OpCreate, g), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, any]{
		Method: http.MethodGet,
		Path:   "/galleries/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			g, err := h.svc.Get(c.Request.Context(), httpez.UserID(c), id)
			if err != nil {
				return nil, err
			}
			return dto.Gallery(dto.OpRetrieve, g), nil
		},
	})

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		partial := method == http.MethodPatch
		httpez.RegisterAction(ez, httpez.Action[galleryIn, any]{
			Method: method,
			Path:   "/galleries/:id",
			Binder: httpez.BindJSON,
			Auth:   true,
			Handler: func(c *gin.Context, in *galleryIn) (any, error) {
				id, err := httpez.ParamID(c, "id")
				if err != nil {
					return nil, err
				}
				g, err := h.svc.Update(c.Request.Context(), httpez.UserID(c), id, in.input(), partial)
				if err != nil {
					return nil, err
				}
				return dto.Gallery(dto.OpUpdate, g), nil
			},
		})
	}

	httpez.RegisterAction(ez, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/galleries/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.svc.Delete(c.Request.Context(), httpez.UserID(c), id)
		},
	})
}

// galleryFilter 两个维度的解析错误合并返回
func galleryFilter(c *gin.Context) (domain.GalleryFilter, error) {
	var f domain.GalleryFilter
	ve := &domain.ValidationError{}
	var err error
	if f.TagIDs, err = service.ParseIDList("tags", c.Query("tags")); err != nil {
		mergeInto(ve, err)
	}
	if f.ItemIDs, err = service.ParseIDList("gallery_items", c.Query("gallery_items")); err != nil {
		mergeInto(ve, err)
	}
	return f, ve.OrNil()
}

func mergeInto(ve *domain.ValidationError, err error) {
	if other, ok := err.(*domain.ValidationError); ok {
		for k, msgs := range other.Fields {
			for _, m := range msgs {
				ve.Add(k, m)
			}
		}
	}
}
