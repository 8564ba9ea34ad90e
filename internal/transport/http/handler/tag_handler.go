package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gallery/internal/service"
	"go-gin-gallery/internal/transport/http/dto"
	httpez "go-gin-gallery/internal/transport/http/ez"
)

type TagHandler struct {
	svc *service.TagService
	log *zap.Logger
}

func NewTagHandler(svc *service.TagService, log *zap.Logger) *TagHandler {
	return &TagHandler{svc: svc, log: log}
}

func (h *TagHandler) Priority() int { return 10 }

func (h *TagHandler) MountAPI(_, authed *gin.RouterGroup) {
	ez := httpez.New(authed, h.log)

	httpez.RegisterAction(ez, httpez.Action[struct{}, []dto.Tag]{
		Method: http.MethodGet,
		Path:   "/tags",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]dto.Tag, error) {
			assigned, err := service.ParseFlag("assigned_only", c.Query("assigned_only"))
			if err != nil {
				return nil, err
			}
			tags, err := h.svc.List(c.Request.Context(), httpez.UserID(c), assigned)
			if err != nil {
				return nil, err
			}
			return dto.NewTags(tags), nil
		},
	})

	type createIn struct {
		Name string `json:"name" binding:"required,max=255"`
	}
	httpez.RegisterAction(ez, httpez.Action[createIn, dto.Tag]{
		Method: http.MethodPost,
		Path:   "/tags",
		Binder: httpez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createIn) (dto.Tag, error) {
			t, err := h.svc.Create(c.Request.Context(), httpez.UserID(c), in.Name)
			if err != nil {
				return dto.Tag{}, err
			}
			return dto.NewTag(*t), nil
		},
	})
}
