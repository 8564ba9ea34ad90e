package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gallery/internal/service"
	"go-gin-gallery/internal/transport/http/dto"
	httpez "go-gin-gallery/internal/transport/http/ez"
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

func (h *UserHandler) Priority() int { return 0 }

func (h *UserHandler) MountAPI(public, authed *gin.RouterGroup) {
	ezPublic := httpez.New(public, h.log)

	type createIn struct {
		Email    string `json:"email"    binding:"required,email,max=255"`
		Password string `json:"password" binding:"required,min=5,max=72"`
		Name     string `json:"name"     binding:"required,max=255"`
	}
	httpez.RegisterAction(ezPublic, httpez.Action[createIn, dto.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createIn) (dto.User, error) {
			u, err := h.svc.CreateUser(c.Request.Context(), in.Email, in.Password, in.Name)
			if err != nil {
				return dto.User{}, err
			}
			return dto.NewUser(u), nil
		},
	})

	type tokenIn struct {
		Email    string `json:"email"    binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	type tokenOut struct {
		Token string `json:"token"`
	}
	httpez.RegisterAction(ezPublic, httpez.Action[tokenIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/users/token",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *tokenIn) (tokenOut, error) {
			tok, err := h.svc.Authenticate(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: tok}, nil
		},
	})

	ezAuth := httpez.New(authed, h.log)

	httpez.RegisterAction(ezAuth, httpez.Action[struct{}, dto.User]{
		Method: http.MethodGet,
		Path:   "/users/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (dto.User, error) {
			u, err := h.svc.Get(c.Request.Context(), httpez.UserID(c))
			if err != nil {
				return dto.User{}, err
			}
			return dto.NewUser(u), nil
		},
	})

	type updateIn struct {
		Name     *string `json:"name"     binding:"omitempty,max=255"`
		Password *string `json:"password" binding:"omitempty,min=5,max=72"`
	}
	httpez.RegisterAction(ezAuth, httpez.Action[updateIn, dto.User]{
		Method: http.MethodPatch,
		Path:   "/users/me",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateIn) (dto.User, error) {
			u, err := h.svc.UpdateProfile(c.Request.Context(), httpez.UserID(c), in.Name, in.Password)
			if err != nil {
				return dto.User{}, err
			}
			return dto.NewUser(u), nil
		},
	})
}
