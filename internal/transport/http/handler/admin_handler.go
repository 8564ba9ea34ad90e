package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gallery/internal/domain"
	"go-gin-gallery/internal/service"
	httpez "go-gin-gallery/internal/transport/http/ez"
)

type AdminHandler struct {
	users *service.UserService
	log   *zap.Logger
}

func NewAdminHandler(users *service.UserService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, log: log}
}

func (h *AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	ezAdmin := httpez.New(admin, h.log)

	// --- 用户列表 ---
	type listQ struct {
		Offset int    `form:"offset,default=0" binding:"gte=0"`
		Limit  int    `form:"limit,default=20" binding:"gte=0,lte=100"`
		Q      string `form:"q"` // 可选：按 email/name 模糊搜
	}
	type row struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		Role      string    `json:"role"`
		IsActive  bool      `json:"isActive"`
		CreatedAt time.Time `json:"createdAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}
	httpez.RegisterAction(ezAdmin, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			us, total, err := h.users.List(c.Request.Context(), domain.UserFilter{
				Query: in.Q, Offset: in.Offset, Limit: in.Limit,
			})
			if err != nil {
				return listOut{}, err
			}
			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for i := range us {
				u := &us[i]
				out.Items = append(out.Items, row{
					ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role(),
					IsActive: u.IsActive, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	// --- 封禁（停用账号） ---
	httpez.RegisterAction(ezAdmin, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.users.Ban(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- 删除（级联） ---
	httpez.RegisterAction(ezAdmin, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			if c.Param("id") == httpez.UserID(c) {
				return struct{}{}, httpez.BadRequest("cannot delete yourself")
			}
			return struct{}{}, h.users.Delete(c.Request.Context(), c.Param("id"))
		},
	})
}
