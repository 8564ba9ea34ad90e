package router

import (
	"github.com/gin-gonic/gin"

	"go-gin-gallery/internal/domain"
	mdw "go-gin-gallery/internal/transport/http/middleware"
)

func NewAdminEngine(o Options, reg *Registry) *gin.Engine {
	r := base(o, false)

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(o.JWT, domain.RoleAdmin, o.Active))

	reg.MountAdmin(admin)
	return r
}
