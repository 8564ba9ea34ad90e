package router

import (
	"github.com/gin-gonic/gin"

	mdw "go-gin-gallery/internal/transport/http/middleware"
)

// NewAPIEngine 用户端；mediaRoot 非空时在 /media 下直接提供本地上传文件
func NewAPIEngine(o Options, reg *Registry, mediaRoot string) *gin.Engine {
	r := base(o, true)

	if mediaRoot != "" {
		r.Static("/media", mediaRoot)
	}

	// 前缀
	api := r.Group("/api/v1")

	// 鉴权分组
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(o.JWT, "", o.Active))

	reg.MountAPI(api, authUser)
	return r
}
