package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-gin-gallery/internal/core/auth"
	"go-gin-gallery/internal/core/config"
	"go-gin-gallery/internal/core/server"
	mdw "go-gin-gallery/internal/transport/http/middleware"
	resp "go-gin-gallery/internal/transport/http/response"
)

// Options 两个 engine 共用的依赖
type Options struct {
	Env    string
	Log    *zap.Logger
	JWT    *auth.JWTer
	HTTP   config.HTTP
	Active mdw.ActiveChecker
	// Ready 健康检查回调（DB / Redis ping）；nil 表示总是可用
	Ready func(ctx context.Context) error
}

func (o Options) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

// base 公共中间件 + /health + /metrics
func base(o Options, perIP bool) *gin.Engine {
	l := o.logger()
	r := server.NewRouter(o.Env)

	limit := mdw.RateLimit(rate.Limit(o.HTTP.RateLimitRPS), o.HTTP.RateBurst)
	if perIP {
		limit = mdw.RateLimitPerIP(rate.Limit(o.HTTP.RateLimitRPS), o.HTTP.RateBurst, 10*time.Minute)
	}
	if o.HTTP.RateLimitRPS <= 0 {
		limit = func(c *gin.Context) { c.Next() }
	}

	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(),
		mdw.Recovery(l),
		limit,
		mdw.ConcurrencyLimit(o.HTTP.MaxConcurrent),
		mdw.MaxBodyBytes(o.HTTP.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(o.HTTP.RequestTimeoutSec)*time.Second),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, ""))
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		if o.Ready != nil {
			if err := o.Ready(c.Request.Context()); err != nil {
				l.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, ""))
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", mdw.MetricsHandler())
	return r
}
