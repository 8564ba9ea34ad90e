// Package app 组装两个进程共用的依赖：DB、存储、缓存、服务和路由模块
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-gin-gallery/internal/core/auth"
	"go-gin-gallery/internal/core/cache"
	"go-gin-gallery/internal/core/config"
	"go-gin-gallery/internal/core/database"
	"go-gin-gallery/internal/core/logger"
	"go-gin-gallery/internal/core/storage"
	"go-gin-gallery/internal/repo"
	"go-gin-gallery/internal/service"
	"go-gin-gallery/internal/transport/http/handler"
	"go-gin-gallery/internal/transport/http/router"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Store storage.Store
	Cache *cache.Cache
	JWT   *auth.JWTer

	Users     *service.UserService
	Tags      *service.TagService
	Items     *service.GalleryItemService
	Galleries *service.GalleryService

	registry *router.Registry
}

func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		LogWriter:          logger.ToWriter(l.Named("gorm"), zapcore.InfoLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if cfg.DB.AutoMigrate {
		err = repo.AutoMigrate(db)
	} else {
		err = repo.SetupJoinTables(db)
	}
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	c := cache.FromConfig(cfg.Redis)
	if err := c.Ping(ctx); err != nil {
		// 缓存不可用不影响启动，详情直接回源
		l.Warn("redis unavailable, gallery cache disabled", zap.Error(err))
		_ = c.Close()
		c = nil
	}

	jwter := auth.NewJWTer(cfg.JWT)
	userRepo := repo.NewUserRepo(db)
	tagRepo := repo.NewTagRepo(db)
	itemRepo := repo.NewGalleryItemRepo(db)

	a := &App{
		Cfg:   cfg,
		Log:   l,
		DB:    db,
		Store: store,
		Cache: c,
		JWT:   jwter,

		Users:     service.NewUserService(userRepo, store, jwter, l.Named("user")),
		Tags:      service.NewTagService(tagRepo),
		Items:     service.NewGalleryItemService(itemRepo, store, cfg.Storage.MaxImageMB<<20, l.Named("item")),
		Galleries: service.NewGalleryService(repo.NewGalleryRepo(db), tagRepo, itemRepo, c, time.Duration(cfg.Redis.DetailTTLSec)*time.Second, l.Named("gallery")),
	}
	a.registry = router.NewRegistry(
		handler.NewUserHandler(a.Users, l),
		handler.NewTagHandler(a.Tags, l),
		handler.NewGalleryItemHandler(a.Items, l),
		handler.NewGalleryHandler(a.Galleries, l),
		handler.NewAdminHandler(a.Users, l),
	)
	return a, nil
}

func (a *App) options(h config.HTTP) router.Options {
	return router.Options{
		Env:    a.Cfg.App.Env,
		Log:    a.Log,
		JWT:    a.JWT,
		HTTP:   h,
		Active: a.Users.IsActive,
		Ready:  a.Ready,
	}
}

// APIEngine 本地存储时顺带提供 /media
func (a *App) APIEngine() *gin.Engine {
	mediaRoot := ""
	if local, ok := a.Store.(*storage.Local); ok {
		mediaRoot = local.Root()
	}
	return router.NewAPIEngine(a.options(a.Cfg.App.HTTP), a.registry, mediaRoot)
}

// AdminEngine 沿用用户端的限流/超时配置
func (a *App) AdminEngine() *gin.Engine {
	return router.NewAdminEngine(a.options(a.Cfg.App.HTTP), a.registry)
}

// Ready DB 必须可用；缓存失败只记日志
func (a *App) Ready(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	if err := a.Cache.Ping(ctx); err != nil {
		a.Log.Warn("redis ping failed", zap.Error(err))
	}
	return nil
}

func (a *App) Close() {
	if err := a.Cache.Close(); err != nil {
		a.Log.Warn("close redis", zap.Error(err))
	}
	if err := database.Close(a.DB); err != nil {
		a.Log.Warn("close db", zap.Error(err))
	}
}
