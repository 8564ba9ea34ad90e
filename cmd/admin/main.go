package main

import (
	"context"
	"flag"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-gallery/internal/app"
	"go-gin-gallery/internal/core/config"
	"go-gin-gallery/internal/core/logger"
	"go-gin-gallery/internal/core/server"
)

func main() {
	createSuper := flag.Bool("create-superuser", false, "create a superuser and exit")
	email := flag.String("email", "", "superuser email")
	password := flag.String("password", "", "superuser password (or ADMIN_PASSWORD)")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		l, _ := logger.New("info", false)
		l.Fatal("load config", zap.Error(err))
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	if *createSuper {
		pw := *password
		if pw == "" {
			pw = os.Getenv("ADMIN_PASSWORD")
		}
		u, err := a.Users.CreateSuperuser(context.Background(), *email, pw)
		if err != nil {
			log.Fatal("create superuser failed", zap.Error(err))
		}
		log.Info("superuser created", zap.String("id", u.ID), zap.String("email", u.Email))
		return
	}

	ad := cfg.App.Admin
	srv := server.BuildServer(server.Addr(ad.Host, ad.Port), a.AdminEngine(), 5*time.Second, 10*time.Second, 60*time.Second)

	// 启动前打印可点击地址
	baseURL := server.HumanURL(ad.Host, ad.Port)
	log.Info("admin api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)
	server.Run(srv, log, "admin api", 10*time.Second)
}
