package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"storefront/internal/app"
	"storefront/internal/core/config"
	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/transport/http/router"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run 出错时已记录日志，返回前执行全部 defer
func run() error {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.Build(app.LogOptions(cfg, "api"))
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("bootstrap failed", zap.Error(err))
		return err
	}
	defer a.Close()

	// 路由（用户端）
	r := router.NewAPIEngine(log, a.Services, router.Limits{})

	errLog, _ := logger.ToStdLogger(log, zapcore.ErrorLevel)
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
		errLog,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	if err := server.ServeUntilSignal(srv, log, 10*time.Second); err != nil {
		log.Error("user api stopped with error", zap.Error(err))
		return err
	}
	log.Info("user api stopped gracefully")
	return nil
}
