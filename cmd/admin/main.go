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
	log, cleanup := logger.Build(app.LogOptions(cfg, "admin"))
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	// 依赖
	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("bootstrap failed", zap.Error(err))
		return err
	}
	defer a.Close()

	// 路由（后台端），后台流量小，限额收紧
	r := router.NewAdminEngine(log, a.Services, router.Limits{RPS: 50, Burst: 100, Concurrency: 50})

	errLog, _ := logger.ToStdLogger(log, zapcore.ErrorLevel)
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second, errLog)

	// 启动前打印可点击地址
	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	if err := server.ServeUntilSignal(srv, log, 10*time.Second); err != nil {
		log.Error("admin api stopped with error", zap.Error(err))
		return err
	}
	log.Info("admin api stopped gracefully")
	return nil
}
