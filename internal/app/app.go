// Package app 组装两个入口共用的依赖：数据库、缓存、服务
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/core/auth"
	"storefront/internal/core/cache"
	"storefront/internal/core/config"
	"storefront/internal/core/database"
	"storefront/internal/core/logger"
	"storefront/internal/repo"
	"storefront/internal/service"
	"storefront/internal/transport/http/router"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Cache    *cache.Cache
	Services router.Services
}

func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := database.NewGorm(ctx, database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(ctx, db, cfg.Seed.OrderStatuses); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done", zap.Strings("order_statuses", cfg.Seed.OrderStatuses))
	}

	a := &App{Cfg: cfg, Log: l, DB: db}
	a.Cache = openCache(ctx, cfg, l)

	store := repo.NewStore(db)
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	a.Services = router.Services{
		Accounts: service.NewAccountService(store, jwter, l),
		Catalog:  service.NewCatalogService(store, a.Cache, time.Duration(cfg.Cache.CatalogTTLSec)*time.Second, l),
		Wishlist: service.NewWishlistService(store, l),
		Orders:   service.NewOrderService(store, cfg.Order.InitialStatus, l),
	}

	if cfg.Seed.StaffUsername != "" {
		if err := a.Services.Accounts.EnsureStaff(ctx, cfg.Seed.StaffUsername, cfg.Seed.StaffPassword); err != nil {
			return nil, fmt.Errorf("seed staff: %w", err)
		}
		l.Info("staff account ready", zap.String("username", cfg.Seed.StaffUsername))
	}
	return a, nil
}

// openCache 未配置或连不上 redis 时返回 nil，目录读直接回源
func openCache(ctx context.Context, cfg *config.Config, l *zap.Logger) *cache.Cache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		l.Warn("redis unavailable, catalog cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	return c
}

func (a *App) Close() {
	_ = a.Cache.Close()
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// LogOptions 把配置里的 log 段映射成 logger.Options，service 区分 api / admin 进程
func LogOptions(cfg *config.Config, service string) logger.Options {
	return logger.Options{
		Service:     service,
		Level:       cfg.Log.Level,
		Sampling:    cfg.Log.Sampling,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}
}
