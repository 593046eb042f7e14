package router

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"storefront/internal/service"
	"storefront/internal/transport/http/handler"
)

// Services 两个引擎共用的服务集合
type Services struct {
	Accounts *service.AccountService
	Catalog  *service.CatalogService
	Wishlist *service.WishlistService
	Orders   *service.OrderService
}

// Limits 传输层保护参数；零值取默认
type Limits struct {
	RPS         rate.Limit
	Burst       int
	Concurrency int64
	QueueWait   time.Duration
	MaxBody     int64
	Timeout     time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.RPS <= 0 {
		l.RPS = 200
	}
	if l.Burst <= 0 {
		l.Burst = 400
	}
	if l.Concurrency <= 0 {
		l.Concurrency = 300
	}
	if l.QueueWait <= 0 {
		l.QueueWait = 2 * time.Second
	}
	if l.MaxBody <= 0 {
		l.MaxBody = 16 << 20
	}
	if l.Timeout <= 0 {
		l.Timeout = 10 * time.Second
	}
	return l
}

func (s Services) registry(l *zap.Logger) *Registry {
	return NewRegistry(
		handler.NewAccountHandler(s.Accounts, l),
		handler.NewCatalogHandler(s.Catalog, l),
		handler.NewWishlistHandler(s.Wishlist, l),
		handler.NewOrderHandler(s.Orders, l),
	)
}
