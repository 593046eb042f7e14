package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/core/server"
	mdw "storefront/internal/transport/http/middleware"
)

func baseEngine(l *zap.Logger, lim Limits) *gin.Engine {
	lim = lim.withDefaults()
	r := server.NewRouter(l, mdw.RecoveryEnvelope)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.Metrics(),
		mdw.RateLimit(lim.RPS, lim.Burst),
		mdw.ConcurrencyLimit(lim.Concurrency, lim.QueueWait),
		mdw.MaxBodyBytes(lim.MaxBody),
		mdw.Timeout(lim.Timeout),
	)
	server.MountOps(r)
	return r
}

// NewAPIEngine 用户侧 /api/v1
func NewAPIEngine(l *zap.Logger, svc Services, lim Limits) *gin.Engine {
	r := baseEngine(l, lim)

	api := r.Group("/api/v1", mdw.Authenticate(svc.Accounts))
	svc.registry(l).MountAllAPI(api)
	return r
}
