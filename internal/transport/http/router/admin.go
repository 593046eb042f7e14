package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "storefront/internal/transport/http/middleware"
)

// NewAdminEngine 后台 /admin/v1，各接口在服务层要求 staff
func NewAdminEngine(l *zap.Logger, svc Services, lim Limits) *gin.Engine {
	r := baseEngine(l, lim)

	admin := r.Group("/admin/v1", mdw.Authenticate(svc.Accounts))
	svc.registry(l).MountAllAdmin(admin)
	return r
}
