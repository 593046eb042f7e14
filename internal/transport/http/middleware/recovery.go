package middleware

import (
	"github.com/gin-gonic/gin"

	resp "storefront/internal/transport/http/response"
)

// RecoveryEnvelope 交给 ginzap.CustomRecoveryWithZap：panic 已被记录，这里只负责回包
func RecoveryEnvelope(c *gin.Context, _ any) {
	resp.Abort(c, resp.CodeServerError, "internal error")
}
