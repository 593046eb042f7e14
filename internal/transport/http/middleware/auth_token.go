package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/core/auth"
	"storefront/internal/core/errs"
	resp "storefront/internal/transport/http/response"
)

const keyPrincipal = "principal"

// Authenticator 由账号服务实现
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

// Authenticate 解析 Authorization 头：没有凭证按匿名放行，凭证无效直接 401
// 接受 "Bearer <t>" 与 "Token <t>" 两种写法
func Authenticate(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearer(c.GetHeader("Authorization"))
		if tok == "" {
			c.Next()
			return
		}
		p, err := a.Authenticate(c.Request.Context(), tok)
		if err != nil {
			code := errs.CodeOf(err)
			if code == resp.CodeServerError {
				_ = c.Error(err)
				resp.Abort(c, code, "")
				return
			}
			resp.Abort(c, code, err.Error())
			return
		}
		c.Set(keyPrincipal, p)
		c.Next()
	}
}

func bearer(h string) string {
	h = strings.TrimSpace(h)
	for _, scheme := range []string{"Bearer ", "Token "} {
		if len(h) > len(scheme) && strings.EqualFold(h[:len(scheme)], scheme) {
			return strings.TrimSpace(h[len(scheme):])
		}
	}
	return ""
}

// PrincipalFrom 匿名请求返回 nil
func PrincipalFrom(c *gin.Context) *auth.Principal {
	v, ok := c.Get(keyPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}

func SetPrincipal(c *gin.Context, p *auth.Principal) { c.Set(keyPrincipal, p) }
