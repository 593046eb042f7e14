// Package ez 一行注册一个动作接口：绑定入参、取当前用户、调用处理器、统一回包
package ez

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/core/errs"
	mdw "storefront/internal/transport/http/middleware"
	resp "storefront/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 绑定方式
type Binder string

const (
	BindJSON      Binder = "json"       // 从 JSON 绑定
	BindQuery     Binder = "query"      // 从 URL ?a=b 绑定
	BindQueryJSON Binder = "query+json" // 先 query，有请求体再叠加 JSON
	BindNone      Binder = "none"       // 不绑定，自己从 c.Param 取
)

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "PATCH" | "DELETE"
	Path    string // 例："/auth/login"、"/orders/:id/status"
	Binder  Binder
	Auth    bool // 要求登录；角色校验在服务层
	Status  int  // 成功时的 HTTP 状态码，默认 200
	Handler func(c *gin.Context, p *auth.Principal, in *I) (O, error)
}

func bind[I any](c *gin.Context, b Binder, in *I) error {
	switch b {
	case BindJSON:
		return c.ShouldBindJSON(in)
	case BindQuery:
		return c.ShouldBindQuery(in)
	case BindQueryJSON:
		if err := c.ShouldBindQuery(in); err != nil {
			return err
		}
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			return nil
		}
		if err := c.ShouldBindJSON(in); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	return nil
}

// Fail 把错误写成统一回包；非 AErr 一律 500 并记录
func (e EZ) Fail(c *gin.Context, err error) {
	var ae *errs.AErr
	if errors.As(err, &ae) {
		if ae.Code >= http.StatusInternalServerError {
			e.log.Error("action failed",
				zap.String("rid", c.GetString(mdw.KeyRequestID)),
				zap.String("path", c.FullPath()),
				zap.String("msg", ae.Msg),
				zap.Error(ae.Err),
			)
		}
		resp.Abort(c, ae.Code, ae.Msg)
		return
	}
	e.log.Error("action failed",
		zap.String("rid", c.GetString(mdw.KeyRequestID)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	_ = c.Error(err)
	resp.Abort(c, resp.CodeServerError, "")
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 登录
		p := mdw.PrincipalFrom(c)
		if a.Auth && p == nil {
			resp.Abort(c, resp.CodeUnauthorized, "authentication required")
			return
		}

		// 2) 绑定入参；结构/类型不合法一律 422
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				resp.Abort(c, resp.CodeTooLarge, "request body too large")
				return
			}
			resp.Abort(c, resp.CodeUnprocessable, err.Error())
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, p, &in)
		if err != nil {
			e.Fail(c, err)
			return
		}
		resp.Success(c, a.Status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// ParamUint 读取路径上的数字 id，非法返回 422
func ParamUint(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, errs.Unprocessable(name+" must be a positive integer", err)
	}
	return uint(v), nil
}
