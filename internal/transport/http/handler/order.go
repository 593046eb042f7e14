package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/core/errs"
	"storefront/internal/domain"
	"storefront/internal/service"
	"storefront/internal/transport/http/ez"
)

type OrderHandler struct {
	svc *service.OrderService
	log *zap.Logger
}

func NewOrderHandler(svc *service.OrderService, l *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: l}
}

func (h *OrderHandler) Priority() int { return 40 }

// statusIn status_id 可放在 JSON 体里，也可放在 query 上
type statusIn struct {
	StatusID *uint `json:"status_id" form:"status_id"`
}

func (h *OrderHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g.Group("/orders"), h.log)

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Order]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) ([]domain.Order, error) {
			return h.svc.ListAll(c.Request.Context(), p)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Order]{
		Method: http.MethodGet,
		Path:   "/my",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) ([]domain.Order, error) {
			return h.svc.ListMine(c.Request.Context(), p)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.OrderStatus]{
		Method: http.MethodGet,
		Path:   "/statuses",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) ([]domain.OrderStatus, error) {
			return h.svc.ListStatuses(c.Request.Context(), p)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Order]{
		Method: http.MethodGet,
		Path:   "/user/:user_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) ([]domain.Order, error) {
			uid, err := ez.ParamUint(c, "user_id")
			if err != nil {
				return nil, err
			}
			return h.svc.ListForUser(c.Request.Context(), p, uid)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Order]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindNone,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) (*domain.Order, error) {
			return h.svc.CreateFromWishlist(c.Request.Context(), p)
		},
	})

	ez.RegisterAction(e, ez.Action[statusIn, *domain.Order]{
		Method: http.MethodPut,
		Path:   "/:id/status",
		Binder: ez.BindQueryJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, in *statusIn) (*domain.Order, error) {
			id, err := ez.ParamUint(c, "id")
			if err != nil {
				return nil, err
			}
			if in.StatusID == nil {
				return nil, errs.Unprocessable("status_id is required", nil)
			}
			return h.svc.UpdateStatus(c.Request.Context(), p, id, *in.StatusID)
		},
	})
}
