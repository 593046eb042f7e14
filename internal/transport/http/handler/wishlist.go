package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/domain"
	"storefront/internal/service"
	"storefront/internal/transport/http/ez"
)

type WishlistHandler struct {
	svc *service.WishlistService
	log *zap.Logger
}

func NewWishlistHandler(svc *service.WishlistService, l *zap.Logger) *WishlistHandler {
	return &WishlistHandler{svc: svc, log: l}
}

func (h *WishlistHandler) Priority() int { return 30 }

type wishlistAddIn struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  *int `json:"quantity"   binding:"omitempty,min=1"`
}

type decrementOut struct {
	Removed bool                 `json:"removed"`
	Item    *domain.WishlistItem `json:"item,omitempty"`
}

func (h *WishlistHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g.Group("/wishlist"), h.log)

	ez.RegisterAction(e, ez.Action[struct{}, []domain.WishlistItem]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) ([]domain.WishlistItem, error) {
			return h.svc.List(c.Request.Context(), p)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.WishlistItem]{
		Method: http.MethodGet,
		Path:   "/user/:user_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) ([]domain.WishlistItem, error) {
			uid, err := ez.ParamUint(c, "user_id")
			if err != nil {
				return nil, err
			}
			return h.svc.ListForUser(c.Request.Context(), p, uid)
		},
	})

	ez.RegisterAction(e, ez.Action[wishlistAddIn, *domain.WishlistItem]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, p *auth.Principal, in *wishlistAddIn) (*domain.WishlistItem, error) {
			qty := 1
			if in.Quantity != nil {
				qty = *in.Quantity
			}
			return h.svc.AddItem(c.Request.Context(), p, in.ProductID, qty)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/:product_id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) (gin.H, error) {
			pid, err := ez.ParamUint(c, "product_id")
			if err != nil {
				return nil, err
			}
			if err := h.svc.RemoveItem(c.Request.Context(), p, pid); err != nil {
				return nil, err
			}
			return gin.H{"productId": pid}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, decrementOut]{
		Method: http.MethodDelete,
		Path:   "/:product_id/decrement",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) (decrementOut, error) {
			pid, err := ez.ParamUint(c, "product_id")
			if err != nil {
				return decrementOut{}, err
			}
			it, err := h.svc.DecrementItem(c.Request.Context(), p, pid)
			if err != nil {
				return decrementOut{}, err
			}
			return decrementOut{Removed: it == nil, Item: it}, nil
		},
	})
}
