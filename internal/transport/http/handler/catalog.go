package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/core/errs"
	"storefront/internal/domain"
	"storefront/internal/service"
	"storefront/internal/transport/http/ez"
)

// CatalogHandler 分类与商品；读接口匿名可访问
type CatalogHandler struct {
	svc *service.CatalogService
	log *zap.Logger
}

func NewCatalogHandler(svc *service.CatalogService, l *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, log: l}
}

func (h *CatalogHandler) Priority() int { return 20 }

type categoryIn struct {
	Title string `json:"title" binding:"required,max=200"`
	Slug  string `json:"slug"  binding:"required,max=200"`
}

type categoryPatch struct {
	Title *string `json:"title" binding:"omitempty,min=1,max=200"`
	Slug  *string `json:"slug"  binding:"omitempty,min=1,max=200"`
}

// productsQ 价格先按字符串接收，自行解析成 decimal
type productsQ struct {
	MinPrice    *string `form:"min_price"`
	MaxPrice    *string `form:"max_price"`
	Title       string  `form:"title"`
	Description string  `form:"description"`
}

type productIn struct {
	Title       string           `json:"title"       binding:"required,max=200"`
	Category    string           `json:"category"    binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"       binding:"required"`
	Image       string           `json:"image"       binding:"omitempty,max=255"`
}

type productPatch struct {
	Title       *string          `json:"title"       binding:"omitempty,min=1,max=200"`
	Category    *string          `json:"category"    binding:"omitempty,min=1"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"       binding:"omitempty,max=255"`
}

func parsePrice(name string, raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, errs.Unprocessable(name+" must be a decimal number", err)
	}
	return &d, nil
}

func (q *productsQ) filter() (domain.ProductFilter, error) {
	f := domain.ProductFilter{Title: q.Title, Description: q.Description}
	var err error
	if f.MinPrice, err = parsePrice("min_price", q.MinPrice); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePrice("max_price", q.MaxPrice); err != nil {
		return f, err
	}
	return f, nil
}

func (h *CatalogHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	// ---------- categories ----------
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *auth.Principal, _ *struct{}) ([]domain.Category, error) {
			return h.svc.ListCategories(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Category]{
		Method: http.MethodGet,
		Path:   "/categories/:slug",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *auth.Principal, _ *struct{}) (*domain.Category, error) {
			return h.svc.GetCategory(c.Request.Context(), c.Param("slug"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/categories/:slug/products",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *auth.Principal, _ *struct{}) ([]domain.Product, error) {
			return h.svc.ListCategoryProducts(c.Request.Context(), c.Param("slug"))
		},
	})

	ez.RegisterAction(e, ez.Action[categoryIn, *domain.Category]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, p *auth.Principal, in *categoryIn) (*domain.Category, error) {
			return h.svc.CreateCategory(c.Request.Context(), p, service.CategoryInput{Title: in.Title, Slug: in.Slug})
		},
	})

	ez.RegisterAction(e, ez.Action[categoryPatch, *domain.Category]{
		Method: http.MethodPatch,
		Path:   "/categories/:slug",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, in *categoryPatch) (*domain.Category, error) {
			return h.svc.UpdateCategory(c.Request.Context(), p, c.Param("slug"), service.CategoryPatch{Title: in.Title, Slug: in.Slug})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/categories/:slug",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) (gin.H, error) {
			slug := c.Param("slug")
			if err := h.svc.DeleteCategory(c.Request.Context(), p, slug); err != nil {
				return nil, err
			}
			return gin.H{"slug": slug}, nil
		},
	})

	// ---------- products ----------
	ez.RegisterAction(e, ez.Action[productsQ, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, _ *auth.Principal, in *productsQ) ([]domain.Product, error) {
			f, err := in.filter()
			if err != nil {
				return nil, err
			}
			return h.svc.ListProducts(c.Request.Context(), f)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *auth.Principal, _ *struct{}) (*domain.Product, error) {
			id, err := ez.ParamUint(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.GetProduct(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[productIn, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, p *auth.Principal, in *productIn) (*domain.Product, error) {
			return h.svc.CreateProduct(c.Request.Context(), p, service.ProductInput{
				Title:       in.Title,
				Category:    in.Category,
				Description: in.Description,
				Price:       *in.Price,
				Image:       in.Image,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[productPatch, *domain.Product]{
		Method: http.MethodPatch,
		Path:   "/products/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, in *productPatch) (*domain.Product, error) {
			id, err := ez.ParamUint(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.UpdateProduct(c.Request.Context(), p, id, service.ProductPatch{
				Title:       in.Title,
				Category:    in.Category,
				Description: in.Description,
				Price:       in.Price,
				Image:       in.Image,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamUint(c, "id")
			if err != nil {
				return nil, err
			}
			if err := h.svc.DeleteProduct(c.Request.Context(), p, id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
