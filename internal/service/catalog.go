package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/core/cache"
	"storefront/internal/core/errs"
	"storefront/internal/domain"
	"storefront/internal/repo"
)

const keyCategories = "catalog:categories"

func keyProduct(id uint) string { return "catalog:product:" + strconv.FormatUint(uint64(id), 10) }

// CatalogService 读走可选缓存，写操作后失效相关 key
type CatalogService struct {
	store *repo.Store
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCatalogService(store *repo.Store, c *cache.Cache, ttl time.Duration, log *zap.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CatalogService{store: store, cache: c, ttl: ttl, log: log}
}

type CategoryInput struct {
	Title string
	Slug  string
}

type CategoryPatch struct {
	Title *string
	Slug  *string
}

type ProductInput struct {
	Title       string
	Category    string
	Description string
	Price       decimal.Decimal
	Image       string
}

type ProductPatch struct {
	Title       *string
	Category    *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.log.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func validPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return errs.BadRequest("price must not be negative")
	}
	if !p.Equal(p.Round(2)) {
		return errs.BadRequest("price has more than 2 decimal places")
	}
	return nil
}

// ---------- categories ----------

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out, err := cache.GetOrLoadJSON(s.cache, ctx, keyCategories, s.ttl, func(ctx context.Context) (*[]domain.Category, error) {
		cs, err := s.store.Catalog.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		return &cs, nil
	})
	if err != nil {
		return nil, errs.Internal("list categories failed", err)
	}
	if out == nil {
		return []domain.Category{}, nil
	}
	return *out, nil
}

func (s *CatalogService) category(ctx context.Context, st *repo.Store, slug string) (*domain.Category, error) {
	c, err := st.Catalog.FindCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, errs.Internal("db error", err)
	}
	if c == nil {
		return nil, errs.NotFound("category not found")
	}
	return c, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	return s.category(ctx, s.store, slug)
}

func (s *CatalogService) ListCategoryProducts(ctx context.Context, slug string) ([]domain.Product, error) {
	c, err := s.category(ctx, s.store, slug)
	if err != nil {
		return nil, err
	}
	ps, err := s.store.Catalog.ListProductsByCategory(ctx, c.ID)
	if err != nil {
		return nil, errs.Internal("list products failed", err)
	}
	return ps, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, p *auth.Principal, in CategoryInput) (*domain.Category, error) {
	if err := authorize(p, auth.CapManager); err != nil {
		return nil, err
	}
	c := &domain.Category{Title: strings.TrimSpace(in.Title), Slug: strings.TrimSpace(in.Slug)}
	if c.Title == "" || c.Slug == "" {
		return nil, errs.BadRequest("title and slug are required")
	}
	if err := s.store.Catalog.CreateCategory(ctx, c); err != nil {
		if repo.IsDupKey(err) {
			return nil, errs.BadRequest("category slug already exists")
		}
		return nil, errs.Internal("create category failed", err)
	}
	s.invalidate(ctx, keyCategories)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, p *auth.Principal, slug string, in CategoryPatch) (*domain.Category, error) {
	if err := authorize(p, auth.CapManager); err != nil {
		return nil, err
	}
	c, err := s.category(ctx, s.store, slug)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if c.Title = strings.TrimSpace(*in.Title); c.Title == "" {
			return nil, errs.BadRequest("title must not be empty")
		}
	}
	if in.Slug != nil {
		if c.Slug = strings.TrimSpace(*in.Slug); c.Slug == "" {
			return nil, errs.BadRequest("slug must not be empty")
		}
	}
	if err := s.store.Catalog.SaveCategory(ctx, c); err != nil {
		if repo.IsDupKey(err) {
			return nil, errs.BadRequest("category slug already exists")
		}
		return nil, errs.Internal("update category failed", err)
	}

	// 商品详情缓存里内嵌了分类
	keys := []string{keyCategories}
	if ps, err := s.store.Catalog.ListProductsByCategory(ctx, c.ID); err == nil {
		for _, pr := range ps {
			keys = append(keys, keyProduct(pr.ID))
		}
	}
	s.invalidate(ctx, keys...)
	return c, nil
}

// DeleteCategory 仍有商品时拒绝删除
func (s *CatalogService) DeleteCategory(ctx context.Context, p *auth.Principal, slug string) error {
	if err := authorize(p, auth.CapManager); err != nil {
		return err
	}
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		c, err := s.category(ctx, tx, slug)
		if err != nil {
			return err
		}
		n, err := tx.Catalog.CountProducts(ctx, c.ID)
		if err != nil {
			return errs.Internal("db error", err)
		}
		if n > 0 {
			return errs.BadRequest("category still has products")
		}
		if _, err := tx.Catalog.DeleteCategory(ctx, c.ID); err != nil {
			return errs.Internal("delete category failed", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, keyCategories)
	return nil
}

// ---------- products ----------

func (s *CatalogService) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	ps, err := s.store.Catalog.ListProducts(ctx, f)
	if err != nil {
		return nil, errs.Internal("list products failed", err)
	}
	return ps, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	pr, err := cache.GetOrLoadJSON(s.cache, ctx, keyProduct(id), s.ttl, func(ctx context.Context) (*domain.Product, error) {
		return s.store.Catalog.FindProduct(ctx, id)
	})
	if err != nil {
		return nil, errs.Internal("db error", err)
	}
	if pr == nil {
		return nil, errs.NotFound("product not found")
	}
	return pr, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *auth.Principal, in ProductInput) (*domain.Product, error) {
	if err := authorize(p, auth.CapManager); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errs.BadRequest("title is required")
	}
	if err := validPrice(in.Price); err != nil {
		return nil, err
	}
	c, err := s.category(ctx, s.store, strings.TrimSpace(in.Category))
	if err != nil {
		return nil, err
	}
	pr := &domain.Product{
		Title:       title,
		CategoryID:  c.ID,
		Description: in.Description,
		Price:       in.Price,
		Image:       strings.TrimSpace(in.Image),
	}
	if err := s.store.Catalog.CreateProduct(ctx, pr); err != nil {
		return nil, errs.Internal("create product failed", err)
	}
	pr.Category = c
	s.invalidate(ctx, keyProduct(pr.ID))
	return pr, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *auth.Principal, id uint, in ProductPatch) (*domain.Product, error) {
	if err := authorize(p, auth.CapManager); err != nil {
		return nil, err
	}
	pr, err := s.store.Catalog.FindProduct(ctx, id)
	if err != nil {
		return nil, errs.Internal("db error", err)
	}
	if pr == nil {
		return nil, errs.NotFound("product not found")
	}
	if in.Title != nil {
		if pr.Title = strings.TrimSpace(*in.Title); pr.Title == "" {
			return nil, errs.BadRequest("title must not be empty")
		}
	}
	if in.Description != nil {
		pr.Description = *in.Description
	}
	if in.Image != nil {
		pr.Image = strings.TrimSpace(*in.Image)
	}
	if in.Price != nil {
		if err := validPrice(*in.Price); err != nil {
			return nil, err
		}
		pr.Price = *in.Price
	}
	if in.Category != nil {
		c, err := s.category(ctx, s.store, strings.TrimSpace(*in.Category))
		if err != nil {
			return nil, err
		}
		pr.CategoryID = c.ID
		pr.Category = c
	}
	if err := s.store.Catalog.SaveProduct(ctx, pr); err != nil {
		return nil, errs.Internal("update product failed", err)
	}
	s.invalidate(ctx, keyProduct(id))
	return pr, nil
}

// DeleteProduct 同一事务内清理心愿单并断开历史订单明细的引用，明细金额保留
func (s *CatalogService) DeleteProduct(ctx context.Context, p *auth.Principal, id uint) error {
	if err := authorize(p, auth.CapManager); err != nil {
		return err
	}
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		if err := tx.Wishlist.DeleteByProduct(ctx, id); err != nil {
			return errs.Internal("delete wishlist lines failed", err)
		}
		if err := tx.Orders.DetachProduct(ctx, id); err != nil {
			return errs.Internal("detach order items failed", err)
		}
		n, err := tx.Catalog.DeleteProduct(ctx, id)
		if err != nil {
			return errs.Internal("delete product failed", err)
		}
		if n == 0 {
			return errs.NotFound("product not found")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, keyProduct(id))
	return nil
}
