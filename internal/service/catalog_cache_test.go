package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/core/cache"
	"storefront/internal/domain"
	"storefront/internal/repo"
	"storefront/internal/repo/repotest"
)

// CatalogCacheSuite 目录服务接真实 redis 协议（miniredis）
type CatalogCacheSuite struct {
	suite.Suite
	ctx     context.Context
	mr      *miniredis.Miniredis
	store   *repo.Store
	catalog *CatalogService
	manager *auth.Principal
	cat     *domain.Category
}

func TestCatalogCacheSuite(t *testing.T) {
	suite.Run(t, new(CatalogCacheSuite))
}

func (s *CatalogCacheSuite) SetupTest() {
	s.ctx = context.Background()
	s.mr = miniredis.RunT(s.T())
	c := cache.New(s.mr.Addr(), "", 0)
	s.T().Cleanup(func() { _ = c.Close() })

	s.store = repo.NewStore(repotest.NewDB(s.T()))
	s.catalog = NewCatalogService(s.store, c, time.Hour, zap.NewNop())

	u := &domain.User{Username: "mia", PasswordHash: "x"}
	require.NoError(s.T(), s.store.Users.Create(s.ctx, u))
	s.manager = &auth.Principal{UserID: u.ID, Username: u.Username, Groups: []string{auth.GroupManager}}

	s.cat = &domain.Category{Title: "TV", Slug: "tv"}
	require.NoError(s.T(), s.store.Catalog.CreateCategory(s.ctx, s.cat))
}

func (s *CatalogCacheSuite) cached(key string) bool {
	return s.mr.Exists("storefront:" + key)
}

func (s *CatalogCacheSuite) createProduct(title string) *domain.Product {
	pr, err := s.catalog.CreateProduct(s.ctx, s.manager, ProductInput{
		Title: title, Category: "tv", Price: decimal.RequireFromString("100.00"),
	})
	require.NoError(s.T(), err)
	return pr
}

func (s *CatalogCacheSuite) TestMissBeforeCreateDoesNotHideProduct() {
	_, err := s.catalog.GetProduct(s.ctx, 1)
	require.Error(s.T(), err)
	require.False(s.T(), s.cached(keyProduct(1)))

	pr := s.createProduct("QLED")
	require.Equal(s.T(), uint(1), pr.ID)

	got, err := s.catalog.GetProduct(s.ctx, pr.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "QLED", got.Title)
}

func (s *CatalogCacheSuite) TestGetProductReadsThrough() {
	pr := s.createProduct("QLED")
	_, err := s.catalog.GetProduct(s.ctx, pr.ID)
	require.NoError(s.T(), err)
	require.True(s.T(), s.cached(keyProduct(pr.ID)))

	// 绕过服务直接改库，缓存命中期间仍返回旧值
	pr.Title = "changed behind the cache"
	require.NoError(s.T(), s.store.Catalog.SaveProduct(s.ctx, pr))
	got, err := s.catalog.GetProduct(s.ctx, pr.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "QLED", got.Title)
}

func (s *CatalogCacheSuite) TestUpdateProductInvalidates() {
	pr := s.createProduct("QLED")
	_, err := s.catalog.GetProduct(s.ctx, pr.ID)
	require.NoError(s.T(), err)

	title := "Neo QLED"
	price := decimal.RequireFromString("120.50")
	_, err = s.catalog.UpdateProduct(s.ctx, s.manager, pr.ID, ProductPatch{Title: &title, Price: &price})
	require.NoError(s.T(), err)
	require.False(s.T(), s.cached(keyProduct(pr.ID)))

	got, err := s.catalog.GetProduct(s.ctx, pr.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Neo QLED", got.Title)
	require.True(s.T(), price.Equal(got.Price))
}

func (s *CatalogCacheSuite) TestDeleteProductInvalidates() {
	pr := s.createProduct("QLED")
	_, err := s.catalog.GetProduct(s.ctx, pr.ID)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.catalog.DeleteProduct(s.ctx, s.manager, pr.ID))
	require.False(s.T(), s.cached(keyProduct(pr.ID)))

	_, err = s.catalog.GetProduct(s.ctx, pr.ID)
	require.Error(s.T(), err)
}

func (s *CatalogCacheSuite) TestCategoryWritesInvalidateList() {
	cs, err := s.catalog.ListCategories(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), cs, 1)
	require.True(s.T(), s.cached(keyCategories))

	_, err = s.catalog.CreateCategory(s.ctx, s.manager, CategoryInput{Title: "Phones", Slug: "phones"})
	require.NoError(s.T(), err)
	require.False(s.T(), s.cached(keyCategories))
	cs, err = s.catalog.ListCategories(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), cs, 2)

	require.NoError(s.T(), s.catalog.DeleteCategory(s.ctx, s.manager, "phones"))
	cs, err = s.catalog.ListCategories(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), cs, 1)
}

func (s *CatalogCacheSuite) TestUpdateCategoryInvalidatesEmbeddedProducts() {
	pr := s.createProduct("QLED")
	got, err := s.catalog.GetProduct(s.ctx, pr.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "TV", got.Category.Title)
	_, err = s.catalog.ListCategories(s.ctx)
	require.NoError(s.T(), err)

	title := "Televisions"
	_, err = s.catalog.UpdateCategory(s.ctx, s.manager, "tv", CategoryPatch{Title: &title})
	require.NoError(s.T(), err)
	require.False(s.T(), s.cached(keyCategories))
	require.False(s.T(), s.cached(keyProduct(pr.ID)))

	got, err = s.catalog.GetProduct(s.ctx, pr.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Televisions", got.Category.Title)

	cs, err := s.catalog.ListCategories(s.ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Televisions", cs[0].Title)
}
