package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/core/auth"
	"storefront/internal/core/errs"
	"storefront/internal/domain"
	"storefront/internal/repo"
	"storefront/internal/repo/repotest"
)

type ServiceSuite struct {
	suite.Suite
	ctx context.Context
	db  *gorm.DB

	store    *repo.Store
	accounts *AccountService
	catalog  *CatalogService
	wishlist *WishlistService
	orders   *OrderService

	alice   *auth.Principal
	manager *auth.Principal
	staff   *auth.Principal
	cat     *domain.Category
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = repotest.NewDB(s.T())
	s.store = repo.NewStore(s.db)
	log := zap.NewNop()

	s.accounts = NewAccountService(s.store, &auth.JWTer{Secret: []byte("test-secret"), Issuer: "storefront"}, log)
	s.catalog = NewCatalogService(s.store, nil, 0, log)
	s.wishlist = NewWishlistService(s.store, log)
	s.orders = NewOrderService(s.store, "New", log)

	s.alice = s.principal("alice", false)
	s.manager = s.principal("mia", false)
	require.NoError(s.T(), s.store.Users.AddToGroup(s.ctx, s.manager.UserID, auth.GroupManager))
	s.manager.Groups = []string{auth.GroupManager}
	s.staff = s.principal("root", true)

	s.cat = &domain.Category{Title: "TV", Slug: "tv"}
	require.NoError(s.T(), s.store.Catalog.CreateCategory(s.ctx, s.cat))
}

func (s *ServiceSuite) principal(username string, staff bool) *auth.Principal {
	u := &domain.User{Username: username, PasswordHash: "x", IsStaff: staff}
	require.NoError(s.T(), s.store.Users.Create(s.ctx, u))
	return &auth.Principal{UserID: u.ID, Username: username, IsStaff: staff}
}

func (s *ServiceSuite) product(title, price string) *domain.Product {
	p := &domain.Product{Title: title, CategoryID: s.cat.ID, Price: decimal.RequireFromString(price)}
	require.NoError(s.T(), s.store.Catalog.CreateProduct(s.ctx, p))
	return p
}

func (s *ServiceSuite) requireCode(err error, code int) {
	s.T().Helper()
	require.Error(s.T(), err)
	require.Equal(s.T(), code, errs.CodeOf(err), err.Error())
}

// ---------- accounts ----------

func (s *ServiceSuite) TestRegisterLoginReuseToken() {
	tok, err := s.accounts.Register(s.ctx, RegisterInput{Username: "bob", Password: "pw-123456"})
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), tok)

	again, err := s.accounts.Login(s.ctx, "bob", "pw-123456")
	require.NoError(s.T(), err)
	require.Equal(s.T(), tok, again)

	p, err := s.accounts.Authenticate(s.ctx, tok)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "bob", p.Username)
	require.False(s.T(), p.IsManager())
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_, err := s.accounts.Register(s.ctx, RegisterInput{Username: "alice", Password: "pw"})
	s.requireCode(err, 400)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, err := s.accounts.Register(s.ctx, RegisterInput{Username: "bob", Password: "right"})
	require.NoError(s.T(), err)

	_, err = s.accounts.Login(s.ctx, "bob", "wrong")
	s.requireCode(err, 401)
	_, err = s.accounts.Login(s.ctx, "nobody", "wrong")
	s.requireCode(err, 401)
}

func (s *ServiceSuite) TestAuthenticateRejectsUnknownToken() {
	_, err := s.accounts.Authenticate(s.ctx, "")
	s.requireCode(err, 401)
	_, err = s.accounts.Authenticate(s.ctx, "garbage")
	s.requireCode(err, 401)

	// 签名有效但不在 token 表中
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "storefront"}
	tok, err := j.Issue(s.alice.UserID)
	require.NoError(s.T(), err)
	_, err = s.accounts.Authenticate(s.ctx, tok)
	s.requireCode(err, 401)
}

func (s *ServiceSuite) TestLoginRotatesExpiredToken() {
	_, err := s.accounts.Register(s.ctx, RegisterInput{Username: "bob", Password: "pw-123456"})
	require.NoError(s.T(), err)
	u, err := s.store.Users.FindByUsername(s.ctx, "bob")
	require.NoError(s.T(), err)

	// 库里只剩一个两小时前已过期的 token
	require.NoError(s.T(), s.store.Tokens.DeleteByUser(s.ctx, u.ID))
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "storefront",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.store.Tokens.Create(s.ctx, &domain.AuthToken{Key: expired, UserID: u.ID}))
	_, err = s.accounts.Authenticate(s.ctx, expired)
	s.requireCode(err, 401)

	fresh, err := s.accounts.Login(s.ctx, "bob", "pw-123456")
	require.NoError(s.T(), err)
	require.NotEqual(s.T(), expired, fresh)

	p, err := s.accounts.Authenticate(s.ctx, fresh)
	require.NoError(s.T(), err)
	require.Equal(s.T(), u.ID, p.UserID)

	old, err := s.store.Tokens.FindByKey(s.ctx, expired)
	require.NoError(s.T(), err)
	require.Nil(s.T(), old)

	again, err := s.accounts.Login(s.ctx, "bob", "pw-123456")
	require.NoError(s.T(), err)
	require.Equal(s.T(), fresh, again)
}

func (s *ServiceSuite) TestLogoutRevokesToken() {
	tok, err := s.accounts.Register(s.ctx, RegisterInput{Username: "bob", Password: "pw"})
	require.NoError(s.T(), err)
	p, err := s.accounts.Authenticate(s.ctx, tok)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.accounts.Logout(s.ctx, p))
	_, err = s.accounts.Authenticate(s.ctx, tok)
	s.requireCode(err, 401)
}

func (s *ServiceSuite) TestManagerRequestFlow() {
	m, err := s.accounts.RequestManagerRole(s.ctx, s.alice)
	require.NoError(s.T(), err)
	require.Equal(s.T(), domain.ManagerRequestPending, m.Status)

	_, err = s.accounts.RequestManagerRole(s.ctx, s.alice)
	s.requireCode(err, 400)
	require.Equal(s.T(), "already requested", err.Error())

	// 非 staff 审批
	_, err = s.accounts.ApproveManagerRequest(s.ctx, s.manager, m.ID)
	s.requireCode(err, 403)

	got, err := s.accounts.ApproveManagerRequest(s.ctx, s.staff, m.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), domain.ManagerRequestApproved, got.Status)

	in, err := s.store.Users.InGroup(s.ctx, s.alice.UserID, auth.GroupManager)
	require.NoError(s.T(), err)
	require.True(s.T(), in)

	// 再次审批同一申请
	_, err = s.accounts.ApproveManagerRequest(s.ctx, s.staff, m.ID)
	s.requireCode(err, 404)

	// 已是 manager，即便 principal 里还没有组信息
	_, err = s.accounts.RequestManagerRole(s.ctx, s.alice)
	s.requireCode(err, 400)
	require.Equal(s.T(), "already a manager", err.Error())
}

func (s *ServiceSuite) TestApproveMissingRequestGrantsNothing() {
	_, err := s.accounts.ApproveManagerRequest(s.ctx, s.staff, 999)
	s.requireCode(err, 404)

	_, err = s.accounts.ApproveManagerRequest(s.ctx, nil, 999)
	s.requireCode(err, 401)
}

func (s *ServiceSuite) TestListManagerRequests() {
	_, err := s.accounts.RequestManagerRole(s.ctx, s.alice)
	require.NoError(s.T(), err)

	all, err := s.accounts.ListManagerRequests(s.ctx, s.staff, "")
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 1)
	require.Equal(s.T(), "alice", all[0].User.Username)

	approved, err := s.accounts.ListManagerRequests(s.ctx, s.staff, "approved")
	require.NoError(s.T(), err)
	require.Empty(s.T(), approved)

	_, err = s.accounts.ListManagerRequests(s.ctx, s.staff, "rejected")
	s.requireCode(err, 400)
	_, err = s.accounts.ListManagerRequests(s.ctx, s.alice, "")
	s.requireCode(err, 403)
}

func (s *ServiceSuite) TestListUsersRequiresManager() {
	_, err := s.accounts.ListUsers(s.ctx, s.alice)
	s.requireCode(err, 403)

	users, err := s.accounts.ListUsers(s.ctx, s.manager)
	require.NoError(s.T(), err)
	require.Len(s.T(), users, 3)
}

func (s *ServiceSuite) TestEnsureStaff() {
	require.NoError(s.T(), s.accounts.EnsureStaff(s.ctx, "admin", "secret"))
	require.NoError(s.T(), s.accounts.EnsureStaff(s.ctx, "alice", ""))

	for _, name := range []string{"admin", "alice"} {
		u, err := s.store.Users.FindByUsername(s.ctx, name)
		require.NoError(s.T(), err)
		require.True(s.T(), u.IsStaff, name)
	}
	tok, err := s.accounts.Login(s.ctx, "admin", "secret")
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), tok)
}

// ---------- catalog ----------

func (s *ServiceSuite) TestCreateCategoryForbiddenPersistsNothing() {
	_, err := s.catalog.CreateCategory(s.ctx, s.alice, CategoryInput{Title: "Phones", Slug: "phones"})
	s.requireCode(err, 403)

	c, err := s.store.Catalog.FindCategoryBySlug(s.ctx, "phones")
	require.NoError(s.T(), err)
	require.Nil(s.T(), c)
}

func (s *ServiceSuite) TestCategoryLifecycle() {
	c, err := s.catalog.CreateCategory(s.ctx, s.manager, CategoryInput{Title: "Phones", Slug: "phones"})
	require.NoError(s.T(), err)
	require.NotZero(s.T(), c.ID)

	_, err = s.catalog.CreateCategory(s.ctx, s.manager, CategoryInput{Title: "Dup", Slug: "phones"})
	s.requireCode(err, 400)

	title := "Smartphones"
	c, err = s.catalog.UpdateCategory(s.ctx, s.manager, "phones", CategoryPatch{Title: &title})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Smartphones", c.Title)
	require.Equal(s.T(), "phones", c.Slug)

	slug := "tv"
	_, err = s.catalog.UpdateCategory(s.ctx, s.manager, "phones", CategoryPatch{Slug: &slug})
	s.requireCode(err, 400)

	_, err = s.catalog.UpdateCategory(s.ctx, s.manager, "nope", CategoryPatch{Title: &title})
	s.requireCode(err, 404)

	require.NoError(s.T(), s.catalog.DeleteCategory(s.ctx, s.manager, "phones"))
	s.requireCode(s.catalog.DeleteCategory(s.ctx, s.manager, "phones"), 404)

	list, err := s.catalog.ListCategories(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
}

func (s *ServiceSuite) TestDeleteCategoryWithProductsIsRestricted() {
	s.product("QLED", "50000")
	s.requireCode(s.catalog.DeleteCategory(s.ctx, s.manager, "tv"), 400)

	c, err := s.catalog.GetCategory(s.ctx, "tv")
	require.NoError(s.T(), err)
	require.Equal(s.T(), "TV", c.Title)
}

func (s *ServiceSuite) TestForbiddenBeforeNotFound() {
	s.requireCode(s.catalog.DeleteCategory(s.ctx, s.alice, "nope"), 403)
	s.requireCode(s.catalog.DeleteProduct(s.ctx, s.alice, 999), 403)
	_, err := s.orders.UpdateStatus(s.ctx, s.alice, 999, 999)
	s.requireCode(err, 403)
}

func (s *ServiceSuite) TestProductCRUD() {
	_, err := s.catalog.GetProduct(s.ctx, 999)
	s.requireCode(err, 404)

	_, err = s.catalog.CreateProduct(s.ctx, s.manager, ProductInput{Title: "QLED", Category: "tv", Price: decimal.NewFromInt(-1)})
	s.requireCode(err, 400)
	_, err = s.catalog.CreateProduct(s.ctx, s.manager, ProductInput{Title: "QLED", Category: "tv", Price: decimal.RequireFromString("1.999")})
	s.requireCode(err, 400)
	_, err = s.catalog.CreateProduct(s.ctx, s.manager, ProductInput{Title: "QLED", Category: "radio", Price: decimal.NewFromInt(1)})
	s.requireCode(err, 404)

	p, err := s.catalog.CreateProduct(s.ctx, s.manager, ProductInput{
		Title: "QLED", Category: "tv", Description: "65 inch", Price: decimal.RequireFromString("49999.99"),
	})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "tv", p.Category.Slug)

	got, err := s.catalog.GetProduct(s.ctx, p.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "49999.99", got.Price.StringFixed(2))

	price := decimal.NewFromInt(45000)
	radio := "radio"
	_, err = s.catalog.UpdateProduct(s.ctx, s.manager, p.ID, ProductPatch{Category: &radio})
	s.requireCode(err, 404)

	got, err = s.catalog.UpdateProduct(s.ctx, s.manager, p.ID, ProductPatch{Price: &price})
	require.NoError(s.T(), err)
	require.True(s.T(), got.Price.Equal(price))
	require.Equal(s.T(), "65 inch", got.Description)

	_, err = s.catalog.UpdateProduct(s.ctx, s.manager, 999, ProductPatch{Price: &price})
	s.requireCode(err, 404)

	ps, err := s.catalog.ListCategoryProducts(s.ctx, "tv")
	require.NoError(s.T(), err)
	require.Len(s.T(), ps, 1)
	_, err = s.catalog.ListCategoryProducts(s.ctx, "radio")
	s.requireCode(err, 404)
}

func (s *ServiceSuite) TestDeleteProductKeepsOrderHistory() {
	p := s.product("QLED", "100")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 2)
	require.NoError(s.T(), err)
	o, err := s.orders.CreateFromWishlist(s.ctx, s.alice)
	require.NoError(s.T(), err)
	_, err = s.wishlist.AddItem(s.ctx, s.manager, p.ID, 1)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.catalog.DeleteProduct(s.ctx, s.manager, p.ID))
	s.requireCode(s.catalog.DeleteProduct(s.ctx, s.manager, p.ID), 404)

	items, err := s.wishlist.List(s.ctx, s.manager)
	require.NoError(s.T(), err)
	require.Empty(s.T(), items)

	got, err := s.store.Orders.FindByID(s.ctx, o.ID)
	require.NoError(s.T(), err)
	require.Nil(s.T(), got.Items[0].ProductID)
	require.Equal(s.T(), "200.00", got.Items[0].Cost.StringFixed(2))
	require.Equal(s.T(), "200.00", got.Total.StringFixed(2))
}

// ---------- wishlist ----------

func (s *ServiceSuite) TestWishlistAddMerges() {
	p := s.product("QLED", "10")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 2)
	require.NoError(s.T(), err)
	it, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 3)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 5, it.Quantity)

	items, err := s.wishlist.List(s.ctx, s.alice)
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 1)
}

func (s *ServiceSuite) TestWishlistAddRollsBackWhenReadFails() {
	p := s.product("QLED", "10")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 2)
	require.NoError(s.T(), err)

	// 写入之后的回读失败
	fail := true
	require.NoError(s.T(), s.db.Callback().Query().Before("gorm:query").Register("test:fail_wishlist_read", func(tx *gorm.DB) {
		if fail && tx.Statement.Table == "wishlist_items" {
			_ = tx.AddError(errors.New("connection reset"))
		}
	}))
	_, err = s.wishlist.AddItem(s.ctx, s.alice, p.ID, 3)
	s.requireCode(err, 500)
	fail = false

	it, err := s.store.Wishlist.Find(s.ctx, s.alice.UserID, p.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, it.Quantity)
}

func (s *ServiceSuite) TestWishlistAddDeletedProduct() {
	p := s.product("QLED", "10")
	require.NoError(s.T(), s.catalog.DeleteProduct(s.ctx, s.manager, p.ID))

	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 1)
	s.requireCode(err, 404)
	items, err := s.wishlist.List(s.ctx, s.alice)
	require.NoError(s.T(), err)
	require.Empty(s.T(), items)
}

func (s *ServiceSuite) TestWishlistAddValidation() {
	p := s.product("QLED", "10")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 0)
	s.requireCode(err, 400)
	_, err = s.wishlist.AddItem(s.ctx, s.alice, 999, 1)
	s.requireCode(err, 404)
	_, err = s.wishlist.AddItem(s.ctx, nil, p.ID, 1)
	s.requireCode(err, 401)
}

func (s *ServiceSuite) TestWishlistDecrement() {
	p := s.product("QLED", "10")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 2)
	require.NoError(s.T(), err)

	it, err := s.wishlist.DecrementItem(s.ctx, s.alice, p.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, it.Quantity)

	it, err = s.wishlist.DecrementItem(s.ctx, s.alice, p.ID)
	require.NoError(s.T(), err)
	require.Nil(s.T(), it)

	items, err := s.wishlist.List(s.ctx, s.alice)
	require.NoError(s.T(), err)
	require.Empty(s.T(), items)

	_, err = s.wishlist.DecrementItem(s.ctx, s.alice, p.ID)
	s.requireCode(err, 404)
}

func (s *ServiceSuite) TestWishlistRemove() {
	p := s.product("QLED", "10")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 4)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.wishlist.RemoveItem(s.ctx, s.alice, p.ID))
	s.requireCode(s.wishlist.RemoveItem(s.ctx, s.alice, p.ID), 404)
}

func (s *ServiceSuite) TestWishlistListForUser() {
	p := s.product("QLED", "10")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 1)
	require.NoError(s.T(), err)

	_, err = s.wishlist.ListForUser(s.ctx, s.alice, s.alice.UserID)
	s.requireCode(err, 403)
	_, err = s.wishlist.ListForUser(s.ctx, s.manager, 999)
	s.requireCode(err, 404)

	items, err := s.wishlist.ListForUser(s.ctx, s.manager, s.alice.UserID)
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 1)
	require.Equal(s.T(), "QLED", items[0].Product.Title)
}

// ---------- orders ----------

func (s *ServiceSuite) TestCreateOrderExactTotal() {
	tv := s.product("QLED", "50000")
	cable := s.product("Cable", "19.99")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, tv.ID, 2)
	require.NoError(s.T(), err)
	_, err = s.wishlist.AddItem(s.ctx, s.alice, cable.ID, 3)
	require.NoError(s.T(), err)

	o, err := s.orders.CreateFromWishlist(s.ctx, s.alice)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "New", o.Status.Name)
	require.Len(s.T(), o.Items, 2)
	require.Equal(s.T(), "100000.00", o.Items[0].Cost.StringFixed(2))
	require.Equal(s.T(), "59.97", o.Items[1].Cost.StringFixed(2))
	require.Equal(s.T(), "100059.97", o.Total.StringFixed(2))
	require.Equal(s.T(), "QLED", o.Items[0].Product.Title)

	items, err := s.wishlist.List(s.ctx, s.alice)
	require.NoError(s.T(), err)
	require.Empty(s.T(), items)
}

func (s *ServiceSuite) TestCreateOrderEmptyWishlist() {
	_, err := s.orders.CreateFromWishlist(s.ctx, s.alice)
	s.requireCode(err, 400)
	require.Equal(s.T(), "wishlist is empty", err.Error())

	mine, err := s.orders.ListMine(s.ctx, s.alice)
	require.NoError(s.T(), err)
	require.Empty(s.T(), mine)
}

func (s *ServiceSuite) TestCreateOrderRollsBackOnItemFailure() {
	p := s.product("QLED", "10")
	q := s.product("Cable", "1")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 1)
	require.NoError(s.T(), err)
	_, err = s.wishlist.AddItem(s.ctx, s.alice, q.ID, 1)
	require.NoError(s.T(), err)

	// 第二条明细写入失败
	inserted := 0
	require.NoError(s.T(), s.db.Callback().Create().Before("gorm:create").Register("test:fail_item", func(tx *gorm.DB) {
		if tx.Statement.Table != "order_items" {
			return
		}
		if inserted++; inserted == 2 {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err = s.orders.CreateFromWishlist(s.ctx, s.alice)
	s.requireCode(err, 500)

	mine, err := s.store.Orders.List(s.ctx, &s.alice.UserID)
	require.NoError(s.T(), err)
	require.Empty(s.T(), mine)

	var n int64
	require.NoError(s.T(), s.db.Model(&domain.OrderItem{}).Count(&n).Error)
	require.Zero(s.T(), n)

	items, err := s.wishlist.List(s.ctx, s.alice)
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 2)
}

func (s *ServiceSuite) TestCreateOrderMissingInitialStatus() {
	p := s.product("QLED", "10")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 1)
	require.NoError(s.T(), err)

	orders := NewOrderService(s.store, "Pending review", zap.NewNop())
	_, err = orders.CreateFromWishlist(s.ctx, s.alice)
	s.requireCode(err, 500)

	items, err := s.wishlist.List(s.ctx, s.alice)
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 1)
}

func (s *ServiceSuite) TestUpdateStatus() {
	p := s.product("QLED", "10")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 1)
	require.NoError(s.T(), err)
	o, err := s.orders.CreateFromWishlist(s.ctx, s.alice)
	require.NoError(s.T(), err)

	shipped, err := s.store.Orders.FindStatusByName(s.ctx, "Shipped")
	require.NoError(s.T(), err)

	got, err := s.orders.UpdateStatus(s.ctx, s.manager, o.ID, shipped.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Shipped", got.Status.Name)

	// 任意状态之间都可以切换
	got, err = s.orders.UpdateStatus(s.ctx, s.manager, o.ID, o.StatusID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "New", got.Status.Name)

	_, err = s.orders.UpdateStatus(s.ctx, s.manager, 999, shipped.ID)
	s.requireCode(err, 404)
	_, err = s.orders.UpdateStatus(s.ctx, s.manager, o.ID, 999)
	s.requireCode(err, 404)
	_, err = s.orders.UpdateStatus(s.ctx, s.alice, o.ID, shipped.ID)
	s.requireCode(err, 403)
}

func (s *ServiceSuite) TestOrderReads() {
	p := s.product("QLED", "10")
	_, err := s.wishlist.AddItem(s.ctx, s.alice, p.ID, 1)
	require.NoError(s.T(), err)
	_, err = s.orders.CreateFromWishlist(s.ctx, s.alice)
	require.NoError(s.T(), err)

	_, err = s.orders.ListAll(s.ctx, s.alice)
	s.requireCode(err, 403)
	all, err := s.orders.ListAll(s.ctx, s.manager)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 1)

	theirs, err := s.orders.ListForUser(s.ctx, s.manager, s.alice.UserID)
	require.NoError(s.T(), err)
	require.Len(s.T(), theirs, 1)
	_, err = s.orders.ListForUser(s.ctx, s.manager, 999)
	s.requireCode(err, 404)

	mine, err := s.orders.ListMine(s.ctx, s.manager)
	require.NoError(s.T(), err)
	require.Empty(s.T(), mine)

	st, err := s.orders.ListStatuses(s.ctx, s.alice)
	require.NoError(s.T(), err)
	require.Len(s.T(), st, len(repotest.Statuses))
}
