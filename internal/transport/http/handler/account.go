package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/domain"
	"storefront/internal/service"
	"storefront/internal/transport/http/ez"
	mdw "storefront/internal/transport/http/middleware"
)

// AccountHandler 登录注册、当前用户、manager 申请与审批
type AccountHandler struct {
	svc *service.AccountService
	log *zap.Logger
}

func NewAccountHandler(svc *service.AccountService, l *zap.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, log: l}
}

func (h *AccountHandler) Priority() int { return 10 }

type loginIn struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=72"`
}

type registerIn struct {
	Username  string `json:"username"   binding:"required,max=150"`
	Password  string `json:"password"   binding:"required,min=6,max=72"`
	FirstName string `json:"first_name" binding:"omitempty,max=150"`
	LastName  string `json:"last_name"  binding:"omitempty,max=150"`
	Email     string `json:"email"      binding:"omitempty,email,max=191"`
}

type tokenOut struct {
	Token string `json:"token"`
}

type meOut struct {
	ID        uint     `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	IsStaff   bool     `json:"isStaff"`
	IsManager bool     `json:"isManager"`
	Groups    []string `json:"groups"`
}

type requestsQ struct {
	Status string `form:"status"`
}

func (h *AccountHandler) MountAPI(g *gin.RouterGroup) {
	// 登录/注册单独按 IP 限速
	pub := ez.New(g.Group("/auth", mdw.RateLimitPerIP(5, 20)), h.log)
	e := ez.New(g, h.log)

	ez.RegisterAction(pub, ez.Action[loginIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *auth.Principal, in *loginIn) (tokenOut, error) {
			tok, err := h.svc.Login(c.Request.Context(), in.Username, in.Password)
			return tokenOut{Token: tok}, err
		},
	})

	ez.RegisterAction(pub, ez.Action[registerIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *auth.Principal, in *registerIn) (tokenOut, error) {
			tok, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
				Username:  in.Username,
				Password:  in.Password,
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Email:     in.Email,
			})
			return tokenOut{Token: tok}, err
		},
	})

	ez.RegisterAction(pub, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) (gin.H, error) {
			if err := h.svc.Logout(c.Request.Context(), p); err != nil {
				return nil, err
			}
			return gin.H{"logout": true}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, meOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) (meOut, error) {
			u, err := h.svc.Me(c.Request.Context(), p)
			if err != nil {
				return meOut{}, err
			}
			groups := u.GroupNames()
			return meOut{
				ID:        u.ID,
				Username:  u.Username,
				Email:     u.Email,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				IsStaff:   u.IsStaff,
				IsManager: (&auth.Principal{Groups: groups}).IsManager(),
				Groups:    groups,
			}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) ([]domain.User, error) {
			return h.svc.ListUsers(c.Request.Context(), p)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.ManagerRequest]{
		Method: http.MethodPost,
		Path:   "/user/request-manager",
		Binder: ez.BindNone,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) (*domain.ManagerRequest, error) {
			return h.svc.RequestManagerRole(c.Request.Context(), p)
		},
	})
}

// MountAdmin 后台接口，服务层校验 staff
func (h *AccountHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[requestsQ, []domain.ManagerRequest]{
		Method: http.MethodGet,
		Path:   "/manager-requests",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, in *requestsQ) ([]domain.ManagerRequest, error) {
			return h.svc.ListManagerRequests(c.Request.Context(), p, in.Status)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.ManagerRequest]{
		Method: http.MethodPost,
		Path:   "/manager-requests/:id/approve",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) (*domain.ManagerRequest, error) {
			id, err := ez.ParamUint(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.ApproveManagerRequest(c.Request.Context(), p, id)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *struct{}) ([]domain.User, error) {
			return h.svc.StaffListUsers(c.Request.Context(), p)
		},
	})
}
