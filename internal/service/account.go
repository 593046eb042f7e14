package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/core/errs"
	"storefront/internal/domain"
	"storefront/internal/repo"
	"storefront/pkg/utils"
)

type AccountService struct {
	store *repo.Store
	jwt   *auth.JWTer
	log   *zap.Logger
}

func NewAccountService(store *repo.Store, jwter *auth.JWTer, log *zap.Logger) *AccountService {
	return &AccountService{store: store, jwt: jwter, log: log}
}

type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// Register 注册并返回 token
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (string, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return "", errs.BadRequest("username is required")
	}
	if in.Password == "" {
		return "", errs.BadRequest("password is required")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return "", errs.BadRequest("password is not acceptable")
	}

	var token string
	err = s.store.Tx(ctx, func(tx *repo.Store) error {
		exist, err := tx.Users.FindByUsername(ctx, username)
		if err != nil {
			return errs.Internal("db error", err)
		}
		if exist != nil {
			return errs.BadRequest("username already exists")
		}
		u := &domain.User{
			Username:     username,
			Email:        strings.TrimSpace(in.Email),
			FirstName:    strings.TrimSpace(in.FirstName),
			LastName:     strings.TrimSpace(in.LastName),
			PasswordHash: hash,
		}
		if err := tx.Users.Create(ctx, u); err != nil {
			// 并发注册同名：唯一约束兜底
			if repo.IsDupKey(err) {
				return errs.BadRequest("username already exists")
			}
			return errs.Internal("create user failed", err)
		}
		token, err = s.tokenFor(ctx, tx, u.ID)
		return err
	})
	if err != nil {
		return "", err
	}
	s.log.Info("user registered", zap.String("username", username))
	return token, nil
}

// Login 同一用户多次登录复用同一个 token
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.store.Users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", errs.Internal("db error", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return "", errs.Unauthorized("invalid credentials")
	}
	return s.tokenFor(ctx, s.store, u.ID)
}

// tokenFor get-or-create；已存 token 过期或校验失败时换发，并发创建时唯一约束冲突后重读
func (s *AccountService) tokenFor(ctx context.Context, st *repo.Store, userID uint) (string, error) {
	t, err := st.Tokens.FindByUser(ctx, userID)
	if err != nil {
		return "", errs.Internal("db error", err)
	}
	if t != nil {
		if c, err := s.jwt.Parse(t.Key); err == nil && c.UID == userID {
			return t.Key, nil
		}
		s.log.Info("rotating stale token", zap.Uint("user_id", userID))
		if err := st.Tokens.DeleteByKey(ctx, t.Key); err != nil {
			return "", errs.Internal("delete token failed", err)
		}
	}
	key, err := s.jwt.Issue(userID)
	if err != nil {
		return "", errs.Internal("issue token failed", err)
	}
	if err := st.Tokens.Create(ctx, &domain.AuthToken{Key: key, UserID: userID}); err != nil {
		if !repo.IsDupKey(err) {
			return "", errs.Internal("save token failed", err)
		}
		t, err = st.Tokens.FindByUser(ctx, userID)
		if err != nil || t == nil {
			return "", errs.Internal("save token failed", err)
		}
		return t.Key, nil
	}
	return key, nil
}

// Authenticate 校验签名后查 token 表，命中则还原 Principal
func (s *AccountService) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	if token == "" {
		return nil, errs.Unauthorized("missing token")
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, errs.Unauthorized("invalid token")
	}
	t, err := s.store.Tokens.FindByKey(ctx, token)
	if err != nil {
		return nil, errs.Internal("db error", err)
	}
	if t == nil || t.UserID != claims.UID {
		return nil, errs.Unauthorized("invalid token")
	}
	return &auth.Principal{
		UserID:   t.User.ID,
		Username: t.User.Username,
		IsStaff:  t.User.IsStaff,
		Groups:   t.User.GroupNames(),
	}, nil
}

// Logout 吊销当前用户的 token
func (s *AccountService) Logout(ctx context.Context, p *auth.Principal) error {
	if err := authorize(p, auth.CapAuthenticated); err != nil {
		return err
	}
	if err := s.store.Tokens.DeleteByUser(ctx, p.UserID); err != nil {
		return errs.Internal("delete token failed", err)
	}
	return nil
}

func (s *AccountService) Me(ctx context.Context, p *auth.Principal) (*domain.User, error) {
	if err := authorize(p, auth.CapAuthenticated); err != nil {
		return nil, err
	}
	u, err := s.store.Users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, errs.Internal("db error", err)
	}
	if u == nil {
		return nil, errs.NotFound("user not found")
	}
	return u, nil
}

func (s *AccountService) ListUsers(ctx context.Context, p *auth.Principal) ([]domain.User, error) {
	if err := authorize(p, auth.CapManager); err != nil {
		return nil, err
	}
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, errs.Internal("list users failed", err)
	}
	return users, nil
}

// StaffListUsers 后台（staff）查看用户列表
func (s *AccountService) StaffListUsers(ctx context.Context, p *auth.Principal) ([]domain.User, error) {
	if err := authorize(p, auth.CapStaff); err != nil {
		return nil, err
	}
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, errs.Internal("list users failed", err)
	}
	return users, nil
}

// ---------- manager requests ----------

func (s *AccountService) RequestManagerRole(ctx context.Context, p *auth.Principal) (*domain.ManagerRequest, error) {
	if err := authorize(p, auth.CapAuthenticated); err != nil {
		return nil, err
	}
	var out *domain.ManagerRequest
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		isManager, err := tx.Users.InGroup(ctx, p.UserID, auth.GroupManager)
		if err != nil {
			return errs.Internal("db error", err)
		}
		if isManager {
			return errs.BadRequest("already a manager")
		}
		pending, err := tx.ManagerRequests.HasPending(ctx, p.UserID)
		if err != nil {
			return errs.Internal("db error", err)
		}
		if pending {
			return errs.BadRequest("already requested")
		}
		m := &domain.ManagerRequest{UserID: p.UserID, Status: domain.ManagerRequestPending}
		if err := tx.ManagerRequests.Create(ctx, m); err != nil {
			return errs.Internal("create manager request failed", err)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("manager role requested", zap.Uint("user_id", p.UserID), zap.Uint("request_id", out.ID))
	return out, nil
}

// ApproveManagerRequest 授予角色与状态变更在同一事务内完成
func (s *AccountService) ApproveManagerRequest(ctx context.Context, p *auth.Principal, requestID uint) (*domain.ManagerRequest, error) {
	if err := authorize(p, auth.CapStaff); err != nil {
		return nil, err
	}
	notFound := errs.NotFound("request not found or already processed")

	var out *domain.ManagerRequest
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		m, err := tx.ManagerRequests.FindPending(ctx, requestID)
		if err != nil {
			return errs.Internal("db error", err)
		}
		if m == nil {
			return notFound
		}
		if err := tx.Users.AddToGroup(ctx, m.UserID, auth.GroupManager); err != nil {
			return errs.Internal("grant manager role failed", err)
		}
		n, err := tx.ManagerRequests.MarkApproved(ctx, m.ID)
		if err != nil {
			return errs.Internal("approve request failed", err)
		}
		if n == 0 {
			return notFound
		}
		m.Status = domain.ManagerRequestApproved
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("manager request approved",
		zap.Uint("request_id", out.ID),
		zap.Uint("user_id", out.UserID),
		zap.Uint("approved_by", p.UserID),
	)
	return out, nil
}

func (s *AccountService) ListManagerRequests(ctx context.Context, p *auth.Principal, status string) ([]domain.ManagerRequest, error) {
	if err := authorize(p, auth.CapStaff); err != nil {
		return nil, err
	}
	st := domain.ManagerRequestStatus(strings.TrimSpace(status))
	if st != "" && !st.Valid() {
		return nil, errs.BadRequest("invalid status filter")
	}
	out, err := s.store.ManagerRequests.List(ctx, st)
	if err != nil {
		return nil, errs.Internal("list manager requests failed", err)
	}
	return out, nil
}

// EnsureStaff 启动引导：不存在则创建，存在则确保 staff 标记
func (s *AccountService) EnsureStaff(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	return s.store.Tx(ctx, func(tx *repo.Store) error {
		u, err := tx.Users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if u != nil {
			return tx.Users.SetStaff(ctx, u.ID, true)
		}
		if password == "" {
			return errs.BadRequest("staff password is required")
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		return tx.Users.Create(ctx, &domain.User{Username: username, PasswordHash: hash, IsStaff: true})
	})
}
