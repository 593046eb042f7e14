package service

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/core/errs"
	"storefront/internal/domain"
	"storefront/internal/repo"
)

type WishlistService struct {
	store *repo.Store
	log   *zap.Logger
}

func NewWishlistService(store *repo.Store, log *zap.Logger) *WishlistService {
	return &WishlistService{store: store, log: log}
}

func (s *WishlistService) List(ctx context.Context, p *auth.Principal) ([]domain.WishlistItem, error) {
	if err := authorize(p, auth.CapAuthenticated); err != nil {
		return nil, err
	}
	return s.list(ctx, p.UserID)
}

func (s *WishlistService) ListForUser(ctx context.Context, p *auth.Principal, userID uint) ([]domain.WishlistItem, error) {
	if err := authorize(p, auth.CapManager); err != nil {
		return nil, err
	}
	ok, err := s.store.Users.Exists(ctx, userID)
	if err != nil {
		return nil, errs.Internal("db error", err)
	}
	if !ok {
		return nil, errs.NotFound("user not found")
	}
	return s.list(ctx, userID)
}

func (s *WishlistService) list(ctx context.Context, userID uint) ([]domain.WishlistItem, error) {
	items, err := s.store.Wishlist.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Internal("list wishlist failed", err)
	}
	return items, nil
}

// AddItem 已有同一商品时数量累加；商品校验、写入、回读同一事务
func (s *WishlistService) AddItem(ctx context.Context, p *auth.Principal, productID uint, quantity int) (*domain.WishlistItem, error) {
	if err := authorize(p, auth.CapAuthenticated); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, errs.BadRequest("quantity must be at least 1")
	}
	var it *domain.WishlistItem
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		ok, err := tx.Catalog.LockProduct(ctx, productID)
		if err != nil {
			return errs.Internal("db error", err)
		}
		if !ok {
			return errs.NotFound("product not found")
		}
		if err := tx.Wishlist.Upsert(ctx, p.UserID, productID, quantity); err != nil {
			return errs.Internal("add wishlist item failed", err)
		}
		if it, err = tx.Wishlist.Find(ctx, p.UserID, productID); err != nil {
			return errs.Internal("read wishlist item failed", err)
		}
		if it == nil {
			return errs.NotFound("product not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s *WishlistService) RemoveItem(ctx context.Context, p *auth.Principal, productID uint) error {
	if err := authorize(p, auth.CapAuthenticated); err != nil {
		return err
	}
	it, err := s.store.Wishlist.Find(ctx, p.UserID, productID)
	if err != nil {
		return errs.Internal("db error", err)
	}
	if it == nil {
		return errs.NotFound("item not in wishlist")
	}
	if err := s.store.Wishlist.Delete(ctx, it.ID); err != nil {
		return errs.Internal("remove wishlist item failed", err)
	}
	return nil
}

// DecrementItem 数量减一，减到 0 时删除整行；返回 nil 表示已删除
func (s *WishlistService) DecrementItem(ctx context.Context, p *auth.Principal, productID uint) (*domain.WishlistItem, error) {
	if err := authorize(p, auth.CapAuthenticated); err != nil {
		return nil, err
	}
	var out *domain.WishlistItem
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		it, err := tx.Wishlist.Find(ctx, p.UserID, productID)
		if err != nil {
			return errs.Internal("db error", err)
		}
		if it == nil {
			return errs.NotFound("item not in wishlist")
		}
		if it.Quantity <= 1 {
			if err := tx.Wishlist.Delete(ctx, it.ID); err != nil {
				return errs.Internal("remove wishlist item failed", err)
			}
			return nil
		}
		it.Quantity--
		if err := tx.Wishlist.SetQuantity(ctx, it.ID, it.Quantity); err != nil {
			return errs.Internal("update wishlist item failed", err)
		}
		out = it
		return nil
	})
	return out, err
}
