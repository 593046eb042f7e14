package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Store 聚合所有仓储；Tx 内拿到的是绑定同一事务的 Store
type Store struct {
	db *gorm.DB

	Users           *UserRepo
	Tokens          *TokenRepo
	ManagerRequests *ManagerRequestRepo
	Catalog         *CatalogRepo
	Orders          *OrderRepo
	Wishlist        *WishlistRepo
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:              db,
		Users:           NewUserRepo(db),
		Tokens:          NewTokenRepo(db),
		ManagerRequests: NewManagerRequestRepo(db),
		Catalog:         NewCatalogRepo(db),
		Orders:          NewOrderRepo(db),
		Wishlist:        NewWishlistRepo(db),
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

// Tx fn 返回错误即整体回滚
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// IsDupKey 不依赖 gorm.ErrDuplicatedKey（需开启 TranslateError），按驱动报错文本判断
func IsDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
