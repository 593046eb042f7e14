package repo

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/domain"
)

func Models() []any {
	return []any{
		&domain.Group{},
		&domain.User{},
		&domain.AuthToken{},
		&domain.ManagerRequest{},
		&domain.Category{},
		&domain.Product{},
		&domain.OrderStatus{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.WishlistItem{},
	}
}

// Migrate 自动建表 + 写入订单状态字典
func Migrate(ctx context.Context, db *gorm.DB, statuses []string) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return err
	}
	return NewOrderRepo(db).EnsureStatuses(ctx, statuses)
}
