package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/domain"
)

type WishlistRepo struct{ db *gorm.DB }

func NewWishlistRepo(db *gorm.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) ListByUser(ctx context.Context, userID uint) ([]domain.WishlistItem, error) {
	var out []domain.WishlistItem
	err := r.db.WithContext(ctx).Preload("Product.Category").
		Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (r *WishlistRepo) Find(ctx context.Context, userID, productID uint) (*domain.WishlistItem, error) {
	var it domain.WishlistItem
	err := r.db.WithContext(ctx).Preload("Product").
		First(&it, "user_id = ? AND product_id = ?", userID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Upsert (user, product) 冲突时数量累加，单条语句完成
func (r *WishlistRepo) Upsert(ctx context.Context, userID, productID uint, qty int) error {
	it := domain.WishlistItem{UserID: userID, ProductID: productID, Quantity: qty}
	return r.db.WithContext(ctx).Omit("Product").Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("wishlist_items.quantity + ?", qty),
		}),
	}).Create(&it).Error
}

func (r *WishlistRepo) SetQuantity(ctx context.Context, id uint, qty int) error {
	return r.db.WithContext(ctx).Model(&domain.WishlistItem{}).Where("id = ?", id).Update("quantity", qty).Error
}

func (r *WishlistRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.WishlistItem{}, id).Error
}

func (r *WishlistRepo) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.WishlistItem{})
	return res.RowsAffected, res.Error
}

func (r *WishlistRepo) DeleteByProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&domain.WishlistItem{}).Error
}
