package domain

// WishlistItem (user, product) 唯一；数量恒 >= 1
type WishlistItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	UserID    uint     `gorm:"not null;uniqueIndex:uk_wishlist_user_product" json:"userId"`
	ProductID uint     `gorm:"not null;uniqueIndex:uk_wishlist_user_product;index" json:"productId"`
	Product   *Product `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int      `gorm:"not null" json:"quantity"`
}

func (WishlistItem) TableName() string { return "wishlist_items" }
