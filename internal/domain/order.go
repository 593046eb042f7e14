package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:64;not null" json:"name"`
}

func (OrderStatus) TableName() string { return "order_statuses" }

// Order Total 恒等于创建时各明细 Cost 之和
type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"userId"`
	StatusID  uint            `gorm:"not null;index" json:"statusId"`
	Status    OrderStatus     `gorm:"constraint:OnDelete:RESTRICT" json:"status"`
	Total     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (Order) TableName() string { return "orders" }

// OrderItem Cost 写入后不再变化；商品删除后 ProductID 置空
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"orderId"`
	ProductID *uint           `gorm:"index" json:"productId"`
	Product   *Product        `gorm:"constraint:OnDelete:SET NULL" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Cost      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"cost"`
}

func (OrderItem) TableName() string { return "order_items" }
