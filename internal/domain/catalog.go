package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:200;not null" json:"title"`
	Slug  string `gorm:"uniqueIndex;size:200;not null" json:"slug"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"size:200;not null" json:"title"`
	CategoryID  uint            `gorm:"not null;index" json:"categoryId"`
	Category    *Category       `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Image       string          `gorm:"size:255" json:"image"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

// ProductFilter 各条件可选，AND 组合
type ProductFilter struct {
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Title       string
	Description string
}
