package repo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

// ---------- statuses ----------

func (r *OrderRepo) FindStatusByName(ctx context.Context, name string) (*domain.OrderStatus, error) {
	var s domain.OrderStatus
	err := r.db.WithContext(ctx).First(&s, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *OrderRepo) FindStatus(ctx context.Context, id uint) (*domain.OrderStatus, error) {
	var s domain.OrderStatus
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *OrderRepo) ListStatuses(ctx context.Context) ([]domain.OrderStatus, error) {
	var out []domain.OrderStatus
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

// EnsureStatuses 按名字补齐状态字典，已存在的跳过
func (r *OrderRepo) EnsureStatuses(ctx context.Context, names []string) error {
	db := r.db.WithContext(ctx)
	for _, n := range names {
		var s domain.OrderStatus
		if err := db.Where(domain.OrderStatus{Name: n}).FirstOrCreate(&s).Error; err != nil {
			return err
		}
	}
	return nil
}

// ---------- orders ----------

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Omit("Status", "Items").Create(o).Error
}

func (r *OrderRepo) CreateItem(ctx context.Context, it *domain.OrderItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(it).Error
}

func (r *OrderRepo) SetTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("total", total).Error
}

func (r *OrderRepo) SetStatus(ctx context.Context, id, statusID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status_id", statusID)
	return res.RowsAffected, res.Error
}

func (r *OrderRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *OrderRepo) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Status").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.Product")
}

func (r *OrderRepo) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	var o domain.Order
	err := r.withDetails(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List userID 为 nil 时返回全部订单
func (r *OrderRepo) List(ctx context.Context, userID *uint) ([]domain.Order, error) {
	q := r.withDetails(ctx)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var out []domain.Order
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

// DetachProduct 商品删除前解除历史明细引用，金额保持不变
func (r *OrderRepo) DetachProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Model(&domain.OrderItem{}).
		Where("product_id = ?", productID).
		Update("product_id", nil).Error
}
