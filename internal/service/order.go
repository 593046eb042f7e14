package service

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/core/errs"
	"storefront/internal/domain"
	"storefront/internal/repo"
)

var ordersCreated = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "storefront_orders_created_total",
	Help: "Orders created from wishlists.",
})

func init() {
	prometheus.MustRegister(ordersCreated)
}

type OrderService struct {
	store         *repo.Store
	initialStatus string
	log           *zap.Logger
}

func NewOrderService(store *repo.Store, initialStatus string, log *zap.Logger) *OrderService {
	if initialStatus == "" {
		initialStatus = "New"
	}
	return &OrderService{store: store, initialStatus: initialStatus, log: log}
}

// CreateFromWishlist 整个流程一个事务：任一步失败则订单、明细、心愿单全部回滚
func (s *OrderService) CreateFromWishlist(ctx context.Context, p *auth.Principal) (*domain.Order, error) {
	if err := authorize(p, auth.CapAuthenticated); err != nil {
		return nil, err
	}
	var out *domain.Order
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		items, err := tx.Wishlist.ListByUser(ctx, p.UserID)
		if err != nil {
			return errs.Internal("load wishlist failed", err)
		}
		if len(items) == 0 {
			return errs.BadRequest("wishlist is empty")
		}

		st, err := tx.Orders.FindStatusByName(ctx, s.initialStatus)
		if err != nil {
			return errs.Internal("db error", err)
		}
		if st == nil {
			s.log.Error("initial order status missing", zap.String("status", s.initialStatus))
			return errs.Internal("order status not configured", nil)
		}

		o := &domain.Order{UserID: p.UserID, StatusID: st.ID, Total: decimal.Zero}
		if err := tx.Orders.Create(ctx, o); err != nil {
			return errs.Internal("create order failed", err)
		}

		total := decimal.Zero
		for _, it := range items {
			if it.Product == nil {
				return errs.Internal("wishlist product missing", nil)
			}
			cost := it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			pid := it.ProductID
			line := &domain.OrderItem{OrderID: o.ID, ProductID: &pid, Quantity: it.Quantity, Cost: cost}
			if err := tx.Orders.CreateItem(ctx, line); err != nil {
				return errs.Internal("create order item failed", err)
			}
			total = total.Add(cost)
		}
		if err := tx.Orders.SetTotal(ctx, o.ID, total); err != nil {
			return errs.Internal("update order total failed", err)
		}
		if _, err := tx.Wishlist.DeleteByUser(ctx, p.UserID); err != nil {
			return errs.Internal("clear wishlist failed", err)
		}

		out, err = tx.Orders.FindByID(ctx, o.ID)
		if err != nil || out == nil {
			return errs.Internal("reload order failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ordersCreated.Inc()
	s.log.Info("order created",
		zap.Uint("order_id", out.ID),
		zap.Uint("user_id", p.UserID),
		zap.String("total", out.Total.StringFixed(2)),
		zap.Int("items", len(out.Items)),
	)
	return out, nil
}

// UpdateStatus 状态之间无迁移约束，直接覆盖
func (s *OrderService) UpdateStatus(ctx context.Context, p *auth.Principal, orderID, statusID uint) (*domain.Order, error) {
	if err := authorize(p, auth.CapManager); err != nil {
		return nil, err
	}
	var out *domain.Order
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		ok, err := tx.Orders.Exists(ctx, orderID)
		if err != nil {
			return errs.Internal("db error", err)
		}
		if !ok {
			return errs.NotFound("order not found")
		}
		st, err := tx.Orders.FindStatus(ctx, statusID)
		if err != nil {
			return errs.Internal("db error", err)
		}
		if st == nil {
			return errs.NotFound("order status not found")
		}
		if _, err := tx.Orders.SetStatus(ctx, orderID, st.ID); err != nil {
			return errs.Internal("update order status failed", err)
		}
		out, err = tx.Orders.FindByID(ctx, orderID)
		if err != nil || out == nil {
			return errs.Internal("reload order failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order status updated",
		zap.Uint("order_id", orderID),
		zap.String("status", out.Status.Name),
		zap.Uint("by", p.UserID),
	)
	return out, nil
}

func (s *OrderService) ListAll(ctx context.Context, p *auth.Principal) ([]domain.Order, error) {
	if err := authorize(p, auth.CapManager); err != nil {
		return nil, err
	}
	return s.list(ctx, nil)
}

func (s *OrderService) ListMine(ctx context.Context, p *auth.Principal) ([]domain.Order, error) {
	if err := authorize(p, auth.CapAuthenticated); err != nil {
		return nil, err
	}
	uid := p.UserID
	return s.list(ctx, &uid)
}

func (s *OrderService) ListForUser(ctx context.Context, p *auth.Principal, userID uint) ([]domain.Order, error) {
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
	return s.list(ctx, &userID)
}

func (s *OrderService) list(ctx context.Context, userID *uint) ([]domain.Order, error) {
	out, err := s.store.Orders.List(ctx, userID)
	if err != nil {
		return nil, errs.Internal("list orders failed", err)
	}
	return out, nil
}

func (s *OrderService) ListStatuses(ctx context.Context, p *auth.Principal) ([]domain.OrderStatus, error) {
	if err := authorize(p, auth.CapAuthenticated); err != nil {
		return nil, err
	}
	out, err := s.store.Orders.ListStatuses(ctx)
	if err != nil {
		return nil, errs.Internal("list statuses failed", err)
	}
	return out, nil
}
