package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront/internal/domain"
)

type ManagerRequestRepo struct{ db *gorm.DB }

func NewManagerRequestRepo(db *gorm.DB) *ManagerRequestRepo { return &ManagerRequestRepo{db: db} }

func (r *ManagerRequestRepo) Create(ctx context.Context, m *domain.ManagerRequest) error {
	return r.db.WithContext(ctx).Omit("User").Create(m).Error
}

func (r *ManagerRequestRepo) HasPending(ctx context.Context, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ManagerRequest{}).
		Where("user_id = ? AND status = ?", userID, domain.ManagerRequestPending).
		Count(&n).Error
	return n > 0, err
}

// FindPending 已审批与不存在对调用方不可区分，均返回 (nil, nil)
func (r *ManagerRequestRepo) FindPending(ctx context.Context, id uint) (*domain.ManagerRequest, error) {
	var m domain.ManagerRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, domain.ManagerRequestPending).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MarkApproved 条件更新 pending -> approved，返回影响行数（并发审批时后到者为 0）
func (r *ManagerRequestRepo) MarkApproved(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.ManagerRequest{}).
		Where("id = ? AND status = ?", id, domain.ManagerRequestPending).
		Update("status", domain.ManagerRequestApproved)
	return res.RowsAffected, res.Error
}

func (r *ManagerRequestRepo) List(ctx context.Context, status domain.ManagerRequestStatus) ([]domain.ManagerRequest, error) {
	q := r.db.WithContext(ctx).Preload("User")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.ManagerRequest
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}
