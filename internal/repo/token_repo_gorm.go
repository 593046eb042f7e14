package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront/internal/domain"
)

type TokenRepo struct{ db *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{db: db} }

// FindByKey 连同用户及用户组一起加载；找不到返回 (nil, nil)
func (r *TokenRepo) FindByKey(ctx context.Context, key string) (*domain.AuthToken, error) {
	var t domain.AuthToken
	err := r.db.WithContext(ctx).Preload("User.Groups").First(&t, "token = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepo) FindByUser(ctx context.Context, userID uint) (*domain.AuthToken, error) {
	var t domain.AuthToken
	err := r.db.WithContext(ctx).First(&t, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepo) Create(ctx context.Context, t *domain.AuthToken) error {
	return r.db.WithContext(ctx).Omit("User").Create(t).Error
}

func (r *TokenRepo) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.AuthToken{}).Error
}

// DeleteByKey 只删指定 key，并发轮换时不会误删对方刚写入的新 token
func (r *TokenRepo) DeleteByKey(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("token = ?", key).Delete(&domain.AuthToken{}).Error
}
