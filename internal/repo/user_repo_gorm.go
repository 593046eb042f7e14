package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByID 找不到返回 (nil, nil)
func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Preload("Groups").First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Preload("Groups").First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Preload("Groups").Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepo) SetStaff(ctx context.Context, id uint, staff bool) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("is_staff", staff).Error
}

// InGroup 直接查库，不信任调用方持有的旧 Principal
func (r *UserRepo) InGroup(ctx context.Context, userID uint, group string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("auth_user_groups").
		Joins("JOIN auth_groups ON auth_groups.id = auth_user_groups.group_id").
		Where("auth_user_groups.user_id = ? AND auth_groups.name = ?", userID, group).
		Count(&n).Error
	return n > 0, err
}

// AddToGroup 组不存在则创建；重复加入无副作用
func (r *UserRepo) AddToGroup(ctx context.Context, userID uint, group string) error {
	db := r.db.WithContext(ctx)
	var g domain.Group
	if err := db.Where(domain.Group{Name: group}).FirstOrCreate(&g).Error; err != nil {
		return err
	}
	return db.Model(&domain.User{ID: userID}).Association("Groups").Append(&g)
}
