package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/domain"
)

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// ---------- categories ----------

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *CatalogRepo) FindCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CatalogRepo) SaveCategory(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CatalogRepo) DeleteCategory(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Category{}, id)
	return res.RowsAffected, res.Error
}

func (r *CatalogRepo) CountProducts(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

// ---------- products ----------

// '!' 作转义符，mysql/postgres/sqlite 字面量写法一致
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (r *CatalogRepo) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Preload("Category")
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	// 不区分大小写的子串匹配，用户输入中的通配符按字面量处理
	if s := strings.TrimSpace(f.Title); s != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!'", containsPattern(s))
	}
	if s := strings.TrimSpace(f.Description); s != "" {
		q = q.Where("LOWER(description) LIKE ? ESCAPE '!'", containsPattern(s))
	}
	var out []domain.Product
	err := q.Order("id").Find(&out).Error
	return out, err
}

func (r *CatalogRepo) ListProductsByCategory(ctx context.Context, categoryID uint) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.WithContext(ctx).Preload("Category").
		Where("category_id = ?", categoryID).Order("id").Find(&out).Error
	return out, err
}

func (r *CatalogRepo) FindProduct(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LockProduct 事务内对商品行加共享锁，事务结束前不会被删除；sqlite 驱动忽略 FOR 子句
func (r *CatalogRepo) LockProduct(ctx context.Context, id uint) (bool, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
		Select("id").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *CatalogRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Omit("Category").Create(p).Error
}

func (r *CatalogRepo) SaveProduct(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Omit("Category").Save(p).Error
}

func (r *CatalogRepo) DeleteProduct(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	return res.RowsAffected, res.Error
}
