package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// ProductRepository stores products with gorm soft delete, so every query
// below implicitly skips deleted rows.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product, categoryIDs []uint) (*domain.Product, error) {
	m := productModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cats, err := loadCategories(tx, categoryIDs)
		if err != nil {
			return err
		}
		m.Categories = cats
		return tx.Create(&m).Error
	})
	switch {
	case err == nil:
		return m.toDomain(), nil
	case errors.Is(err, domain.ErrCategoryNotFound):
		return nil, err
	case isUniqueViolation(err):
		return nil, domain.ErrProductExists
	default:
		return nil, fmt.Errorf("create product: %w", err)
	}
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var m productModel
	if err := r.db.WithContext(ctx).Preload("Categories").Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return m.toDomain(), nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []productModel
	if err := r.db.WithContext(ctx).Preload("Categories").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return productsToDomain(rows), nil
}

func (r *ProductRepository) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&productModel{})
	if len(f.CategoryNames) > 0 {
		q = q.Where("id IN (?)", db.Table("product_categories").
			Select("product_categories.product_id").
			Joins("JOIN categories ON categories.id = product_categories.category_id").
			Where("categories.name IN ?", f.CategoryNames))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var rows []productModel
	if err := q.Preload("Categories").
		Order(sortClause(f.Sort)).
		Order("id ASC").
		Offset(f.Page.Offset()).
		Limit(f.Page.Size).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return productsToDomain(rows), total, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, ch domain.ProductChanges) (*domain.Product, error) {
	updates := productUpdates(ch)

	var m productModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			res := tx.Model(&productModel{}).Where("id = ?", id).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domain.ErrProductNotFound
			}
		}
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProductNotFound
			}
			return err
		}
		if ch.CategoryIDs != nil {
			cats, err := loadCategories(tx, ch.CategoryIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&m).Association("Categories").Replace(cats); err != nil {
				return err
			}
		}
		m = productModel{}
		return tx.Preload("Categories").Where("id = ?", id).First(&m).Error
	})
	switch {
	case err == nil:
		return m.toDomain(), nil
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrCategoryNotFound):
		return nil, err
	case isUniqueViolation(err):
		return nil, domain.ErrProductExists
	default:
		return nil, fmt.Errorf("update product: %w", err)
	}
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&productModel{})
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func loadCategories(tx *gorm.DB, ids []uint) ([]categoryModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cats []categoryModel
	if err := tx.Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return nil, err
	}
	if len(cats) != len(ids) {
		return nil, domain.ErrCategoryNotFound
	}
	return cats, nil
}

func sortClause(s domain.ProductSort) string {
	switch s {
	case domain.SortNameDesc:
		return "name DESC"
	case domain.SortLatest:
		return "created_at DESC"
	case domain.SortOldest:
		return "created_at ASC"
	default:
		return "name ASC"
	}
}

func productUpdates(ch domain.ProductChanges) map[string]any {
	updates := make(map[string]any)
	if ch.Name != nil {
		updates["name"] = *ch.Name
	}
	if ch.Description != nil {
		updates["description"] = *ch.Description
	}
	if ch.Price != nil {
		updates["price"] = *ch.Price
	}
	if ch.Stock != nil {
		updates["stock"] = *ch.Stock
	}
	if ch.Image != nil {
		updates["image"] = *ch.Image
	}
	return updates
}

func productsToDomain(rows []productModel) []domain.Product {
	out := make([]domain.Product, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out
}
