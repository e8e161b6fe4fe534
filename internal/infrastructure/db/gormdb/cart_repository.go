package gormdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// CartRepository scopes every mutation to the owning user.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Create(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	m := cartItemModel{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Qty:       item.Qty,
		Price:     item.Price,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create cart item: %w", err)
	}
	return m.toDomain(), nil
}

func (r *CartRepository) ListByUser(ctx context.Context, userID uint, page domain.Page) ([]domain.CartItem, int64, error) {
	q := r.db.WithContext(ctx).Model(&cartItemModel{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count cart items: %w", err)
	}

	var rows []cartItemModel
	if err := q.Order("created_at DESC").Order("id ASC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list cart items: %w", err)
	}

	out := make([]domain.CartItem, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, total, nil
}

// UpdateQty writes only the qty column. A missing or foreign line is
// detected from the update's affected-row count.
func (r *CartRepository) UpdateQty(ctx context.Context, id string, userID uint, qty int) (*domain.CartItem, error) {
	var m cartItemModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&cartItemModel{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("qty", qty)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrCartNotFound
		}
		return tx.Where("id = ?", id).First(&m).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return m.toDomain(), nil
}

func (r *CartRepository) Delete(ctx context.Context, id string, userID uint) (*domain.CartItem, error) {
	var m cartItemModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCartNotFound
			}
			return err
		}
		return tx.Delete(&m).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete cart item: %w", err)
	}
	return m.toDomain(), nil
}
