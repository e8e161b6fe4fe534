package gormdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create stores the order and its items in one transaction, snapshotting
// each product's current name onto the item.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order, lines []domain.OrderLine) (*domain.Order, error) {
	m := orderModel{
		ID:           o.ID,
		UserID:       o.UserID,
		PaymentID:    o.PaymentID,
		DeliveryID:   o.DeliveryID,
		Status:       string(o.Status),
		Subtotal:     o.Subtotal,
		Tax:          o.Tax,
		ShippingCost: o.ShippingCost,
		GrandTotal:   o.GrandTotal,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		var products []productModel
		if err := tx.Select("id", "name").Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		names := make(map[string]string, len(products))
		for _, p := range products {
			names[p.ID] = p.Name
		}

		for _, l := range lines {
			name, ok := names[l.ProductID]
			if !ok {
				return domain.ErrProductNotFound
			}
			m.Items = append(m.Items, orderItemModel{ProductID: l.ProductID, Name: name, Qty: l.Qty})
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	return m.toDomain(), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var m orderModel
	if err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return m.toDomain(), nil
}

func (r *OrderRepository) List(ctx context.Context, page domain.Page) ([]domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&orderModel{}).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var rows []orderModel
	if err := q.Preload("Items").
		Order("created_at DESC").Order("id ASC").
		Offset(page.Offset()).Limit(page.Size).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return ordersToDomain(rows), total, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	var rows []orderModel
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return ordersToDomain(rows), nil
}

// UpdateStatus writes only the status column; a missing order is detected
// from the update's affected-row count.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	var m orderModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&orderModel{}).Where("id = ?", id).Update("status", string(status))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrOrderNotFound
		}
		return tx.Preload("Items").Where("id = ?", id).First(&m).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return m.toDomain(), nil
}

func ordersToDomain(rows []orderModel) []domain.Order {
	out := make([]domain.Order, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out
}
