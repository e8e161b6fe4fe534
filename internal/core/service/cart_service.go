package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type CartService struct {
	carts    ports.CartRepository
	products ports.ProductRepository
	events   ports.EventPublisher
	logger   zerolog.Logger
}

func NewCartService(carts ports.CartRepository, products ports.ProductRepository, events ports.EventPublisher, logger zerolog.Logger) *CartService {
	return &CartService{carts: carts, products: products, events: events, logger: logger}
}

// Add puts a product in the user's cart. The line price is the product's
// current price.
func (s *CartService) Add(ctx context.Context, userID uint, input ports.AddToCartInput) (*domain.CartItem, error) {
	if input.Qty < 1 {
		return nil, domain.Validation("qty must be an integer greater than or equal to 1.")
	}
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	item, err := s.carts.Create(ctx, &domain.CartItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: product.ID,
		Qty:       input.Qty,
		Price:     product.Price,
	})
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	publish(ctx, s.events, domain.EventCartItemAdded, item.ID, userID, map[string]any{
		"productId": item.ProductID,
		"qty":       item.Qty,
		"price":     item.Price,
	})
	return item, nil
}

func (s *CartService) List(ctx context.Context, userID uint, page domain.Page) (*ports.ListCartResult, error) {
	page = domain.NewPage(page.Number, domain.DefaultPageSize)
	items, total, err := s.carts.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return &ports.ListCartResult{Items: items, Pagination: domain.Paginate(page, total)}, nil
}

// UpdateQty accepts exactly {"qty": n} with n >= 1 and writes only the
// quantity of the caller's own line.
func (s *CartService) UpdateQty(ctx context.Context, userID uint, cartID string, fields map[string]any) (*domain.CartItem, error) {
	item, err := applyWhitelistedUpdate(fields, domain.FieldCartQty, parseQty, func(qty int) (*domain.CartItem, error) {
		return s.carts.UpdateQty(ctx, cartID, userID, qty)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, domain.EventCartItemUpdated, item.ID, userID, map[string]any{
		"qty": item.Qty,
	})
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID uint, cartID string) (*domain.CartItem, error) {
	item, err := s.carts.Delete(ctx, cartID, userID)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, domain.EventCartItemRemoved, item.ID, userID, map[string]any{
		"productId": item.ProductID,
	})
	return item, nil
}
