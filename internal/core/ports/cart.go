package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// CartRepository persists cart lines. Every mutation is scoped to the owning
// user so other users' lines read as not found.
type CartRepository interface {
	Create(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error)
	ListByUser(ctx context.Context, userID uint, page domain.Page) ([]domain.CartItem, int64, error)
	// UpdateQty writes qty and returns domain.ErrCartNotFound when no row matched.
	UpdateQty(ctx context.Context, id string, userID uint, qty int) (*domain.CartItem, error)
	Delete(ctx context.Context, id string, userID uint) (*domain.CartItem, error)
}

// AddToCartInput is a request to add a product to the caller's cart.
type AddToCartInput struct {
	ProductID string
	Qty       int
}

// ListCartResult is a page of cart lines.
type ListCartResult struct {
	Items      []domain.CartItem
	Pagination domain.Pagination
}

// CartService manages shopping carts.
type CartService interface {
	Add(ctx context.Context, userID uint, input AddToCartInput) (*domain.CartItem, error)
	List(ctx context.Context, userID uint, page domain.Page) (*ListCartResult, error)
	UpdateQty(ctx context.Context, userID uint, cartID string, fields map[string]any) (*domain.CartItem, error)
	Remove(ctx context.Context, userID uint, cartID string) (*domain.CartItem, error)
}
