package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// OrderRepository persists orders and their items.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, lines []domain.OrderLine) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, page domain.Page) ([]domain.Order, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Order, error)
	// UpdateStatus writes status and returns domain.ErrOrderNotFound when no
	// row matched.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// IdempotencyStore remembers the result of a request submitted with an
// Idempotency-Key so a retry can be answered without repeating side effects.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) (string, bool, error)
	Remember(ctx context.Context, scope, key, value string) error
}

// PlaceOrderInput is a checkout request.
type PlaceOrderInput struct {
	PaymentID      int
	DeliveryID     int
	Subtotal       float64
	Tax            float64
	ShippingCost   float64
	GrandTotal     float64
	Lines          []domain.OrderLine
	IdempotencyKey string
}

// PlaceOrderResult is the placed order. Replayed is true when the
// Idempotency-Key matched an earlier order.
type PlaceOrderResult struct {
	Order    *domain.Order
	Replayed bool
}

// ListOrdersResult is a page of orders.
type ListOrdersResult struct {
	Orders     []domain.Order
	Pagination domain.Pagination
}

// OrderService manages checkout and order fulfilment.
type OrderService interface {
	Place(ctx context.Context, userID uint, input PlaceOrderInput) (*PlaceOrderResult, error)
	List(ctx context.Context, page domain.Page) (*ListOrdersResult, error)
	History(ctx context.Context, userID uint) ([]domain.Order, error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, actorID uint, id string, fields map[string]any) (*domain.Order, error)
}
