package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	idem     ports.IdempotencyStore
	events   ports.EventPublisher
	logger   zerolog.Logger
}

// NewOrderService builds an OrderService. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewOrderService(
	orders ports.OrderRepository,
	products ports.ProductRepository,
	idem ports.IdempotencyStore,
	events ports.EventPublisher,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{orders: orders, products: products, idem: idem, events: events, logger: logger}
}

// Place creates an order in the processing state. When an idempotency key is
// supplied and was already used by the same user, the original order is
// returned without creating a new one.
func (s *OrderService) Place(ctx context.Context, userID uint, input ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
	if len(input.Lines) == 0 {
		return nil, domain.Validation("products must contain at least one item.")
	}
	for _, l := range input.Lines {
		if l.ProductID == "" || l.Qty < 1 {
			return nil, domain.Validation("every product needs a productId and a qty of at least 1.")
		}
	}

	scope := strconv.FormatUint(uint64(userID), 10)
	if input.IdempotencyKey != "" && s.idem != nil {
		orderID, found, err := s.idem.Lookup(ctx, scope, input.IdempotencyKey)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("idempotency lookup failed, placing order anyway")
		case found:
			existing, err := s.orders.FindByID(ctx, orderID)
			if err == nil {
				s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("order_id", existing.ID).Msg("idempotent replay")
				return &ports.PlaceOrderResult{Order: existing, Replayed: true}, nil
			}
			s.logger.Warn().Err(err).Str("order_id", orderID).Msg("remembered order not found, placing a new one")
		}
	}

	if err := s.checkProducts(ctx, input.Lines); err != nil {
		return nil, err
	}

	order, err := s.orders.Create(ctx, &domain.Order{
		ID:           uuid.NewString(),
		UserID:       userID,
		PaymentID:    input.PaymentID,
		DeliveryID:   input.DeliveryID,
		Status:       domain.OrderProcessing,
		Subtotal:     input.Subtotal,
		Tax:          input.Tax,
		ShippingCost: input.ShippingCost,
		GrandTotal:   input.GrandTotal,
	}, input.Lines)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, scope, input.IdempotencyKey, order.ID); err != nil {
			s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to remember idempotency key")
		}
	}

	s.logger.Info().Str("order_id", order.ID).Uint("user_id", userID).Float64("grand_total", order.GrandTotal).Msg("order placed")
	publish(ctx, s.events, domain.EventOrderPlaced, order.ID, userID, map[string]any{
		"grandTotal": order.GrandTotal,
		"items":      len(order.Items),
	})
	return &ports.PlaceOrderResult{Order: order}, nil
}

func (s *OrderService) List(ctx context.Context, page domain.Page) (*ports.ListOrdersResult, error) {
	page = domain.NewPage(page.Number, domain.DefaultPageSize)
	orders, total, err := s.orders.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return &ports.ListOrdersResult{Orders: orders, Pagination: domain.Paginate(page, total)}, nil
}

func (s *OrderService) History(ctx context.Context, userID uint) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// Get returns the order when the caller owns it or is an admin. Anyone else
// gets ErrOrderNotFound.
func (s *OrderService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.UserID && !caller.Role.IsAdmin() {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus accepts exactly {"status": s} with a known status.
func (s *OrderService) UpdateStatus(ctx context.Context, actorID uint, id string, fields map[string]any) (*domain.Order, error) {
	order, err := applyWhitelistedUpdate(fields, domain.FieldOrderStatus, parseOrderStatus, func(status domain.OrderStatus) (*domain.Order, error) {
		return s.orders.UpdateStatus(ctx, id, status)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", id).Str("status", string(order.Status)).Uint("actor_id", actorID).Msg("order status changed")
	publish(ctx, s.events, domain.EventOrderStatusChanged, order.ID, actorID, map[string]any{
		"status": string(order.Status),
	})
	return order, nil
}

func (s *OrderService) checkProducts(ctx context.Context, lines []domain.OrderLine) error {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; !ok {
			seen[l.ProductID] = struct{}{}
			ids = append(ids, l.ProductID)
		}
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("check products: %w", err)
	}
	if len(found) != len(ids) {
		return domain.ErrProductNotFound
	}
	return nil
}
