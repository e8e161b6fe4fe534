package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// HeaderIdempotencyKey carries the client's retry key on POST /orders.
const HeaderIdempotencyKey = "Idempotency-Key"

type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Place checks out an order for the caller. Replays of a known
// Idempotency-Key answer 200 with the original order.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate orders"
// @Param        body             body      placeOrderRequest  true   "Order"
// @Success      201              {object}  orderResponse
// @Success      200              {object}  orderResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req placeOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	result, err := h.orders.Place(c.Request().Context(), caller.UserID, toPlaceOrderInput(req, key))
	if err != nil {
		return err
	}
	metrics.OrdersPlacedTotal.WithLabelValues(strconv.FormatBool(result.Replayed)).Inc()

	if result.Replayed {
		c.Response().Header().Set("Idempotent-Replayed", "true")
		return c.JSON(http.StatusOK, orderResponse{Message: "Order already placed", Order: result.Order})
	}
	return c.JSON(http.StatusCreated, orderResponse{Message: "Order placed", Order: result.Order})
}

// List returns a page of all orders.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number"
// @Success      200   {object}  ordersResponse
// @Failure      403   {object}  errorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	result, err := h.orders.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: nonNil(result.Orders), Pagination: &result.Pagination})
}

// History returns the caller's orders, newest first.
//
// @Summary      Order history
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ordersResponse
// @Router       /orders/history [get]
func (h *OrderHandler) History(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.History(c.Request().Context(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: nonNil(orders)})
}

// Get returns one order to its owner or an admin.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string  true  "Order id"
// @Success      200      {object}  orderResponse
// @Failure      404      {object}  errorResponse
// @Router       /orders/{orderId} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.Request().Context(), caller, c.Param("orderId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Order: order})
}

// UpdateStatus moves an order to another status. The body must contain
// exactly the status field.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string             true  "Order id"
// @Param        body     body      map[string]string  true  "{\"status\": \"shipped\"}"
// @Success      200      {object}  orderResponse
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /orders/{orderId} [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), caller.UserID, c.Param("orderId"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Message: "Order updated", Order: order})
}
