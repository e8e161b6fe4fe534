package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/ports"
)

// CartHandler serves the caller's own cart. Every route requires
// authentication.
type CartHandler struct {
	carts ports.CartService
}

func NewCartHandler(carts ports.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Add puts a product in the caller's cart.
//
// @Summary      Add to cart
// @Tags         carts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addToCartRequest  true  "Cart line"
// @Success      201   {object}  cartResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /carts [post]
func (h *CartHandler) Add(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req addToCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.carts.Add(c.Request().Context(), caller.UserID, ports.AddToCartInput{
		ProductID: req.ProductID,
		Qty:       req.Qty,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cartResponse{Message: "Product added to cart", Cart: item})
}

// List returns a page of the caller's cart lines.
//
// @Summary      List cart
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number"
// @Success      200   {object}  cartsResponse
// @Router       /carts [get]
func (h *CartHandler) List(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	page, err := pageParam(c)
	if err != nil {
		return err
	}

	result, err := h.carts.List(c.Request().Context(), caller.UserID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartsResponse{Carts: nonNil(result.Items), Pagination: result.Pagination})
}

// Update changes the quantity of a cart line. The body must contain exactly
// the qty field.
//
// @Summary      Update cart quantity
// @Tags         carts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        cartId  path      string          true  "Cart line id"
// @Param        body    body      map[string]int  true  "{\"qty\": 2}"
// @Success      200     {object}  cartResponse
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /carts/{cartId} [patch]
func (h *CartHandler) Update(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}

	item, err := h.carts.UpdateQty(c.Request().Context(), caller.UserID, c.Param("cartId"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Message: "Cart updated", Cart: item})
}

// Remove deletes a cart line.
//
// @Summary      Remove from cart
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        cartId  path      string  true  "Cart line id"
// @Success      200     {object}  cartResponse
// @Failure      404     {object}  errorResponse
// @Router       /carts/{cartId} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	item, err := h.carts.Remove(c.Request().Context(), caller.UserID, c.Param("cartId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Message: "Product removed from cart", Cart: item})
}
