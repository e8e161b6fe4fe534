package handler

import (
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Username: req.Username,
		Address:  req.Address,
		Phone:    req.Phone,
		Gender:   req.Gender,
		Role:     req.Role,
	}
}

func toUpdateProfileInput(req updateProfileRequest, image *string) ports.UpdateProfileInput {
	return ports.UpdateProfileInput{
		Password: req.Password,
		Name:     req.Name,
		Username: req.Username,
		Address:  req.Address,
		Phone:    req.Phone,
		Gender:   req.Gender,
		Image:    image,
		Role:     req.Role,
	}
}

func toCreateProductInput(req createProductRequest, image string) ports.CreateProductInput {
	return ports.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryIDs: req.CategoryIDs,
		Image:       image,
	}
}

func toUpdateProductInput(req updateProductRequest) ports.UpdateProductInput {
	return ports.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryIDs: req.CategoryIDs,
		Image:       req.Image,
	}
}

func toPlaceOrderInput(req placeOrderRequest, idempotencyKey string) ports.PlaceOrderInput {
	lines := make([]domain.OrderLine, len(req.Products))
	for i, p := range req.Products {
		lines[i] = domain.OrderLine{ProductID: p.ProductID, Qty: p.Qty}
	}
	return ports.PlaceOrderInput{
		PaymentID:      req.PaymentID,
		DeliveryID:     req.DeliveryID,
		Subtotal:       req.Subtotal,
		Tax:            req.Tax,
		ShippingCost:   req.ShippingCost,
		GrandTotal:     req.GrandTotal,
		Lines:          lines,
		IdempotencyKey: idempotencyKey,
	}
}

// --- Service output → Response ---

// nonNil keeps empty lists serialised as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
