package handler

import (
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// --- Users ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
	Role     string `json:"role"     validate:"omitempty,role"`
}

type updateProfileRequest struct {
	Password *string `json:"password" validate:"omitempty,strongpassword"`
	Name     *string `json:"name"`
	Username *string `json:"username" validate:"omitempty,min=1"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Gender   *string `json:"gender"`
	Role     *string `json:"role"`
}

type userResponse struct {
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
}

type usersResponse struct {
	Users []domain.User `json:"users"`
}

type identityResponse struct {
	User domain.Identity `json:"user"`
}

// --- Catalog ---

type createCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type categoryResponse struct {
	Category *domain.Category `json:"category"`
}

type categoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

type createProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	CategoryIDs []uint  `json:"categoryIds" validate:"required,min=1"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock"       validate:"omitempty,gte=0"`
	CategoryIDs []uint   `json:"categoryIds" validate:"omitempty,min=1"`
	Image       *string  `json:"image"`
}

type productResponse struct {
	Message string          `json:"message,omitempty"`
	Product *domain.Product `json:"product"`
}

type productsResponse struct {
	Products   []domain.Product  `json:"products"`
	Pagination domain.Pagination `json:"pagination"`
}

// --- Carts ---

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty"       validate:"required,gte=1"`
}

type cartResponse struct {
	Message string           `json:"message,omitempty"`
	Cart    *domain.CartItem `json:"cart"`
}

type cartsResponse struct {
	Carts      []domain.CartItem `json:"carts"`
	Pagination domain.Pagination `json:"pagination"`
}

// --- Orders ---

type orderLineRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty"       validate:"required,gte=1"`
}

type placeOrderRequest struct {
	PaymentID    int                `json:"paymentId"    validate:"required"`
	DeliveryID   int                `json:"deliveryId"   validate:"required"`
	Subtotal     float64            `json:"subtotal"     validate:"gte=0"`
	Tax          float64            `json:"tax"          validate:"gte=0"`
	ShippingCost float64            `json:"shippingCost" validate:"gte=0"`
	GrandTotal   float64            `json:"grandTotal"   validate:"gte=0"`
	Products     []orderLineRequest `json:"products"     validate:"required,min=1,dive"`
}

type orderResponse struct {
	Message string        `json:"message,omitempty"`
	Order   *domain.Order `json:"order"`
}

type ordersResponse struct {
	Orders     []domain.Order     `json:"orders"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}
