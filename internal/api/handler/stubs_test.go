package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// newContext builds an echo context for a JSON request. identity, when
// non-nil, is installed the way the Authenticate middleware does it.
func newContext(method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		auth := &fixedAuth{identity: *identity}
		req.Header.Set(echo.HeaderAuthorization, "Bearer test")
		_ = middleware.Authenticate(auth)(func(echo.Context) error { return nil })(c)
	}
	return c, rec
}

var (
	userIdentity  = &domain.Identity{UserID: 2, Email: "a@x.com", Role: domain.RoleUser}
	adminIdentity = &domain.Identity{UserID: 1, Email: "admin@x.com", Role: domain.RoleAdmin}
)

type fixedAuth struct {
	identity domain.Identity
}

func (f *fixedAuth) VerifyCredentials(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrCredentials
}

func (f *fixedAuth) IssueToken(*domain.User) (domain.IssuedToken, error) {
	return domain.IssuedToken{}, nil
}

func (f *fixedAuth) Login(context.Context, string, string) (domain.IssuedToken, *domain.User, error) {
	return domain.IssuedToken{}, nil, domain.ErrCredentials
}

func (f *fixedAuth) Authenticate(string) (domain.Identity, error) {
	return f.identity, nil
}

type stubAuthService struct {
	fixedAuth
	loginFn func(ctx context.Context, email, password string) (domain.IssuedToken, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (domain.IssuedToken, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubUserService struct {
	registerFn   func(ctx context.Context, input ports.RegisterInput, caller *domain.Identity) (*domain.User, error)
	updateFn     func(ctx context.Context, caller domain.Identity, input ports.UpdateProfileInput) (*domain.User, error)
	changeRoleFn func(ctx context.Context, actorID, id uint, fields map[string]any) (*domain.User, error)
	getFn        func(ctx context.Context, id uint) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, input ports.RegisterInput, caller *domain.Identity) (*domain.User, error) {
	return s.registerFn(ctx, input, caller)
}

func (s *stubUserService) List(context.Context) ([]domain.User, error) { return nil, nil }

func (s *stubUserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, caller domain.Identity, input ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateFn(ctx, caller, input)
}

func (s *stubUserService) ChangeRole(ctx context.Context, actorID, id uint, fields map[string]any) (*domain.User, error) {
	return s.changeRoleFn(ctx, actorID, id, fields)
}

func (s *stubUserService) EnsureAdmin(context.Context, string, string) error { return nil }

type stubImageService struct {
	uploads []ports.ImageUpload
	bodies  []string
}

func (s *stubImageService) Upload(_ context.Context, upload ports.ImageUpload) (string, error) {
	b, _ := io.ReadAll(upload.Body)
	s.uploads = append(s.uploads, upload)
	s.bodies = append(s.bodies, string(b))
	return "/images/abc123", nil
}

func (s *stubImageService) Open(_ context.Context, id string) (io.ReadCloser, ports.ImageInfo, error) {
	if id != "abc123" {
		return nil, ports.ImageInfo{}, domain.ErrImageNotFound
	}
	return io.NopCloser(strings.NewReader("PNGDATA")), ports.ImageInfo{ContentType: "image/png", Size: 7}, nil
}

type stubProductService struct {
	createFn func(ctx context.Context, actorID uint, input ports.CreateProductInput) (*domain.Product, error)
	updateFn func(ctx context.Context, actorID uint, id string, input ports.UpdateProductInput) (*domain.Product, error)
	listFn   func(ctx context.Context, filter domain.ProductFilter) (*ports.ListProductsResult, error)
}

func (s *stubProductService) Create(ctx context.Context, actorID uint, input ports.CreateProductInput) (*domain.Product, error) {
	return s.createFn(ctx, actorID, input)
}

func (s *stubProductService) List(ctx context.Context, filter domain.ProductFilter) (*ports.ListProductsResult, error) {
	return s.listFn(ctx, filter)
}

func (s *stubProductService) Search(context.Context, string, domain.Page) (*ports.ListProductsResult, error) {
	return &ports.ListProductsResult{}, nil
}

func (s *stubProductService) Get(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (s *stubProductService) Update(ctx context.Context, actorID uint, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	return s.updateFn(ctx, actorID, id, input)
}

func (s *stubProductService) Delete(context.Context, uint, string) error { return nil }

type stubCartService struct {
	updateFn func(ctx context.Context, userID uint, cartID string, fields map[string]any) (*domain.CartItem, error)
}

func (s *stubCartService) Add(_ context.Context, userID uint, input ports.AddToCartInput) (*domain.CartItem, error) {
	return &domain.CartItem{ID: "c1", UserID: userID, ProductID: input.ProductID, Qty: input.Qty}, nil
}

func (s *stubCartService) List(context.Context, uint, domain.Page) (*ports.ListCartResult, error) {
	return &ports.ListCartResult{}, nil
}

func (s *stubCartService) UpdateQty(ctx context.Context, userID uint, cartID string, fields map[string]any) (*domain.CartItem, error) {
	return s.updateFn(ctx, userID, cartID, fields)
}

func (s *stubCartService) Remove(context.Context, uint, string) (*domain.CartItem, error) {
	return nil, domain.ErrCartNotFound
}

type stubOrderService struct {
	placeFn func(ctx context.Context, userID uint, input ports.PlaceOrderInput) (*ports.PlaceOrderResult, error)
}

func (s *stubOrderService) Place(ctx context.Context, userID uint, input ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
	return s.placeFn(ctx, userID, input)
}

func (s *stubOrderService) List(context.Context, domain.Page) (*ports.ListOrdersResult, error) {
	return &ports.ListOrdersResult{}, nil
}

func (s *stubOrderService) History(context.Context, uint) ([]domain.Order, error) { return nil, nil }

func (s *stubOrderService) Get(context.Context, domain.Identity, string) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (s *stubOrderService) UpdateStatus(context.Context, uint, string, map[string]any) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}
