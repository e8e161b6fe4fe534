package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/storefront/commerce-api/docs"
	"github.com/storefront/commerce-api/internal/api/handler"
	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// Dependencies are the services and settings the router wires into handlers.
type Dependencies struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Categories ports.CategoryService
	Products   ports.ProductService
	Images     ports.ImageService
	Carts      ports.CartService
	Orders     ports.OrderService

	HealthChecks []handler.HealthCheck
	Logger       zerolog.Logger
	SecureCookie bool
	// BodyLimit caps request bodies, image uploads included. Defaults to 10M.
	BodyLimit string

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	if d.BodyLimit == "" {
		d.BodyLimit = "10M"
	}
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.ContextLogger(d.Logger))
	e.Use(middleware.AccessLog())
	e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))

	authenticate := middleware.Authenticate(d.Auth)
	admin := middleware.AdminOnly()

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.SecureCookie)
	userHandler := handler.NewUserHandler(d.Users, d.Images)
	categoryHandler := handler.NewCategoryHandler(d.Categories)
	productHandler := handler.NewProductHandler(d.Products, d.Images)
	imageHandler := handler.NewImageHandler(d.Images)
	cartHandler := handler.NewCartHandler(d.Carts)
	orderHandler := handler.NewOrderHandler(d.Orders)
	healthHandler := handler.NewHealthHandler(d.HealthChecks...)

	// --- Operations (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	// --- Users ---
	users := e.Group("/users")
	users.POST("/register", userHandler.Register, middleware.OptionalAuthenticate(d.Auth))
	users.GET("", userHandler.List, authenticate, admin)
	users.GET("/me", userHandler.Me, authenticate)
	users.PATCH("/me", userHandler.UpdateMe, authenticate)
	users.GET("/:userId", userHandler.Get, authenticate, admin)
	users.PATCH("/:userId", userHandler.ChangeRole, authenticate, admin)

	// --- Catalog ---
	categories := e.Group("/categories")
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create, authenticate, admin)

	products := e.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/search", productHandler.Search)
	products.GET("/:productId", productHandler.Get)
	products.POST("", productHandler.Create, authenticate, admin)
	products.PATCH("/:productId", productHandler.Update, authenticate, admin)
	products.DELETE("/:productId", productHandler.Delete, authenticate, admin)

	e.GET("/images/:imageId", imageHandler.Get)

	// --- Carts (own lines only) ---
	carts := e.Group("/carts", authenticate)
	carts.POST("", cartHandler.Add)
	carts.GET("", cartHandler.List)
	carts.PATCH("/:cartId", cartHandler.Update)
	carts.DELETE("/:cartId", cartHandler.Remove)

	// --- Orders ---
	orders := e.Group("/orders", authenticate)
	orders.POST("", orderHandler.Place)
	orders.GET("", orderHandler.List, admin)
	orders.GET("/history", orderHandler.History)
	orders.GET("/:orderId", orderHandler.Get)
	orders.PATCH("/:orderId", orderHandler.UpdateStatus, admin)

	return e
}
