// Package server wires repositories, services and handlers into the HTTP router.
package server

import (
	"context"
	"net/http"
	"time"

	"waste-service/internal/handler"
	"waste-service/internal/middleware"
	"waste-service/internal/model"
	"waste-service/internal/repository"
	"waste-service/internal/service"
	"waste-service/pkg/cache"
	"waste-service/pkg/config"
	"waste-service/pkg/database"
	"waste-service/pkg/jwtutil"
	"waste-service/pkg/logger"
	"waste-service/pkg/media"
	"waste-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// Options are the router settings that do not come from the services
type Options struct {
	ClientOrigin string
	Ping         handler.Pinger
}

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth       *handler.AuthHandler
	Complaints *handler.ComplaintHandler
	Pickups    *handler.PickupHandler
	Fleet      *handler.FleetHandler
	Admin      *handler.AdminHandler
	Products   *handler.ProductHandler
	Cart       *handler.CartHandler
	Orders     *handler.OrderHandler
}

// Dependencies are the external resources the service runs on
type Dependencies struct {
	DB        *gorm.DB
	Uploader  media.Uploader
	Snapshots cache.SnapshotCache
}

// New builds the full application router from configuration and dependencies
func New(cfg *config.Config, deps Dependencies) *echo.Echo {
	tokens := jwtutil.NewJWTUtil(cfg.JWT.SigningKey, cfg.JWT.Expiration())
	uploader := deps.Uploader
	if uploader == nil {
		uploader = media.Disabled{}
	}

	users := repository.NewUserRepository(deps.DB)
	products := repository.NewProductRepository(deps.DB)
	carts := repository.NewCartRepository(deps.DB)
	orders := repository.NewOrderRepository(deps.DB)
	complaints := repository.NewComplaintRepository(deps.DB)
	pickups := repository.NewPickupRepository(deps.DB)
	fleet := repository.NewFleetRepository(deps.DB)
	stats := repository.NewDashboardRepository(deps.DB)

	dashboard := service.NewDashboardService(stats, deps.Snapshots)
	userService := service.NewUserService(users, tokens, dashboard)
	cookie := handler.CookieConfig{Secure: cfg.Server.CookieSecure, MaxAge: tokens.Expiration()}

	h := Handlers{
		Auth:       handler.NewAuthHandler(userService, cookie),
		Complaints: handler.NewComplaintHandler(service.NewComplaintService(complaints, uploader, dashboard)),
		Pickups:    handler.NewPickupHandler(service.NewPickupService(pickups, dashboard)),
		Fleet:      handler.NewFleetHandler(service.NewFleetService(fleet, dashboard)),
		Admin:      handler.NewAdminHandler(dashboard, userService),
		Products:   handler.NewProductHandler(service.NewProductService(products, uploader)),
		Cart:       handler.NewCartHandler(service.NewCartService(carts, products)),
		Orders:     handler.NewOrderHandler(service.NewOrderService(orders)),
	}

	return NewRouter(Options{
		ClientOrigin: cfg.Server.ClientOrigin,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, deps.DB)
		},
	}, h, tokens)
}

// NewRouter mounts the handlers behind the shared middleware chain
func NewRouter(opts Options, h Handlers, tokens middleware.TokenValidator) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = handler.NewValidator()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{opts.ClientOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	ping := opts.Ping
	if ping == nil {
		ping = func(context.Context) error { return nil }
	}
	e.GET("/health", handler.HealthCheck(ping))
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	session := middleware.SessionMiddleware(tokens)
	admin := middleware.RequireRole(model.RoleAdmin)
	business := middleware.RequireRole(model.RoleBusiness)

	auth := e.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/signin", h.Auth.Signin)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/getMe", h.Auth.GetMe, session)
	auth.PUT("/profile", h.Auth.UpdateProfile, session)

	complaints := e.Group("/complaint", session)
	complaints.POST("/create", h.Complaints.Create)
	complaints.GET("/my-complaints", h.Complaints.ListMine)
	complaints.GET("/all", h.Complaints.ListAll, admin)
	complaints.PUT("/status/:id", h.Complaints.UpdateStatus, admin)

	biz := e.Group("/business", session, business)
	biz.POST("/request-pickup", h.Pickups.Request)
	biz.GET("/my-requests", h.Pickups.ListMine)

	trucks := e.Group("/truck", session)
	trucks.GET("/all", h.Fleet.ListTrucks)
	trucks.GET("/routes", h.Fleet.ListRoutes)
	trucks.GET("/route/:ward", h.Fleet.TrucksForWard)

	adm := e.Group("/admin", session, admin)
	adm.POST("/add-truck", h.Fleet.AddTruck)
	adm.POST("/add-route", h.Fleet.AddRoute)
	adm.GET("/dashboard-data", h.Admin.Dashboard)
	adm.GET("/all-users", h.Admin.ListUsers)
	adm.GET("/pickups", h.Pickups.ListAll)

	// Static segments such as /cart and /my-listings win over :id
	products := e.Group("/products")
	products.GET("", h.Products.List)
	products.POST("", h.Products.Create, session)
	products.GET("/my-listings", h.Products.ListMine, session)

	cart := products.Group("/cart", session)
	cart.GET("", h.Cart.Get)
	cart.POST("", h.Cart.Add)
	cart.DELETE("", h.Cart.Clear)
	cart.PUT("/:productId", h.Cart.Update)
	cart.DELETE("/:productId", h.Cart.Remove)

	orders := products.Group("/orders", session)
	orders.POST("/checkout", h.Orders.Checkout)
	orders.GET("/my-orders", h.Orders.ListMine)
	orders.GET("/sales", h.Orders.ListSales)
	orders.GET("/:id", h.Orders.Get)
	orders.PUT("/:id/status", h.Orders.UpdateStatus)

	products.GET("/:id", h.Products.Get)
	products.PUT("/:id", h.Products.Update, session)
	products.DELETE("/:id", h.Products.Delete, session)

	return e
}
