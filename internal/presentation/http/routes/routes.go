package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/laundry-pos/internal/config"
	domainRepo "github.com/sangkips/laundry-pos/internal/domain/repository"
	"github.com/sangkips/laundry-pos/internal/presentation/http/handler"
	"github.com/sangkips/laundry-pos/internal/presentation/http/middleware"
	"github.com/sangkips/laundry-pos/pkg/metrics"
	"github.com/sangkips/laundry-pos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Shift    *handler.ShiftHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Metrics         *metrics.Metrics
	RateLimiter     *middleware.RateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	if deps.Metrics != nil && deps.Cfg.Metrics.Enabled {
		path := deps.Cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(deps.Metrics.Handler()))
	}

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(middleware.RateLimiterConfigFor(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration))
	}

	router.GET("/health", healthHandler(deps.Cfg.App.Name, limiter))

	v1 := router.Group("/api/v1")
	{
		// Public routes, limited per client IP
		public := v1.Group("")
		public.Use(limiter.Middleware())
		registerAuthRoutes(public, h)

		// Protected routes, limited per user
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(limiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	registerProductRoutes(protected, h)
	registerCustomerRoutes(protected, h, idempotent)
	registerCartRoutes(protected, h)
	registerOrderRoutes(protected, h, idempotent)
	registerShiftRoutes(protected, h)
	registerPrinterRoutes(protected, h)
	registerUserRoutes(protected, h)
}

// healthHandler reports liveness along with the rate limiter's current load
func healthHandler(serviceName string, limiter *middleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"service": serviceName,
		}
		if limiter != nil {
			body["rate_limit"] = limiter.Stats()
		}
		c.JSON(http.StatusOK, body)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		view := middleware.RequirePermission("view-products")
		manage := middleware.RequirePermission("manage-products")

		products.GET("", view, h.Product.List)
		products.GET("/:id", view, h.Product.Get)
		products.POST("", manage, h.Product.Create)
		products.PUT("/:id", manage, h.Product.Update)
		products.DELETE("/:id", manage, h.Product.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission("manage-customers"))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.POST("/:id/credits", idempotent, h.Customer.AddCredits)
	}
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers) {
	cart := protected.Group("/cart")
	cart.Use(middleware.RequirePermission("manage-orders"))
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:itemId", h.Cart.UpdateItem)
		cart.DELETE("/items/:itemId", h.Cart.RemoveItem)
		cart.PUT("/customer", h.Cart.SetCustomer)
		cart.POST("/quote", h.Cart.Quote)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	orders := protected.Group("/orders")
	{
		view := middleware.RequirePermission("view-orders")
		manage := middleware.RequirePermission("manage-orders")
		status := middleware.RequirePermission("update-order-status")

		orders.GET("", view, h.Order.List)
		// Checkout and payments replay the first response for a retried Idempotency-Key
		orders.POST("", manage, idempotent, h.Order.Create)
		orders.GET("/workshop", view, h.Order.WorkshopQueue)
		orders.GET("/ready", view, h.Order.ReadyForPickup)
		orders.GET("/due", manage, h.Order.Due)
		orders.GET("/number/:orderNo", view, h.Order.GetByNumber)
		orders.GET("/:id", view, h.Order.Get)
		orders.POST("/:id/advance", status, h.Order.Advance)
		orders.PUT("/:id/status", status, h.Order.UpdateStatus)
		orders.POST("/:id/cancel", manage, h.Order.Cancel)
		orders.POST("/:id/pay", manage, idempotent, h.Order.PayDue)
		orders.GET("/:id/invoice", view, h.Printer.Invoice)
	}
}

func registerShiftRoutes(protected *gin.RouterGroup, h *Handlers) {
	shifts := protected.Group("/shifts")
	shifts.Use(middleware.RequirePermission("manage-shifts"))
	{
		shifts.GET("", h.Shift.List)
		shifts.POST("/open", h.Shift.Open)
		shifts.GET("/current", h.Shift.Current)
		shifts.POST("/close", h.Shift.Close)
		shifts.GET("/:id", h.Shift.Get)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	printerGroup.Use(middleware.RequirePermission("print"))
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/print", h.Printer.Print)
	}

	templates := protected.Group("/printer/templates")
	templates.Use(middleware.RequirePermission("manage-printers"))
	{
		templates.GET("", h.Printer.ListTemplates)
		templates.POST("", h.Printer.CreateTemplate)
		templates.GET("/:id", h.Printer.GetTemplate)
		templates.PUT("/:id", h.Printer.UpdateTemplate)
		templates.DELETE("/:id", h.Printer.DeleteTemplate)
		templates.POST("/:id/default", h.Printer.SetDefault)
		templates.GET("/:id/preview", h.Printer.Preview)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.POST("/:id/roles", h.User.AssignRole)
		users.PUT("/:id/active", h.User.SetActive)
	}

	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}
