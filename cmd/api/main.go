package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/laundry-pos/internal/application/service"
	"github.com/sangkips/laundry-pos/internal/config"
	domainRepo "github.com/sangkips/laundry-pos/internal/domain/repository"
	"github.com/sangkips/laundry-pos/internal/infrastructure/database"
	"github.com/sangkips/laundry-pos/internal/infrastructure/repository"
	"github.com/sangkips/laundry-pos/internal/presentation/http/handler"
	"github.com/sangkips/laundry-pos/internal/presentation/http/middleware"
	"github.com/sangkips/laundry-pos/internal/presentation/http/routes"
	"github.com/sangkips/laundry-pos/pkg/billing"
	"github.com/sangkips/laundry-pos/pkg/email"
	"github.com/sangkips/laundry-pos/pkg/metrics"
	"github.com/sangkips/laundry-pos/pkg/printer"
	"github.com/sangkips/laundry-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db, cfg); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	templateRepo := repository.NewPrinterTemplateRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		StoreName:    cfg.Email.StoreName,
	})
	if !emailService.Enabled() {
		log.Println("SMTP is not configured; ready-for-pickup emails are disabled")
	}

	if cfg.Billing.TaxRate <= 0 {
		log.Printf("Warning: BILLING_TAX_RATE=%v is not positive; using the default rate %s", cfg.Billing.TaxRate, billing.DefaultTaxRate)
	}
	calculator := billing.NewCalculator(decimal.NewFromFloat(cfg.Billing.TaxRate))

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtManager)
	userService := service.NewUserService(userRepo, roleRepo)
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo)
	shiftService := service.NewShiftService(shiftRepo)
	cartService := service.NewCartService(cartRepo, productRepo, customerRepo, calculator, m)
	orderService := service.NewOrderService(
		cartRepo,
		orderRepo,
		customerRepo,
		shiftService,
		calculator,
		service.NewEmailNotifier(emailService),
		m,
		service.OrderSettings{
			OrderPrefix:   cfg.Billing.OrderPrefix,
			ShiftRequired: cfg.Billing.ShiftRequired,
		},
	)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if n, err := productService.SeedCatalogue(seedCtx, service.StarterCatalogue()); err != nil {
		log.Printf("Warning: failed to seed catalogue: %v", err)
	} else if n > 0 {
		log.Printf("Seeded %d laundry services", n)
	}
	cancelSeed()

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	printerTarget := cfg.Printer.Address
	if cfg.Printer.Type == printer.TypeUSB {
		printerTarget = cfg.Printer.USBPath
	}
	printerService := service.NewPrinterService(thermalPrinter, printerTarget, orderRepo, templateRepo, m)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Cart:     handler.NewCartHandler(cartService),
		Order:    handler.NewOrderHandler(orderService),
		Shift:    handler.NewShiftHandler(shiftService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	go purgeIdempotencyKeys(idempotencyRepo, time.Hour)

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Metrics:         m,
		RateLimiter:     rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s | tax rate %s | printer %s", cfg.App.Env, calculator.TaxRate.String(), thermalPrinter.Type())

	if err := router.Run(":" + port); err != nil {
		log.Printf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// purgeIdempotencyKeys deletes expired idempotency keys every interval
func purgeIdempotencyKeys(repo domainRepo.IdempotencyRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := repo.DeleteExpired(ctx, time.Now())
		if err != nil {
			log.Printf("Warning: failed to purge idempotency keys: %v", err)
		} else if n > 0 {
			log.Printf("Purged %d expired idempotency keys", n)
		}
		cancel()
	}
}
