package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/config"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/internal/domain/enum"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if viper.GetBool("APP_DEBUG") {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Staff
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		// Catalogue and customers
		&entity.Product{},
		&entity.Customer{},

		// Counter
		&entity.CartSession{},
		&entity.CartItem{},
		&entity.Shift{},
		&entity.Order{},
		&entity.OrderItem{},

		// System
		&entity.PrinterTemplate{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// Permissions checked by the HTTP layer
var permissionNames = []string{
	"view-products",
	"manage-products",
	"manage-customers",
	"view-orders",
	"manage-orders",
	"update-order-status",
	"manage-shifts",
	"view-shifts",
	"print",
	"manage-printers",
	"manage-users",
}

// rolePermissions lists what each role may do. admin receives every permission.
var rolePermissions = map[string][]string{
	"manager": {
		"view-products", "manage-products", "manage-customers",
		"view-orders", "manage-orders", "update-order-status",
		"manage-shifts", "view-shifts", "print", "manage-printers",
	},
	"cashier": {
		"view-products", "manage-customers",
		"view-orders", "manage-orders", "update-order-status",
		"manage-shifts", "print",
	},
	"workshop": {
		"view-orders", "update-order-status", "print",
	},
}

// SeedDefaultData seeds permissions, roles, the admin user, a starter
// catalogue and the default printer templates. Existing rows are left alone.
func SeedDefaultData(db *gorm.DB, cfg *config.Config) error {
	log.Println("Seeding default data...")

	for _, name := range permissionNames {
		var existing entity.Permission
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			if err := db.Create(&entity.Permission{Name: name}).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", name, err)
			}
		}
	}

	var allPermissions []entity.Permission
	if err := db.Find(&allPermissions).Error; err != nil {
		return fmt.Errorf("failed to load permissions: %w", err)
	}

	seedRole(db, "admin", allPermissions)
	for _, name := range []string{"manager", "cashier", "workshop"} {
		seedRole(db, name, pick(allPermissions, rolePermissions[name]))
	}

	seedAdmin(db)
	seedTemplates(db, cfg)

	log.Println("Default data seeding completed")
	return nil
}

func seedRole(db *gorm.DB, name string, permissions []entity.Permission) {
	var role entity.Role
	if err := db.Where("name = ?", name).First(&role).Error; err == nil {
		return
	}
	role = entity.Role{Name: name, Permissions: permissions}
	if err := db.Create(&role).Error; err != nil {
		log.Printf("Warning: failed to create %s role: %v", name, err)
	}
}

func pick(all []entity.Permission, names []string) []entity.Permission {
	var out []entity.Permission
	for _, name := range names {
		for _, p := range all {
			if p.Name == name {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// seedAdmin creates the admin account from ADMIN_EMAIL and ADMIN_PASSWORD when set
func seedAdmin(db *gorm.DB) {
	adminEmail := strings.ToLower(strings.TrimSpace(viper.GetString("ADMIN_EMAIL")))
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail == "" || adminPassword == "" {
		return
	}

	var existingAdmin entity.User
	if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err == nil {
		log.Printf("Admin user already exists: %s", adminEmail)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: failed to hash admin password: %v", err)
		return
	}

	var adminRole entity.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		log.Printf("Warning: admin role missing: %v", err)
		return
	}

	if adminName == "" {
		adminName = "Store Admin"
	}
	firstName, lastName, _ := strings.Cut(adminName, " ")

	adminUser := entity.User{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     adminEmail,
		Password:  string(hashedPassword),
		Active:    true,
		Roles:     []entity.Role{adminRole},
	}
	if err := db.Create(&adminUser).Error; err != nil {
		log.Printf("Warning: failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user created: %s", adminEmail)
}

// seedTemplates creates a default template for every kind that has none
func seedTemplates(db *gorm.DB, cfg *config.Config) {
	width := cfg.Printer.CharWidth
	if width != 32 && width != 48 {
		width = 32
	}
	storeName := cfg.Email.StoreName
	if storeName == "" {
		storeName = cfg.App.Name
	}

	kinds := []struct {
		kind enum.TemplateKind
		name string
	}{
		{enum.TemplateKindReceipt, "Counter receipt"},
		{enum.TemplateKindInvoice, "Invoice"},
		{enum.TemplateKindWorkshopTag, "Workshop tag"},
	}

	for _, k := range kinds {
		var count int64
		if err := db.Model(&entity.PrinterTemplate{}).Where("kind = ?", k.kind).Count(&count).Error; err != nil || count > 0 {
			continue
		}
		tmpl := entity.PrinterTemplate{
			Name:         k.name,
			Kind:         k.kind,
			PaperWidth:   width,
			StoreName:    storeName,
			Footer:       "Thank you for your business!",
			ShowCustomer: true,
			ShowTax:      true,
			ShowPayment:  true,
			IsDefault:    true,
		}
		if err := db.Create(&tmpl).Error; err != nil {
			log.Printf("Warning: failed to create %s template: %v", k.kind, err)
		}
	}
}
