// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
	"github.com/your-org/storefront-backend/internal/domain/review"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// Models lists every table in dependency order
func Models() []interface{} {
	return []interface{}{
		&product.Product{},
		&promotion.Promotion{},
		&promotion.PromotionProduct{},
		&order.Order{},
		&order.OrderItem{},
		&review.Review{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("🔄 Running database auto-migrations...")

	for _, model := range Models() {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	m.logger.Info("✅ Database auto-migrations completed")
	return nil
}

// CreateIndexes creates the indexes AutoMigrate cannot express
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE EXTENSION IF NOT EXISTS pg_trgm",
		"CREATE INDEX IF NOT EXISTS idx_products_name_trgm ON products USING gin (name gin_trgm_ops)",
		"CREATE INDEX IF NOT EXISTS idx_products_active_category ON products (is_active, category)",
		"CREATE INDEX IF NOT EXISTS idx_promotions_window ON promotions (start_date, end_date)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_promotion_products_pair ON promotion_products (promotion_id, product_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_pending ON orders (payment_method, payment_status) WHERE payment_status = 'pending'",
	}

	for _, stmt := range indexes {
		if err := m.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to execute %q: %w", stmt, err)
		}
	}
	m.logger.Info("✅ Database indexes ensured")
	return nil
}

// SeedInitialData inserts demo catalog data when the catalog is empty
func (m *Migration) SeedInitialData() error {
	m.logger.Info("🌱 Seeding initial data...")

	var productCount int64
	if err := m.db.Model(&product.Product{}).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if productCount > 0 {
		m.logger.Info("⏭️ Catalog already seeded")
		return nil
	}

	return m.db.Transaction(func(tx *gorm.DB) error {
		products := SeedProducts()
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}

		now := time.Now().UTC()
		promotions := []promotion.Promotion{
			{
				Name:       "Mug sale",
				Type:       promotion.TypeDiscount,
				TotalPrice: decimal.NewNullDecimal(decimal.RequireFromString("6990.00")),
				StartDate:  now.AddDate(0, 0, -1),
				EndDate:    now.AddDate(0, 1, 0),
			},
			{
				Name:      "Coasters 3x2",
				Type:      promotion.TypeThreeForTwo,
				StartDate: now.AddDate(0, 0, -1),
				EndDate:   now.AddDate(0, 1, 0),
			},
		}
		if err := tx.Create(&promotions).Error; err != nil {
			return fmt.Errorf("failed to seed promotions: %w", err)
		}

		links := []promotion.PromotionProduct{
			{PromotionID: promotions[0].ID, ProductID: products[0].ID},
			{PromotionID: promotions[1].ID, ProductID: products[2].ID},
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("failed to seed promotion products: %w", err)
		}

		m.logger.WithFields(logrus.Fields{
			"products":   len(products),
			"promotions": len(promotions),
		}).Info("✅ Initial data seeded successfully")
		return nil
	})
}

// SeedProducts returns the demo catalog
func SeedProducts() []product.Product {
	return []product.Product{
		{
			Name:         "Ceramic Mug",
			Description:  "Hand-glazed stoneware mug, 350ml.",
			Price:        decimal.RequireFromString("9990.00"),
			Images:       []string{"products/mug-1.jpg", "products/mug-2.jpg"},
			Category:     "kitchen",
			Colors:       []string{"white", "black", "sage"},
			ShippingDays: "3-5",
			IsActive:     true,
		},
		{
			Name:        "Linen Tablecloth",
			Description: "Washed linen tablecloth, made to order. [shipping_days:10]",
			Price:       decimal.RequireFromString("45500.00"),
			Images:      []string{"products/tablecloth-1.jpg"},
			Category:    "textiles",
			Colors:      []string{"natural", "terracotta"},
			IsActive:    true,
		},
		{
			Name:         "Cork Coaster",
			Description:  "Natural cork coaster.",
			Price:        decimal.RequireFromString("2500.00"),
			Images:       []string{"products/coaster-1.jpg"},
			Category:     "kitchen",
			ShippingDays: "2",
			IsActive:     true,
		},
		{
			Name:         "Wool Throw",
			Description:  "Merino wool throw blanket.",
			Price:        decimal.RequireFromString("78000.00"),
			Images:       []string{"products/throw-1.jpg"},
			Category:     "textiles",
			Colors:       []string{"grey"},
			ShippingDays: "7",
			IsActive:     true,
		},
	}
}

// DropAllTables drops every table, newest dependents first
func (m *Migration) DropAllTables() error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop %T: %w", models[i], err)
		}
	}
	m.logger.Warn("🗑️ All tables dropped")
	return nil
}
