package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-service/internal/auth"
)

type seedProduct struct {
	title       string
	description string
	price       float64
	quantity    int
	brand       string
	category    string
}

var seedBrands = []string{"Dell", "Samsung", "Apple", "HP", "Lenovo"}

var seedCategories = []string{"Laptops", "Smartphones", "Smartwatches", "Tablets"}

var seedProducts = []seedProduct{
	{"Dell Inspiron 15 Laptop", "Performance and portability for work and entertainment.", 799.99, 15, "Dell", "Laptops"},
	{"HP Pavilion Gaming Laptop", "Gaming laptop with dedicated graphics and advanced cooling.", 1099.99, 10, "HP", "Laptops"},
	{"Samsung Galaxy S23", "Flagship smartphone with advanced camera system.", 899.99, 25, "Samsung", "Smartphones"},
	{"Apple iPhone 15 Pro", "A17 Pro chip, titanium design, advanced camera features.", 1199.99, 20, "Apple", "Smartphones"},
	{"Apple Watch Series 9", "Health and fitness tracking with always-on display.", 429.99, 30, "Apple", "Smartwatches"},
	{"Samsung Galaxy Watch 6", "Comprehensive health monitoring and long battery life.", 349.99, 18, "Samsung", "Smartwatches"},
	{"Apple iPad Air", "M2 chip, Liquid Retina display, all-day battery life.", 649.99, 22, "Apple", "Tablets"},
	{"Samsung Galaxy Tab S9", "AMOLED display, S Pen included.", 799.99, 12, "Samsung", "Tablets"},
	{"Lenovo ThinkPad X1 Carbon", "Business ultrabook with durable carbon-fiber chassis.", 1399.99, 8, "Lenovo", "Laptops"},
}

type seedUser struct {
	name     string
	email    string
	password string
	isAdmin  bool
}

var seedUsers = []seedUser{
	{"Admin User", "admin@example.com", "Admin@Pass123", true},
	{"Test User", "test@example.com", "SecureP@ss123", false},
}

// Seed inserts fixture brands, categories, products and users. Every insert
// is create-if-not-exists, so reseeding an existing database is a no-op.
func Seed(ctx context.Context, pool *pgxpool.Pool, bcryptCost int, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping seed")
		return nil
	}

	for _, name := range seedBrands {
		if _, err := pool.Exec(ctx,
			`INSERT INTO brands (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed brand %s: %w", name, err)
		}
	}

	for _, name := range seedCategories {
		if _, err := pool.Exec(ctx,
			`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
	}

	for _, p := range seedProducts {
		const query = `
        INSERT INTO products (title, description, price, quantity, published, in_stock, brand_id, category_id)
        SELECT $1, $2, $3, $4, TRUE, TRUE,
               (SELECT id FROM brands WHERE name=$5),
               (SELECT id FROM categories WHERE name=$6)
        WHERE NOT EXISTS (SELECT 1 FROM products WHERE title=$1)`
		if _, err := pool.Exec(ctx, query,
			p.title, p.description, p.price, p.quantity, p.brand, p.category); err != nil {
			return fmt.Errorf("seed product %s: %w", p.title, err)
		}
	}

	for _, u := range seedUsers {
		var exists bool
		if err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`, u.email).Scan(&exists); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
		if exists {
			continue
		}
		hash, err := auth.HashPassword(u.password, bcryptCost)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
		if _, err := pool.Exec(ctx,
			`INSERT INTO users (name, email, password_hash, is_admin) VALUES ($1, $2, $3, $4)
             ON CONFLICT (email) DO NOTHING`,
			u.name, u.email, hash, u.isAdmin); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
	}

	logger.Info("database seeded",
		zap.Int("brands", len(seedBrands)),
		zap.Int("categories", len(seedCategories)),
		zap.Int("products", len(seedProducts)),
		zap.Int("users", len(seedUsers)))
	return nil
}
