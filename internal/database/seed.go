package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a small furniture catalog. It is a no-op when data
// already exists.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedCatalog(db)
}

// seedAdmin creates the default admin user if no users exist. The admin
// will be prompted to set up 2FA on first login (totp_enabled = false).
func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@veikals.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@veikals.local",
		"password", "admin",
	)
	return nil
}

// seedCatalog creates the demo category tree, brands, and products if the
// catalog is empty.
func seedCatalog(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("catalog already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	// Category tree: mebeles → dzivojamas-istabas → divani (leaf),
	// plus virtuve → galdi (leaf).
	categories := []struct {
		name, slug, parentSlug string
	}{
		{"Mēbeles", "mebeles", ""},
		{"Dzīvojamās istabas", "dzivojamas-istabas", "mebeles"},
		{"Dīvāni", "divani", "dzivojamas-istabas"},
		{"Virtuve", "virtuve", ""},
		{"Galdi", "galdi", "virtuve"},
	}
	for i, c := range categories {
		var parent any
		if c.parentSlug != "" {
			parent = c.parentSlug
		}
		_, err := tx.Exec(`
			INSERT INTO categories (name, slug, parent_id, sort_order)
			VALUES ($1, $2, (SELECT id FROM categories WHERE slug = $3), $4)
		`, c.name, c.slug, parent, i)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.slug, err)
		}
	}

	brands := []struct{ name, code string }{
		{"Oslo Living", "OSL"},
		{"Rīga Interiors", "RIG"},
	}
	for _, b := range brands {
		if _, err := tx.Exec(`
			INSERT INTO brands (name, brand_code) VALUES ($1, $2)
		`, b.name, b.code); err != nil {
			return fmt.Errorf("seed brand %s: %w", b.code, err)
		}
	}

	// Demo products land on the leaf categories with codes issued from
	// the brand counters, keeping the counters consistent with the data.
	products := []struct {
		name, slug, categorySlug, brandCode, price string
	}{
		{"Dīvāns Oslo", "divans-oslo", "divani", "OSL", "549.00"},
		{"Dīvāns Bergen", "divans-bergen", "divani", "OSL", "729.00"},
		{"Virtuves galds Rīga", "virtuves-galds-riga", "galdi", "RIG", "289.00"},
	}
	for _, p := range products {
		_, err := tx.Exec(`
			WITH b AS (
				UPDATE brands SET next_product_num = next_product_num + 1
				WHERE brand_code = $4
				RETURNING brand_code, next_product_num - 1 AS num
			)
			INSERT INTO products (name, slug, product_code, price, category_id, brand_id, status)
			SELECT $1, $2, b.brand_code || '-' || LPAD(b.num::TEXT, 3, '0'), $5,
			       (SELECT id FROM categories WHERE slug = $3),
			       (SELECT id FROM brands WHERE brand_code = $4),
			       'active'
			FROM b
		`, p.name, p.slug, p.categorySlug, p.brandCode, p.price)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo catalog",
		"categories", len(categories),
		"brands", len(brands),
		"products", len(products),
	)
	return nil
}
