// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"veikals/internal/catalog"
	"veikals/internal/models"
)

// ProductStore manages products. Code allocation happens inside the same
// transaction as the insert or update that depends on it, and the
// leaf-only placement rule is enforced here rather than trusted to the
// admin forms.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, name, slug, product_code, description, price, category_id, brand_id, status, created_at, updated_at`

// scanProduct scans a row into a Product struct.
func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Slug, &p.ProductCode, &p.Description,
		&p.Price, &p.CategoryID, &p.BrandID, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindBySlug retrieves an active product by its globally unique slug.
// This is the resolver's product source, so drafts do not resolve on the
// public site. Returns nil if not found.
func (s *ProductStore) FindBySlug(slug string) (*models.Product, error) {
	row := s.db.QueryRow(`
		SELECT `+productColumns+` FROM products
		WHERE slug = $1 AND status = 'active'
	`, slug)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find product by slug", err)
	}
	return p, nil
}

// FindByID retrieves a product by ID regardless of status. Returns nil
// if not found.
func (s *ProductStore) FindByID(id uuid.UUID) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find product by id", err)
	}
	return p, nil
}

// FindByCode retrieves a product by its product code. Returns nil if not
// found.
func (s *ProductStore) FindByCode(code string) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE product_code = $1`, code)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find product by code", err)
	}
	return p, nil
}

// List returns all products ordered by name, for the admin listing.
func (s *ProductStore) List() ([]models.Product, error) {
	rows, err := s.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY name`)
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// ListByCategories returns one page of active products belonging to any
// of the given categories, newest first, plus the total count. A branch
// category's listing passes its whole subtree here.
func (s *ProductStore) ListByCategories(categoryIDs []uuid.UUID, page, limit int) ([]models.Product, int, error) {
	if len(categoryIDs) == 0 {
		return nil, 0, nil
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 24
	}

	placeholders := make([]string, len(categoryIDs))
	args := make([]any, 0, len(categoryIDs)+2)
	for i, id := range categoryIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	in := strings.Join(placeholders, ", ")

	var total int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM products WHERE status = 'active' AND category_id IN (`+in+`)`,
		args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, wrapErr("count products", err)
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := s.db.Query(`
		SELECT `+productColumns+` FROM products
		WHERE status = 'active' AND category_id IN (`+in+`)
		ORDER BY created_at DESC, id
		LIMIT $`+fmt.Sprint(len(categoryIDs)+1)+` OFFSET $`+fmt.Sprint(len(categoryIDs)+2),
		args...,
	)
	if err != nil {
		return nil, 0, wrapErr("list products by category", err)
	}
	defer rows.Close()

	items, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// collectProducts drains rows into a slice.
func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	var items []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Create inserts a new product. The category must be a leaf. When a
// brand is set, the product code is allocated from that brand's counter
// in the same transaction as the insert: both succeed or roll back
// together, and a rollback burns the number rather than reusing it.
// Client-supplied codes are ignored.
func (s *ProductStore) Create(p *models.Product) (*models.Product, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, wrapErr("begin tx", err)
	}
	defer tx.Rollback()

	if err := ensureLeafCategory(tx, p.CategoryID); err != nil {
		return nil, err
	}

	code := ""
	if p.BrandID != nil {
		code, err = allocateCode(tx, *p.BrandID)
		if err != nil {
			return nil, err
		}
	}

	row := tx.QueryRow(`
		INSERT INTO products (name, slug, product_code, description, price, category_id, brand_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		p.Name, p.Slug, code, p.Description, p.Price, p.CategoryID, p.BrandID, p.Status,
	)
	result, err := scanProduct(row)
	if err != nil {
		return nil, wrapErr("create product", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapErr("commit create product", err)
	}
	return result, nil
}

// Update modifies an existing product. Changing the brand allocates a
// fresh code from the new brand's counter inside the update transaction;
// the old code is retired and never reissued. Clearing the brand clears
// the code.
func (s *ProductStore) Update(p *models.Product) (*models.Product, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, wrapErr("begin tx", err)
	}
	defer tx.Rollback()

	// Lock the row so two concurrent brand changes cannot both read the
	// old brand and race on reallocation.
	var curBrand *uuid.UUID
	var curCode string
	err = tx.QueryRow(
		`SELECT brand_id, product_code FROM products WHERE id = $1 FOR UPDATE`, p.ID,
	).Scan(&curBrand, &curCode)
	if err == sql.ErrNoRows {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("lock product", err)
	}

	if err := ensureLeafCategory(tx, p.CategoryID); err != nil {
		return nil, err
	}

	code := curCode
	switch {
	case p.BrandID == nil:
		code = ""
	case curBrand == nil || *curBrand != *p.BrandID:
		code, err = allocateCode(tx, *p.BrandID)
		if err != nil {
			return nil, err
		}
	}

	row := tx.QueryRow(`
		UPDATE products SET
			name = $1, slug = $2, product_code = $3, description = $4,
			price = $5, category_id = $6, brand_id = $7, status = $8,
			updated_at = NOW()
		WHERE id = $9
		RETURNING `+productColumns,
		p.Name, p.Slug, code, p.Description, p.Price, p.CategoryID, p.BrandID, p.Status, p.ID,
	)
	result, err := scanProduct(row)
	if err != nil {
		return nil, wrapErr("update product", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapErr("commit update product", err)
	}
	return result, nil
}

// Delete removes a product by ID. The product's code is never reissued;
// the brand counter does not move backwards.
func (s *ProductStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete product", err)
	}
	return nil
}

// ensureLeafCategory fails with a conflict if the category does not
// exist or has children. Products may only attach to leaf categories.
func ensureLeafCategory(tx *sql.Tx, categoryID uuid.UUID) error {
	var exists, hasChildren bool
	err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1),
		       EXISTS(SELECT 1 FROM categories WHERE parent_id = $2)
	`, categoryID, categoryID).Scan(&exists, &hasChildren)
	if err != nil {
		return wrapErr("check category", err)
	}
	if !exists {
		return &catalog.ConflictError{Field: "category_id", Reason: "category does not exist"}
	}
	if hasChildren {
		return &catalog.ConflictError{Field: "category_id", Reason: "products may only attach to leaf categories"}
	}
	return nil
}
