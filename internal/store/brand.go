// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"veikals/internal/catalog"
	"veikals/internal/models"
)

// BrandStore manages brands and owns product code allocation. The
// next_product_num counter is mutated only inside allocateCode's
// transaction, under a row lock on the brand, so two concurrent
// allocations for the same brand serialize while different brands never
// block each other. Issued numbers are never reused: a rolled-back
// product insert leaves a gap, never a collision.
type BrandStore struct {
	db *sql.DB
}

// NewBrandStore returns a new BrandStore.
func NewBrandStore(db *sql.DB) *BrandStore {
	return &BrandStore{db: db}
}

const brandColumns = `id, name, brand_code, next_product_num, created_at, updated_at`

// scanBrand scans a row into a Brand struct.
func scanBrand(scanner interface{ Scan(...any) error }) (*models.Brand, error) {
	var b models.Brand
	err := scanner.Scan(
		&b.ID, &b.Name, &b.BrandCode, &b.NextProductNum,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns all brands ordered by name.
func (s *BrandStore) List() ([]models.Brand, error) {
	rows, err := s.db.Query(`SELECT ` + brandColumns + ` FROM brands ORDER BY name`)
	if err != nil {
		return nil, wrapErr("list brands", err)
	}
	defer rows.Close()

	var items []models.Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// FindByID retrieves a brand by ID. Returns nil if not found.
func (s *BrandStore) FindByID(id uuid.UUID) (*models.Brand, error) {
	row := s.db.QueryRow(`SELECT `+brandColumns+` FROM brands WHERE id = $1`, id)
	b, err := scanBrand(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find brand by id", err)
	}
	return b, nil
}

// Create inserts a new brand. The counter starts at 1.
func (s *BrandStore) Create(b *models.Brand) (*models.Brand, error) {
	row := s.db.QueryRow(`
		INSERT INTO brands (name, brand_code)
		VALUES ($1, $2)
		RETURNING `+brandColumns,
		b.Name, b.BrandCode,
	)
	result, err := scanBrand(row)
	if err != nil {
		return nil, wrapErr("create brand", err)
	}
	return result, nil
}

// Update modifies a brand's name. The brand code is immutable after
// creation (issued product codes embed it) and the counter is owned by
// the allocator.
func (s *BrandStore) Update(b *models.Brand) error {
	_, err := s.db.Exec(`
		UPDATE brands SET name = $1, updated_at = NOW() WHERE id = $2
	`, b.Name, b.ID)
	if err != nil {
		return wrapErr("update brand", err)
	}
	return nil
}

// Delete removes a brand. Products keep their issued codes; their
// brand_id is cleared by the schema (ON DELETE SET NULL).
func (s *BrandStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete brand", err)
	}
	return nil
}

// AllocateCode issues the next product code for a brand in its own
// transaction. The number is consumed even if the caller never uses the
// code; gaps are acceptable, collisions are not. Fails with
// ErrBrandNotFound for an unknown brand.
func (s *BrandStore) AllocateCode(brandID uuid.UUID) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", wrapErr("begin tx", err)
	}
	defer tx.Rollback()

	code, err := allocateCode(tx, brandID)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", wrapErr("commit allocate code", err)
	}
	return code, nil
}

// allocateCode reads the brand row FOR UPDATE, formats the code, and
// increments the counter, all inside the caller's transaction. Product
// creation calls this in the same transaction as the insert so both
// succeed or roll back together.
func allocateCode(tx *sql.Tx, brandID uuid.UUID) (string, error) {
	var brandCode string
	var num int
	err := tx.QueryRow(`
		SELECT brand_code, next_product_num
		FROM brands
		WHERE id = $1
		FOR UPDATE
	`, brandID).Scan(&brandCode, &num)
	if err == sql.ErrNoRows {
		return "", catalog.ErrBrandNotFound
	}
	if err != nil {
		return "", wrapErr("lock brand", err)
	}

	_, err = tx.Exec(`
		UPDATE brands SET next_product_num = next_product_num + 1, updated_at = NOW()
		WHERE id = $1
	`, brandID)
	if err != nil {
		return "", wrapErr("increment brand counter", err)
	}

	return FormatProductCode(brandCode, num), nil
}

// FormatProductCode renders a product code from a brand code and a
// sequence number: zero-padded to three digits, widening naturally past
// 999 (e.g. OSL-001, OSL-1000).
func FormatProductCode(brandCode string, num int) string {
	return fmt.Sprintf("%s-%03d", brandCode, num)
}
