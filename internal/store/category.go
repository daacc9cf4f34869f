// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"veikals/internal/catalog"
	"veikals/internal/models"
)

// CategoryStore manages the category tree in the database. Placement
// rules live here rather than in the admin forms: a category cannot gain
// a child while it has products, cannot be re-parented under its own
// subtree, and cannot be deleted while it has children or products.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// All returns every category ordered by sort_order and name. This is the
// resolver's tree source, so ordering here determines child ordering in
// resolved responses.
func (s *CategoryStore) All() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + `
		FROM categories
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// List returns all categories ordered by sort_order, with product counts
// for the admin listing.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.parent_id, c.sort_order,
		       c.created_at, c.updated_at,
		       COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.sort_order, c.name
	`)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description,
			&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
			&c.ProductCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Tree returns categories as a nested tree structure.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil, 0), nil
}

// buildTree recursively builds a tree from a flat list.
func buildTree(flat []models.Category, parentID *uuid.UUID, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FlatTree returns categories as a flat list ordered for display,
// with Depth set for indentation. Useful for <select> dropdowns.
func (s *CategoryStore) FlatTree() ([]models.Category, error) {
	tree, err := s.Tree()
	if err != nil {
		return nil, err
	}
	var result []models.Category
	flattenTree(tree, &result)
	return result, nil
}

// flattenTree walks a category tree depth-first, appending to result.
func flattenTree(cats []models.Category, result *[]models.Category) {
	for _, c := range cats {
		*result = append(*result, c)
		if len(c.Children) > 0 {
			flattenTree(c.Children, result)
		}
	}
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find category by id", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by its globally unique slug.
// Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("find category by slug", err)
	}
	return c, nil
}

// Create inserts a new category and returns it. Fails with a conflict if
// the parent already has products attached (products may only live on
// leaf categories, so a parent with products cannot gain children).
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, wrapErr("begin tx", err)
	}
	defer tx.Rollback()

	if c.ParentID != nil {
		if err := ensureNoProducts(tx, *c.ParentID, "parent_id"); err != nil {
			return nil, err
		}
	}

	row := tx.QueryRow(`
		INSERT INTO categories (name, slug, description, parent_id, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, wrapErr("create category", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapErr("commit create category", err)
	}
	return result, nil
}

// Update modifies an existing category. Re-parenting is validated the
// same way as Create, and additionally rejected when the new parent lies
// inside the category's own subtree (which would create a cycle).
func (s *CategoryStore) Update(c *models.Category) error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrapErr("begin tx", err)
	}
	defer tx.Rollback()

	if c.ParentID != nil {
		if *c.ParentID == c.ID {
			return &catalog.ConflictError{Field: "parent_id", Reason: "category cannot be its own parent"}
		}
		if err := ensureNoProducts(tx, *c.ParentID, "parent_id"); err != nil {
			return err
		}
		if err := ensureNotDescendant(tx, c.ID, *c.ParentID); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4,
			sort_order = $5, updated_at = NOW()
		WHERE id = $6
	`, c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder, c.ID)
	if err != nil {
		return wrapErr("update category", err)
	}

	return tx.Commit()
}

// Delete removes a category by ID. Rejected with a conflict while the
// category still has children or products.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrapErr("begin tx", err)
	}
	defer tx.Rollback()

	var hasChildren bool
	if err := tx.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM categories WHERE parent_id = $1)`, id,
	).Scan(&hasChildren); err != nil {
		return wrapErr("check children", err)
	}
	if hasChildren {
		return &catalog.ConflictError{Field: "id", Reason: "category has subcategories"}
	}

	if err := ensureNoProducts(tx, id, "id"); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, id); err != nil {
		return wrapErr("delete category", err)
	}
	return tx.Commit()
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parent_id"`
	Order    int        `json:"order"`
}

// Reorder updates sort_order and parent_id for multiple categories in a
// transaction. Placement rules are checked against the final arrangement
// before commit: a new parent may not carry products, and no moved
// category may end up inside its own subtree. A cycle formed by two moves
// together (not just by one item alone) always runs through a moved
// item's parent edge, so the per-item walk catches it.
func (s *CategoryStore) Reorder(items []ReorderItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrapErr("begin tx", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE categories SET parent_id = $1, sort_order = $2, updated_at = $3
		WHERE id = $4`)
	if err != nil {
		return wrapErr("prepare reorder", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, item := range items {
		if item.ParentID != nil && *item.ParentID == item.ID {
			return &catalog.ConflictError{Field: "parent_id", Reason: "category cannot be its own parent"}
		}
		if _, err := stmt.Exec(item.ParentID, item.Order, now, item.ID); err != nil {
			return wrapErr(fmt.Sprintf("reorder category %s", item.ID), err)
		}
	}

	for _, item := range items {
		if item.ParentID == nil {
			continue
		}
		if err := ensureNoProducts(tx, *item.ParentID, "parent_id"); err != nil {
			return err
		}
		if err := ensureNotDescendant(tx, item.ID, *item.ParentID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRow(`SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRow(`SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, wrapErr("next sort order", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// ensureNoProducts fails with a conflict if the category has products.
func ensureNoProducts(tx *sql.Tx, categoryID uuid.UUID, field string) error {
	var hasProducts bool
	if err := tx.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1)`, categoryID,
	).Scan(&hasProducts); err != nil {
		return wrapErr("check products", err)
	}
	if hasProducts {
		return &catalog.ConflictError{Field: field, Reason: "category has products"}
	}
	return nil
}

// ensureNotDescendant walks up from newParent and fails with a conflict
// if it reaches id. The walk is bounded by the category count so
// malformed data cannot loop it.
func ensureNotDescendant(tx *sql.Tx, id, newParent uuid.UUID) error {
	var total int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return wrapErr("count categories", err)
	}

	cur := newParent
	for steps := 0; steps <= total; steps++ {
		if cur == id {
			return &catalog.ConflictError{Field: "parent_id", Reason: "parent lies inside the category's own subtree"}
		}
		var parent *uuid.UUID
		err := tx.QueryRow(`SELECT parent_id FROM categories WHERE id = $1`, cur).Scan(&parent)
		if err == sql.ErrNoRows || (err == nil && parent == nil) {
			return nil
		}
		if err != nil {
			return wrapErr("walk parents", err)
		}
		cur = *parent
	}
	return &catalog.IntegrityError{CategoryID: newParent, Reason: "parent cycle"}
}
