// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the publishing state of a product.
type ProductStatus string

const (
	ProductStatusDraft  ProductStatus = "draft"
	ProductStatusActive ProductStatus = "active"
)

// Product represents a catalog item attached to a leaf category. The slug
// is unique across the whole product namespace; the public URL is the
// owning category's ancestor chain followed by the product slug.
// ProductCode is the allocator-issued identifier (BRANDCODE-NNN) and is
// empty only for products without a brand.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	ProductCode string          `json:"product_code"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  uuid.UUID       `json:"category_id"`
	BrandID     *uuid.UUID      `json:"brand_id"`
	Status      ProductStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsActive returns true if the product is publicly visible.
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
