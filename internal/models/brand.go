// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand represents a product manufacturer. BrandCode is the short
// fixed-format prefix of generated product codes. NextProductNum is the
// monotonic counter behind code allocation: it only ever increases and
// is mutated exclusively inside the allocator's transaction, never by
// application-level read-then-write.
type Brand struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	BrandCode      string    `json:"brand_code"`
	NextProductNum int       `json:"next_product_num"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
