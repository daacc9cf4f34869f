package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"veikals/internal/models"
	"veikals/internal/slug"
)

// Validation limits for catalog fields.
const (
	maxNameLen      = 200
	maxSlugLen      = 200
	maxDescLen      = 10_000
	maxBrandCodeLen = 10
)

// validateCategory checks category inputs and returns the first error found.
func validateCategory(req *categoryRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(req.Name) > maxNameLen {
		return "name is too long (max 200 characters)"
	}
	if !slug.IsValid(req.Slug) {
		return "slug must contain only lowercase letters, digits, and hyphens"
	}
	if utf8.RuneCountInString(req.Slug) > maxSlugLen {
		return "slug is too long (max 200 characters)"
	}
	if utf8.RuneCountInString(req.Description) > maxDescLen {
		return "description is too long (max 10,000 characters)"
	}
	return ""
}

// validateProduct checks product inputs and returns the first error found.
func validateProduct(req *productRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(req.Name) > maxNameLen {
		return "name is too long (max 200 characters)"
	}
	if !slug.IsValid(req.Slug) {
		return "slug must contain only lowercase letters, digits, and hyphens"
	}
	if utf8.RuneCountInString(req.Slug) > maxSlugLen {
		return "slug is too long (max 200 characters)"
	}
	if utf8.RuneCountInString(req.Description) > maxDescLen {
		return "description is too long (max 10,000 characters)"
	}
	if req.Price.IsNegative() {
		return "price must not be negative"
	}
	if req.CategoryID == uuid.Nil {
		return "category_id is required"
	}
	switch models.ProductStatus(req.Status) {
	case "", models.ProductStatusDraft, models.ProductStatusActive:
	default:
		return "status must be draft or active"
	}
	return ""
}

// validateBrand checks brand inputs and returns the first error found.
// Brand codes are uppercase alphanumeric, the fixed prefix of every
// allocated product code.
func validateBrand(req *brandRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(req.Name) > maxNameLen {
		return "name is too long (max 200 characters)"
	}
	code := req.BrandCode
	if code == "" {
		return "brand_code is required"
	}
	if len(code) > maxBrandCodeLen {
		return "brand_code is too long (max 10 characters)"
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "brand_code must contain only uppercase letters and digits"
		}
	}
	return ""
}
