// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"veikals/internal/cache"
	"veikals/internal/models"
	"veikals/internal/slug"
	"veikals/internal/store"
)

// Admin groups the session-authenticated JSON handlers for catalog
// management. Every successful write invalidates the whole resolve cache:
// a category rename moves entire subtrees of URLs, so per-key invalidation
// is not worth the bookkeeping.
type Admin struct {
	categories *store.CategoryStore
	products   *store.ProductStore
	brands     *store.BrandStore
	cache      *cache.ResolveCache
}

// NewAdmin creates the admin handler group. resolveCache may be nil.
func NewAdmin(categories *store.CategoryStore, products *store.ProductStore, brands *store.BrandStore, resolveCache *cache.ResolveCache) *Admin {
	return &Admin{
		categories: categories,
		products:   products,
		brands:     brands,
		cache:      resolveCache,
	}
}

// invalidate clears the resolve cache after a catalog write.
func (a *Admin) invalidate(ctx context.Context) {
	if a.cache != nil {
		a.cache.InvalidateAll(ctx)
	}
}

// urlID parses the {id} route parameter. Returns false after writing a
// 400 when the value is not a UUID.
func urlID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// --- Categories ---

type categoryRequest struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   *int       `json:"sort_order"`
}

// CategoriesList returns all categories flat, with product counts.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	cats, err := a.categories.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// CategoriesTree returns the categories nested by parent.
func (a *Admin) CategoriesTree(w http.ResponseWriter, r *http.Request) {
	tree, err := a.categories.Tree()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// CategoryCreate creates a category. The slug is generated from the name
// when omitted.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	fillSlug(req.Name, &req.Slug)
	if msg := validateCategory(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
		return
	}

	c := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	} else {
		next, err := a.categories.NextSortOrder(req.ParentID)
		if err != nil {
			writeError(w, err)
			return
		}
		c.SortOrder = next
	}

	created, err := a.categories.Create(c)
	if err != nil {
		writeError(w, err)
		return
	}

	a.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// CategoryUpdate updates a category's fields and placement.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	fillSlug(req.Name, &req.Slug)
	if msg := validateCategory(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
		return
	}

	existing, err := a.categories.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "category not found"})
		return
	}

	existing.Name = req.Name
	existing.Slug = req.Slug
	existing.Description = req.Description
	existing.ParentID = req.ParentID
	if req.SortOrder != nil {
		existing.SortOrder = *req.SortOrder
	}

	if err := a.categories.Update(existing); err != nil {
		writeError(w, err)
		return
	}

	a.invalidate(r.Context())
	writeJSON(w, http.StatusOK, existing)
}

// CategoryDelete removes a category. Categories with children or products
// are rejected with a conflict.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := a.categories.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	a.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// CategoriesReorder updates sort order for a batch of sibling categories.
func (a *Admin) CategoriesReorder(w http.ResponseWriter, r *http.Request) {
	var items []store.ReorderItem
	if !decodeBody(w, r, &items) {
		return
	}

	if err := a.categories.Reorder(items); err != nil {
		writeError(w, err)
		return
	}

	a.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// --- Products ---

type productRequest struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  uuid.UUID       `json:"category_id"`
	BrandID     *uuid.UUID      `json:"brand_id"`
	Status      string          `json:"status"`
}

// ProductsList returns all products.
func (a *Admin) ProductsList(w http.ResponseWriter, r *http.Request) {
	products, err := a.products.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// ProductGet returns a single product by id.
func (a *Admin) ProductGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	p, err := a.products.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "product not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ProductCreate creates a product. When the product has a brand, a
// product code is allocated inside the same transaction as the insert, so
// a failed insert can at worst burn a number, never duplicate one.
func (a *Admin) ProductCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	fillSlug(req.Name, &req.Slug)
	if msg := validateProduct(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
		return
	}

	p := &models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		Status:      models.ProductStatus(req.Status),
	}
	if p.Status == "" {
		p.Status = models.ProductStatusDraft
	}

	created, err := a.products.Create(p)
	if err != nil {
		writeError(w, err)
		return
	}

	a.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// ProductUpdate updates a product. Changing the brand allocates a fresh
// code from the new brand's counter; the old code is never reissued.
func (a *Admin) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	fillSlug(req.Name, &req.Slug)
	if msg := validateProduct(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
		return
	}

	p := &models.Product{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		Status:      models.ProductStatus(req.Status),
	}
	if p.Status == "" {
		p.Status = models.ProductStatusDraft
	}

	updated, err := a.products.Update(p)
	if err != nil {
		writeError(w, err)
		return
	}

	a.invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// ProductDelete removes a product.
func (a *Admin) ProductDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := a.products.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	a.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// generateCodeRequest names the brand to draw a code from.
type generateCodeRequest struct {
	BrandID uuid.UUID `json:"brand_id"`
}

// GenerateCode allocates and returns a fresh product code without
// attaching it to a product. The consumed number stays consumed even if
// the caller never uses the code; gaps are fine, collisions are not.
func (a *Admin) GenerateCode(w http.ResponseWriter, r *http.Request) {
	var req generateCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.BrandID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "brand_id is required"})
		return
	}

	code, err := a.brands.AllocateCode(req.BrandID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"product_code": code})
}

// --- Brands ---

type brandRequest struct {
	Name      string `json:"name"`
	BrandCode string `json:"brand_code"`
}

// BrandsList returns all brands.
func (a *Admin) BrandsList(w http.ResponseWriter, r *http.Request) {
	brands, err := a.brands.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

// BrandGet returns a single brand by id.
func (a *Admin) BrandGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	b, err := a.brands.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if b == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "brand not found"})
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// BrandCreate creates a brand with its code counter at 1.
func (a *Admin) BrandCreate(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateBrand(&req); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
		return
	}

	created, err := a.brands.Create(&models.Brand{
		Name:      req.Name,
		BrandCode: req.BrandCode,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// BrandUpdate renames a brand. The brand code is immutable: issued
// product codes embed it, so changing it would orphan them.
func (a *Admin) BrandUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req brandRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "name is required"})
		return
	}

	existing, err := a.brands.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "brand not found"})
		return
	}

	existing.Name = req.Name
	if err := a.brands.Update(existing); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, existing)
}

// BrandDelete removes a brand. Products keep their issued codes; the
// brand reference is nulled by the schema.
func (a *Admin) BrandDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := a.brands.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	a.invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// fillSlug generates a slug from the name when the request omits one.
func fillSlug(name string, s *string) {
	if *s == "" {
		*s = slug.Generate(name)
	}
}
