// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"veikals/internal/cache"
	"veikals/internal/catalog"
	"veikals/internal/models"
)

// ProductLister is the product access the public handlers need.
// Implemented by store.ProductStore.
type ProductLister interface {
	catalog.ProductSource
	ListByCategories(categoryIDs []uuid.UUID, page, limit int) ([]models.Product, int, error)
}

// LocaleSet validates the locale path prefix. Implemented by config.Config.
type LocaleSet interface {
	HasLocale(locale string) bool
}

// Public groups the unauthenticated catalog handlers: path resolution and
// product listing. Successful resolutions are cached in Valkey; misses are
// never cached so a later fix becomes visible immediately.
type Public struct {
	categories catalog.CategorySource
	products   ProductLister
	resolver   *catalog.Resolver
	cache      *cache.ResolveCache
	locales    LocaleSet
}

// NewPublic creates the public handler group. resolveCache may be nil,
// which disables caching (used in tests).
func NewPublic(categories catalog.CategorySource, products ProductLister, resolveCache *cache.ResolveCache, locales LocaleSet) *Public {
	return &Public{
		categories: categories,
		products:   products,
		resolver:   catalog.NewResolver(categories, products),
		cache:      resolveCache,
		locales:    locales,
	}
}

// breadcrumb is one entry of the root-first navigation trail.
type breadcrumb struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// resolveResponse is the payload for a successful resolution. Type is
// "product" or "category"; exactly one of Product/Category is set.
type resolveResponse struct {
	Type        string            `json:"type"`
	Product     *models.Product   `json:"product,omitempty"`
	Category    *models.Category  `json:"category,omitempty"`
	Breadcrumbs []breadcrumb      `json:"breadcrumbs"`
	Children    []models.Category `json:"children,omitempty"`
	Leaf        bool              `json:"leaf,omitempty"`
}

// Resolve handles GET /{locale}/katalogs/*. The wildcard remainder is
// split into slug segments and resolved to exactly one product, one
// category, or a 404. There are no redirects: a path that is not the
// exact canonical chain of some entity is simply not found.
func (p *Public) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	locale := chi.URLParam(r, "locale")
	if !p.locales.HasLocale(locale) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown locale"})
		return
	}

	rawPath := chi.URLParam(r, "*")
	segments := splitSegments(rawPath)
	if len(segments) == 0 {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}

	key := cache.Key(locale, strings.Join(segments, "/"))
	if p.cache != nil {
		if payload, ok := p.cache.Get(ctx, key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(payload)
			return
		}
	}

	match, err := p.resolver.Resolve(segments)
	if err != nil {
		writeError(w, err)
		return
	}

	if match.Kind == catalog.MatchNone {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}

	resp := buildResolveResponse(match)
	payload, err := json.Marshal(resp)
	if err != nil {
		writeError(w, err)
		return
	}

	if p.cache != nil {
		p.cache.Set(ctx, key, payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// listResponse is the paginated product listing payload.
type listResponse struct {
	Category *models.Category `json:"category"`
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// ListProducts handles GET /products?category=&page=&limit=. The category
// parameter is a category slug; a branch category aggregates the products
// of its whole subtree.
func (p *Public) ListProducts(w http.ResponseWriter, r *http.Request) {
	slugParam := r.URL.Query().Get("category")
	if slugParam == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "category parameter is required"})
		return
	}

	cats, err := p.categories.All()
	if err != nil {
		writeError(w, err)
		return
	}
	tree := catalog.NewTree(cats)

	c, ok := tree.BySlug(slugParam)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "category not found"})
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 24)

	products, total, err := p.products.ListByCategories(tree.Subtree(c.ID), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Category: c,
		Products: products,
		Total:    total,
		Page:     page,
		Limit:    limit,
	})
}

// buildResolveResponse converts a resolver match into the wire payload.
func buildResolveResponse(m catalog.Match) resolveResponse {
	crumbs := make([]breadcrumb, 0, len(m.Chain))
	for _, c := range m.Chain {
		crumbs = append(crumbs, breadcrumb{Name: c.Name, Slug: c.Slug})
	}

	switch m.Kind {
	case catalog.MatchProduct:
		return resolveResponse{
			Type:        "product",
			Product:     m.Product,
			Breadcrumbs: crumbs,
		}
	default:
		return resolveResponse{
			Type:        "category",
			Category:    m.Category,
			Breadcrumbs: crumbs,
			Children:    m.Children,
			Leaf:        m.Leaf,
		}
	}
}

// splitSegments breaks a wildcard path remainder into slug segments,
// tolerating leading, trailing, and doubled slashes.
func splitSegments(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// queryInt parses a positive integer query parameter with a fallback.
func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
