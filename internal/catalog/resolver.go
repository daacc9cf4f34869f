// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"
	"log/slog"

	"veikals/internal/models"
)

// CategorySource provides the full category list for tree construction.
// Implemented by store.CategoryStore.
type CategorySource interface {
	All() ([]models.Category, error)
}

// ProductSource looks up a product by its globally unique slug.
// Implemented by store.ProductStore. A miss is (nil, nil), not an error.
type ProductSource interface {
	FindBySlug(slug string) (*models.Product, error)
}

// MatchKind tags the resolver's result union.
type MatchKind int

const (
	// MatchNone means the path addressed nothing at its exact canonical
	// depth. It maps to a 404 and is a normal outcome.
	MatchNone MatchKind = iota

	// MatchProduct means the last segment is a product slug and the
	// preceding segments are exactly its owning category's canonical path.
	MatchProduct

	// MatchCategory means the whole segment list is exactly a category's
	// canonical path.
	MatchCategory
)

// Match is the resolver result. Exactly one of Product/Category is set
// depending on Kind. Chain is the root-first breadcrumb trail: for a
// product match it ends at the owning category, for a category match at
// the matched category itself. Children and Leaf are populated for
// category matches so the caller can decide between a subcategory grid
// (branch) and a product listing (leaf).
type Match struct {
	Kind     MatchKind
	Product  *models.Product
	Category *models.Category
	Chain    []models.Category
	Children []models.Category
	Leaf     bool
}

// Resolver maps an ordered URL segment list to a product, a category, or
// nothing. It issues at most one product lookup, one category lookup, and
// two ancestor-chain walks per call.
type Resolver struct {
	categories CategorySource
	products   ProductSource
}

// NewResolver creates a resolver over the given sources.
func NewResolver(categories CategorySource, products ProductSource) *Resolver {
	return &Resolver{categories: categories, products: products}
}

// Resolve tries a product match first (the last segment as product slug,
// the rest as its required ancestor chain), then a category match (the
// whole path as a category's canonical chain). A path at the wrong depth
// never matches: missing or extra intermediate segments resolve to
// MatchNone rather than redirecting to the nearest candidate, so every
// entity stays reachable at exactly one URL.
//
// Comparison is segment-by-segment on the raw slug strings. The locale
// prefix is the caller's concern and must not be part of segments.
func (r *Resolver) Resolve(segments []string) (Match, error) {
	if len(segments) == 0 {
		return Match{Kind: MatchNone}, nil
	}

	cats, err := r.categories.All()
	if err != nil {
		return Match{}, err
	}
	tree := NewTree(cats)
	tail := segments[len(segments)-1]

	// Product attempt. A product URL is its category chain plus one
	// segment, so it needs at least two segments. A product whose chain
	// differs from the head is not an error: the same slug string may
	// coincide with an unrelated category path, so fall through.
	if len(segments) >= 2 {
		m, err := r.matchProduct(tree, segments[:len(segments)-1], tail)
		if err != nil {
			return Match{}, err
		}
		if m.Kind == MatchProduct {
			return m, nil
		}
	}

	// Category attempt: most specific wins, so look up the last segment
	// and require the entire input to equal its canonical path.
	if c, ok := tree.BySlug(tail); ok {
		chain, err := tree.AncestorChain(c.ID)
		if err != nil {
			return Match{}, err
		}
		if chainMatches(chain, segments) {
			return Match{
				Kind:     MatchCategory,
				Category: c,
				Chain:    chain,
				Children: tree.Children(c.ID),
				Leaf:     tree.IsLeaf(c.ID),
			}, nil
		}
	}

	return Match{Kind: MatchNone}, nil
}

// matchProduct looks up the candidate product slug and validates its
// owning category chain against head.
func (r *Resolver) matchProduct(tree *Tree, head []string, tail string) (Match, error) {
	p, err := r.products.FindBySlug(tail)
	if err != nil {
		return Match{}, err
	}
	if p == nil {
		return Match{Kind: MatchNone}, nil
	}

	chain, err := tree.AncestorChain(p.CategoryID)
	if errors.Is(err, ErrNotFound) {
		// Product references a category missing from the snapshot; the
		// path cannot match it, but the same tail may still name a
		// category, so fall through rather than failing the request.
		slog.Warn("product references unknown category",
			"product_id", p.ID,
			"category_id", p.CategoryID,
		)
		return Match{Kind: MatchNone}, nil
	}
	if err != nil {
		return Match{}, err
	}

	if !chainMatches(chain, head) {
		return Match{Kind: MatchNone}, nil
	}
	return Match{Kind: MatchProduct, Product: p, Chain: chain}, nil
}

// chainMatches compares a category chain to raw path segments element-wise.
func chainMatches(chain []models.Category, segments []string) bool {
	if len(chain) != len(segments) {
		return false
	}
	for i := range chain {
		if chain[i].Slug != segments[i] {
			return false
		}
	}
	return true
}
