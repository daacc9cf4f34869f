// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"github.com/google/uuid"

	"veikals/internal/models"
)

// Tree is an immutable in-memory index over the full category set. It is
// rebuilt from the store per request, so it never outlives the snapshot it
// was loaded from. Parent references are resolved through the id index
// rather than pointers, and every walk is bounded by the node count so a
// malformed tree (cycle, dangling parent) surfaces as an IntegrityError
// instead of an endless loop.
type Tree struct {
	byID     map[uuid.UUID]*models.Category
	bySlug   map[string]*models.Category
	children map[uuid.UUID][]models.Category
	roots    []models.Category
}

// NewTree builds the index from a flat category list. Input order is
// preserved within each child list, so store-level ordering (sort_order,
// name) carries through.
func NewTree(cats []models.Category) *Tree {
	t := &Tree{
		byID:     make(map[uuid.UUID]*models.Category, len(cats)),
		bySlug:   make(map[string]*models.Category, len(cats)),
		children: make(map[uuid.UUID][]models.Category),
	}
	for i := range cats {
		c := &cats[i]
		t.byID[c.ID] = c
		t.bySlug[c.Slug] = c
	}
	for i := range cats {
		c := cats[i]
		if c.ParentID == nil {
			t.roots = append(t.roots, c)
		} else {
			t.children[*c.ParentID] = append(t.children[*c.ParentID], c)
		}
	}
	return t
}

// Len returns the total number of categories in the index.
func (t *Tree) Len() int {
	return len(t.byID)
}

// ByID looks up a category by id.
func (t *Tree) ByID(id uuid.UUID) (*models.Category, bool) {
	c, ok := t.byID[id]
	return c, ok
}

// BySlug looks up a category by its globally unique slug.
func (t *Tree) BySlug(slug string) (*models.Category, bool) {
	c, ok := t.bySlug[slug]
	return c, ok
}

// Roots returns the top-level categories in input order.
func (t *Tree) Roots() []models.Category {
	return t.roots
}

// Children returns the direct children of a category in input order.
// A leaf category yields an empty slice.
func (t *Tree) Children(id uuid.UUID) []models.Category {
	return t.children[id]
}

// IsLeaf returns true if the category has no children. Products may only
// attach to leaf categories.
func (t *Tree) IsLeaf(id uuid.UUID) bool {
	return len(t.children[id]) == 0
}

// AncestorChain returns the ordered categories from the forest root down
// to id, inclusive. Returns ErrNotFound if id is not in the index. The
// walk is bounded by the total category count: exceeding it, or following
// a parent reference to a row that does not exist, returns an
// IntegrityError naming the starting category.
func (t *Tree) AncestorChain(id uuid.UUID) ([]models.Category, error) {
	start, ok := t.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	var chain []models.Category
	cur := start
	for steps := 0; ; steps++ {
		if steps > len(t.byID) {
			return nil, &IntegrityError{CategoryID: id, Reason: "parent cycle"}
		}
		chain = append(chain, *cur)
		if cur.ParentID == nil {
			break
		}
		parent, ok := t.byID[*cur.ParentID]
		if !ok {
			return nil, &IntegrityError{CategoryID: id, Reason: "dangling parent reference"}
		}
		cur = parent
	}

	// Walked child-to-root; reverse to root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// SlugChain returns the canonical path of a category: the slugs of its
// ancestor chain, root first.
func (t *Tree) SlugChain(id uuid.UUID) ([]string, error) {
	chain, err := t.AncestorChain(id)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, len(chain))
	for i, c := range chain {
		slugs[i] = c.Slug
	}
	return slugs, nil
}

// Subtree returns the ids of a category and all its descendants. The walk
// keeps a visited set, so it terminates even on malformed data. Used by
// the product-listing collaborator to aggregate a branch category's
// products.
func (t *Tree) Subtree(id uuid.UUID) []uuid.UUID {
	if _, ok := t.byID[id]; !ok {
		return nil
	}

	visited := make(map[uuid.UUID]bool)
	queue := []uuid.UUID{id}
	var ids []uuid.UUID
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		ids = append(ids, cur)
		for _, child := range t.children[cur] {
			queue = append(queue, child.ID)
		}
	}
	return ids
}
