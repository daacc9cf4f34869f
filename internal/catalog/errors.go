// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

// Package catalog implements the path and identifier resolution core:
// an in-memory index over the category tree, the resolver that maps URL
// segment sequences to products or categories, and the error taxonomy
// shared with the store layer.
package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means a lookup addressed no entity at its exact
	// canonical location. It is an expected, cheap outcome.
	ErrNotFound = errors.New("catalog: not found")

	// ErrBrandNotFound means code allocation was requested for an
	// unknown brand id.
	ErrBrandNotFound = errors.New("catalog: brand not found")

	// ErrUnavailable means the store could not be reached. It is kept
	// distinct from ErrNotFound so callers never cache a false negative.
	ErrUnavailable = errors.New("catalog: store unavailable")
)

// ConflictError reports a uniqueness or placement violation at write time.
// Field names the offending column so admin callers can highlight it.
type ConflictError struct {
	Field  string
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("catalog: conflict on %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("catalog: conflict on %s", e.Field)
}

// IntegrityError reports malformed category data (a parent cycle or a
// dangling parent reference) detected during an ancestor-chain walk.
// It is fatal to the request but never truncated into a partial answer.
type IntegrityError struct {
	CategoryID uuid.UUID
	Reason     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("catalog: category tree integrity violation at %s: %s", e.CategoryID, e.Reason)
}
