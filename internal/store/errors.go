// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"veikals/internal/catalog"
)

// Postgres error codes the stores translate into the catalog taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// wrapErr translates low-level database errors into the catalog error
// taxonomy: unique and foreign-key violations become ConflictError naming
// the offending column, connectivity failures become ErrUnavailable so
// callers can tell them apart from a genuine miss. Everything else is
// wrapped with the operation name.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &catalog.ConflictError{Field: constraintField(pgErr.ConstraintName)}
		case pgForeignKeyViolation:
			return &catalog.ConflictError{
				Field:  constraintField(pgErr.ConstraintName),
				Reason: "referenced by other rows",
			}
		}
	}

	if isUnavailable(err) {
		return fmt.Errorf("%s: %w", op, catalog.ErrUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isUnavailable reports whether err looks like a connectivity failure
// rather than a query-level error.
func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// constraintField derives the column name from a Postgres constraint name
// like "products_product_code_key" or "categories_parent_id_fkey".
func constraintField(constraint string) string {
	name := constraint
	name = strings.TrimSuffix(name, "_key")
	name = strings.TrimSuffix(name, "_fkey")
	for _, table := range []string{"categories_", "products_", "brands_", "users_"} {
		if strings.HasPrefix(name, table) {
			return strings.TrimPrefix(name, table)
		}
	}
	if name == "" {
		return "unknown"
	}
	return name
}
