// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the public catalog API
// and the session-authenticated admin API. All responses are JSON.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"veikals/internal/catalog"
)

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// errorBody is the uniform JSON error shape. Field is set only for
// conflict responses, naming the offending column.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeError maps domain errors onto HTTP status codes:
//
//	NotFound / BrandNotFound  → 404
//	Conflict                  → 409 with the offending field
//	IntegrityError            → 500, logged with the category id
//	Unavailable               → 503
//	anything else             → 500
//
// The request always gets a well-formed JSON body; integrity problems in
// one category subtree must not take the whole process down.
func writeError(w http.ResponseWriter, err error) {
	var conflict *catalog.ConflictError
	var integrity *catalog.IntegrityError

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, catalog.ErrBrandNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "brand not found"})
	case errors.As(err, &conflict):
		msg := conflict.Reason
		if msg == "" {
			msg = "conflict"
		}
		writeJSON(w, http.StatusConflict, errorBody{Error: msg, Field: conflict.Field})
	case errors.As(err, &integrity):
		slog.Error("catalog data integrity violation",
			"category_id", integrity.CategoryID,
			"reason", integrity.Reason,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "catalog data integrity violation"})
	case errors.Is(err, catalog.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "service temporarily unavailable"})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// decodeBody parses a JSON request body into dst. Returns false after
// writing a 400 when the body is malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}
