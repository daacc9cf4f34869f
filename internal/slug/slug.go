// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary
// strings, including transliteration of Latvian diacritics.
package slug

import (
	gslug "github.com/gosimple/slug"
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Dīvāns Oslo 2026" → "divans-oslo-2026"
func Generate(s string) string {
	return gslug.Make(s)
}

// IsValid reports whether s is already a well-formed slug: Generate
// would leave it unchanged. Used to validate client-supplied slugs
// instead of silently rewriting them.
func IsValid(s string) bool {
	return s != "" && gslug.IsSlug(s)
}
