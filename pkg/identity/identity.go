// Package identity owns canonical zone identity. Every zone id in the
// graph is produced by Normalize; no other package may construct one.
package identity

import "strings"

// Normalize canonicalizes a raw zone name into its id form: leading and
// trailing whitespace removed, remainder uppercased. "  Qiitun-Ozos " and
// "QIITUN-OZOS" collapse to the same id. Idempotent.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Valid reports whether raw can produce a usable id. Empty and
// whitespace-only names are invalid; callers must reject them before
// asking for an id.
func Valid(raw string) bool {
	return strings.TrimSpace(raw) != ""
}
