// Package normalize provides input normalization for user-supplied profile
// fields. Normalization happens once, at the store boundary, so every
// document in the collection carries the same shape.
package normalize

import "strings"

// Username lowercases and trims a username. Usernames are stored lowercase;
// the folded username_ci shadow handles diacritics for search.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// AuthID trims an external identity id. The value is opaque; no case
// manipulation is safe.
func AuthID(s string) string {
	return strings.TrimSpace(s)
}
