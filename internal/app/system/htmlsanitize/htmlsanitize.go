// Package htmlsanitize strips markup from user-generated content before it
// is persisted. Thread text is stored and served as plain text, so the
// strict policy (no elements at all) is the right default.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML element and attribute from s and trims the
// surrounding whitespace left behind.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
