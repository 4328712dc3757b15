// Package inputval validates user-supplied input before it reaches the
// stores. Validation failures are reported as apperr.ErrValidation so
// handlers can map them to a 422 without inspecting messages.
package inputval

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/threadhub/internal/app/system/apperr"
)

// Thread text length bounds, in characters (not bytes).
const (
	MinThreadTextLen = 3
	MaxThreadTextLen = 1000
)

// ThreadText checks that text, after trimming, is within the allowed length
// range. Returns nil when valid.
func ThreadText(text string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if n < MinThreadTextLen {
		return apperr.Validation(fmt.Sprintf("thread text must be at least %d characters", MinThreadTextLen))
	}
	if n > MaxThreadTextLen {
		return apperr.Validation(fmt.Sprintf("thread text must be at most %d characters", MaxThreadTextLen))
	}
	return nil
}

// Username checks that a username is non-empty after trimming.
func Username(username string) error {
	if strings.TrimSpace(username) == "" {
		return apperr.Validation("username is required")
	}
	return nil
}

// AuthID checks that an external identity id is present.
func AuthID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.Validation("auth id is required")
	}
	return nil
}
