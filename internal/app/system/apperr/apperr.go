// Package apperr defines the error taxonomy shared by stores, services, and
// handlers.
//
// Store packages translate driver-level "no documents" results into
// ErrNotFound at the boundary so callers never depend on mongo sentinel
// errors. Services wrap multi-step mutation failures with PartialFailure so
// the caller can tell which step committed and which did not; nothing is
// rolled back and nothing is swallowed.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced thread or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates input rejected before reaching the store.
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable indicates a connection or query failure in the
	// document store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrPartialFailure indicates a multi-step mutation where an earlier
	// step committed and a later step did not.
	ErrPartialFailure = errors.New("partial failure")
)

// NotFound wraps ErrNotFound with the kind of entity that was missing.
func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// Validation wraps ErrValidation with the reason the input was rejected.
func Validation(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// PartialFailure wraps err so errors.Is(result, ErrPartialFailure) holds,
// recording which step of the mutation failed after earlier steps committed.
// The cause stays on the chain so errors.Is/As still reach it.
func PartialFailure(step string, err error) error {
	return fmt.Errorf("%w at step %q: %w", ErrPartialFailure, step, err)
}
