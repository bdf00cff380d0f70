/*
errors.go - Centralized error kinds for the ledger core

PURPOSE:
  All error values raised by Bank operations in one place. The HTTP layer
  maps these to status codes with the Is* helpers; it never string-matches.

ERROR CATEGORIES:
  1. Not-found errors - a referenced id or account number does not resolve
  2. Invalid-input errors - missing field, bad amount, unrecognized enum
  3. Persistence errors - snapshot failures (logged, never propagated out of
     a mutating operation; in-memory state stays the source of truth)

USAGE:
  if errors.Is(err, ledger.ErrAccountNotFound) { ... }
  if ledger.IsNotFound(err) { ... }

SEE ALSO:
  - core.go: raises these
  - api/handlers.go: maps them to HTTP statuses
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAccountNotFound is returned when an account id or account number
	// does not resolve.
	ErrAccountNotFound = errors.New("account not found")

	// ErrLoanNotFound is returned when a loan id does not resolve.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrCreditNotFound is returned when a credit id does not resolve.
	ErrCreditNotFound = errors.New("credit not found")

	// ErrInvalidInput is returned for missing required fields, non-positive
	// amounts, and unrecognized type/status values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSnapshotFailed marks a best-effort persistence failure. It is logged
	// at the snapshot boundary and never returned from a mutating operation.
	ErrSnapshotFailed = errors.New("snapshot failed")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// InputError wraps ErrInvalidInput with the offending field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalidInput(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether err is any of the not-found kinds.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrLoanNotFound) ||
		errors.Is(err, ErrCreditNotFound)
}

// IsInvalidInput reports whether err is a client input error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
