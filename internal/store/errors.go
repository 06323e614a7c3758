// errors.go defines the error kinds produced at the note store boundary.
//
// Every backend returns these sentinels (wrapped with context) so callers can
// branch with errors.Is regardless of which engine is underneath. Anything
// that does not match one of them is an infrastructure failure.

package store

import (
	"errors"

	"github.com/jpl-au/pim/internal/validate"
)

var (
	// ErrValidation indicates malformed input at the business-rule level.
	// It is the same value as validate.ErrInvalid.
	ErrValidation = validate.ErrInvalid
	// ErrConflict indicates a duplicate title for the same owner.
	ErrConflict = errors.New("title already in use")
	// ErrNotFound indicates the referenced note does not exist.
	ErrNotFound = errors.New("note not found")
	// ErrPermission indicates the caller does not own the note.
	ErrPermission = errors.New("permission denied")
)
