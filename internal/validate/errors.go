// errors.go defines sentinel errors for validation failures.
//
// Separated to centralise error definitions. Every specific sentinel wraps
// ErrInvalid so callers can match either the category ("this was bad input")
// or the exact cause with errors.Is.

package validate

import (
	"errors"
	"fmt"
)

// ErrInvalid is the parent of every validation failure. The store layer
// re-exports it as store.ErrValidation.
var ErrInvalid = errors.New("validation failed")

var (
	ErrInvalidTitle = fmt.Errorf("%w: invalid title", ErrInvalid)
	ErrInvalidBody  = fmt.Errorf("%w: invalid body", ErrInvalid)
	ErrInvalidTag   = fmt.Errorf("%w: invalid tag", ErrInvalid)
	ErrInvalidOwner = fmt.Errorf("%w: invalid owner", ErrInvalid)
	ErrTooLong      = fmt.Errorf("%w: value too long", ErrInvalid)
)
