// Package validate provides input validation for pim's note fields.
//
// This package enforces the business rules applied at the boundary between
// caller input and the note store: titles and bodies must carry text, tags
// must survive the comma-delimited persisted encoding, and owners must be
// usable as index keys. Each function returns nil on success or an error
// wrapping one of the sentinels in errors.go.
//
// # Design Philosophy
//
// Validation is minimal by design. We reject inputs that would break an
// invariant (empty titles, commas in tags, NUL bytes in keys) but do not
// impose formatting rules on note content.
//
// # Error Handling
//
// All validation errors wrap ErrInvalid, so a caller that only cares about
// the category can write:
//
//	if errors.Is(err, validate.ErrInvalid) {
//	    // re-prompt the user
//	}
package validate
