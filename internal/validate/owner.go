package validate

import (
	"fmt"
	"strings"
)

// Owner validates an owner identity. Owners are opaque strings issued by the
// session layer; we only reject values that cannot be used as index keys.
func Owner(o string) error {
	if o == "" {
		return fmt.Errorf("%w: empty owner", ErrInvalidOwner)
	}
	if strings.ContainsRune(o, 0) {
		return fmt.Errorf("%w: null byte in owner", ErrInvalidOwner)
	}
	return nil
}
