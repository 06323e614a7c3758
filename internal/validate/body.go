// body.go implements note body validation.
//
// The web editor that produced most notes serialises a blank document as
// EmptyDocument rather than an empty string. A body containing that marker
// is a deliberate "empty page" and is accepted.

package validate

import (
	"fmt"
	"strings"
)

// EmptyDocument is the rich-text editor's markup for a blank document.
const EmptyDocument = "<p><br></p>"

// Body validates a note body.
//
// Validation rules:
//   - Must contain non-whitespace text, or contain EmptyDocument
//   - Max length in bytes enforced if maxLen > 0
func Body(b string, maxLen int64) error {
	if strings.TrimSpace(b) == "" && !strings.Contains(b, EmptyDocument) {
		return fmt.Errorf("%w: body cannot be empty", ErrInvalidBody)
	}
	if maxLen > 0 && int64(len(b)) > maxLen {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrTooLong, maxLen)
	}
	return nil
}
