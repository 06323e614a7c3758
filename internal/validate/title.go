package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Title validates a note title.
//
// Validation rules:
//   - Must contain at least one non-whitespace character
//   - Null bytes rejected
//   - Max length in runes enforced if maxLen > 0
func Title(t string, maxLen int) error {
	if strings.TrimSpace(t) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidTitle)
	}
	if strings.ContainsRune(t, 0) {
		return fmt.Errorf("%w: null byte in title", ErrInvalidTitle)
	}
	if maxLen > 0 && utf8.RuneCountInString(t) > maxLen {
		return fmt.Errorf("%w: title exceeds %d characters", ErrTooLong, maxLen)
	}
	return nil
}

// TitleKey returns the form of a title used for per-owner uniqueness.
// Comparison is case-insensitive only; whitespace is significant.
func TitleKey(t string) string {
	return strings.ToLower(t)
}
