// tag.go implements tag string validation.
//
// Tags are persisted as a single comma-joined column, so a comma inside a
// tag would split it on the way back out. That is the one hard rule.

package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TagSeparator joins tags in the persisted encoding.
const TagSeparator = ","

// Tag validates a single tag.
//
// Validation rules:
//   - Empty or whitespace-only tags rejected
//   - Separator (comma) rejected
//   - Null bytes rejected
//   - Max length in runes enforced if maxLen > 0
func Tag(t string, maxLen int) error {
	if strings.TrimSpace(t) == "" {
		return fmt.Errorf("%w: empty tag", ErrInvalidTag)
	}
	if strings.Contains(t, TagSeparator) {
		return fmt.Errorf("%w: tag %q contains %q", ErrInvalidTag, t, TagSeparator)
	}
	if strings.ContainsRune(t, 0) {
		return fmt.Errorf("%w: null byte in tag", ErrInvalidTag)
	}
	if maxLen > 0 && utf8.RuneCountInString(t) > maxLen {
		return fmt.Errorf("%w: tag exceeds %d characters", ErrTooLong, maxLen)
	}
	return nil
}

// Tags validates every tag in a set.
func Tags(tags []string, maxLen int) error {
	for _, t := range tags {
		if err := Tag(t, maxLen); err != nil {
			return err
		}
	}
	return nil
}
