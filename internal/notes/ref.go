// ref.go resolves user-supplied note references.
//
// Users see display numbers in listings ("#3") and naturally type them back;
// tools and scripts pass UUIDs. A ref is tried as a display number first
// since UUIDs never parse as integers, so there is no ambiguity.

package notes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jpl-au/pim/internal/store"
	"github.com/jpl-au/pim/internal/validate"
)

// ErrInvalidRef is returned for a ref that is neither a display number nor a UUID.
var ErrInvalidRef = fmt.Errorf("%w: invalid note reference", validate.ErrInvalid)

// Ref is a parsed note reference. Exactly one of ID and DisplayID is set.
type Ref struct {
	ID        string
	DisplayID int64
}

// ParseRef parses "3", "#3" or a UUID.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64); err == nil {
		if n <= 0 {
			return Ref{}, fmt.Errorf("%w: note numbers start at 1, got %d", ErrInvalidRef, n)
		}
		return Ref{DisplayID: n}, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q is not a note number or id", ErrInvalidRef, s)
	}
	return Ref{ID: id.String()}, nil
}

// String renders the ref the way users type it.
func (r Ref) String() string {
	if r.ID != "" {
		return r.ID
	}
	return "#" + strconv.FormatInt(r.DisplayID, 10)
}

// resolve returns the UUID a ref points at. Display numbers are looked up
// within owner; UUIDs are returned as-is without a lookup, leaving
// existence and ownership checks to the store operation that follows.
func (s *Service) resolve(ctx context.Context, owner, ref string) (string, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	if r.ID != "" {
		return r.ID, nil
	}
	n, err := s.store.GetByDisplayID(ctx, owner, r.DisplayID)
	if err != nil {
		return "", err
	}
	return n.ID, nil
}

// lookup fetches the note a ref points at without any ownership check.
func (s *Service) lookup(ctx context.Context, owner, ref string) (*store.Note, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	if r.ID != "" {
		return s.store.Get(ctx, r.ID)
	}
	return s.store.GetByDisplayID(ctx, owner, r.DisplayID)
}
