// Package store defines note persistence types and the Store interface.
// Implementations handle the actual database operations while consumers
// depend only on this interface, enabling testing and alternative backends.
package store

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/jpl-au/pim/internal/validate"
)

// Note is a single particle: the unit of stored and searched content.
// Values are treated as immutable; the With* methods return modified copies.
type Note struct {
	ID        string    // Globally unique UUID, never reused
	Owner     string    // Principal who created the note
	DisplayID int64     // Per-owner sequence number shown to users
	Title     string    // Unique per owner, case-insensitively
	Body      string    // Note content
	Tags      []string  // Sorted, de-duplicated tag set (nil when empty)
	CreatedAt time.Time // Fixed at creation
	UpdatedAt time.Time // Refreshed on every mutation
}

// WithTitle returns a copy of n with a new title and update time.
func (n Note) WithTitle(title string, at time.Time) Note {
	n.Title = title
	n.UpdatedAt = at
	return n
}

// WithBody returns a copy of n with a new body and update time.
func (n Note) WithBody(body string, at time.Time) Note {
	n.Body = body
	n.UpdatedAt = at
	return n
}

// WithTags returns a copy of n with a replaced tag set and update time.
func (n Note) WithTags(tags []string, at time.Time) Note {
	n.Tags = NormaliseTags(tags)
	n.UpdatedAt = at
	return n
}

// HasTag reports whether the note carries tag.
func (n Note) HasTag(tag string) bool {
	_, found := slices.BinarySearch(n.Tags, tag)
	return found
}

// NormaliseTags returns tags sorted and de-duplicated. An empty input yields
// nil so that "no tags" has exactly one representation.
func NormaliseTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := slices.Clone(tags)
	slices.Sort(out)
	out = slices.Compact(out)
	return out
}

// UnionTags returns the set union of a and b.
func UnionTags(a, b []string) []string {
	return NormaliseTags(append(slices.Clone(a), b...))
}

// DiffTags returns the tags in a that are not in b.
func DiffTags(a, b []string) []string {
	var out []string
	for _, t := range a {
		if !slices.Contains(b, t) {
			out = append(out, t)
		}
	}
	return NormaliseTags(out)
}

// EncodeTags joins a tag set into its persisted form. Order is not part of
// the contract; we sort so equal sets encode identically.
func EncodeTags(tags []string) string {
	return strings.Join(NormaliseTags(tags), validate.TagSeparator)
}

// DecodeTags splits a persisted tag string back into a set. An empty string
// (including a NULL column) decodes to the empty set.
func DecodeTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, validate.TagSeparator) {
		if t != "" {
			tags = append(tags, t)
		}
	}
	return NormaliseTags(tags)
}

// Limits bounds the size of note fields. Zero values mean no limit.
type Limits struct {
	MaxTitle int   // Runes
	MaxBody  int64 // Bytes
	MaxTag   int   // Runes
}

// CheckNew validates every field of a note about to be created.
func (l Limits) CheckNew(owner, title, body string, tags []string) error {
	if err := validate.Owner(owner); err != nil {
		return err
	}
	if err := validate.Title(title, l.MaxTitle); err != nil {
		return err
	}
	if err := validate.Body(body, l.MaxBody); err != nil {
		return err
	}
	return validate.Tags(tags, l.MaxTag)
}

// NoteJSON is the API-friendly representation of a Note with RFC3339
// timestamps. The body can be omitted for compact listings.
type NoteJSON struct {
	ID        string   `json:"id"`
	DisplayID int64    `json:"display_id"`
	Owner     string   `json:"owner"`
	Title     string   `json:"title"`
	Body      string   `json:"body,omitempty"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// ToJSON converts a Note to its API representation.
func (n *Note) ToJSON(body bool) NoteJSON {
	j := NoteJSON{
		ID:        n.ID,
		DisplayID: n.DisplayID,
		Owner:     n.Owner,
		Title:     n.Title,
		Tags:      n.Tags,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: n.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if j.Tags == nil {
		j.Tags = []string{}
	}
	if body {
		j.Body = n.Body
	}
	return j
}

// MarshalJSON encodes a value with indentation for human-readable CLI output.
// Use this instead of json.Marshal when the output will be displayed to users.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Now returns the current time in the form stored by every backend: UTC with
// the monotonic clock reading stripped, so values round-trip with ==.
func Now() time.Time {
	return time.Now().UTC().Round(0)
}
