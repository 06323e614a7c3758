// resources.go parses MCP resource URIs for note access.
//
// MCP resources give read-only access to notes via a URI scheme, so an LLM
// client can load a note as context without performing a tool call. The
// owner is part of the URI because resources carry no arguments.

package mcp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidURI indicates a malformed resource URI, helping clients
	// debug URI construction issues.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrEmptyRef indicates a resource URI without an owner or note ref.
	ErrEmptyRef = errors.New("empty owner or note reference")

	errNotInitialised = errors.New(ErrNotInitialised)
)

const notePrefix = "pim://notes/"

// parseNoteURI extracts owner and ref from pim://notes/{owner}/{ref}.
// Both segments are path-unescaped, so owners containing "/" can be
// addressed as %2F.
func parseNoteURI(uri string) (owner, ref string, err error) {
	rest, ok := strings.CutPrefix(uri, notePrefix)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	o, r, ok := strings.Cut(rest, "/")
	if !ok || o == "" || r == "" {
		return "", "", fmt.Errorf("%w: %s", ErrEmptyRef, uri)
	}
	if owner, err = url.PathUnescape(o); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if ref, err = url.PathUnescape(r); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	return owner, ref, nil
}
