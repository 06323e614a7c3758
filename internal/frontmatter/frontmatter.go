// Package frontmatter reads and writes markdown files with a YAML header
// block, the interchange format used by import and export.
//
//	---
//	title: Groceries
//	tags: [home, weekly]
//	---
//	eggs, milk
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrUnclosed is returned when a header is opened but never closed.
var ErrUnclosed = errors.New("frontmatter started but no closing delimiter found")

const delim = "---"

// Meta is the header of an exported note. Only Title and Tags are read back
// on import; the rest is informational.
type Meta struct {
	Title     string    `yaml:"title,omitempty"`
	Tags      Tags      `yaml:"tags,omitempty,flow"`
	ID        string    `yaml:"id,omitempty"`
	DisplayID int64     `yaml:"display_id,omitempty"`
	CreatedAt time.Time `yaml:"created,omitempty"`
	UpdatedAt time.Time `yaml:"updated,omitempty"`
}

// Tags accepts either a YAML sequence or a single comma-separated scalar,
// since hand-written files use both.
type Tags []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Tags) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var s string
		if err := n.Decode(&s); err != nil {
			return err
		}
		*t = nil
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				*t = append(*t, part)
			}
		}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := n.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	default:
		return fmt.Errorf("line %d: tags must be a list or a string", n.Line)
	}
}

// Parse splits data into header and body. Data without a leading "---"
// line has an empty header and is returned whole as the body.
func Parse(data []byte) (Meta, string, error) {
	var m Meta
	if !bytes.HasPrefix(data, []byte(delim+"\n")) && !bytes.HasPrefix(data, []byte(delim+"\r\n")) {
		return m, string(data), nil
	}

	rest := data[len(delim):]
	head, body, ok := bytes.Cut(rest, []byte("\n"+delim))
	if !ok {
		return m, "", ErrUnclosed
	}
	if err := yaml.Unmarshal(head, &m); err != nil {
		return m, "", fmt.Errorf("parse frontmatter: %w", err)
	}

	// Drop the remainder of the closing delimiter line.
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return m, string(body), nil
}

// Render writes m as a YAML header followed by body. A zero Meta renders the
// body alone.
func Render(m Meta, body string) ([]byte, error) {
	var buf bytes.Buffer
	if m.Title != "" || len(m.Tags) > 0 || m.ID != "" {
		buf.WriteString(delim + "\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encode frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		buf.WriteString(delim + "\n")
	}
	buf.WriteString(body)
	return buf.Bytes(), nil
}
