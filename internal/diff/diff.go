// Package diff compares two versions of a note body line by line so a body
// update can report what changed.
package diff

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines kept either side of a change.
const contextLines = 3

// Op marks what happened to a line.
type Op byte

const (
	Keep   Op = ' '
	Remove Op = '-'
	Add    Op = '+'
	Elided Op = '~' // stands in for unchanged lines left out
)

// Line is one line of a body diff.
type Line struct {
	Op   Op
	Text string
}

// Body is the line-level change between two versions of a note body.
type Body struct {
	Note    string // display ref of the note, e.g. "#3"
	Lines   []Line
	Added   int
	Removed int
}

// Bodies diffs before against after. Whole lines are compared, and a missing
// final newline does not count as a change.
func Bodies(note, before, after string) Body {
	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToChars(terminate(before), terminate(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), index)

	d := Body{Note: note}
	for i, df := range diffs {
		lines := split(df.Text)
		switch df.Type {
		case diffmatchpatch.DiffDelete:
			d.Removed += len(lines)
			d.Lines = appendOp(d.Lines, Remove, lines)
		case diffmatchpatch.DiffInsert:
			d.Added += len(lines)
			d.Lines = appendOp(d.Lines, Add, lines)
		case diffmatchpatch.DiffEqual:
			d.Lines = appendKept(d.Lines, lines, i > 0, i < len(diffs)-1)
		}
	}
	return d
}

func terminate(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func appendOp(dst []Line, op Op, lines []string) []Line {
	for _, l := range lines {
		dst = append(dst, Line{op, l})
	}
	return dst
}

// appendKept adds an unchanged run, trimmed to the context next to the
// changes it borders. A run touching no change is kept whole.
func appendKept(dst []Line, lines []string, afterChange, beforeChange bool) []Line {
	if !afterChange && !beforeChange || len(lines) <= 2*contextLines {
		return appendOp(dst, Keep, lines)
	}
	head, tail := 0, 0
	if afterChange {
		head = contextLines
	}
	if beforeChange {
		tail = contextLines
	}
	dst = appendOp(dst, Keep, lines[:head])
	dst = append(dst, Line{Elided, "..."})
	return appendOp(dst, Keep, lines[len(lines)-tail:])
}

// Changed reports whether any line was added or removed.
func (d Body) Changed() bool {
	return d.Added+d.Removed > 0
}

// Text renders the diff as "- ", "+ " and "  " prefixed lines.
func (d Body) Text() string {
	var b strings.Builder
	for _, l := range d.Lines {
		b.WriteString(prefix(l.Op) + l.Text + "\n")
	}
	return b.String()
}

func prefix(op Op) string {
	switch op {
	case Remove:
		return "- "
	case Add:
		return "+ "
	default:
		return "  "
	}
}

// Summary is a one-line count of the change, e.g. "#3: +2 -1".
func (d Body) Summary() string {
	return fmt.Sprintf("%s: +%d -%d", d.Note, d.Added, d.Removed)
}

const (
	red   = "\033[31m"
	green = "\033[32m"
	reset = "\033[0m"
)

// Write prints the summary and the diff, colouring changed lines if asked.
func (d Body) Write(w io.Writer, colour bool) error {
	if _, err := fmt.Fprintln(w, d.Summary()); err != nil {
		return err
	}
	for _, l := range d.Lines {
		line := prefix(l.Op) + l.Text
		if colour {
			switch l.Op {
			case Remove:
				line = red + line + reset
			case Add:
				line = green + line + reset
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON encodes the counts and the rendered text.
func (d Body) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Note    string `json:"note"`
		Added   int    `json:"added"`
		Removed int    `json:"removed"`
		Diff    string `json:"diff"`
	}{d.Note, d.Added, d.Removed, d.Text()})
}
