// Package progress provides a CLI progress counter for bulk note operations.
// Output goes to stderr to keep stdout clean for piping, and only renders
// when that stream is a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// minItems is the minimum number of items before showing progress.
// For small operations, progress adds noise without benefit.
const minItems = 5

// Progress tracks and displays operation progress.
type Progress struct {
	w       io.Writer
	label   string
	total   int
	current int
	width   int // length of the last line drawn, for clearing
	active  bool
}

// New creates a progress reporter on stderr.
func New(label string, total int) *Progress {
	return NewFile(os.Stderr, label, total)
}

// NewFile creates a progress reporter writing to f. Nothing is drawn unless
// f is a terminal and total is at least minItems.
func NewFile(f *os.File, label string, total int) *Progress {
	return &Progress{
		w:      f,
		label:  label,
		total:  total,
		active: total >= minItems && term.IsTerminal(int(f.Fd())),
	}
}

// Step advances the counter by one and redraws the line in place.
func (p *Progress) Step() {
	p.current++
	if !p.active {
		return
	}
	pct := (p.current * 100) / p.total
	line := fmt.Sprintf("%s... %d/%d (%d%%)", p.label, p.current, p.total, pct)
	p.width = len(line)
	fmt.Fprintf(p.w, "\r%s", line)
}

// Count returns how many steps have been taken.
func (p *Progress) Count() int {
	return p.current
}

// Done clears the progress line to make way for final output.
func (p *Progress) Done() {
	if !p.active || p.width == 0 {
		return
	}
	fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", p.width))
	p.width = 0
}
