// Package format provides output formatting utilities for CLI display.
//
// Centralises formatting logic so that command implementations focus on
// business logic while this package handles presentation concerns like
// column alignment and snippet layout.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/jpl-au/pim/internal/search"
	"github.com/jpl-au/pim/internal/store"
)

// humanSize formats a byte count as human-readable (e.g., "1.2K", "3.4M").
func humanSize(bytes int64) string {
	const (
		_        = iota
		KB int64 = 1 << (10 * iota)
		MB
		GB
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1fG", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1fM", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1fK", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// ref renders a display number the way users type it back.
func ref(displayID int64) string {
	return fmt.Sprintf("#%d", displayID)
}

// tags renders a tag set as "[a, b]", or "" when empty.
func tags(t []string) string {
	if len(t) == 0 {
		return ""
	}
	return "[" + strings.Join(t, ", ") + "]"
}

// refWidth returns the width of the widest display ref, for alignment.
func refWidth(notes []store.Note) int {
	w := 2
	for _, n := range notes {
		if l := len(ref(n.DisplayID)); l > w {
			w = l
		}
	}
	return w
}

// List prints notes in simple list format: ref, title and tags.
func List(w io.Writer, notes []store.Note) error {
	width := refWidth(notes)
	for _, n := range notes {
		line := fmt.Sprintf("%-*s  %s", width, ref(n.DisplayID), n.Title)
		if t := tags(n.Tags); t != "" {
			line += "  " + t
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// Long prints notes in long format.
//
// Column order is #, SIZE, UPDATED, ID, TITLE. Fixed-width columns come
// first so they align properly; the title goes last where its varying
// width does not disrupt the other columns.
func Long(w io.Writer, notes []store.Note) error {
	if len(notes) == 0 {
		return nil
	}

	width := refWidth(notes)
	fmt.Fprintf(w, "%-*s  %6s  %-16s  %-36s  %s\n", width, "#", "SIZE", "UPDATED", "ID", "TITLE")

	for _, n := range notes {
		updated := n.UpdatedAt.Local().Format("2006-01-02 15:04")
		size := humanSize(int64(len(n.Body)))
		title := n.Title
		if t := tags(n.Tags); t != "" {
			title += "  " + t
		}
		fmt.Fprintf(w, "%-*s  %6s  %s  %-36s  %s\n", width, ref(n.DisplayID), size, updated, n.ID, title)
	}
	return nil
}

// Note prints a single note with a header block followed by its body.
func Note(w io.Writer, n *store.Note) error {
	fmt.Fprintf(w, "%s  %s\n", ref(n.DisplayID), n.Title)
	fmt.Fprintf(w, "id:      %s\n", n.ID)
	if t := tags(n.Tags); t != "" {
		fmt.Fprintf(w, "tags:    %s\n", strings.Join(n.Tags, ", "))
	}
	fmt.Fprintf(w, "created: %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "updated: %s\n", n.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w)
	fmt.Fprint(w, n.Body)
	if !strings.HasSuffix(n.Body, "\n") {
		fmt.Fprintln(w)
	}
	return nil
}

// SearchResults prints hits best first. Each hit takes a heading line with
// ref, score and title, then its snippet indented on the next line with
// newlines flattened so every hit occupies exactly two lines.
func SearchResults(w io.Writer, hits []search.Hit) error {
	width := 2
	for _, h := range hits {
		if l := len(ref(h.DisplayID)); l > width {
			width = l
		}
	}
	for _, h := range hits {
		fmt.Fprintf(w, "%-*s  %3d  %s\n", width, ref(h.DisplayID), h.Score, h.Title)
		if h.Snippet != "" {
			fmt.Fprintf(w, "%*s  %s\n", width+5, "", flatten(h.Snippet))
		}
	}
	return nil
}

// flatten replaces runs of whitespace, including newlines, with one space.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tags prints one tag per line.
func Tags(w io.Writer, t []string) error {
	for _, tag := range t {
		fmt.Fprintln(w, tag)
	}
	return nil
}

// Titles prints just note titles, one per line.
func Titles(w io.Writer, notes []store.Note) error {
	for _, n := range notes {
		fmt.Fprintln(w, n.Title)
	}
	return nil
}
