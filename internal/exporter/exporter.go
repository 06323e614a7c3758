// Package exporter writes an owner's notes to the filesystem as markdown
// files with a YAML frontmatter header, the format the importer reads back.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/jpl-au/pim/internal/frontmatter"
	"github.com/jpl-au/pim/internal/progress"
	"github.com/jpl-au/pim/internal/service"
	"github.com/jpl-au/pim/internal/store"
)

// ErrNothingToExport is returned when the owner has no notes.
var ErrNothingToExport = errors.New("no notes to export")

// maxNameRunes bounds the title part of an exported file name.
const maxNameRunes = 64

// Options configures an export operation.
type Options struct {
	Owner string   // Owner whose notes are exported
	Refs  []string // Notes to export (empty = all of owner's notes)
	Force bool     // Overwrite existing files
}

// Result contains the outcome of an export operation.
type Result struct {
	Exported int      // Number of files exported
	Paths    []string // Filesystem paths that were written
}

// Run exports notes into the directory dst, creating it if needed. Files
// are named "<display id>-<slug>.md" so that titles differing only in
// characters unsafe for file names still map to distinct files.
// Uses os.Root for safe path handling within the destination directory.
func Run(ctx context.Context, w io.Writer, svc service.Service, dst string, opts Options) (Result, error) {
	var result Result

	notes, err := collect(ctx, svc, opts)
	if err != nil {
		return result, err
	}
	if len(notes) == 0 {
		return result, ErrNothingToExport
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return result, fmt.Errorf("creating destination directory: %w", err)
	}
	root, err := os.OpenRoot(dst)
	if err != nil {
		return result, fmt.Errorf("opening destination root: %w", err)
	}
	defer root.Close()

	prog := progress.New("Exporting", len(notes))
	defer prog.Done()

	for _, n := range notes {
		name := FileName(n)
		data, err := frontmatter.Render(frontmatter.Meta{
			Title:     n.Title,
			Tags:      n.Tags,
			ID:        n.ID,
			DisplayID: n.DisplayID,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		}, n.Body)
		if err != nil {
			return result, fmt.Errorf("rendering #%d: %w", n.DisplayID, err)
		}

		if err := writeFileInRoot(root, name, data, opts.Force); err != nil {
			return result, err
		}
		prog.Step()

		out := filepath.Join(dst, name)
		result.Paths = append(result.Paths, out)
		result.Exported++
		fmt.Fprintf(w, "Exported: #%d %s -> %s\n", n.DisplayID, n.Title, out)
	}

	return result, nil
}

// collect returns the notes selected by opts.
func collect(ctx context.Context, svc service.Service, opts Options) ([]store.Note, error) {
	if len(opts.Refs) == 0 {
		return svc.List(ctx, opts.Owner)
	}
	notes := make([]store.Note, 0, len(opts.Refs))
	for _, ref := range opts.Refs {
		n, err := svc.Get(ctx, opts.Owner, ref)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", ref, err)
		}
		notes = append(notes, *n)
	}
	return notes, nil
}

// FileName returns the file name a note is exported under.
func FileName(n store.Note) string {
	return fmt.Sprintf("%d-%s.md", n.DisplayID, slug(n.Title))
}

// slug lower-cases s and collapses every run of characters other than
// letters and digits into one hyphen.
func slug(s string) string {
	var b strings.Builder
	runes, dash := 0, false
	for _, r := range strings.ToLower(s) {
		if runes >= maxNameRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
				runes++
			}
			b.WriteRune(r)
			runes++
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "note"
	}
	return b.String()
}

// writeFileInRoot writes data to name within root, refusing to replace an
// existing file unless force is set.
func writeFileInRoot(root *os.Root, name string, data []byte, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := root.OpenFile(name, flags, 0644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("file exists: %s (use --force to overwrite)", name)
	}
	if err != nil {
		return fmt.Errorf("creating file %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}
