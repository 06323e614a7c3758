// Package importer loads markdown files into the note store.
//
// Each file becomes one note. The title comes from the frontmatter "title"
// key, falling back to the file name without its extension; tags come from
// the frontmatter "tags" key plus any given in Options. Files whose title
// the owner already uses are skipped rather than failing the whole import.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jpl-au/pim/internal/frontmatter"
	"github.com/jpl-au/pim/internal/progress"
	"github.com/jpl-au/pim/internal/service"
	"github.com/jpl-au/pim/internal/store"
)

// DefaultPattern selects every markdown file below the source directory.
const DefaultPattern = "**/*.md"

// Options configures an import operation.
type Options struct {
	Owner   string   // Owner the notes are created for
	Pattern string   // Doublestar glob relative to the source dir (default DefaultPattern)
	Tags    []string // Extra tags added to every imported note
	Hidden  bool     // Include hidden files/directories
	DryRun  bool     // Show what would be imported without importing
}

// Result contains the outcome of an import operation.
type Result struct {
	Imported int      // Number of notes created
	Titles   []string // Titles that were/would be imported
	Skipped  []string // Files skipped because the title already exists
}

// file is one parsed source file.
type file struct {
	src   string
	title string
	body  string
	tags  []string
}

// Run executes the import operation. src is a single file or a directory;
// directories are walked through an os.Root so matched paths cannot escape
// the source tree.
func Run(ctx context.Context, w io.Writer, svc service.Service, src string, opts Options) (Result, error) {
	var result Result

	info, err := os.Stat(src)
	if err != nil {
		return result, err
	}

	var files []file
	if info.IsDir() {
		files, err = scanDir(src, opts)
	} else {
		var f file
		f, err = parseFile(os.DirFS(filepath.Dir(src)), filepath.Base(src), opts.Tags)
		f.src = src
		files = []file{f}
	}
	if err != nil {
		return result, err
	}

	prog := progress.New("Importing", len(files))
	defer prog.Done()

	for _, f := range files {
		if opts.DryRun {
			fmt.Fprintf(w, "Would import: %s -> %s\n", f.src, f.title)
			result.Titles = append(result.Titles, f.title)
			prog.Step()
			continue
		}

		n, err := svc.Create(ctx, opts.Owner, f.title, f.body, f.tags)
		prog.Step()
		if errors.Is(err, store.ErrConflict) {
			fmt.Fprintf(w, "Skipped: %s (title %q exists)\n", f.src, f.title)
			result.Skipped = append(result.Skipped, f.src)
			continue
		}
		if err != nil {
			return result, fmt.Errorf("importing %s: %w", f.src, err)
		}

		fmt.Fprintf(w, "Imported: %s -> #%d %s\n", f.src, n.DisplayID, n.Title)
		result.Titles = append(result.Titles, n.Title)
		result.Imported++
	}

	return result, nil
}

// scanDir finds and parses every file under dir matching opts.Pattern.
func scanDir(dir string, opts Options) ([]file, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("opening source root: %w", err)
	}
	defer root.Close()
	fsys := root.FS()

	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	var files []file
	for _, rel := range matches {
		if !opts.Hidden && hidden(rel) {
			continue
		}
		f, err := parseFile(fsys, rel, opts.Tags)
		if err != nil {
			return nil, err
		}
		f.src = filepath.Join(dir, filepath.FromSlash(rel))
		files = append(files, f)
	}
	return files, nil
}

// hidden reports whether any element of the slash-separated path starts
// with a dot.
func hidden(rel string) bool {
	for part := range strings.SplitSeq(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// parseFile reads name from fsys and splits it into title, body and tags.
func parseFile(fsys fs.FS, name string, extra []string) (file, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return file{}, fmt.Errorf("reading %s: %w", name, err)
	}
	meta, body, err := frontmatter.Parse(data)
	if err != nil {
		return file{}, fmt.Errorf("%s: %w", name, err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = titleFromName(name)
	}
	return file{
		title: title,
		body:  body,
		tags:  store.UnionTags(meta.Tags, extra),
	}, nil
}

// titleFromName derives a title from a file name: "weekly-shop.md" becomes
// "weekly-shop".
func titleFromName(name string) string {
	base := path.Base(filepath.ToSlash(name))
	return strings.TrimSuffix(base, path.Ext(base))
}
