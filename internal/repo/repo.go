// Package repo provides repository initialisation and discovery for pim.
//
// A pim repository is a .pim directory holding the note store: either a
// SQLite file (pim.db) or a Badger directory (pim.badger). This package
// handles:
//   - Initialising new repositories (creating .pim/ and the store)
//   - Discovering existing repositories by walking up the directory tree
//   - Opening the store for whichever backend the repository uses
//   - Controlling git visibility via .gitignore (local vs shared stores)
//
// The discovery algorithm mirrors git's approach: starting from the current
// directory (or PIM_DIR when set), walk up until a .pim directory containing
// a store is found, or the filesystem root is reached.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jpl-au/pim/internal/config"
	"github.com/jpl-au/pim/internal/kv"
	"github.com/jpl-au/pim/internal/store"
)

const (
	// Dir is the directory name for the pim repository.
	Dir = ".pim"
	// SQLiteFile is the SQLite store filename.
	SQLiteFile = "pim.db"
	// BadgerDir is the Badger store directory name.
	BadgerDir = "pim.badger"
	// EnvDir overrides the directory discovery starts from.
	EnvDir = "PIM_DIR"
)

var (
	// ErrNotInitialised is returned when no pim repository is found.
	ErrNotInitialised = errors.New("pim not initialised (run 'pim init')")
	// ErrUnknownBackend is returned for a backend name other than sqlite or badger.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Location identifies a discovered store.
type Location struct {
	Root    string // The .pim directory
	Backend string // config.BackendSQLite or config.BackendBadger
	Path    string // Store file (sqlite) or directory (badger)
}

// StoreName returns the store's file or directory name for a backend.
func StoreName(backend string) (string, error) {
	switch backend {
	case "", config.BackendSQLite:
		return SQLiteFile, nil
	case config.BackendBadger:
		return BadgerDir, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func normaliseBackend(backend string) string {
	if backend == "" {
		return config.DefaultBackend
	}
	return backend
}

// Init initialises a new pim repository.
//
// Why init does not write config: Following the git model, init only creates
// the store. Config is a separate concern managed via "pim config".
//
// Parameters:
//   - force: reinitialise an existing store (its notes are removed)
//   - backend: "sqlite" (default) or "badger"
//   - local: add the store to .gitignore (not committed)
//   - dir: target directory (empty for current directory)
func Init(force bool, backend string, local bool, dir string) (Location, error) {
	backend = normaliseBackend(backend)
	name, err := StoreName(backend)
	if err != nil {
		return Location{}, err
	}
	if dir == "" {
		dir = "."
	}
	root := filepath.Join(dir, Dir)
	loc := Location{Root: root, Backend: backend, Path: filepath.Join(root, name)}

	if _, err := os.Stat(loc.Path); err == nil {
		if !force {
			return Location{}, fmt.Errorf("store %s already exists (use --force to reinitialise)", name)
		}
		if err := os.RemoveAll(loc.Path); err != nil {
			return Location{}, fmt.Errorf("remove store: %w", err)
		}
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return Location{}, fmt.Errorf("create directory: %w", err)
	}

	s, err := Open(loc)
	if err != nil {
		return Location{}, err
	}
	if err := s.Close(); err != nil {
		return Location{}, fmt.Errorf("close store: %w", err)
	}

	// Create .gitignore if it doesn't exist. Only on first init, so entries
	// added later (local store markers) are not lost.
	gitignore := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		s := `# pim - ignore local config and SQLite side files
# The store itself is the source of truth and may be committed
config.yaml
*.db-wal
*.db-shm
`
		if err := os.WriteFile(gitignore, []byte(s), 0644); err != nil {
			return Location{}, fmt.Errorf("write gitignore: %w", err)
		}
	}

	if local {
		if err := IgnoreStore(backend, root); err != nil {
			return Location{}, fmt.Errorf("ignore store: %w", err)
		}
	}
	return loc, nil
}

// Open opens the store at loc, creating its schema if needed.
func Open(loc Location) (store.Store, error) {
	switch loc.Backend {
	case config.BackendSQLite:
		s, err := store.Open(loc.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		if err := s.Init(); err != nil {
			s.Close()
			return nil, fmt.Errorf("init store: %w", err)
		}
		return s, nil
	case config.BackendBadger:
		s, err := kv.Open(loc.Path, false)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, loc.Backend)
	}
}

// start returns the directory discovery begins from.
func start() (string, error) {
	if d := os.Getenv(EnvDir); d != "" {
		return filepath.Abs(d)
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}

// Discover walks up the directory tree looking for a pim store. With an
// empty backend, whichever store exists is used, SQLite first.
func Discover(backend string) (Location, error) {
	candidates := []string{config.BackendSQLite, config.BackendBadger}
	if backend != "" {
		if _, err := StoreName(backend); err != nil {
			return Location{}, err
		}
		candidates = []string{backend}
	}

	dir, err := start()
	if err != nil {
		return Location{}, err
	}
	for {
		root := filepath.Join(dir, Dir)
		for _, b := range candidates {
			name, _ := StoreName(b)
			p := filepath.Join(root, name)
			if _, err := os.Stat(p); err == nil {
				return Location{Root: root, Backend: b, Path: p}, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Location{}, ErrNotInitialised
		}
		dir = parent
	}
}

// DiscoverDir finds the .pim directory, walking up the tree.
func DiscoverDir() (string, error) {
	dir, err := start()
	if err != nil {
		return "", err
	}
	for {
		root := filepath.Join(dir, Dir)
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			return root, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}
