// Package vacuum reclaims disk space held by deleted notes.
//
// Deletes are permanent but both engines keep the freed space until they
// compact: SQLite rebuilds the file and Badger garbage-collects its value
// log. Vacuum runs that step and reports the size before and after.
package vacuum

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jpl-au/pim/internal/service"
)

// Result reports the on-disk size of the store around the vacuum.
type Result struct {
	Before int64 `json:"before"`
	After  int64 `json:"after"`
}

// Reclaimed returns the bytes freed, never negative.
func (r Result) Reclaimed() int64 {
	return max(r.Before-r.After, 0)
}

// Run compacts the store at path. path is the SQLite file or Badger
// directory and is only used to measure sizes.
func Run(ctx context.Context, w io.Writer, svc service.Service, path string) (Result, error) {
	var result Result
	var err error

	if result.Before, err = storeSize(path); err != nil {
		return result, err
	}
	if err := svc.Vacuum(ctx); err != nil {
		return result, err
	}
	if result.After, err = storeSize(path); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "Vacuumed %s: %d -> %d bytes (%d reclaimed)\n",
		filepath.Base(path), result.Before, result.After, result.Reclaimed())
	return result, nil
}

// storeSize counts a SQLite write-ahead log alongside its database, since
// unflushed pages live there.
func storeSize(path string) (int64, error) {
	n, err := Size(path)
	if err != nil {
		return 0, err
	}
	wal, err := Size(path + "-wal")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}
	return n + wal, nil
}

// Size returns the size of a file, or the total size of regular files under
// a directory.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var total int64
	err = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		total += fi.Size()
		return nil
	})
	return total, err
}
