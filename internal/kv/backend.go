// backend.go manages the Badger engine lifecycle and transactions.

package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/jpl-au/pim/internal/store"
)

// maxTxnAttempts bounds retries of a write that lost an optimistic race.
const maxTxnAttempts = 50

// Store implements store.Store using Badger.
type Store struct {
	db     *badger.DB
	limits store.Limits
}

// Compile-time interface compliance check.
var _ store.Store = (*Store)(nil)

// loggerAdapter routes Badger's internal logging through slog.
type loggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*loggerAdapter)(nil)

func (l *loggerAdapter) Errorf(msg string, args ...any) {
	l.logger.Error(fmt.Sprintf(msg, args...))
}

func (l *loggerAdapter) Warningf(msg string, args ...any) {
	l.logger.Warn(fmt.Sprintf(msg, args...))
}

func (l *loggerAdapter) Infof(msg string, args ...any) {
	l.logger.Info(fmt.Sprintf(msg, args...))
}

func (l *loggerAdapter) Debugf(msg string, args ...any) {
	l.logger.Debug(fmt.Sprintf(msg, args...))
}

// Open opens (creating if needed) a Badger database in directory path.
// With inMemory set, path is ignored and nothing touches disk.
func Open(path string, inMemory bool) (*Store, error) {
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", path)
		}
		opts = badger.DefaultOptions(path)
	}

	// Badger logs every open and compaction at INFO.
	opts.Logger = &loggerAdapter{logger: slog.Default()}
	opts = opts.WithLoggingLevel(badger.WARNING)
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// SetLimits configures field size limits enforced on writes.
func (s *Store) SetLimits(l store.Limits) {
	s.limits = l
}

// Close releases the engine.
func (s *Store) Close() error {
	return s.db.Close()
}

// view runs fn in a read-only transaction.
func (s *Store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

// update runs fn in a read-write transaction, retrying when the commit
// loses a race with another writer. fn must be safe to run more than once.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for range maxTxnAttempts {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", maxTxnAttempts, err)
}
