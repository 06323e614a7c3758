// vacuum.go holds SQLite maintenance: flushing the write-ahead log and
// compacting the database file after deletes.

package store

import (
	"context"
	"fmt"
)

// Checkpoint copies every WAL frame into the database file and truncates the
// log to zero bytes. notes.Service calls it on Close so a short-lived CLI
// process leaves no pending log behind.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}

// Vacuum rebuilds the database file, returning pages freed by deleted notes
// to the filesystem. Under WAL the rebuilt pages land in the log, so it is
// checkpointed afterwards.
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return s.Checkpoint(ctx)
}
