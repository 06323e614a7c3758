// Package kv implements store.Store on an embedded Badger key-value engine.
//
// The SQLite store is the default backend; this one exists for deployments
// that prefer a pure key-value engine with no SQL layer. It holds the same
// invariants as the SQLite store, enforced inside Badger's optimistic
// transactions instead of by unique indexes.
//
// # Keyspace
//
// The Store owns the whole Badger database and lays it out as:
//
//	note:<id>                         -> JSON note record
//	own:<owner>\x00<display id BE8>   -> note id
//	title:<owner>\x00<lower(title)>   -> note id
//
// The own: index orders an owner's notes by display ID, which gives both
// allocation (last key + 1) and Recent (reverse scan) without a full scan.
// The title: index makes case-insensitive title uniqueness a key existence
// check within the same transaction as the write.
//
// # Concurrency
//
// Every uniqueness key is read with Get before it is written, so Badger's
// conflict detection sees two transactions racing for the same title or
// display ID and rejects the later commit with badger.ErrConflict. Writes
// retry on that error a bounded number of times.
package kv
