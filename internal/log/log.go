// Package log provides centralised audit logging for pim operations.
// Logs are stored in ~/.pim/log/pim-log.db and track all CLI commands
// and MCP tool invocations across repositories.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("notes:show", "read").
//		Owner(owner).
//		Note(ref).
//		Result(n.ID, n.DisplayID).
//		Write(err)
//
//	log.Event("notes:search", "search").
//		Owner(owner).
//		Detail("query", query).
//		Detail("count", len(hits)).
//		Write(err)
//
// The source parameter follows the format "notes:{command}" for CLI
// commands or "mcp:{tool}" for MCP tools.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g., "notes:new", "mcp:pim_search"
	Owner  string // whose notes were touched
	Action string // verb: create, read, update, delete, list, search, etc.
	Note   string // input: note reference as given (UUID, "#3" or "3")

	// Output fields - populated after the operation succeeds
	ResultID      string // output: resolved note UUID
	ResultDisplay int64  // output: resolved per-owner display ID

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write]
// to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the operation originated:
//   - CLI commands: "notes:{command}" (e.g., "notes:new", "notes:search")
//   - MCP tools: "mcp:{tool}" (e.g., "mcp:pim_create")
//
// The action describes what was done: "create", "read", "update",
// "tag", "delete", "list", "search", "import", "export", "config".
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Owner sets whose notes the operation acted on.
func (b *Builder) Owner(owner string) *Builder {
	b.entry.Owner = owner
	return b
}

// Note sets the note reference the caller supplied.
//
// Leave unset for operations that don't target a single note (list, search).
func (b *Builder) Note(ref string) *Builder {
	b.entry.Note = ref
	return b
}

// Result records the note the operation resolved to or produced.
//
// For create: the new note. For reads and updates: the note addressed.
func (b *Builder) Result(id string, displayID int64) *Builder {
	b.entry.ResultID = id
	b.entry.ResultDisplay = displayID
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
//
// Use for operation-specific data that doesn't fit standard fields:
// search queries, result counts, tag lists, etc.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure from err.
//
// If err is nil, the entry is logged as successful.
// If err is non-nil, the entry is logged as failed with the error message.
//
// Example:
//
//	n, err := svc.Get(ctx, owner, ref)
//	log.Event("notes:show", "read").Owner(owner).Note(ref).Write(err)
//	if err != nil {
//		return err
//	}
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent log entries.
// The dir should be the absolute path to the .pim directory.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
