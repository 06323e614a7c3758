// Package notes provides the note service used by the CLI and MCP server.
// It wraps a store.Store with reference resolution (UUID or display
// number), owner-scoped reads, body diffs and the search engine, all
// configured from the repository config.
package notes

import (
	"context"
	"fmt"

	"github.com/jpl-au/pim/internal/config"
	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/repo"
	"github.com/jpl-au/pim/internal/search"
	"github.com/jpl-au/pim/internal/service"
	"github.com/jpl-au/pim/internal/store"
)

// Compile-time interface compliance check.
var _ service.Service = (*Service)(nil)

// limiter is implemented by stores that enforce field size limits.
type limiter interface {
	SetLimits(store.Limits)
}

// checkpointer is implemented by stores with a write-ahead log to flush.
type checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// vacuumer is implemented by stores that can reclaim space from deleted notes.
type vacuumer interface {
	Vacuum(ctx context.Context) error
}

// Service provides note operations backed by a Store.
type Service struct {
	store  store.Store
	engine *search.Engine
	loc    repo.Location
}

// New discovers the repository by walking up the directory tree, opens its
// store and applies the loaded config. backend forces a specific store
// ("sqlite" or "badger"); empty uses whichever exists, falling back to the
// configured store.backend when both do.
// Returns repo.ErrNotInitialised if no store is found.
func New(backend string) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err // config.Load provides detailed, actionable error messages
	}
	if backend == "" && cfg.IsSet("store.backend") {
		backend = cfg.Backend()
	}

	loc, err := repo.Discover(backend)
	if err != nil {
		return nil, err
	}
	s, err := repo.Open(loc)
	if err != nil {
		return nil, err
	}

	svc, err := NewWithStore(s, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	svc.loc = loc
	return svc, nil
}

// NewWithStore builds a Service around an already open store. The service
// takes ownership of s and closes it in Close.
func NewWithStore(s store.Store, cfg *config.Config) (*Service, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if l, ok := s.(limiter); ok {
		l.SetLimits(store.Limits{
			MaxTitle: cfg.MaxTitle(),
			MaxBody:  cfg.MaxBody(),
			MaxTag:   cfg.MaxTag(),
		})
	}
	engine, err := search.New(s,
		search.WithLimit(cfg.SearchLimit()),
		search.WithSnippet(cfg.SnippetLength()),
	)
	if err != nil {
		return nil, fmt.Errorf("search engine: %w", err)
	}
	return &Service{store: s, engine: engine}, nil
}

// Init initialises a new pim repository with the given backend.
// If dir is empty, uses the current directory.
//
// Note: Init does not write config. Config is managed via "pim config".
func Init(force bool, backend string, local bool, dir string) (repo.Location, error) {
	return repo.Init(force, backend, local, dir)
}

// Location returns where the store was discovered. Zero for services built
// with NewWithStore.
func (s *Service) Location() repo.Location {
	return s.loc
}

// Close flushes the store's write-ahead log where it has one, stops the
// search workers and closes the store.
func (s *Service) Close() error {
	if c, ok := s.store.(checkpointer); ok {
		if err := c.Checkpoint(context.Background()); err != nil {
			log.Event("service:close", "checkpoint").Write(err)
		}
	}
	s.engine.Release()
	return s.store.Close()
}

// Vacuum reclaims storage left behind by deleted notes. Stores without a
// compaction step succeed without doing anything.
func (s *Service) Vacuum(ctx context.Context) error {
	v, ok := s.store.(vacuumer)
	if !ok {
		return nil
	}
	return v.Vacuum(ctx)
}
