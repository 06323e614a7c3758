// engine.go wires parsing, retrieval, scoring and ranking together.
//
// Scoring is CPU-bound and independent per note. Small candidate sets are
// scored inline; larger ones are split into chunks scored on a bounded ants
// worker pool, each chunk writing into its own slice positions so the
// result order matches the retrieval order before ranking.

package search

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/jpl-au/pim/internal/store"
	"github.com/panjf2000/ants/v2"
)

// parallelThreshold is the candidate count above which scoring fans out.
const parallelThreshold = 512

// chunkSize is the number of notes one pool task scores.
const chunkSize = 256

// Engine answers search queries over a store.Searcher.
type Engine struct {
	src     store.Searcher
	pool    *ants.Pool
	limit   int
	snippet int
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLimit sets the default result limit used when Search gets limit <= 0.
func WithLimit(n int) Option {
	return func(e *Engine) error {
		if n > 0 {
			e.limit = n
		}
		return nil
	}
}

// WithSnippet sets the snippet length in characters.
func WithSnippet(n int) Option {
	return func(e *Engine) error {
		if n > 0 {
			e.snippet = n
		}
		return nil
	}
}

// WithPoolSize sets the number of scoring workers.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size <= 0 {
			return fmt.Errorf("pool size must be positive, got %d", size)
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return fmt.Errorf("create scoring pool: %w", err)
		}
		if e.pool != nil {
			e.pool.Release()
		}
		e.pool = pool
		return nil
	}
}

// New creates an Engine reading from src. Call Release when done.
func New(src store.Searcher, opts ...Option) (*Engine, error) {
	e := &Engine{
		src:     src,
		limit:   DefaultLimit,
		snippet: DefaultSnippet,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Release()
			return nil, err
		}
	}
	if e.pool == nil {
		pool, err := ants.NewPool(runtime.GOMAXPROCS(0))
		if err != nil {
			return nil, fmt.Errorf("create scoring pool: %w", err)
		}
		e.pool = pool
	}
	return e, nil
}

// Release stops the worker pool.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Search returns owner's notes matching raw, best first. An empty query
// lists the owner's most recently numbered notes with score 0. limit <= 0
// uses the engine's default.
func (e *Engine) Search(ctx context.Context, owner, raw string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = e.limit
	}

	q := Parse(raw)
	if q.Empty() {
		notes, err := e.src.Recent(ctx, owner, limit)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		hits := make([]Hit, len(notes))
		for i, n := range notes {
			hits[i] = hit(Scored{Note: n}, e.snippet)
		}
		return hits, nil
	}

	candidates, err := e.src.Candidates(ctx, owner, q.Terms())
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	scored, err := e.score(ctx, candidates, q)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ranked := Rank(scored, limit)
	hits := make([]Hit, len(ranked))
	for i, s := range ranked {
		hits[i] = hit(s, e.snippet)
	}
	return hits, nil
}

// score keeps the candidates that satisfy every term of q.
func (e *Engine) score(ctx context.Context, notes []store.Note, q Query) ([]Scored, error) {
	if len(notes) <= parallelThreshold {
		return scoreRange(notes, q), nil
	}

	chunks := (len(notes) + chunkSize - 1) / chunkSize
	parts := make([][]Scored, chunks)
	var wg sync.WaitGroup
	for i := range chunks {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		lo := i * chunkSize
		hi := min(lo+chunkSize, len(notes))
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			parts[i] = scoreRange(notes[lo:hi], q)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit scoring task: %w", err)
		}
	}
	wg.Wait()

	var out []Scored
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

func scoreRange(notes []store.Note, q Query) []Scored {
	var out []Scored
	for _, n := range notes {
		if s, ok := Score(n, q); ok {
			out = append(out, Scored{Note: n, Score: s})
		}
	}
	return out
}
