package infra

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// Releaser records how to give back every resource acquired while the dependency graph
// is built. Each release func runs at most once, whether from its component's OnStop
// hook or from Release. Release covers the startup failures after which fx runs no
// hook for that resource: a graph that failed to build, or an OnStart that never ran.
type Releaser struct {
	mu      sync.Mutex
	entries []*release
}

type release struct {
	name string
	once sync.Once
	fn   func(ctx context.Context) error
}

func NewReleaser() *Releaser {
	return &Releaser{}
}

// Track registers fn under name and returns the guarded func components must call
// instead of fn.
func (r *Releaser) Track(name string, fn func(ctx context.Context) error) func(ctx context.Context) error {
	e := &release{name: name, fn: fn}

	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()

	return e.run
}

func (e *release) run(ctx context.Context) (err error) {
	e.once.Do(func() {
		err = e.fn(ctx)
	})
	return err
}

// Release gives back every resource not released yet, newest first.
func (r *Releaser) Release(ctx context.Context) error {
	r.mu.Lock()
	entries := append([]*release(nil), r.entries...)
	r.mu.Unlock()

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if err := e.run(ctx); err != nil {
			log.Warn().Err(err).Str("resource", e.name).Msg("infra: failed to release resource")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
