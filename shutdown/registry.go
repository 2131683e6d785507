// Package shutdown coordinates graceful teardown of the ingestion
// pipeline: cleanup handlers run in priority order with a bounded
// timeout, so the log file, the write queue, and the database always
// close in a sane sequence.
package shutdown

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"edukai_backend/core"
)

// entry holds a registered cleanup function with metadata.
type entry struct {
	name     string
	fn       core.ShutdownFunc
	priority int // lower runs earlier
}

// Registry maintains an ordered collection of cleanup functions.
//
// Thread-Safety:
//   - Registry is safe for concurrent use. Registration after Run is a
//     no-op.
type Registry struct {
	mu      sync.Mutex
	entries []entry
	closed  bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a cleanup function. Lower priority values execute
// earlier.
//
// Typical priorities:
//   - 0-9: flush logs
//   - 10-19: stop background workers (write queue)
//   - 20-29: close resources (database, files)
func (r *Registry) Register(name string, priority int, fn core.ShutdownFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.entries = append(r.entries, entry{name: name, fn: fn, priority: priority})
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run executes every registered handler in priority order, collecting
// failures rather than stopping at the first. After Run the registry is
// closed to further registration.
func (r *Registry) Run(ctx context.Context) []error {
	r.mu.Lock()
	r.closed = true
	entries := make([]entry, len(r.entries))
	copy(entries, r.entries)
	r.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority < entries[j].priority
	})

	var errs []error
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown: aborted before %s: %w", e.name, err))
			return errs
		}
		if err := e.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown: %s: %w", e.name, err))
		}
	}
	return errs
}
