// Package routetable implements the concurrent, read-mostly Route store
// described in SPEC_FULL.md §4.1. Reads (Lookup, List) take a read lock
// for the duration of a single lookup-and-clone; no lock is ever held
// across network I/O.
package routetable

import (
	"sort"
	"sync"

	"github.com/mockbridge/mockd"
	"github.com/mockbridge/mockd/metrics"
)

// Table is a concurrency-safe map of Route identities to Routes.
type Table struct {
	mu     sync.RWMutex
	routes map[mockd.Identity]mockd.Route
}

// New returns an empty Table.
func New() *Table {
	return &Table{routes: make(map[mockd.Identity]mockd.Route)}
}

// Lookup returns the Route registered under (method, path), if any. The
// returned bool mirrors ordinary Go map-lookup semantics.
func (t *Table) Lookup(method, path string) (mockd.Route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.routes[mockd.Identity{Method: method, Path: path}]
	return r, ok
}

// Insert adds a new Route. It fails with KindConflict if the identity is
// already occupied, or KindInvalid if the Route fails validation.
func (t *Table) Insert(r mockd.Route) error {
	if err := r.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.routes[r.ID()]; exists {
		return mockd.Conflict(errAlreadyExists(r))
	}
	t.routes[r.ID()] = r
	metrics.RoutesTotal.Set(float64(len(t.routes)))
	return nil
}

// Update replaces the Route at (method, path) with newRoute. If newRoute's
// identity differs from the original, the old identity is removed and the
// new one installed atomically under a single write lock, failing with
// KindConflict if the new identity is already occupied by a different
// route.
func (t *Table) Update(method, path string, newRoute mockd.Route) error {
	if err := newRoute.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	oldID := mockd.Identity{Method: method, Path: path}
	if _, exists := t.routes[oldID]; !exists {
		return mockd.NotFound(errNoSuchRoute(method, path))
	}

	newID := newRoute.ID()
	if newID != oldID {
		if _, exists := t.routes[newID]; exists {
			return mockd.Conflict(errAlreadyExists(newRoute))
		}
		delete(t.routes, oldID)
	}
	t.routes[newID] = newRoute
	return nil
}

// Remove deletes the Route at (method, path), reporting whether one was
// present.
func (t *Table) Remove(method, path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := mockd.Identity{Method: method, Path: path}
	if _, exists := t.routes[id]; !exists {
		return false
	}
	delete(t.routes, id)
	metrics.RoutesTotal.Set(float64(len(t.routes)))
	return true
}

// List returns a snapshot of all routes, sorted by (path, method) for a
// stable, deterministic enumeration order.
func (t *Table) List() []mockd.Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]mockd.Route, 0, len(t.routes))
	for _, r := range t.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// BulkReplace atomically drops the current route set and installs routes,
// used by OpenAPI import (SPEC_FULL.md §4.6). Every route is validated
// before any mutation is applied; a single invalid route fails the whole
// call and leaves the table untouched.
func (t *Table) BulkReplace(routes []mockd.Route) error {
	fresh := make(map[mockd.Identity]mockd.Route, len(routes))
	for _, r := range routes {
		if err := r.Validate(); err != nil {
			return err
		}
		fresh[r.ID()] = r
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = fresh
	metrics.RoutesTotal.Set(float64(len(t.routes)))
	return nil
}

// Len reports the current number of routes.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.routes)
}
