// Package registry maps external entity ids to forest handles.
//
// Jockey and team ids live in separate namespaces. Entries are never removed:
// a retired team keeps resolving to its node, and liveness is decided by the
// forest rather than by the registry.
package registry

import "github.com/okian/plains/internal/domain/forest"

// Table is a single id namespace.
type Table struct {
	byID map[int]forest.Handle
}

// NewTable creates an empty table sized for capacity entries.
func NewTable(capacity int) *Table {
	if capacity < 0 {
		capacity = 0
	}
	return &Table{byID: make(map[int]forest.Handle, capacity)}
}

// Register associates id with h. It returns false and leaves the table
// unchanged when id is already present.
func (t *Table) Register(id int, h forest.Handle) bool {
	if _, exists := t.byID[id]; exists {
		return false
	}
	t.byID[id] = h
	return true
}

// Lookup returns the handle registered for id.
func (t *Table) Lookup(id int) (forest.Handle, bool) {
	h, ok := t.byID[id]
	return h, ok
}

// Contains reports whether id was ever registered.
func (t *Table) Contains(id int) bool {
	_, ok := t.byID[id]
	return ok
}

// Len returns the number of registered ids.
func (t *Table) Len() int { return len(t.byID) }

// Registry holds the jockey and team namespaces.
type Registry struct {
	Jockeys *Table
	Teams   *Table
}

// New creates a registry with both namespaces empty.
func New(opts ...Option) *Registry {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{
		Jockeys: NewTable(cfg.jockeyCapacity),
		Teams:   NewTable(cfg.teamCapacity),
	}
}

// Range calls fn for every registered id until fn returns false. Iteration
// order is unspecified.
func (t *Table) Range(fn func(id int, h forest.Handle) bool) {
	for id, h := range t.byID {
		if !fn(id, h) {
			return
		}
	}
}
