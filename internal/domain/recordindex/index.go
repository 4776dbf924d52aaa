// Package recordindex maps a team group's current aggregate record to the
// live roots holding it.
//
// The index answers whether a value is shared by several roots and, when a
// single root holds it, which one. Callers keep it exact by clearing a
// root's old value before mutating the aggregate and setting the new value
// afterwards.
package recordindex

import "github.com/okian/plains/internal/domain/forest"

type holders map[forest.Handle]struct{}

// Index is the record value -> root handles index. It is not safe for
// concurrent use.
type Index struct {
	byValue map[int]holders
	entries int
}

// New creates an empty index.
func New() *Index {
	return &Index{byValue: make(map[int]holders)}
}

// Set records h as a holder of value. Setting an existing pair is a no-op.
func (x *Index) Set(value int, h forest.Handle) {
	hs, ok := x.byValue[value]
	if !ok {
		hs = make(holders, 1)
		x.byValue[value] = hs
	}
	if _, dup := hs[h]; dup {
		return
	}
	hs[h] = struct{}{}
	x.entries++
}

// Clear removes the pair (value, h). It reports whether the pair existed.
func (x *Index) Clear(value int, h forest.Handle) bool {
	hs, ok := x.byValue[value]
	if !ok {
		return false
	}
	if _, held := hs[h]; !held {
		return false
	}
	delete(hs, h)
	x.entries--
	if len(hs) == 0 {
		delete(x.byValue, value)
	}
	return true
}

// HasDuplicate reports whether two or more roots hold value.
func (x *Index) HasDuplicate(value int) bool {
	return len(x.byValue[value]) > 1
}

// LookupUnique returns the root holding value when exactly one does.
func (x *Index) LookupUnique(value int) (forest.Handle, bool) {
	hs := x.byValue[value]
	if len(hs) != 1 {
		return forest.Nil, false
	}
	for h := range hs {
		return h, true
	}
	return forest.Nil, false
}

// Holds reports whether the pair (value, h) is present.
func (x *Index) Holds(value int, h forest.Handle) bool {
	_, ok := x.byValue[value][h]
	return ok
}

// Holders returns how many roots hold value.
func (x *Index) Holders(value int) int { return len(x.byValue[value]) }

// Len returns the total number of (value, root) entries.
func (x *Index) Len() int { return x.entries }

// Values returns the number of distinct values held.
func (x *Index) Values() int { return len(x.byValue) }
