// Package forest implements the union-find structure that groups jockeys
// under team roots.
//
// Nodes live in an arena and are addressed by Handle. A root is a node whose
// parent handle equals its own handle. Teams are created as singleton roots;
// jockeys are attached directly under a team root and are never roots.
// Merges use union by size and every Find applies full path compression.
//
// A team root that loses a merge is flagged retired. It stays in the arena
// because its former descendants still route through it until compression
// re-points them.
package forest

import "fmt"

// Handle addresses a node in the arena.
type Handle int32

// Nil is the zero handle returned alongside errors.
const Nil Handle = -1

// Kind tags the entity a node represents.
type Kind uint8

const (
	// Team nodes may be roots and carry the group aggregate.
	Team Kind = iota + 1
	// Jockey nodes are always children and carry a personal record.
	Jockey
)

func (k Kind) String() string {
	switch k {
	case Team:
		return "team"
	case Jockey:
		return "jockey"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// node is one arena slot. record holds the group aggregate for team roots
// and the personal counter for jockeys; merges only ever touch team records.
type node struct {
	parent  Handle
	id      int
	kind    Kind
	size    int
	record  int
	retired bool
}

// Forest is the arena plus the union-find operations over it.
// It is not safe for concurrent use.
type Forest struct {
	nodes    []node
	maxNodes int
	retired  int
	path     []Handle
}

// New creates an empty forest.
func New(opts ...Option) *Forest {
	f := &Forest{}
	for _, opt := range opts {
		opt(f)
	}
	if f.maxNodes > 0 {
		f.nodes = make([]node, 0, min(f.maxNodes, defaultPrealloc))
	}
	return f
}

// NewTeam allocates a singleton team root with size 0 and aggregate 0.
func (f *Forest) NewTeam(id int) (Handle, error) {
	return f.alloc(id, Team)
}

// NewJockey allocates a detached jockey node with a zero personal record.
// It must be attached with AttachJockey before any Find.
func (f *Forest) NewJockey(id int) (Handle, error) {
	return f.alloc(id, Jockey)
}

func (f *Forest) alloc(id int, kind Kind) (Handle, error) {
	if f.maxNodes > 0 && len(f.nodes) >= f.maxNodes {
		return Nil, fmt.Errorf("allocate %s %d: %w", kind, id, ErrArenaFull)
	}
	h := Handle(len(f.nodes))
	f.nodes = append(f.nodes, node{parent: h, id: id, kind: kind})
	return h, nil
}

// Release frees h, which must be the most recently allocated node and must
// not have been linked into any tree yet.
func (f *Forest) Release(h Handle) {
	last := Handle(len(f.nodes) - 1)
	if h != last {
		panic(fmt.Sprintf("forest: release of %d, last allocated is %d", h, last))
	}
	n := f.nodes[h]
	if n.parent != h || n.size != 0 {
		panic(fmt.Sprintf("forest: release of linked node %d", h))
	}
	f.nodes = f.nodes[:last]
}

// Find returns the root of h's tree and re-points every node on the path
// directly at that root.
func (f *Forest) Find(h Handle) Handle {
	f.check(h)
	root := h
	path := f.path[:0]
	for f.nodes[root].parent != root {
		path = append(path, root)
		root = f.nodes[root].parent
	}
	for _, p := range path {
		f.nodes[p].parent = root
	}
	f.path = path[:0]
	return root
}

// AttachJockey links a detached jockey under a live team root and grows the
// group size by one. The aggregate is not changed.
func (f *Forest) AttachJockey(jockey, root Handle) {
	f.check(jockey)
	f.mustLiveRoot(root, "attach")
	j := &f.nodes[jockey]
	if j.kind != Jockey || j.parent != jockey {
		panic(fmt.Sprintf("forest: attach of non-detached jockey %d", jockey))
	}
	j.parent = root
	f.nodes[root].size++
}

// Union merges two distinct live roots by size. The root with the strictly
// larger size survives; on a tie a survives.
func (f *Forest) Union(a, b Handle) (survivor, loser Handle) {
	f.mustLiveRoot(a, "union")
	f.mustLiveRoot(b, "union")
	if a == b {
		panic(fmt.Sprintf("forest: union of root %d with itself", a))
	}
	survivor, loser = a, b
	if f.nodes[b].size > f.nodes[a].size {
		survivor, loser = b, a
	}
	f.link(survivor, loser)
	return survivor, loser
}

// Absorb merges loser into survivor regardless of their sizes.
func (f *Forest) Absorb(survivor, loser Handle) {
	f.mustLiveRoot(survivor, "absorb")
	f.mustLiveRoot(loser, "absorb")
	if survivor == loser {
		panic(fmt.Sprintf("forest: absorb of root %d into itself", survivor))
	}
	f.link(survivor, loser)
}

func (f *Forest) link(survivor, loser Handle) {
	s, l := &f.nodes[survivor], &f.nodes[loser]
	l.parent = survivor
	l.retired = true
	s.size += l.size
	s.record += l.record
	f.retired++
}

// IsLiveRoot reports whether h is a team root that has never lost a merge.
func (f *Forest) IsLiveRoot(h Handle) bool {
	if !f.valid(h) {
		return false
	}
	n := f.nodes[h]
	return n.kind == Team && n.parent == h && !n.retired
}

// AddAggregate adds delta to a live root's aggregate and returns the new value.
func (f *Forest) AddAggregate(root Handle, delta int) int {
	f.mustLiveRoot(root, "aggregate")
	f.nodes[root].record += delta
	return f.nodes[root].record
}

// AddPersonal adds delta to a jockey's personal record and returns the new value.
func (f *Forest) AddPersonal(jockey Handle, delta int) int {
	f.mustKind(jockey, Jockey)
	f.nodes[jockey].record += delta
	return f.nodes[jockey].record
}

// Aggregate returns the group aggregate of a live root.
func (f *Forest) Aggregate(root Handle) int {
	f.mustLiveRoot(root, "aggregate")
	return f.nodes[root].record
}

// Personal returns a jockey's personal record.
func (f *Forest) Personal(jockey Handle) int {
	f.mustKind(jockey, Jockey)
	return f.nodes[jockey].record
}

// Size returns the number of jockeys in a live root's group.
func (f *Forest) Size(root Handle) int {
	f.mustLiveRoot(root, "size")
	return f.nodes[root].size
}

// ID returns the entity id stored in h.
func (f *Forest) ID(h Handle) int {
	f.check(h)
	return f.nodes[h].id
}

// Kind returns the entity kind stored in h.
func (f *Forest) Kind(h Handle) Kind {
	f.check(h)
	return f.nodes[h].kind
}

// Retired reports whether h is a team that lost a merge.
func (f *Forest) Retired(h Handle) bool {
	f.check(h)
	return f.nodes[h].retired
}

// Len returns the number of allocated nodes.
func (f *Forest) Len() int { return len(f.nodes) }

// RetiredCount returns the number of retired team nodes.
func (f *Forest) RetiredCount() int { return f.retired }

func (f *Forest) valid(h Handle) bool {
	return h >= 0 && int(h) < len(f.nodes)
}

func (f *Forest) check(h Handle) {
	if !f.valid(h) {
		panic(fmt.Sprintf("forest: handle %d out of range [0,%d)", h, len(f.nodes)))
	}
}

func (f *Forest) mustKind(h Handle, k Kind) {
	f.check(h)
	if got := f.nodes[h].kind; got != k {
		panic(fmt.Sprintf("forest: node %d is a %s, want %s", h, got, k))
	}
}

func (f *Forest) mustLiveRoot(h Handle, op string) {
	if !f.IsLiveRoot(h) {
		panic(fmt.Sprintf("forest: %s on %d which is not a live team root", op, h))
	}
}
