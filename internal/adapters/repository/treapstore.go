package repository

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/plains/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: record DESC, then teamID ASC (deterministic).
// "less" means ranks earlier, so in-order traversal yields the standings
// from best to worst. Subtree sizes give O(log n) expected rank queries.

type node struct {
	id     int
	record int
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aRecord, aID) should appear before (bRecord, bID).
func less(aRecord, aID, bRecord, bID int) bool {
	if aRecord != bRecord {
		return aRecord > bRecord
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n, fresh *node) *node {
	if n == nil {
		return fresh
	}
	if less(fresh.record, fresh.id, n.record, n.id) {
		n.left = insert(n.left, fresh)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, fresh)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id, record int) *node {
	if n == nil {
		return nil
	}
	switch {
	case record == n.record && id == n.id:
		// Rotate the higher-priority child up until n is a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, record)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, record)
		}
	case less(record, id, n.record, n.id):
		n.left = deleteNode(n.left, id, record)
	default:
		n.right = deleteNode(n.right, id, record)
	}
	fix(n)
	return n
}

// countAbove returns how many nodes hold a record strictly greater than record.
func countAbove(n *node, record int) int {
	count := 0
	for n != nil {
		if n.record > record {
			count += 1 + nsize(n.left)
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// collectTopN appends up to limit nodes in standings order.
func collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{TeamID: n.id, Record: n.record})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// assignRanks gives tied records the same competition rank. entries must
// start at the top of the standings.
func assignRanks(entries []Entry) {
	for i := range entries {
		if i == 0 {
			entries[i].Rank = 1
			continue
		}
		if entries[i].Record == entries[i-1].Record {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
}

// TreapStore is the standings board.
type TreapStore struct {
	mu   sync.RWMutex
	root *node
	byID map[int]int // team id -> record
	seed uint64
	rng  *rand.Rand
}

var _ Store = (*TreapStore)(nil)

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		byID: make(map[int]int),
		seed: uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	return s
}

// Upsert implements Store.Upsert in O(log n) expected time.
func (s *TreapStore) Upsert(_ context.Context, teamID, record int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byID[teamID]; ok {
		if old == record {
			return false
		}
		s.root = deleteNode(s.root, teamID, old)
	}
	s.byID[teamID] = record
	s.root = insert(s.root, &node{id: teamID, record: record, prio: s.rng.Uint64(), size: 1})
	metrics.UpdateStandingsSize(len(s.byID))
	return true
}

// Remove implements Store.Remove.
func (s *TreapStore) Remove(_ context.Context, teamID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[teamID]
	if !ok {
		return false
	}
	s.root = deleteNode(s.root, teamID, old)
	delete(s.byID, teamID)
	metrics.UpdateStandingsSize(len(s.byID))
	return true
}

// Rank returns the current rank and record for a team in O(log n).
func (s *TreapStore) Rank(_ context.Context, teamID int) (Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordStandingsQuery(time.Since(start)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[teamID]
	if !ok {
		metrics.RecordError("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	return Entry{Rank: 1 + countAbove(s.root, record), TeamID: teamID, Record: record}, nil
}

// TopN returns the top N entries ordered by record desc.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordStandingsQuery(time.Since(start)) }()

	if n < 1 {
		metrics.RecordError("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byID)))
	collectTopN(s.root, n, &out)
	assignRanks(out)
	return out, nil
}

// Count returns the number of teams on the board.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
