package league

import (
	"fmt"

	"github.com/okian/plains/internal/domain/forest"
)

// Verify walks the whole league and checks the structural invariants:
// every jockey resolves to a live team root, each live root's aggregate
// equals the sum of its jockeys' personal records and its size their count,
// and the record index holds exactly one entry per live root at its current
// aggregate. It is O(n) and meant for tests and diagnostics.
func (l *League) Verify() error {
	sums := make(map[forest.Handle]int)
	counts := make(map[forest.Handle]int)
	var err error
	l.registry.Jockeys.Range(func(jid int, h forest.Handle) bool {
		root := l.forest.Find(h)
		if !l.forest.IsLiveRoot(root) {
			err = fmt.Errorf("%w: jockey %d resolves to non-live node %d", ErrCorrupt, jid, root)
			return false
		}
		sums[root] += l.forest.Personal(h)
		counts[root]++
		return true
	})
	if err != nil {
		return err
	}

	live := 0
	l.registry.Teams.Range(func(tid int, h forest.Handle) bool {
		if !l.forest.IsLiveRoot(h) {
			if !l.forest.Retired(h) {
				err = fmt.Errorf("%w: team %d is neither live nor retired", ErrCorrupt, tid)
				return false
			}
			return true
		}
		live++
		agg := l.forest.Aggregate(h)
		switch {
		case agg != sums[h]:
			err = fmt.Errorf("%w: team %d aggregate %d, jockeys sum to %d", ErrCorrupt, tid, agg, sums[h])
		case l.forest.Size(h) != counts[h]:
			err = fmt.Errorf("%w: team %d size %d, has %d jockeys", ErrCorrupt, tid, l.forest.Size(h), counts[h])
		case !l.index.Holds(agg, h):
			err = fmt.Errorf("%w: team %d missing from record index at %d", ErrCorrupt, tid, agg)
		}
		return err == nil
	})
	if err != nil {
		return err
	}
	if n := l.index.Len(); n != live {
		return fmt.Errorf("%w: record index has %d entries for %d live teams", ErrCorrupt, n, live)
	}
	return nil
}
