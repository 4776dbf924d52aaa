package forest_test

import (
	"testing"

	"github.com/okian/plains/internal/domain/forest"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// naiveGroups mirrors the forest with explicit group labels relabelled on
// every merge.
type naiveGroups struct {
	group     map[forest.Handle]int
	aggregate map[int]int
	jockeys   map[int]int
}

func (m *naiveGroups) merge(survivor, loser int) {
	for h, g := range m.group {
		if g == loser {
			m.group[h] = survivor
		}
	}
	m.aggregate[survivor] += m.aggregate[loser]
	m.jockeys[survivor] += m.jockeys[loser]
	delete(m.aggregate, loser)
	delete(m.jockeys, loser)
}

func TestProperty_ForestMatchesNaiveGroups(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := forest.New()
		m := &naiveGroups{
			group:     make(map[forest.Handle]int),
			aggregate: make(map[int]int),
			jockeys:   make(map[int]int),
		}
		var roots []forest.Handle
		var all []forest.Handle

		liveRoots := func() []forest.Handle {
			out := roots[:0:0]
			for _, r := range roots {
				if f.IsLiveRoot(r) {
					out = append(out, r)
				}
			}
			return out
		}

		steps := rapid.IntRange(1, 80).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			live := liveRoots()
			op := rapid.IntRange(0, 3).Draw(t, "op")
			switch {
			case op == 0 || len(live) == 0:
				h, err := f.NewTeam(i + 1)
				require.NoError(t, err)
				roots = append(roots, h)
				all = append(all, h)
				m.group[h] = int(h)
				m.aggregate[int(h)] = 0
				m.jockeys[int(h)] = 0
			case op == 1:
				root := rapid.SampledFrom(live).Draw(t, "attachRoot")
				j, err := f.NewJockey(i + 1)
				require.NoError(t, err)
				f.AttachJockey(j, root)
				all = append(all, j)
				m.group[j] = int(root)
				m.jockeys[int(root)]++
			case op == 2 && len(live) >= 2:
				a := rapid.SampledFrom(live).Draw(t, "a")
				b := rapid.SampledFrom(live).Draw(t, "b")
				if a == b {
					continue
				}
				s, l := f.Union(a, b)
				require.NotEqual(t, s, l)
				m.merge(int(s), int(l))
			default:
				root := rapid.SampledFrom(live).Draw(t, "scoreRoot")
				delta := rapid.SampledFrom([]int{-1, 1}).Draw(t, "delta")
				f.AddAggregate(root, delta)
				m.aggregate[int(root)] += delta
			}
		}

		// Every node resolves to the live root of its naive group, and
		// repeated finds agree.
		for _, h := range all {
			root := f.Find(h)
			require.Equal(t, root, f.Find(h))
			require.True(t, f.IsLiveRoot(root))
			require.Equal(t, m.group[h], int(root))
		}
		// One live root per group, carrying the conserved aggregate and size.
		live := liveRoots()
		require.Len(t, live, len(m.aggregate))
		for _, r := range live {
			require.Equal(t, m.aggregate[int(r)], f.Aggregate(r))
			require.Equal(t, m.jockeys[int(r)], f.Size(r))
		}
		require.Equal(t, len(roots)-len(live), f.RetiredCount())
	})
}
