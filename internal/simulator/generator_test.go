package simulator

import (
	"testing"

	"github.com/okian/plains/internal/domain/league"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(42).Generate(500)
	b := NewGenerator(42).Generate(500)
	require.Equal(t, a, b)
	require.NotEqual(t, a, NewGenerator(43).Generate(500))
}

func TestGenerator_CoversEveryOp(t *testing.T) {
	seen := make(map[string]int)
	for _, c := range NewGenerator(7).Generate(2_000) {
		seen[c.Op]++
		require.Len(t, c.Args, arity[c.Op], c.String())
	}
	for op := range arity {
		require.Positive(t, seen[op], op)
	}
}

func TestProperty_GeneratedTrafficKeepsInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64().Draw(t, "seed")
		teams := rapid.IntRange(1, 10).Draw(t, "teams")
		jockeys := rapid.IntRange(1, 30).Draw(t, "jockeys")
		l := league.New()
		for _, c := range NewGenerator(seed, WithIDRange(teams, jockeys)).Generate(300) {
			Apply(l, c)
		}
		require.NoError(t, l.Verify())
	})
}
