package simulator

import (
	"math/rand/v2"
)

// Default id ranges for generated traffic. Small ranges keep collisions,
// merges and opposite records frequent.
const (
	defaultMaxTeamID   = 24
	defaultMaxJockeyID = 96
	defaultMaxRecord   = 4
	invalidIDPercent   = 3
)

// weighted op table; weights sum to 100.
var opWeights = []struct {
	op     string
	weight int
}{
	{OpAddTeam, 10},
	{OpAddJockey, 20},
	{OpUpdateMatch, 38},
	{OpMergeTeams, 6},
	{OpUniteByRecord, 6},
	{OpGetJockeyRecord, 10},
	{OpGetTeamRecord, 10},
}

// Generator produces a reproducible random command stream.
type Generator struct {
	rng         *rand.Rand
	maxTeamID   int
	maxJockeyID int
	maxRecord   int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithIDRange sets the largest team and jockey ids drawn.
func WithIDRange(teams, jockeys int) GeneratorOption {
	return func(g *Generator) {
		if teams > 0 {
			g.maxTeamID = teams
		}
		if jockeys > 0 {
			g.maxJockeyID = jockeys
		}
	}
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64, opts ...GeneratorOption) *Generator {
	g := &Generator{
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		maxTeamID:   defaultMaxTeamID,
		maxJockeyID: defaultMaxJockeyID,
		maxRecord:   defaultMaxRecord,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns the next command.
func (g *Generator) Next() Command {
	pick := g.rng.IntN(100)
	op := opWeights[len(opWeights)-1].op
	for _, w := range opWeights {
		if pick < w.weight {
			op = w.op
			break
		}
		pick -= w.weight
	}

	switch op {
	case OpAddTeam, OpGetTeamRecord:
		return Command{Op: op, Args: []int{g.id(g.maxTeamID)}}
	case OpAddJockey:
		return Command{Op: op, Args: []int{g.id(g.maxJockeyID), g.id(g.maxTeamID)}}
	case OpUpdateMatch:
		return Command{Op: op, Args: []int{g.id(g.maxJockeyID), g.id(g.maxJockeyID)}}
	case OpMergeTeams:
		return Command{Op: op, Args: []int{g.id(g.maxTeamID), g.id(g.maxTeamID)}}
	case OpUniteByRecord:
		return Command{Op: op, Args: []int{g.rng.IntN(g.maxRecord + 1)}}
	default:
		return Command{Op: op, Args: []int{g.id(g.maxJockeyID)}}
	}
}

// Generate returns n commands.
func (g *Generator) Generate(n int) []Command {
	cmds := make([]Command, n)
	for i := range cmds {
		cmds[i] = g.Next()
	}
	return cmds
}

// id draws from [1, limit], occasionally returning a non-positive id.
func (g *Generator) id(limit int) int {
	if g.rng.IntN(100) < invalidIDPercent {
		return -g.rng.IntN(2)
	}
	return 1 + g.rng.IntN(limit)
}
