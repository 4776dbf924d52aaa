// Package league is the public operation set over teams, jockeys and their
// merged groups.
//
// A League validates arguments, resolves ids through the registry, mutates
// the forest and keeps the record index in step with every aggregate change.
// Every operation reports a Status; rejected calls leave no partial state.
//
// Merge rules: MergeTeams keeps the group with more jockeys (the first
// operand on a tie). UniteByRecord keeps the group holding the positive
// record regardless of size.
//
// A League is not safe for concurrent use.
package league

import (
	"github.com/okian/plains/internal/domain/forest"
	"github.com/okian/plains/internal/domain/recordindex"
	"github.com/okian/plains/internal/domain/registry"
)

// League owns the forest, registry and record index of one competition.
type League struct {
	forest   *forest.Forest
	registry *registry.Registry
	index    *recordindex.Index

	maxNodes int
	observer Observer
}

// New creates an empty league.
func New(opts ...Option) *League {
	l := &League{}
	for _, opt := range opts {
		opt(l)
	}
	l.forest = forest.New(forest.WithMaxNodes(l.maxNodes))
	l.registry = registry.New()
	l.index = recordindex.New()
	return l
}

// AddTeam creates team id with no jockeys and a zero record.
func (l *League) AddTeam(id int) Status {
	if id <= 0 {
		return InvalidInput
	}
	if l.registry.Teams.Contains(id) {
		return Failure
	}
	h, err := l.forest.NewTeam(id)
	if err != nil {
		return AllocationError
	}
	if !l.registry.Teams.Register(id, h) {
		l.forest.Release(h)
		return Failure
	}
	l.index.Set(0, h)
	l.notify(Change{TeamID: id})
	return Success
}

// AddJockey creates jockey jid with a zero record in the live team tid.
func (l *League) AddJockey(jid, tid int) Status {
	if jid <= 0 || tid <= 0 {
		return InvalidInput
	}
	if l.registry.Jockeys.Contains(jid) {
		return Failure
	}
	root, live := l.liveTeam(tid)
	if !live {
		return Failure
	}
	h, err := l.forest.NewJockey(jid)
	if err != nil {
		return AllocationError
	}
	if !l.registry.Jockeys.Register(jid, h) {
		l.forest.Release(h)
		return Failure
	}
	l.forest.AttachJockey(h, root)
	return Success
}

// UpdateMatch records that jockey winner beat jockey loser. Both personal
// records and both group records move by one.
func (l *League) UpdateMatch(winner, loser int) Status {
	if winner <= 0 || loser <= 0 || winner == loser {
		return InvalidInput
	}
	wh, wok := l.registry.Jockeys.Lookup(winner)
	lh, lok := l.registry.Jockeys.Lookup(loser)
	if !wok || !lok {
		return Failure
	}
	wr, lr := l.forest.Find(wh), l.forest.Find(lh)
	if wr == lr {
		return Failure
	}

	l.forest.AddPersonal(wh, 1)
	l.forest.AddPersonal(lh, -1)

	l.index.Clear(l.forest.Aggregate(wr), wr)
	l.index.Clear(l.forest.Aggregate(lr), lr)
	wagg := l.forest.AddAggregate(wr, 1)
	lagg := l.forest.AddAggregate(lr, -1)
	l.index.Set(wagg, wr)
	l.index.Set(lagg, lr)

	l.notify(Change{TeamID: l.forest.ID(wr), Record: wagg})
	l.notify(Change{TeamID: l.forest.ID(lr), Record: lagg})
	return Success
}

// MergeTeams joins the groups of two live teams. The team with more jockeys
// keeps its id; on a tie id1 does. The other id is retired for good.
func (l *League) MergeTeams(id1, id2 int) Status {
	if id1 <= 0 || id2 <= 0 || id1 == id2 {
		return InvalidInput
	}
	a, aok := l.liveTeam(id1)
	b, bok := l.liveTeam(id2)
	if !aok || !bok {
		return Failure
	}
	l.merge(a, b, false)
	return Success
}

// UniteByRecord merges the only team holding record with the only team
// holding -record. The positive team keeps its id and the result is zero.
func (l *League) UniteByRecord(record int) Status {
	if record <= 0 {
		return InvalidInput
	}
	if l.index.HasDuplicate(record) || l.index.HasDuplicate(-record) {
		return Failure
	}
	pos, pok := l.index.LookupUnique(record)
	neg, nok := l.index.LookupUnique(-record)
	if !pok || !nok {
		return Failure
	}
	l.merge(pos, neg, true)
	return Success
}

// merge folds two live roots together and re-indexes the survivor. When
// forced, a survives regardless of size.
func (l *League) merge(a, b forest.Handle, forced bool) {
	l.index.Clear(l.forest.Aggregate(a), a)
	l.index.Clear(l.forest.Aggregate(b), b)

	survivor, loser := a, b
	if forced {
		l.forest.Absorb(a, b)
	} else {
		survivor, loser = l.forest.Union(a, b)
	}

	agg := l.forest.Aggregate(survivor)
	l.index.Set(agg, survivor)

	l.notify(Change{TeamID: l.forest.ID(loser), Retired: true})
	l.notify(Change{TeamID: l.forest.ID(survivor), Record: agg})
}

// JockeyRecord returns the personal record of jockey jid.
func (l *League) JockeyRecord(jid int) Output {
	if jid <= 0 {
		return fail(InvalidInput)
	}
	h, found := l.registry.Jockeys.Lookup(jid)
	if !found {
		return fail(Failure)
	}
	return ok(l.forest.Personal(h))
}

// TeamRecord returns the group record of live team tid.
func (l *League) TeamRecord(tid int) Output {
	if tid <= 0 {
		return fail(InvalidInput)
	}
	root, live := l.liveTeam(tid)
	if !live {
		return fail(Failure)
	}
	return ok(l.forest.Aggregate(root))
}

// TeamOf returns the id of the live team whose group contains jockey jid.
func (l *League) TeamOf(jid int) Output {
	if jid <= 0 {
		return fail(InvalidInput)
	}
	h, found := l.registry.Jockeys.Lookup(jid)
	if !found {
		return fail(Failure)
	}
	return ok(l.forest.ID(l.forest.Find(h)))
}

// TeamSize returns the number of jockeys in live team tid's group.
func (l *League) TeamSize(tid int) Output {
	if tid <= 0 {
		return fail(InvalidInput)
	}
	root, live := l.liveTeam(tid)
	if !live {
		return fail(Failure)
	}
	return ok(l.forest.Size(root))
}

// Stats summarizes the league population.
type Stats struct {
	LiveTeams    int
	RetiredTeams int
	Jockeys      int
	RecordValues int
	Nodes        int
}

// Stats returns population counters.
func (l *League) Stats() Stats {
	retired := l.forest.RetiredCount()
	return Stats{
		LiveTeams:    l.registry.Teams.Len() - retired,
		RetiredTeams: retired,
		Jockeys:      l.registry.Jockeys.Len(),
		RecordValues: l.index.Values(),
		Nodes:        l.forest.Len(),
	}
}

// liveTeam resolves tid to its node when that node is still a live root.
// A retired id resolves to a node that is no longer a root and is rejected.
func (l *League) liveTeam(tid int) (forest.Handle, bool) {
	h, found := l.registry.Teams.Lookup(tid)
	if !found || !l.forest.IsLiveRoot(h) {
		return forest.Nil, false
	}
	return h, true
}

func (l *League) notify(c Change) {
	if l.observer != nil {
		l.observer(c)
	}
}
