package forest_test

import (
	"errors"
	"testing"

	"github.com/okian/plains/internal/domain/forest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestForest_NewTeam(t *testing.T) {
	Convey("Given an empty forest", t, func() {
		f := forest.New()

		Convey("When a team is allocated", func() {
			h, err := f.NewTeam(7)
			So(err, ShouldBeNil)

			Convey("Then it is a live singleton root", func() {
				So(f.IsLiveRoot(h), ShouldBeTrue)
				So(f.Find(h), ShouldEqual, h)
				So(f.Size(h), ShouldEqual, 0)
				So(f.Aggregate(h), ShouldEqual, 0)
				So(f.ID(h), ShouldEqual, 7)
				So(f.Kind(h), ShouldEqual, forest.Team)
				So(f.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestForest_AttachJockey(t *testing.T) {
	Convey("Given a team root", t, func() {
		f := forest.New()
		team, _ := f.NewTeam(1)
		f.AddAggregate(team, 3)

		Convey("When two jockeys are attached", func() {
			j1, _ := f.NewJockey(10)
			f.AttachJockey(j1, team)
			j2, _ := f.NewJockey(11)
			f.AttachJockey(j2, team)

			Convey("Then the size grows and the aggregate is untouched", func() {
				So(f.Size(team), ShouldEqual, 2)
				So(f.Aggregate(team), ShouldEqual, 3)
				So(f.Find(j1), ShouldEqual, team)
				So(f.Find(j2), ShouldEqual, team)
				So(f.Personal(j1), ShouldEqual, 0)
			})

			Convey("And a jockey is never a live root", func() {
				So(f.IsLiveRoot(j1), ShouldBeFalse)
			})
		})

		Convey("When attaching under a non-root", func() {
			other, _ := f.NewTeam(2)
			f.Union(team, other)
			j, _ := f.NewJockey(20)

			Convey("Then it panics", func() {
				So(func() { f.AttachJockey(j, other) }, ShouldPanic)
			})
		})
	})
}

func TestForest_Union(t *testing.T) {
	Convey("Given two team roots", t, func() {
		f := forest.New()
		a, _ := f.NewTeam(1)
		b, _ := f.NewTeam(2)
		f.AddAggregate(a, 2)
		f.AddAggregate(b, -5)

		Convey("When sizes tie", func() {
			s, l := f.Union(a, b)

			Convey("Then the first operand survives with summed bookkeeping", func() {
				So(s, ShouldEqual, a)
				So(l, ShouldEqual, b)
				So(f.Aggregate(a), ShouldEqual, -3)
				So(f.IsLiveRoot(b), ShouldBeFalse)
				So(f.Retired(b), ShouldBeTrue)
				So(f.Find(b), ShouldEqual, a)
				So(f.RetiredCount(), ShouldEqual, 1)
			})
		})

		Convey("When the second operand is larger", func() {
			j, _ := f.NewJockey(20)
			f.AttachJockey(j, b)
			s, l := f.Union(a, b)

			Convey("Then the larger root survives", func() {
				So(s, ShouldEqual, b)
				So(l, ShouldEqual, a)
				So(f.Size(b), ShouldEqual, 1)
				So(f.Aggregate(b), ShouldEqual, -3)
			})
		})

		Convey("When absorbing against size", func() {
			j, _ := f.NewJockey(20)
			f.AttachJockey(j, b)
			f.Absorb(a, b)

			Convey("Then the forced survivor keeps the group", func() {
				So(f.IsLiveRoot(a), ShouldBeTrue)
				So(f.Size(a), ShouldEqual, 1)
				So(f.Find(j), ShouldEqual, a)
			})
		})

		Convey("When a retired root is used again", func() {
			f.Union(a, b)
			c, _ := f.NewTeam(3)

			Convey("Then it panics", func() {
				So(func() { f.Union(b, c) }, ShouldPanic)
				So(func() { f.Union(a, a) }, ShouldPanic)
				So(func() { f.AddAggregate(b, 1) }, ShouldPanic)
			})
		})
	})
}

func TestForest_PathCompression(t *testing.T) {
	Convey("Given a chain of merged teams", t, func() {
		f := forest.New()
		teams := make([]forest.Handle, 5)
		jockeys := make([]forest.Handle, 5)
		for i := range teams {
			teams[i], _ = f.NewTeam(i + 1)
			jockeys[i], _ = f.NewJockey(100 + i)
			f.AttachJockey(jockeys[i], teams[i])
		}
		// Each step absorbs the current top into a fresh team, building a
		// chain jockeys[0] -> teams[0] -> teams[1] -> ... -> teams[4].
		for i := 1; i < len(teams); i++ {
			f.Absorb(teams[i], teams[i-1])
		}
		root := teams[len(teams)-1]

		Convey("Then find returns the top root and is idempotent", func() {
			So(f.Find(jockeys[0]), ShouldEqual, root)
			So(f.Find(jockeys[0]), ShouldEqual, root)
			So(f.IsLiveRoot(root), ShouldBeTrue)
			So(f.Size(root), ShouldEqual, 5)
		})
	})
}

func TestForest_Capacity(t *testing.T) {
	Convey("Given a forest capped at two nodes", t, func() {
		f := forest.New(forest.WithMaxNodes(2))
		_, err1 := f.NewTeam(1)
		_, err2 := f.NewJockey(2)

		Convey("Then the third allocation fails", func() {
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			h, err := f.NewTeam(3)
			So(errors.Is(err, forest.ErrArenaFull), ShouldBeTrue)
			So(h, ShouldEqual, forest.Nil)
			So(f.Len(), ShouldEqual, 2)
		})
	})

	Convey("Given a freshly allocated node", t, func() {
		f := forest.New(forest.WithMaxNodes(1))
		h, _ := f.NewTeam(1)

		Convey("When it is released", func() {
			f.Release(h)

			Convey("Then the slot can be reused", func() {
				So(f.Len(), ShouldEqual, 0)
				_, err := f.NewTeam(2)
				So(err, ShouldBeNil)
			})
		})

		Convey("When an older node is released", func() {
			f.Release(h)
			a, _ := f.NewTeam(2)
			_ = a

			Convey("Then releasing a stale handle panics", func() {
				So(func() { f.Release(forest.Handle(5)) }, ShouldPanic)
			})
		})
	})
}
