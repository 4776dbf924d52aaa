package registry_test

import (
	"testing"

	"github.com/okian/plains/internal/domain/forest"
	"github.com/okian/plains/internal/domain/registry"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Given a new registry", t, func() {
		r := registry.New(registry.WithCapacity(16, 16))

		Convey("When an id is registered", func() {
			ok := r.Teams.Register(1, forest.Handle(4))

			Convey("Then it resolves to its handle", func() {
				So(ok, ShouldBeTrue)
				h, found := r.Teams.Lookup(1)
				So(found, ShouldBeTrue)
				So(h, ShouldEqual, forest.Handle(4))
				So(r.Teams.Len(), ShouldEqual, 1)
			})

			Convey("And registering it again is rejected without changes", func() {
				So(r.Teams.Register(1, forest.Handle(9)), ShouldBeFalse)
				h, _ := r.Teams.Lookup(1)
				So(h, ShouldEqual, forest.Handle(4))
			})

			Convey("And the jockey namespace is independent", func() {
				So(r.Jockeys.Contains(1), ShouldBeFalse)
				So(r.Jockeys.Register(1, forest.Handle(5)), ShouldBeTrue)
				So(r.Jockeys.Len(), ShouldEqual, 1)
			})
		})

		Convey("When looking up an unknown id", func() {
			_, found := r.Jockeys.Lookup(42)

			Convey("Then it is absent", func() {
				So(found, ShouldBeFalse)
			})
		})
	})
}
