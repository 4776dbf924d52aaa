package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	dedupe "github.com/okian/plains/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording reports", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the report is new", func() {
				seen := d.SeenAndRecord(ctx, "report-1")

				Convey("Then it should return false and record the id", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the report was already seen", func() {
				d.SeenAndRecord(ctx, "report-1")
				seen := d.SeenAndRecord(ctx, "report-1")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When unrecording reports", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "report-1")

			Convey("And the id exists", func() {
				d.Unrecord(ctx, "report-1")

				Convey("Then it can be recorded again", func() {
					So(d.Size(), ShouldEqual, 0)
					So(d.SeenAndRecord(ctx, "report-1"), ShouldBeFalse)
				})
			})

			Convey("And the id doesn't exist", func() {
				d.Unrecord(ctx, "report-2")

				Convey("Then it should not affect the size", func() {
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When the TTL elapses", func() {
			d := dedupe.NewInMemoryDeduper(
				dedupe.WithTTL(20*time.Millisecond),
				dedupe.WithCleanupInterval(time.Hour),
			)
			So(d.SeenAndRecord(ctx, "report-1"), ShouldBeFalse)
			time.Sleep(40 * time.Millisecond)

			Convey("Then the id is forgotten", func() {
				So(d.SeenAndRecord(ctx, "report-1"), ShouldBeFalse)
			})
		})

		Convey("When the TTL is not positive", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithTTL(0))
			d.SeenAndRecord(ctx, "report-1")

			Convey("Then ids are kept", func() {
				So(d.SeenAndRecord(ctx, "report-1"), ShouldBeTrue)
			})
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper()
		const numGoroutines = 10
		const reportsPerGoroutine = 100

		Convey("When multiple goroutines race on the same ids", func() {
			var wg sync.WaitGroup
			var fresh atomic.Int64

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < reportsPerGoroutine; j++ {
						if !d.SeenAndRecord(context.Background(), fmt.Sprintf("report-%d", j)) {
							fresh.Add(1)
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each id is newly recorded exactly once", func() {
				So(fresh.Load(), ShouldEqual, reportsPerGoroutine)
				So(d.Size(), ShouldEqual, int64(reportsPerGoroutine))
			})
		})
	})
}
