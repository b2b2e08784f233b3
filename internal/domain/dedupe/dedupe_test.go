package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	dedupe "github.com/okian/prochallenge/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGuard(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new guard", t, func() {
		g := dedupe.NewGuard()

		Convey("Then it starts empty", func() {
			So(g, ShouldNotBeNil)
			So(g.Size(), ShouldEqual, 0)
		})

		Convey("When a key is recorded for the first time", func() {
			seen := g.SeenAndRecord(ctx, dedupe.Key("asha", "09 Feb", "k1"))

			Convey("Then it is reported as new", func() {
				So(seen, ShouldBeFalse)
				So(g.Size(), ShouldEqual, 1)
			})

			Convey("And it is recorded again", func() {
				seen := g.SeenAndRecord(ctx, dedupe.Key("asha", "09 Feb", "k1"))

				Convey("Then it is reported as seen", func() {
					So(seen, ShouldBeTrue)
					So(g.Size(), ShouldEqual, 1)
				})
			})

			Convey("And it is forgotten", func() {
				g.Forget(ctx, dedupe.Key("asha", "09 Feb", "k1"))

				Convey("Then it can be recorded again", func() {
					So(g.Size(), ShouldEqual, 0)
					So(g.SeenAndRecord(ctx, dedupe.Key("asha", "09 Feb", "k1")), ShouldBeFalse)
				})
			})
		})

		Convey("When forgetting an unknown key", func() {
			g.Forget(ctx, "missing")
			So(g.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a bounded guard", t, func() {
		g := dedupe.NewGuard(dedupe.WithMaxSize(2))

		Convey("When more keys than the bound are recorded", func() {
			g.SeenAndRecord(ctx, "a")
			g.SeenAndRecord(ctx, "b")
			g.SeenAndRecord(ctx, "c")

			Convey("Then the oldest key is forgotten", func() {
				So(g.Size(), ShouldEqual, 2)
				So(g.SeenAndRecord(ctx, "c"), ShouldBeTrue)
				So(g.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})
	})

	Convey("Given an unbounded guard", t, func() {
		g := dedupe.NewGuard(dedupe.WithMaxSize(0))

		Convey("Then every key is kept", func() {
			for i := 0; i < 500; i++ {
				g.SeenAndRecord(ctx, fmt.Sprintf("k-%d", i))
			}
			So(g.Size(), ShouldEqual, 500)
		})
	})

	Convey("Given a guard with a TTL", t, func() {
		now := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
		g := dedupe.NewGuard(dedupe.WithTTL(time.Hour), dedupe.WithClock(func() time.Time { return now }))

		g.SeenAndRecord(ctx, "weigh-in")

		Convey("When the TTL has not passed", func() {
			now = now.Add(30 * time.Minute)
			So(g.SeenAndRecord(ctx, "weigh-in"), ShouldBeTrue)
		})

		Convey("When the TTL has passed", func() {
			now = now.Add(2 * time.Hour)
			So(g.SeenAndRecord(ctx, "weigh-in"), ShouldBeFalse)
			So(g.Size(), ShouldEqual, 1)
		})
	})
}

func TestGuardConcurrency(t *testing.T) {
	Convey("Given many goroutines submitting the same key", t, func() {
		g := dedupe.NewGuard()
		var wg sync.WaitGroup
		var mu sync.Mutex
		fresh := 0

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if !g.SeenAndRecord(context.Background(), "same") {
					mu.Lock()
					fresh++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one submission is new", func() {
			So(fresh, ShouldEqual, 1)
			So(g.Size(), ShouldEqual, 1)
		})
	})
}
