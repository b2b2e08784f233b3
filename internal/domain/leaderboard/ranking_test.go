package leaderboard_test

import (
	"math"
	"testing"

	"github.com/okian/prochallenge/internal/domain/leaderboard"
	model "github.com/okian/prochallenge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTotalChangePct(t *testing.T) {
	Convey("Given a participant with exactly two values", t, func() {
		v1, v2 := 83.4, 80.1
		series := model.Series{"02 Feb": v1, "09 Feb": v2}
		timeline := []string{"02 Feb", "09 Feb"}

		Convey("Then the total is the rounded relative change", func() {
			pct, count := leaderboard.TotalChangePct(series, timeline)
			So(count, ShouldEqual, 2)
			So(pct, ShouldAlmostEqual, math.Round((v1-v2)/v1*100*100)/100, 1e-9)
			So(pct, ShouldAlmostEqual, 3.96, 1e-9)
		})
	})

	Convey("Given participants with zero or one value", t, func() {
		timeline := []string{"02 Feb", "09 Feb"}

		Convey("Then the total is zero", func() {
			pct, count := leaderboard.TotalChangePct(model.Series{}, timeline)
			So(pct, ShouldEqual, 0)
			So(count, ShouldEqual, 0)

			pct, count = leaderboard.TotalChangePct(model.Series{"09 Feb": 80}, timeline)
			So(pct, ShouldEqual, 0)
			So(count, ShouldEqual, 1)
		})
	})

	Convey("Given gaps and NaN values", t, func() {
		timeline := []string{"02 Feb", "09 Feb", "16 Feb", "23 Feb"}
		series := model.Series{"02 Feb": math.NaN(), "09 Feb": 100, "23 Feb": 90}

		Convey("Then only defined values count", func() {
			pct, count := leaderboard.TotalChangePct(series, timeline)
			So(count, ShouldEqual, 2)
			So(pct, ShouldEqual, 10)
		})
	})

	Convey("Given a gain", t, func() {
		series := model.Series{"02 Feb": 80, "09 Feb": 82}

		Convey("Then the total is negative", func() {
			pct, _ := leaderboard.TotalChangePct(series, []string{"02 Feb", "09 Feb"})
			So(pct, ShouldEqual, -2.5)
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given three participants with 10%, 20% and 5% losses", t, func() {
		rows := []model.RawRow{
			{"A", "2026-02-02", 100.0},
			{"B", "2026-02-02", 100.0},
			{"C", "2026-02-02", 100.0},
			{"A", "2026-02-09", 90.0},
			{"B", "2026-02-09", 80.0},
			{"C", "2026-02-09", 95.0},
		}
		n := leaderboard.Normalize(rows, utc())
		tl := leaderboard.BuildTimeline(n.Labels)

		Convey("When ranking", func() {
			entries := leaderboard.Rank(n, tl)

			Convey("Then the order is B, A, C with medals", func() {
				So(entries, ShouldHaveLength, 3)
				So(entries[0].Participant, ShouldEqual, "B")
				So(entries[1].Participant, ShouldEqual, "A")
				So(entries[2].Participant, ShouldEqual, "C")
				So(entries[0].Position, ShouldEqual, 1)
				So(entries[0].Medal, ShouldEqual, model.MedalGold)
				So(entries[1].Medal, ShouldEqual, model.MedalSilver)
				So(entries[2].Medal, ShouldEqual, model.MedalBronze)
				So(entries[0].TotalChangePct, ShouldEqual, 20)
			})
		})
	})

	Convey("Given ties", t, func() {
		rows := []model.RawRow{
			{"Zed", "2026-02-02", 80.0},
			{"Amy", "2026-02-02", 70.0},
			{"Bob", "2026-02-02", 90.0},
			{"Dan", "2026-02-02", 100.0},
			{"Dan", "2026-02-09", 90.0},
		}
		n := leaderboard.Normalize(rows, utc())

		Convey("Then tied participants keep first-appearance order", func() {
			entries := leaderboard.Rank(n, leaderboard.BuildTimeline(n.Labels))
			names := []string{}
			for _, e := range entries {
				names = append(names, e.Participant)
			}
			So(names, ShouldResemble, []string{"Dan", "Zed", "Amy", "Bob"})
			So(entries[3].Medal, ShouldEqual, model.MedalNone)
		})
	})
}

func TestLookup(t *testing.T) {
	Convey("Given ranked entries", t, func() {
		entries := []model.RankedEntry{
			{Position: 1, Participant: "Asha"},
			{Position: 2, Participant: "Ravi"},
		}

		Convey("When looking up an exact name", func() {
			e, ok := leaderboard.Lookup(entries, "Ravi")
			So(ok, ShouldBeTrue)
			So(e.Position, ShouldEqual, 2)
		})

		Convey("When the case differs", func() {
			_, ok := leaderboard.Lookup(entries, "ravi")

			Convey("Then it misses by default", func() {
				So(ok, ShouldBeFalse)
			})

			Convey("Then it matches when case folding is enabled", func() {
				e, ok := leaderboard.Lookup(entries, "ravi", leaderboard.WithCaseInsensitiveLookup(true))
				So(ok, ShouldBeTrue)
				So(e.Participant, ShouldEqual, "Ravi")
			})
		})

		Convey("When taking the top entries", func() {
			So(leaderboard.Top(entries, 1), ShouldHaveLength, 1)
			So(leaderboard.Top(entries, 10), ShouldHaveLength, 2)
			So(leaderboard.Top(entries, -1), ShouldBeEmpty)
		})
	})
}
