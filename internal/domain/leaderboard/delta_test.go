package leaderboard_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/okian/prochallenge/internal/domain/leaderboard"
	model "github.com/okian/prochallenge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDelta(t *testing.T) {
	Convey("Given consecutive values 80 then 78", t, func() {
		pct, trend := leaderboard.Delta(80, 78)

		Convey("Then the delta is a 2.5% improvement", func() {
			So(pct, ShouldEqual, 2.5)
			So(trend, ShouldEqual, model.TrendImproved)
		})
	})

	Convey("Given a gain", t, func() {
		pct, trend := leaderboard.Delta(80, 82)
		So(pct, ShouldEqual, -2.5)
		So(trend, ShouldEqual, model.TrendDeclined)
	})

	Convey("Given no change", t, func() {
		pct, trend := leaderboard.Delta(80, 80)
		So(pct, ShouldEqual, 0)
		So(trend, ShouldEqual, model.TrendUnchanged)
	})
}

func TestBuildDeltaMatrix(t *testing.T) {
	Convey("Given a ranked participant with a gap and a NaN", t, func() {
		timeline := []string{"02 Feb", "09 Feb", "16 Feb", "23 Feb", "02 Mar"}
		entries := []model.RankedEntry{{
			Position:    1,
			Participant: "A",
			Medal:       model.MedalGold,
			Series:      model.Series{"02 Feb": 80, "09 Feb": 78, "23 Feb": math.NaN(), "02 Mar": 77},
		}}

		Convey("When building the matrix", func() {
			rows := leaderboard.BuildDeltaMatrix(entries, timeline)

			Convey("Then only consecutive defined points carry a delta", func() {
				So(rows, ShouldHaveLength, 1)
				cells := rows[0].Cells
				So(cells, ShouldHaveLength, 5)

				So(cells[0].HasDelta(), ShouldBeFalse)
				So(cells[0].Display(), ShouldEqual, "80")

				So(cells[1].HasDelta(), ShouldBeTrue)
				So(cells[1].DeltaPct, ShouldEqual, 2.5)
				So(cells[1].Display(), ShouldEqual, "78 ▼2.5%")

				So(cells[2].Value, ShouldBeNil)
				So(cells[2].Display(), ShouldEqual, model.MissingValue)

				So(cells[3].Value, ShouldBeNil)
				So(cells[4].HasDelta(), ShouldBeFalse)
				So(cells[4].Display(), ShouldEqual, "77")
				So(rows[0].Medal, ShouldEqual, model.MedalGold)
			})
		})
	})
}

func TestBuildWeightMatrix(t *testing.T) {
	Convey("Given ranked entries", t, func() {
		timeline := []string{"02 Feb", "09 Feb"}
		entries := []model.RankedEntry{
			{Position: 1, Participant: "A", Series: model.Series{"02 Feb": 80, "09 Feb": 78}, TotalChangePct: 2.5},
			{Position: 2, Participant: "B", Series: model.Series{"09 Feb": 90}},
		}

		Convey("When building the matrix", func() {
			rows := leaderboard.BuildWeightMatrix(entries, timeline)

			Convey("Then rows follow rank order with a signed total", func() {
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Cells[1].Display(), ShouldEqual, "78")
				So(rows[0].TotalDisplay(), ShouldEqual, "+2.5%")
				So(rows[1].Cells[0].Display(), ShouldEqual, model.MissingValue)
				So(rows[1].TotalDisplay(), ShouldEqual, "0%")
			})
		})
	})
}

func TestBuild(t *testing.T) {
	Convey("Given an empty snapshot", t, func() {
		b := leaderboard.Build(nil, utc())

		Convey("Then the board is empty", func() {
			So(b.Empty(), ShouldBeTrue)
			So(b.Timeline, ShouldBeEmpty)
		})
	})

	Convey("Given a snapshot", t, func() {
		rows := []model.RawRow{
			{"A", "2026-02-09", 78.0},
			{"A", "2026-02-02", 80.0},
			{"B", "2026-02-02", 90.0},
			{"B", "bad", 1.0},
		}

		Convey("When building the board", func() {
			b := leaderboard.Build(rows, utc())

			Convey("Then every view is consistent", func() {
				So(b.Timeline, ShouldResemble, []string{"02 Feb", "09 Feb"})
				So(b.Entries[0].Participant, ShouldEqual, "A")
				So(b.Entries[0].TotalChangePct, ShouldEqual, 2.5)
				So(b.Weights, ShouldHaveLength, 2)
				So(b.Deltas[0].Cells[1].Trend, ShouldEqual, model.TrendImproved)
				So(b.Dropped, ShouldEqual, 1)
			})
		})
	})
	Convey("Given a snapshot with an infinite cell", t, func() {
		rows := []model.RawRow{
			{"A", "2026-02-02", 100.0},
			{"A", "2026-02-09", "Infinity"},
			{"B", "2026-02-02", 90.0},
			{"B", "2026-02-09", 88.2},
		}

		Convey("When building the board", func() {
			b := leaderboard.Build(rows, utc())

			Convey("Then the cell is treated as missing", func() {
				So(b.Entries[0].Participant, ShouldEqual, "B")
				So(b.Entries[1].Participant, ShouldEqual, "A")
				So(b.Entries[1].TotalChangePct, ShouldEqual, 0)
				So(b.Weights[1].Cells[1].Value, ShouldBeNil)
				So(b.Deltas[1].Cells[1].Value, ShouldBeNil)
			})

			Convey("Then the board still encodes as JSON", func() {
				raw, err := json.Marshal(b)
				So(err, ShouldBeNil)
				So(string(raw), ShouldNotContainSubstring, "Inf")
			})
		})
	})
}
