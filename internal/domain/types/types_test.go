package types_test

import (
	"testing"
	"time"

	model "github.com/okian/prochallenge/internal/domain/model"
	types "github.com/okian/prochallenge/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStanding(t *testing.T) {
	Convey("Given a ranked entry", t, func() {
		entry := model.RankedEntry{Position: 2, Participant: "Asha", TotalChangePct: 2.5, Medal: model.MedalSilver}

		Convey("When converting it to a standing", func() {
			s := types.NewStanding(entry)

			Convey("Then the display fields are filled", func() {
				So(s.Found, ShouldBeTrue)
				So(s.RankDisplay, ShouldEqual, "#2")
				So(s.PctDisplay, ShouldEqual, "2.5%")
				So(s.Medal, ShouldEqual, "🥈")
			})
		})

		Convey("When the participant is absent", func() {
			s := types.MissingStanding("Ghost")

			Convey("Then placeholders are used", func() {
				So(s.Found, ShouldBeFalse)
				So(s.Participant, ShouldEqual, "Ghost")
				So(s.RankDisplay, ShouldEqual, "--")
				So(s.PctDisplay, ShouldEqual, "--")
			})
		})
	})
}

func TestNewBoard(t *testing.T) {
	Convey("Given an empty computed board", t, func() {
		now := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
		b := types.NewBoard(model.Board{}, 3, now)

		Convey("Then collections are empty rather than nil", func() {
			So(b.Version, ShouldEqual, 3)
			So(b.GeneratedAt, ShouldEqual, now)
			So(b.Timeline, ShouldNotBeNil)
			So(b.Standings, ShouldBeEmpty)
			So(b.Weights, ShouldNotBeNil)
			So(b.Deltas, ShouldNotBeNil)
		})
	})

	Convey("Given a computed board with entries", t, func() {
		mb := model.Board{
			Timeline: []string{"02 Feb", "09 Feb"},
			Entries: []model.RankedEntry{
				{Position: 1, Participant: "B", TotalChangePct: 20, Medal: model.MedalGold},
				{Position: 2, Participant: "A", TotalChangePct: 10, Medal: model.MedalSilver},
			},
			Dropped: 1,
		}
		b := types.NewBoard(mb, 1, time.Time{})

		Convey("Then standings keep the rank order", func() {
			So(len(b.Standings), ShouldEqual, 2)
			So(b.Standings[0].Participant, ShouldEqual, "B")
			So(b.Standings[1].RankDisplay, ShouldEqual, "#2")
			So(b.Dropped, ShouldEqual, 1)
			So(b.Timeline, ShouldResemble, []string{"02 Feb", "09 Feb"})
		})
	})
}
