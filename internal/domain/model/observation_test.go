package model_test

import (
	"encoding/json"
	"math"
	"testing"

	model "github.com/okian/prochallenge/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func TestSeries(t *testing.T) {
	convey.Convey("Given a sparse series with a non-numeric entry", t, func() {
		s := model.Series{"02 Feb": 80, "09 Feb": math.NaN()}

		convey.Convey("Then only numeric entries are defined", func() {
			v, ok := s.Defined("02 Feb")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, 80)

			_, ok = s.Defined("09 Feb")
			convey.So(ok, convey.ShouldBeFalse)

			_, ok = s.Defined("16 Feb")
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then JSON encoding drops NaN instead of failing", func() {
			raw, err := json.Marshal(s)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw), convey.ShouldEqual, `{"02 Feb":80}`)
		})
	})
}

func TestMedals(t *testing.T) {
	convey.Convey("Given podium positions", t, func() {
		convey.So(model.MedalFor(1), convey.ShouldEqual, model.MedalGold)
		convey.So(model.MedalFor(2), convey.ShouldEqual, model.MedalSilver)
		convey.So(model.MedalFor(3), convey.ShouldEqual, model.MedalBronze)
		convey.So(model.MedalFor(4), convey.ShouldEqual, model.MedalNone)
		convey.So(model.MedalFor(0), convey.ShouldEqual, model.MedalNone)
		convey.So(model.MedalGold.Emoji(), convey.ShouldEqual, "🥇")
		convey.So(model.MedalNone.Emoji(), convey.ShouldEqual, "")
	})
}

func TestCellDisplay(t *testing.T) {
	convey.Convey("Given matrix cells", t, func() {
		convey.Convey("When the value is missing", func() {
			convey.So(model.DeltaCell{Label: "02 Feb"}.Display(), convey.ShouldEqual, model.MissingValue)
			convey.So(model.WeightCell{Label: "02 Feb"}.Display(), convey.ShouldEqual, model.MissingValue)
		})

		convey.Convey("When the value has no predecessor", func() {
			cell := model.DeltaCell{Label: "02 Feb", Value: ptr(80)}
			convey.So(cell.HasDelta(), convey.ShouldBeFalse)
			convey.So(cell.Display(), convey.ShouldEqual, "80")
		})

		convey.Convey("When the value went down", func() {
			cell := model.DeltaCell{Label: "09 Feb", Value: ptr(78), DeltaPct: 2.5, Trend: model.TrendImproved}
			convey.So(cell.Display(), convey.ShouldEqual, "78 ▼2.5%")
		})

		convey.Convey("When the value went up", func() {
			cell := model.DeltaCell{Label: "09 Feb", Value: ptr(80.4), DeltaPct: -0.5, Trend: model.TrendDeclined}
			convey.So(cell.Display(), convey.ShouldEqual, "80.4 ▲0.5%")
		})

		convey.Convey("When the value did not change", func() {
			cell := model.DeltaCell{Label: "09 Feb", Value: ptr(80), Trend: model.TrendUnchanged}
			convey.So(cell.Display(), convey.ShouldEqual, "80 0.0%")
		})
	})
}

func TestTotalDisplay(t *testing.T) {
	convey.Convey("Given weight rows", t, func() {
		convey.So(model.WeightRow{TotalChangePct: 2.5}.TotalDisplay(), convey.ShouldEqual, "+2.5%")
		convey.So(model.WeightRow{TotalChangePct: -1.25}.TotalDisplay(), convey.ShouldEqual, "-1.25%")
		convey.So(model.WeightRow{TotalChangePct: math.Copysign(0, -1)}.TotalDisplay(), convey.ShouldEqual, "0%")
	})
}

func TestBoardEmpty(t *testing.T) {
	convey.Convey("Given boards", t, func() {
		convey.So(model.Board{}.Empty(), convey.ShouldBeTrue)
		convey.So(model.Board{Entries: []model.RankedEntry{{Participant: "A"}}}.Empty(), convey.ShouldBeFalse)
	})
}
