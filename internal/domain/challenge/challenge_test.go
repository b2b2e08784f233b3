package challenge_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/prochallenge/internal/domain/challenge"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalendarDefaults(t *testing.T) {
	Convey("Given the default calendar in UTC", t, func() {
		c := challenge.NewCalendar(challenge.WithLocation(time.UTC))

		Convey("Then the window is the 2026 challenge", func() {
			So(c.Start(), ShouldEqual, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
			So(c.End(), ShouldEqual, time.Date(2026, 4, 25, 23, 59, 59, 0, time.UTC))
			So(c.WeighInDay(), ShouldEqual, time.Monday)
			So(c.Prizes().Pool, ShouldEqual, 6000)
		})

		Convey("When asking for a goal", func() {
			g, err := c.NewGoal(85, 75)

			Convey("Then it is pinned to the window", func() {
				So(err, ShouldBeNil)
				So(g.StartDate, ShouldEqual, "2026-02-02")
				So(g.EndDate, ShouldEqual, "2026-04-25")
			})

			_, err = c.NewGoal(0, 75)
			So(errors.Is(err, challenge.ErrInvalidGoal), ShouldBeTrue)
			_, err = c.NewGoal(85, math.NaN())
			So(errors.Is(err, challenge.ErrInvalidGoal), ShouldBeTrue)
		})
	})
}

func TestDaysLeft(t *testing.T) {
	Convey("Given the default calendar in UTC", t, func() {
		c := challenge.NewCalendar(challenge.WithLocation(time.UTC))

		Convey("When a partial day remains", func() {
			now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

			Convey("Then days are rounded up and flagged urgent", func() {
				So(c.DaysLeft(now), ShouldEqual, 6)
				So(c.DaysLeftText(now), ShouldEqual, "6")
				So(c.Urgent(now), ShouldBeTrue)
				So(c.Complete(now), ShouldBeFalse)
				So(c.Countdown(now), ShouldEqual, "5d 11h 59m 59s")
			})
		})

		Convey("When far from the end", func() {
			now := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
			So(c.Urgent(now), ShouldBeFalse)
			So(c.DaysLeft(now), ShouldEqual, 83)
		})

		Convey("When the end has passed", func() {
			now := time.Date(2026, 4, 26, 0, 0, 0, 0, time.UTC)

			Convey("Then the challenge is done", func() {
				So(c.DaysLeftText(now), ShouldEqual, "Done")
				So(c.Urgent(now), ShouldBeFalse)
				So(c.Complete(now), ShouldBeTrue)
				So(c.Countdown(now), ShouldEqual, "🎉 Challenge Complete!")
			})
		})
	})
}

func TestWeighIn(t *testing.T) {
	Convey("Given the default calendar in UTC", t, func() {
		c := challenge.NewCalendar(challenge.WithLocation(time.UTC))
		monday := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
		tuesday := monday.Add(24 * time.Hour)

		Convey("Then Mondays are weigh-in days", func() {
			So(c.IsWeighInDay(monday), ShouldBeTrue)
			So(c.IsWeighInDay(tuesday), ShouldBeFalse)
			So(c.WeighInMessage(monday), ShouldEqual, "✅ It's Monday! Please log your weight.")
			So(c.WeighInMessage(tuesday), ShouldEqual, "⚠️ Weigh-ins are Mondays only. Today is Tuesday.")
		})

		Convey("Then weights outside 30 to 300 kg are rejected", func() {
			So(c.ValidateWeight(30), ShouldBeNil)
			So(c.ValidateWeight(300), ShouldBeNil)
			So(errors.Is(c.ValidateWeight(29.9), challenge.ErrInvalidWeight), ShouldBeTrue)
			So(errors.Is(c.ValidateWeight(300.1), challenge.ErrInvalidWeight), ShouldBeTrue)
			So(errors.Is(c.ValidateWeight(math.NaN()), challenge.ErrInvalidWeight), ShouldBeTrue)
		})

		Convey("Then weigh-ins are checked for weight before weekday", func() {
			So(c.CheckWeighIn(monday, 80), ShouldBeNil)
			So(errors.Is(c.CheckWeighIn(tuesday, 80), challenge.ErrNotWeighInDay), ShouldBeTrue)
			So(errors.Is(c.CheckWeighIn(tuesday, 10), challenge.ErrInvalidWeight), ShouldBeTrue)
		})

		Convey("When the weekday is not enforced", func() {
			relaxed := challenge.NewCalendar(challenge.WithLocation(time.UTC), challenge.WithEnforcedWeighInDay(false))
			So(relaxed.CheckWeighIn(tuesday, 80), ShouldBeNil)
		})
	})
}

func TestFormatRupees(t *testing.T) {
	Convey("Given amounts", t, func() {
		So(challenge.FormatRupees(6000), ShouldEqual, "₹6,000")
		So(challenge.FormatRupees(1000000), ShouldEqual, "₹1,000,000")
		So(challenge.FormatRupees(500), ShouldEqual, "₹500")
		So(challenge.FormatRupees(-1500), ShouldEqual, "-₹1,500")
	})
}
