// Package challenge models the fitness challenge calendar: its window,
// the weekly weigh-in day, the countdown and the accepted weigh-in range.
package challenge

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Defaults of the 2026 fitness challenge.
const (
	defaultMinKg        = 30
	defaultMaxKg        = 300
	urgentDays          = 7
	day                 = 24 * time.Hour
	goalDateLayout      = time.DateOnly
	doneText            = "Done"
	completeText        = "🎉 Challenge Complete!"
	defaultPrizePool    = 6000
	defaultEntryFee     = 1000
	defaultFirstPrize   = 3500
	defaultSecondPrize  = 1500
	defaultThirdPrize   = 1000
	defaultCurrencySign = "₹"
)

// Fitness is the identifier of the fitness challenge on the remote side.
const Fitness = "fitness"

// Prizes is the money table of the challenge, in whole rupees.
type Prizes struct {
	Pool     int
	EntryFee int
	Places   [3]int
}

// Calendar answers time-dependent questions about one challenge.
type Calendar struct {
	start      time.Time
	end        time.Time
	weighInDay time.Weekday
	minKg      float64
	maxKg      float64
	enforce    bool
	loc        *time.Location
	prizes     Prizes
}

// NewCalendar creates the calendar of the 2026 fitness challenge unless
// overridden by options.
func NewCalendar(opts ...Option) *Calendar {
	c := &Calendar{
		weighInDay: time.Monday,
		minKg:      defaultMinKg,
		maxKg:      defaultMaxKg,
		enforce:    true,
		loc:        time.Local,
		prizes: Prizes{
			Pool:     defaultPrizePool,
			EntryFee: defaultEntryFee,
			Places:   [3]int{defaultFirstPrize, defaultSecondPrize, defaultThirdPrize},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.start.IsZero() {
		c.start = time.Date(2026, time.February, 2, 0, 0, 0, 0, c.loc)
		c.end = time.Date(2026, time.April, 25, 23, 59, 59, 0, c.loc)
	}
	return c
}

// Start returns the first day of the challenge.
func (c *Calendar) Start() time.Time { return c.start }

// End returns the last instant of the challenge.
func (c *Calendar) End() time.Time { return c.end }

// WeighInDay returns the weekday weigh-ins are accepted on.
func (c *Calendar) WeighInDay() time.Weekday { return c.weighInDay }

// Prizes returns the prize table.
func (c *Calendar) Prizes() Prizes { return c.prizes }

// DaysLeft returns the whole days until the end, rounded up.
// Zero or less means the challenge is over.
func (c *Calendar) DaysLeft(now time.Time) int {
	return int(math.Ceil(float64(c.end.Sub(now)) / float64(day)))
}

// DaysLeftText renders DaysLeft, or "Done" once the challenge is over.
func (c *Calendar) DaysLeftText(now time.Time) string {
	d := c.DaysLeft(now)
	if d <= 0 {
		return doneText
	}
	return strconv.Itoa(d)
}

// Urgent reports whether the challenge ends within a week.
func (c *Calendar) Urgent(now time.Time) bool {
	d := c.DaysLeft(now)
	return d > 0 && d <= urgentDays
}

// Complete reports whether the end has passed.
func (c *Calendar) Complete(now time.Time) bool {
	return !now.Before(c.end)
}

// Countdown renders the time left as "12d 3h 4m 5s".
func (c *Calendar) Countdown(now time.Time) string {
	diff := c.end.Sub(now)
	if diff <= 0 {
		return completeText
	}
	days := diff / day
	diff -= days * day
	hours := diff / time.Hour
	diff -= hours * time.Hour
	mins := diff / time.Minute
	diff -= mins * time.Minute
	secs := diff / time.Second
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, mins, secs)
}

// IsWeighInDay reports whether now falls on the weigh-in weekday.
func (c *Calendar) IsWeighInDay(now time.Time) bool {
	return now.In(c.loc).Weekday() == c.weighInDay
}

// WeighInMessage is the status line shown above the weigh-in form.
func (c *Calendar) WeighInMessage(now time.Time) string {
	today := now.In(c.loc).Weekday()
	if today == c.weighInDay {
		return fmt.Sprintf("✅ It's %s! Please log your weight.", c.weighInDay)
	}
	return fmt.Sprintf("⚠️ Weigh-ins are %ss only. Today is %s.", c.weighInDay, today)
}

// ValidateWeight checks a weigh-in against the accepted range.
func (c *Calendar) ValidateWeight(kg float64) error {
	if math.IsNaN(kg) || kg == 0 || kg < c.minKg || kg > c.maxKg {
		return fmt.Errorf("%w between %s and %s kg", ErrInvalidWeight,
			strconv.FormatFloat(c.minKg, 'f', -1, 64), strconv.FormatFloat(c.maxKg, 'f', -1, 64))
	}
	return nil
}

// CheckWeighIn validates the weight and, when enforced, the weekday.
func (c *Calendar) CheckWeighIn(now time.Time, kg float64) error {
	if err := c.ValidateWeight(kg); err != nil {
		return err
	}
	if c.enforce && !c.IsWeighInDay(now) {
		return fmt.Errorf("%w: weigh-ins are %ss only", ErrNotWeighInDay, c.weighInDay)
	}
	return nil
}

// Goal is a participant's declared start and target weight over the challenge window.
type Goal struct {
	StartWeight  float64 `json:"startWeight"`
	TargetWeight float64 `json:"targetWeight"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
}

// NewGoal builds a goal pinned to the challenge window.
func (c *Calendar) NewGoal(startKg, targetKg float64) (Goal, error) {
	if !(startKg > 0) || !(targetKg > 0) || math.IsInf(startKg, 0) || math.IsInf(targetKg, 0) {
		return Goal{}, ErrInvalidGoal
	}
	return Goal{
		StartWeight:  startKg,
		TargetWeight: targetKg,
		StartDate:    c.start.Format(goalDateLayout),
		EndDate:      c.end.Format(goalDateLayout),
	}, nil
}

// FormatRupees renders an amount like "₹6,000".
func FormatRupees(amount int) string {
	s := strconv.Itoa(amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := defaultCurrencySign + b.String()
	if neg {
		out = "-" + out
	}
	return out
}
