package challenge

import "time"

// Option applies a configuration option to the Calendar.
type Option func(*Calendar)

// WithWindow sets the first day and the last instant of the challenge.
func WithWindow(start, end time.Time) Option {
	return func(c *Calendar) {
		if !start.IsZero() && end.After(start) {
			c.start = start
			c.end = end
		}
	}
}

// WithWeighInDay sets the weekday weigh-ins are accepted on.
func WithWeighInDay(day time.Weekday) Option {
	return func(c *Calendar) {
		if day >= time.Sunday && day <= time.Saturday {
			c.weighInDay = day
		}
	}
}

// WithWeightRange sets the accepted weigh-in range in kilograms, inclusive.
func WithWeightRange(minKg, maxKg float64) Option {
	return func(c *Calendar) {
		if minKg > 0 && maxKg > minKg {
			c.minKg = minKg
			c.maxKg = maxKg
		}
	}
}

// WithEnforcedWeighInDay rejects weigh-ins outside the weigh-in day when enabled.
func WithEnforcedWeighInDay(enabled bool) Option {
	return func(c *Calendar) {
		c.enforce = enabled
	}
}

// WithLocation sets the location weekdays are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(c *Calendar) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithPrizes overrides the prize table.
func WithPrizes(p Prizes) Option {
	return func(c *Calendar) {
		if p.Pool > 0 {
			c.prizes = p
		}
	}
}
