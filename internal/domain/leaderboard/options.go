// Package leaderboard turns raw weigh-in rows into a ranked board:
// normalization, timeline ordering, ranking and the delta matrix.
package leaderboard

import "time"

// defaultReferenceYear is a leap year used to order year-less labels.
const defaultReferenceYear = 2000

// Label layouts.
const (
	labelLayout         = "02 Jan"
	yearQualifiedLayout = "02 Jan 2006"
)

type settings struct {
	location      *time.Location
	yearQualified bool
	foldCase      bool
	referenceYear int
}

// Option applies a configuration option to the engine.
type Option func(*settings)

// WithLocation sets the location instants are converted to before labelling.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithYearQualifiedLabels makes labels carry the year ("02 Feb 2026") so the
// same day of different years no longer collides.
func WithYearQualifiedLabels(enabled bool) Option {
	return func(s *settings) {
		s.yearQualified = enabled
	}
}

// WithCaseInsensitiveLookup makes Lookup ignore letter case.
func WithCaseInsensitiveLookup(enabled bool) Option {
	return func(s *settings) {
		s.foldCase = enabled
	}
}

// WithReferenceYear sets the year year-less labels are placed in when ordering
// the timeline. It should be a leap year so that "29 Feb" keeps its place.
func WithReferenceYear(year int) Option {
	return func(s *settings) {
		if year > 0 {
			s.referenceYear = year
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{location: time.Local, referenceYear: defaultReferenceYear}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s settings) layout() string {
	if s.yearQualified {
		return yearQualifiedLayout
	}
	return labelLayout
}
