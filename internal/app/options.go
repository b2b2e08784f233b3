package service

import (
	"time"

	"github.com/okian/prochallenge/internal/domain/bmi"
	"github.com/okian/prochallenge/internal/domain/challenge"
	"github.com/okian/prochallenge/internal/domain/coach"
	"github.com/okian/prochallenge/internal/domain/leaderboard"
	"github.com/okian/prochallenge/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the service time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithChallengeName sets the challenge users register for.
func WithChallengeName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.challengeName = name
		}
	}
}

// WithSessionTTL sets how long a login stays valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithQueueSize sets the capacity of the refresh queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRefreshInterval makes the worker refresh the board periodically.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithDedupeSize sets how many weigh-in idempotency keys are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDedupeTTL sets how long a weigh-in idempotency key is remembered.
func WithDedupeTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.dedupeTTL = ttl
		}
	}
}

// WithTopLimit caps the n accepted by TopN.
func WithTopLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topLimit = n
		}
	}
}

// WithLeaderboardOptions configures board computation.
func WithLeaderboardOptions(opts ...leaderboard.Option) Option {
	return func(s *Service) {
		s.boardOpts = append(s.boardOpts, opts...)
	}
}

// WithCaseInsensitiveLookup makes rank lookups ignore letter case.
func WithCaseInsensitiveLookup(enabled bool) Option {
	return func(s *Service) {
		s.foldCase = enabled
	}
}

// WithCalendar replaces the default challenge calendar.
func WithCalendar(c *challenge.Calendar) Option {
	return func(s *Service) {
		if c != nil {
			s.calendar = c
		}
	}
}

// WithClassifier replaces the default BMI classifier.
func WithClassifier(c *bmi.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithCoach replaces the default scripted coach.
func WithCoach(c *coach.Coach) Option {
	return func(s *Service) {
		if c != nil {
			s.coach = c
		}
	}
}
