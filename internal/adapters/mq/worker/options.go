// Package worker runs leaderboard refreshes off the request path.
package worker

import (
	"time"

	"github.com/okian/prochallenge/pkg/logger"
)

// Option applies a configuration option to the RefreshWorker.
type Option func(*RefreshWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *RefreshWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *RefreshWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithInterval makes the worker refresh on a fixed period in addition to
// queued jobs. Zero disables periodic refreshes.
func WithInterval(d time.Duration) Option {
	return func(w *RefreshWorker) {
		if d >= 0 {
			w.interval = d
		}
	}
}

// WithClock overrides the time source used to stamp periodic jobs.
func WithClock(now func() time.Time) Option {
	return func(w *RefreshWorker) {
		if now != nil {
			w.now = now
		}
	}
}
