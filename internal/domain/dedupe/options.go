// Package dedupe suppresses repeated submissions carrying the same idempotency key.
package dedupe

import "time"

// Option applies a configuration option to the guard.
type Option func(*memoryGuard)

// WithMaxSize bounds the number of remembered keys; the oldest key is
// forgotten first. A size of zero or less leaves the guard unbounded.
func WithMaxSize(maxSize int) Option {
	return func(g *memoryGuard) {
		g.maxSize = maxSize
	}
}

// WithTTL forgets keys older than ttl. Zero keeps keys until evicted.
func WithTTL(ttl time.Duration) Option {
	return func(g *memoryGuard) {
		if ttl >= 0 {
			g.ttl = ttl
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(g *memoryGuard) {
		if now != nil {
			g.now = now
		}
	}
}
