// Package sheetmock is an in-memory stand-in for the spreadsheet endpoint.
// It implements every action of the endpoint against maps and serves them
// over the same single POST contract.
package sheetmock

import (
	"time"

	"github.com/okian/prochallenge/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithClock replaces the time source used to stamp weigh-ins and expenses.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRows seeds the weights sheet.
func WithRows(rows []Row) Option {
	return func(s *Server) {
		s.weights = append(s.weights, rows...)
	}
}
