// Package repository holds the latest computed leaderboard and answers
// rank and top-N queries against it.
package repository

import (
	"context"
	"time"

	model "github.com/okian/prochallenge/internal/domain/model"
)

// Store provides read/write access to the board state.
type Store interface {
	// Replace publishes a freshly computed board and returns its version.
	Replace(ctx context.Context, board model.Board, generatedAt time.Time) uint64

	// Snapshot returns the current board. Before the first Replace it is empty
	// with version zero.
	Snapshot(ctx context.Context) Snapshot

	// Rank returns the entry of a participant.
	// Returns ErrNotFound if the participant is not on the board.
	Rank(ctx context.Context, participant string) (model.RankedEntry, error)

	// TopN returns the leading n entries in rank order.
	TopN(ctx context.Context, n int) ([]model.RankedEntry, error)

	// Count returns the number of participants on the board.
	Count(ctx context.Context) int
}
