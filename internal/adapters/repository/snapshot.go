package repository

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	model "github.com/okian/prochallenge/internal/domain/model"
	"github.com/okian/prochallenge/pkg/metrics"
)

const defaultMaxLimit = 100

// Snapshot is an immutable published board.
type Snapshot struct {
	Board       model.Board
	Version     uint64
	GeneratedAt time.Time

	byName   map[string]int
	byFolded map[string]int
}

// SnapshotStore publishes boards through an atomic pointer so readers never
// block on a refresh.
type SnapshotStore struct {
	current  atomic.Pointer[Snapshot]
	version  atomic.Uint64
	maxLimit int
	foldCase bool
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&Snapshot{})
	return s
}

// Replace publishes board and returns its version.
func (s *SnapshotStore) Replace(_ context.Context, board model.Board, generatedAt time.Time) uint64 {
	snap := &Snapshot{
		Board:       board,
		Version:     s.version.Add(1),
		GeneratedAt: generatedAt,
		byName:      make(map[string]int, len(board.Entries)),
	}
	if s.foldCase {
		snap.byFolded = make(map[string]int, len(board.Entries))
	}
	for i, e := range board.Entries {
		snap.byName[e.Participant] = i
		if s.foldCase {
			folded := strings.ToLower(e.Participant)
			if _, taken := snap.byFolded[folded]; !taken {
				snap.byFolded[folded] = i
			}
		}
	}
	s.current.Store(snap)
	metrics.UpdateLeaderboardShape(len(board.Entries), len(board.Timeline))
	return snap.Version
}

// Snapshot returns the current board.
func (s *SnapshotStore) Snapshot(_ context.Context) Snapshot {
	return *s.current.Load()
}

// Rank returns the entry of participant.
func (s *SnapshotStore) Rank(_ context.Context, participant string) (model.RankedEntry, error) {
	snap := s.current.Load()
	i, ok := snap.byName[participant]
	if !ok && s.foldCase {
		i, ok = snap.byFolded[strings.ToLower(participant)]
	}
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.RankedEntry{}, fmt.Errorf("%w: %s", ErrNotFound, participant)
	}
	return snap.Board.Entries[i], nil
}

// TopN returns at most n leading entries.
func (s *SnapshotStore) TopN(_ context.Context, n int) ([]model.RankedEntry, error) {
	if n <= 0 || n > s.maxLimit {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidLimit, n, s.maxLimit)
	}
	entries := s.current.Load().Board.Entries
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]model.RankedEntry, n)
	copy(out, entries[:n])
	return out, nil
}

// Count returns the number of participants.
func (s *SnapshotStore) Count(_ context.Context) int {
	return len(s.current.Load().Board.Entries)
}

// MaxLimit returns the largest n TopN accepts.
func (s *SnapshotStore) MaxLimit() int { return s.maxLimit }
