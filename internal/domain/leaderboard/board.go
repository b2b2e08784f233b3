package leaderboard

import (
	model "github.com/okian/prochallenge/internal/domain/model"
)

// Build runs the whole pipeline over one snapshot of raw rows.
func Build(rows []model.RawRow, opts ...Option) model.Board {
	n := Normalize(rows, opts...)
	timeline := BuildTimeline(n.Labels, opts...)
	entries := Rank(n, timeline)
	return model.Board{
		Timeline: timeline,
		Entries:  entries,
		Weights:  BuildWeightMatrix(entries, timeline),
		Deltas:   BuildDeltaMatrix(entries, timeline),
		Dropped:  n.Dropped,
	}
}
