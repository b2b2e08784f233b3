package leaderboard

import (
	model "github.com/okian/prochallenge/internal/domain/model"
)

// Delta returns the period-over-period change from prev to curr in percent,
// rounded to one decimal, and its trend. A positive change is a loss.
func Delta(prev, curr float64) (float64, model.Trend) {
	raw := ((prev - curr) / prev) * 100
	trend := model.TrendUnchanged
	switch {
	case raw > 0:
		trend = model.TrendImproved
	case raw < 0:
		trend = model.TrendDeclined
	}
	return round(raw, 1), trend
}

// BuildDeltaMatrix lays out every ranked participant against the timeline
// with the change from the previous point where both points are defined.
func BuildDeltaMatrix(entries []model.RankedEntry, timeline []string) []model.DeltaRow {
	rows := make([]model.DeltaRow, 0, len(entries))
	for _, e := range entries {
		cells := make([]model.DeltaCell, len(timeline))
		for i, label := range timeline {
			cell := model.DeltaCell{Label: label}
			curr, ok := e.Series.Defined(label)
			if ok {
				cell.Value = valuePtr(curr)
			}
			if ok && i > 0 {
				if prev, prevOK := e.Series.Defined(timeline[i-1]); prevOK && prev != 0 {
					cell.DeltaPct, cell.Trend = Delta(prev, curr)
				}
			}
			cells[i] = cell
		}
		rows = append(rows, model.DeltaRow{
			Position:    e.Position,
			Participant: e.Participant,
			Medal:       e.Medal,
			Cells:       cells,
		})
	}
	return rows
}

// BuildWeightMatrix lays out the raw values of every ranked participant
// against the timeline with the total change column.
func BuildWeightMatrix(entries []model.RankedEntry, timeline []string) []model.WeightRow {
	rows := make([]model.WeightRow, 0, len(entries))
	for _, e := range entries {
		cells := make([]model.WeightCell, len(timeline))
		for i, label := range timeline {
			cells[i] = model.WeightCell{Label: label}
			if v, ok := e.Series.Defined(label); ok {
				cells[i].Value = valuePtr(v)
			}
		}
		rows = append(rows, model.WeightRow{
			Position:       e.Position,
			Participant:    e.Participant,
			Medal:          e.Medal,
			Cells:          cells,
			TotalChangePct: e.TotalChangePct,
		})
	}
	return rows
}

func valuePtr(v float64) *float64 { return &v }
