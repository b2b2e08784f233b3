package leaderboard

import (
	"math"
	"sort"
	"strings"

	model "github.com/okian/prochallenge/internal/domain/model"
)

// Rank orders participants by total change along the timeline, largest
// loss first. Ties keep first-appearance order.
func Rank(n Normalized, timeline []string) []model.RankedEntry {
	entries := make([]model.RankedEntry, 0, len(n.Order))
	for _, participant := range n.Order {
		series := n.Series[participant]
		pct, count := TotalChangePct(series, timeline)
		entries = append(entries, model.RankedEntry{
			Participant:    participant,
			Series:         series,
			TotalChangePct: pct,
			Observations:   count,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalChangePct > entries[j].TotalChangePct
	})

	for i := range entries {
		entries[i].Position = i + 1
		entries[i].Medal = model.MedalFor(i + 1)
	}
	return entries
}

// TotalChangePct returns the percentage change from the first to the last
// defined value along the timeline, rounded to two decimals, and the number
// of defined values. Fewer than two values yield zero.
func TotalChangePct(series model.Series, timeline []string) (float64, int) {
	var first, last float64
	count := 0
	for _, label := range timeline {
		v, ok := series.Defined(label)
		if !ok {
			continue
		}
		if count == 0 {
			first = v
		}
		last = v
		count++
	}
	if count < 2 || first == 0 {
		return 0, count
	}
	return round(((first-last)/first)*100, 2), count
}

// Lookup finds a participant's entry by exact name.
func Lookup(entries []model.RankedEntry, name string, opts ...Option) (model.RankedEntry, bool) {
	s := newSettings(opts)
	for _, e := range entries {
		if e.Participant == name || (s.foldCase && strings.EqualFold(e.Participant, name)) {
			return e, true
		}
	}
	return model.RankedEntry{}, false
}

// Top returns at most n leading entries.
func Top(entries []model.RankedEntry, n int) []model.RankedEntry {
	if n < 0 {
		n = 0
	}
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]model.RankedEntry, n)
	copy(out, entries[:n])
	return out
}

// round rounds half away from zero and never returns negative zero.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}
