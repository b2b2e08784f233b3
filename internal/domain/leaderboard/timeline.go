package leaderboard

import (
	"sort"
	"time"
)

// BuildTimeline returns the distinct labels in chronological order.
// Labels that are not dates sort last, lexically.
func BuildTimeline(labels []string, opts ...Option) []string {
	s := newSettings(opts)

	type point struct {
		label string
		at    time.Time
		ok    bool
	}
	seen := make(map[string]struct{}, len(labels))
	points := make([]point, 0, len(labels))
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		at, ok := labelDate(l, s)
		points = append(points, point{label: l, at: at, ok: ok})
	}

	sort.Slice(points, func(i, j int) bool {
		a, b := points[i], points[j]
		switch {
		case a.ok && b.ok:
			if !a.at.Equal(b.at) {
				return a.at.Before(b.at)
			}
			return a.label < b.label
		case a.ok != b.ok:
			return a.ok
		default:
			return a.label < b.label
		}
	})

	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.label
	}
	return out
}

func labelDate(label string, s settings) (time.Time, bool) {
	if t, err := time.Parse(yearQualifiedLayout, label); err == nil {
		return t, true
	}
	t, err := time.Parse(labelLayout, label)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(s.referenceYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}
