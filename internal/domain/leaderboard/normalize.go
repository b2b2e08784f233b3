package leaderboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	model "github.com/okian/prochallenge/internal/domain/model"
)

// Normalized is the per-participant view of a batch of raw rows.
type Normalized struct {
	// Series holds the effective value per participant and label.
	Series map[string]model.Series
	// Order lists participants by first appearance.
	Order []string
	// Labels lists distinct date labels by first appearance.
	Labels []string
	// Dropped counts rows whose participant or date could not be parsed.
	Dropped int
}

// Len returns the number of participants.
func (n Normalized) Len() int { return len(n.Order) }

// Normalize parses raw rows and groups them by participant. Rows with an
// unparseable date are dropped; a later row for the same participant and
// label overwrites an earlier one.
func Normalize(rows []model.RawRow, opts ...Option) Normalized {
	s := newSettings(opts)
	out := Normalized{Series: make(map[string]model.Series)}
	seenLabel := make(map[string]struct{})

	for _, row := range rows {
		obs, ok := parseObservation(row, s)
		if !ok {
			out.Dropped++
			continue
		}
		series, exists := out.Series[obs.Participant]
		if !exists {
			series = make(model.Series)
			out.Series[obs.Participant] = series
			out.Order = append(out.Order, obs.Participant)
		}
		series[obs.DateLabel] = obs.Value
		if _, dup := seenLabel[obs.DateLabel]; !dup {
			seenLabel[obs.DateLabel] = struct{}{}
			out.Labels = append(out.Labels, obs.DateLabel)
		}
	}
	return out
}

// ParseObservation parses a single raw row.
func ParseObservation(row model.RawRow, opts ...Option) (model.Observation, bool) {
	return parseObservation(row, newSettings(opts))
}

func parseObservation(row model.RawRow, s settings) (model.Observation, bool) {
	if len(row) < 2 {
		return model.Observation{}, false
	}
	participant, ok := participantName(row[0])
	if !ok {
		return model.Observation{}, false
	}
	instant, ok := parseInstant(row[1], s.location)
	if !ok {
		return model.Observation{}, false
	}
	local := instant.In(s.location)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)

	var raw any
	if len(row) > 2 {
		raw = row[2]
	}
	return model.Observation{
		Participant: participant,
		DateLabel:   day.Format(s.layout()),
		Day:         day,
		Value:       parseValue(raw),
	}, true
}

func participantName(v any) (string, bool) {
	switch p := v.(type) {
	case string:
		return p, true
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64), true
	case nil:
		return "", false
	default:
		return fmt.Sprint(p), true
	}
}

// Layouts without an offset are read in the configured location, except
// the bare date form, which denotes UTC midnight.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func parseInstant(v any, loc *time.Location) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, !d.IsZero()
	case float64:
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(d)), true
	case int64:
		return time.UnixMilli(d), true
	case string:
		return parseDateString(strings.TrimSpace(d), loc)
	default:
		return time.Time{}, false
	}
}

func parseDateString(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseValue returns the numeric value of a raw cell, or NaN when the cell is
// not a finite number.
func parseValue(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(x), 64); err != nil {
			return math.NaN()
		}
	default:
		return math.NaN()
	}
	if math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}
