// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Placeholders used wherever a value is absent.
const (
	MissingValue  = "–"
	MissingResult = "--"
)

// RawRow is one row of the remote weights sheet, position addressed:
// 0 participant, 1 raw date, 2 raw value.
type RawRow []any

// Observation is a normalized (participant, day, value) tuple.
type Observation struct {
	Participant string
	DateLabel   string
	Day         time.Time // the instant truncated to its day in the configured location
	Value       float64   // NaN when the raw value was not numeric
}

// Series maps date labels to the participant's value on that day.
// It is sparse: not every participant has a value at every timeline point.
type Series map[string]float64

// Defined returns the value at label when it exists and is a finite number.
func (s Series) Defined(label string) (float64, bool) {
	v, ok := s[label]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// MarshalJSON omits NaN entries, which JSON cannot represent.
func (s Series) MarshalJSON() ([]byte, error) {
	clean := make(map[string]float64, len(s))
	for k, v := range s {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			clean[k] = v
		}
	}
	return json.Marshal(clean)
}

// Medal marks the podium positions.
type Medal string

// Podium medals.
const (
	MedalNone   Medal = ""
	MedalGold   Medal = "gold"
	MedalSilver Medal = "silver"
	MedalBronze Medal = "bronze"
)

// MedalFor returns the medal for a 1-based position.
func MedalFor(position int) Medal {
	switch position {
	case 1:
		return MedalGold
	case 2:
		return MedalSilver
	case 3:
		return MedalBronze
	default:
		return MedalNone
	}
}

// Emoji returns the display marker for the medal.
func (m Medal) Emoji() string {
	switch m {
	case MedalGold:
		return "🥇"
	case MedalSilver:
		return "🥈"
	case MedalBronze:
		return "🥉"
	default:
		return ""
	}
}

// RankedEntry is one participant's line in the ranking.
type RankedEntry struct {
	Position       int     `json:"position"`
	Participant    string  `json:"participant"`
	Series         Series  `json:"series"`
	TotalChangePct float64 `json:"total_change_pct"`
	Observations   int     `json:"observations"`
	Medal          Medal   `json:"medal,omitempty"`
}

// Trend classifies a period-over-period change. A decrease in value is an improvement.
type Trend string

// Trends.
const (
	TrendNone      Trend = ""
	TrendImproved  Trend = "improved"
	TrendDeclined  Trend = "declined"
	TrendUnchanged Trend = "unchanged"
)

// Arrow returns the display arrow of the trend.
func (t Trend) Arrow() string {
	switch t {
	case TrendImproved:
		return "▼"
	case TrendDeclined:
		return "▲"
	default:
		return ""
	}
}

// DeltaCell is one timeline point of a participant in the delta matrix.
type DeltaCell struct {
	Label    string   `json:"label"`
	Value    *float64 `json:"value"`
	DeltaPct float64  `json:"delta_pct"`
	Trend    Trend    `json:"trend,omitempty"`
}

// HasDelta reports whether the cell carries a period-over-period change.
func (c DeltaCell) HasDelta() bool { return c.Trend != TrendNone }

// Display renders the cell the way the dashboard shows it, e.g. "78 ▼2.5%".
func (c DeltaCell) Display() string {
	if c.Value == nil {
		return MissingValue
	}
	out := FormatNumber(*c.Value)
	if c.HasDelta() {
		out += " " + c.Trend.Arrow() + strconv.FormatFloat(math.Abs(c.DeltaPct), 'f', 1, 64) + "%"
	}
	return out
}

// DeltaRow is a participant's row in the delta matrix, in rank order.
type DeltaRow struct {
	Position    int         `json:"position"`
	Participant string      `json:"participant"`
	Medal       Medal       `json:"medal,omitempty"`
	Cells       []DeltaCell `json:"cells"`
}

// WeightCell is one raw value of the weight matrix.
type WeightCell struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// Display renders the raw value or the missing placeholder.
func (c WeightCell) Display() string {
	if c.Value == nil {
		return MissingValue
	}
	return FormatNumber(*c.Value)
}

// WeightRow is a participant's row in the weight matrix, in rank order.
type WeightRow struct {
	Position       int          `json:"position"`
	Participant    string       `json:"participant"`
	Medal          Medal        `json:"medal,omitempty"`
	Cells          []WeightCell `json:"cells"`
	TotalChangePct float64      `json:"total_change_pct"`
}

// TotalDisplay renders the total column with an explicit sign for losses, e.g. "+2.5%".
func (r WeightRow) TotalDisplay() string {
	prefix := ""
	if r.TotalChangePct > 0 {
		prefix = "+"
	}
	return prefix + FormatNumber(r.TotalChangePct) + "%"
}

// Board is the full leaderboard computed from one snapshot of the weights sheet.
type Board struct {
	Timeline []string      `json:"timeline"`
	Entries  []RankedEntry `json:"entries"`
	Weights  []WeightRow   `json:"weights"`
	Deltas   []DeltaRow    `json:"deltas"`
	Dropped  int           `json:"dropped"`
}

// Empty reports whether the board has no participants.
func (b Board) Empty() bool { return len(b.Entries) == 0 }

// FormatNumber prints a number in its shortest form without a trailing ".0".
func FormatNumber(v float64) string {
	if v == 0 {
		v = 0 // normalizes negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
