// Package types contains the read models served by the API and the CLI.
package types

import (
	"strconv"
	"time"

	model "github.com/okian/prochallenge/internal/domain/model"
)

// Standing is one participant's line on the board.
type Standing struct {
	Position       int     `json:"position"`
	Participant    string  `json:"participant"`
	TotalChangePct float64 `json:"total_change_pct"`
	Medal          string  `json:"medal,omitempty"`
	RankDisplay    string  `json:"rank_display"`
	PctDisplay     string  `json:"pct_display"`
	Found          bool    `json:"found"`
}

// Board is a snapshot of the leaderboard as served to clients.
type Board struct {
	Version     uint64            `json:"version"`
	GeneratedAt time.Time         `json:"generated_at"`
	Timeline    []string          `json:"timeline"`
	Standings   []Standing        `json:"standings"`
	Weights     []model.WeightRow `json:"weights"`
	Deltas      []model.DeltaRow  `json:"deltas"`
	Dropped     int               `json:"dropped"`
}

// NewStanding builds the standing view of a ranked entry.
func NewStanding(e model.RankedEntry) Standing {
	return Standing{
		Position:       e.Position,
		Participant:    e.Participant,
		TotalChangePct: e.TotalChangePct,
		Medal:          e.Medal.Emoji(),
		RankDisplay:    "#" + strconv.Itoa(e.Position),
		PctDisplay:     model.FormatNumber(e.TotalChangePct) + "%",
		Found:          true,
	}
}

// MissingStanding is the placeholder standing of a participant absent from the board.
func MissingStanding(participant string) Standing {
	return Standing{
		Participant: participant,
		RankDisplay: model.MissingResult,
		PctDisplay:  model.MissingResult,
	}
}

// NewBoard converts a computed board into its served form.
func NewBoard(b model.Board, version uint64, generatedAt time.Time) Board {
	out := Board{
		Version:     version,
		GeneratedAt: generatedAt,
		Timeline:    b.Timeline,
		Standings:   make([]Standing, 0, len(b.Entries)),
		Weights:     b.Weights,
		Deltas:      b.Deltas,
		Dropped:     b.Dropped,
	}
	if out.Timeline == nil {
		out.Timeline = []string{}
	}
	if out.Weights == nil {
		out.Weights = []model.WeightRow{}
	}
	if out.Deltas == nil {
		out.Deltas = []model.DeltaRow{}
	}
	for _, e := range b.Entries {
		out.Standings = append(out.Standings, NewStanding(e))
	}
	return out
}

// Session is the authenticated user view.
type Session struct {
	User          string    `json:"user"`
	Authenticated bool      `json:"authenticated"`
	LoginTime     time.Time `json:"login_time"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ChallengeStatus is the calendar view of the running challenge.
type ChallengeStatus struct {
	Now          time.Time `json:"now"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DaysLeft     int       `json:"days_left"`
	DaysLeftText string    `json:"days_left_text"`
	Urgent       bool      `json:"urgent"`
	Countdown    string    `json:"countdown"`
	Complete     bool      `json:"complete"`
	WeighInDay   bool      `json:"weigh_in_day"`
	WeighInLabel string    `json:"weigh_in_label"`
	PrizePool    string    `json:"prize_pool"`
	EntryFee     string    `json:"entry_fee"`
	Prizes       []string  `json:"prizes"`
}

// Stats is a point-in-time summary of the service.
type Stats struct {
	Participants     int       `json:"participants"`
	TimelineLength   int       `json:"timeline_length"`
	BoardVersion     uint64    `json:"board_version"`
	LastRefresh      time.Time `json:"last_refresh"`
	LastRefreshError string    `json:"last_refresh_error,omitempty"`
	QueueSize        int       `json:"queue_size"`
	QueueCapacity    int       `json:"queue_capacity"`
	LiveSubscribers  int       `json:"live_subscribers"`
	WeighInsAccepted int64     `json:"weigh_ins_accepted"`
	WeighInsDeduped  int64     `json:"weigh_ins_deduped"`
}

// Registration is a user's enrollment in a challenge.
type Registration struct {
	Challenge         string `json:"challenge"`
	Registered        bool   `json:"registered"`
	AlreadyRegistered bool   `json:"already_registered,omitempty"`
	Cached            bool   `json:"cached,omitempty"`
	Message           string `json:"message,omitempty"`
}

// WeighIn is the outcome of a weight submission.
type WeighIn struct {
	User      string    `json:"user"`
	WeightKg  float64   `json:"weight_kg"`
	At        time.Time `json:"at"`
	Duplicate bool      `json:"duplicate"`
	Message   string    `json:"message,omitempty"`
}

// Budget is a monthly spending target. Cached marks values served from
// local state because the remote call failed.
type Budget struct {
	TargetAmount float64 `json:"target_amount"`
	Set          bool    `json:"set"`
	Cached       bool    `json:"cached,omitempty"`
}

// Expense is one logged expense.
type Expense struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Note     string  `json:"note,omitempty"`
	Date     string  `json:"date,omitempty"`
}

// Expenses is a user's expense list.
type Expenses struct {
	Items  []Expense `json:"items"`
	Cached bool      `json:"cached,omitempty"`
}

// ExpenseSummary aggregates a user's month.
type ExpenseSummary struct {
	TotalSpent   float64            `json:"total_spent"`
	TargetAmount float64            `json:"target_amount"`
	Remaining    float64            `json:"remaining"`
	ByCategory   map[string]float64 `json:"by_category"`
	Cached       bool               `json:"cached,omitempty"`
}

// FinanceStanding is one line of the savings leaderboard.
type FinanceStanding struct {
	Position     int     `json:"position"`
	Username     string  `json:"username"`
	TotalSpent   float64 `json:"total_spent"`
	TargetAmount float64 `json:"target_amount"`
	SavedPct     float64 `json:"saved_pct"`
	Medal        string  `json:"medal,omitempty"`
}
