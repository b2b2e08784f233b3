package remote

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Actions understood by the endpoint.
const (
	ActionCheckRegistration     = "checkRegistration"
	ActionRegisterChallenge     = "registerChallenge"
	ActionAddWeight             = "addWeight"
	ActionGetAllWeights         = "getAllWeights"
	ActionSaveGoal              = "saveGoal"
	ActionSetMonthlyBudget      = "setMonthlyBudget"
	ActionGetMonthlyBudget      = "getMonthlyBudget"
	ActionAddExpense            = "addExpense"
	ActionGetUserExpenses       = "getUserExpenses"
	ActionGetExpenseSummary     = "getExpenseSummary"
	ActionGetFinanceLeaderboard = "getFinanceLeaderboard"
)

// Request is the body of every call; unused fields are omitted.
type Request struct {
	Action       string   `json:"action"`
	Username     string   `json:"username,omitempty"`
	Challenge    string   `json:"challenge,omitempty"`
	Timestamp    string   `json:"timestamp,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	StartWeight  *float64 `json:"startWeight,omitempty"`
	TargetWeight *float64 `json:"targetWeight,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	TargetAmount *float64 `json:"targetAmount,omitempty"`
	Amount       *float64 `json:"amount,omitempty"`
	Category     string   `json:"category,omitempty"`
	Note         string   `json:"note,omitempty"`
}

// Number decodes a JSON number or a numeric string. Spreadsheet cells come
// back as either.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Float64 returns the value as a float64.
func (n Number) Float64() float64 { return float64(n) }

// envelope is the common part of every object response.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// Registration is the answer of a register call.
type Registration struct {
	AlreadyRegistered bool   `json:"already_registered"`
	Message           string `json:"message,omitempty"`
}

// Budget is a participant's monthly spending target.
type Budget struct {
	TargetAmount float64 `json:"target_amount"`
	Set          bool    `json:"set"`
}

// Expense is one logged expense.
type Expense struct {
	Amount   Number `json:"amount"`
	Category string `json:"category"`
	Note     string `json:"note,omitempty"`
	Date     string `json:"date,omitempty"`
}

// ExpenseSummary aggregates a participant's month.
type ExpenseSummary struct {
	TotalSpent   Number            `json:"totalSpent"`
	TargetAmount Number            `json:"targetAmount"`
	Remaining    Number            `json:"remaining"`
	ByCategory   map[string]Number `json:"byCategory,omitempty"`
}

// FinanceStanding is one line of the savings leaderboard.
type FinanceStanding struct {
	Username     string `json:"username"`
	TotalSpent   Number `json:"totalSpent"`
	TargetAmount Number `json:"targetAmount"`
	SavedPct     Number `json:"savedPct"`
}
