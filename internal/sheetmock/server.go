package sheetmock

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/okian/prochallenge/pkg/logger"
)

// Messages returned by the stand-in.
const (
	MsgAlreadyRegistered = "Already registered for this challenge"
	MsgUnknownAction     = "Unknown action"
	MsgInvalidWeight     = "Invalid weight"
	MsgMissingUser       = "Missing username"
	MsgInvalidAmount     = "Invalid amount"
)

var header = []any{"Username", "Date", "Weight"}

// Row is one weigh-in of the sheet.
type Row struct {
	Username string
	Date     time.Time
	Weight   float64
}

type request struct {
	Action       string   `json:"action"`
	Username     string   `json:"username"`
	Challenge    string   `json:"challenge"`
	Weight       *float64 `json:"weight"`
	StartWeight  *float64 `json:"startWeight"`
	TargetWeight *float64 `json:"targetWeight"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	TargetAmount *float64 `json:"targetAmount"`
	Amount       *float64 `json:"amount"`
	Category     string   `json:"category"`
	Note         string   `json:"note"`
}

type goal struct {
	StartWeight  float64
	TargetWeight float64
	StartDate    string
	EndDate      string
}

type expense struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Note     string  `json:"note,omitempty"`
	Date     string  `json:"date"`
}

type fault struct {
	status  int
	message string
}

// Server serves the endpoint contract from memory.
type Server struct {
	mu            sync.Mutex
	now           func() time.Time
	logger        logger.Logger
	weights       []Row
	registrations map[string]map[string]bool
	goals         map[string]goal
	budgets       map[string]float64
	expenses      map[string][]expense
	faults        map[string]fault
	calls         map[string]int
}

// New creates an empty stand-in.
func New(opts ...Option) *Server {
	s := &Server{
		now:           time.Now,
		logger:        logger.Get().Named("sheetmock"),
		registrations: make(map[string]map[string]bool),
		goals:         make(map[string]goal),
		budgets:       make(map[string]float64),
		expenses:      make(map[string][]expense),
		faults:        make(map[string]fault),
		calls:         make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reject makes every later call of action answer success=false with message.
func (s *Server) Reject(action, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[action] = fault{message: message}
}

// Fail makes every later call of action answer with the HTTP status.
func (s *Server) Fail(action string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[action] = fault{status: status}
}

// Heal removes a fault installed by Reject or Fail.
func (s *Server) Heal(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.faults, action)
}

// Calls returns how many times action was requested.
func (s *Server) Calls(action string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[action]
}

// Register marks user as registered for the challenge.
func (s *Server) Register(challenge, user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registerLocked(challenge, user)
}

// AddRow appends a weigh-in.
func (s *Server) AddRow(r Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights = append(s.weights, r)
}

// Rows returns a copy of the sheet without the header.
func (s *Server) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.weights...)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[req.Action]++

	s.logger.Debug(r.Context(), "sheet action", logger.String("action", req.Action), logger.String("user", req.Username))

	if f, ok := s.faults[req.Action]; ok {
		if f.status != 0 {
			http.Error(w, http.StatusText(f.status), f.status)
			return
		}
		writeJSON(w, failure(f.message))
		return
	}

	writeJSON(w, s.dispatchLocked(req))
}

func (s *Server) dispatchLocked(req request) any {
	if req.Action != "getAllWeights" && req.Username == "" {
		return failure(MsgMissingUser)
	}

	switch req.Action {
	case "checkRegistration":
		return map[string]any{"success": true, "isRegistered": s.registrations[req.Challenge][req.Username]}

	case "registerChallenge":
		if s.registrations[req.Challenge][req.Username] {
			return failure(MsgAlreadyRegistered)
		}
		s.registerLocked(req.Challenge, req.Username)
		return map[string]any{"success": true, "message": "Registered"}

	case "addWeight":
		if req.Weight == nil || !isPositive(*req.Weight) {
			return failure(MsgInvalidWeight)
		}
		s.weights = append(s.weights, Row{Username: req.Username, Date: s.now(), Weight: *req.Weight})
		return map[string]any{"success": true, "message": "Weight logged"}

	case "getAllWeights":
		out := make([][]any, 0, len(s.weights)+1)
		out = append(out, header)
		for _, r := range s.weights {
			out = append(out, []any{r.Username, r.Date.UTC().Format(time.RFC3339), r.Weight})
		}
		return out

	case "saveGoal":
		if req.StartWeight == nil || req.TargetWeight == nil {
			return failure(MsgInvalidWeight)
		}
		s.goals[req.Username] = goal{
			StartWeight:  *req.StartWeight,
			TargetWeight: *req.TargetWeight,
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
		}
		return map[string]any{"success": true, "message": "Goal saved"}

	case "setMonthlyBudget":
		if req.TargetAmount == nil || !isPositive(*req.TargetAmount) {
			return failure(MsgInvalidAmount)
		}
		s.budgets[req.Username] = *req.TargetAmount
		return map[string]any{"success": true}

	case "getMonthlyBudget":
		resp := map[string]any{"success": true}
		if target, ok := s.budgets[req.Username]; ok {
			resp["targetAmount"] = target
		}
		return resp

	case "addExpense":
		if req.Amount == nil || !isPositive(*req.Amount) {
			return failure(MsgInvalidAmount)
		}
		s.expenses[req.Username] = append(s.expenses[req.Username], expense{
			Amount:   *req.Amount,
			Category: req.Category,
			Note:     req.Note,
			Date:     s.now().UTC().Format(time.DateOnly),
		})
		return map[string]any{"success": true}

	case "getUserExpenses":
		list := append([]expense{}, s.expenses[req.Username]...)
		return map[string]any{"success": true, "expenses": list}

	case "getExpenseSummary":
		return map[string]any{"success": true, "summary": s.summaryLocked(req.Username)}

	case "getFinanceLeaderboard":
		return map[string]any{"success": true, "leaderboard": s.financeBoardLocked()}

	default:
		return failure(MsgUnknownAction)
	}
}

func (s *Server) registerLocked(challenge, user string) {
	if s.registrations[challenge] == nil {
		s.registrations[challenge] = make(map[string]bool)
	}
	s.registrations[challenge][user] = true
}

func (s *Server) summaryLocked(user string) map[string]any {
	spent := 0.0
	byCategory := make(map[string]float64)
	for _, e := range s.expenses[user] {
		spent += e.Amount
		byCategory[e.Category] += e.Amount
	}
	target := s.budgets[user]
	return map[string]any{
		"totalSpent":   spent,
		"targetAmount": target,
		"remaining":    target - spent,
		"byCategory":   byCategory,
	}
}

func (s *Server) financeBoardLocked() []map[string]any {
	users := make([]string, 0, len(s.budgets))
	for u := range s.budgets {
		users = append(users, u)
	}
	board := make([]map[string]any, 0, len(users))
	saved := make(map[string]float64, len(users))
	for _, u := range users {
		target := s.budgets[u]
		spent := 0.0
		for _, e := range s.expenses[u] {
			spent += e.Amount
		}
		saved[u] = math.Round((target-spent)/target*1000) / 10
		board = append(board, map[string]any{
			"username":     u,
			"totalSpent":   spent,
			"targetAmount": target,
			"savedPct":     saved[u],
		})
	}
	sort.SliceStable(board, func(i, j int) bool {
		a, b := board[i]["username"].(string), board[j]["username"].(string)
		if saved[a] != saved[b] {
			return saved[a] > saved[b]
		}
		return a < b
	})
	return board
}

func failure(message string) map[string]any {
	return map[string]any{"success": false, "message": message}
}

func isPositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
