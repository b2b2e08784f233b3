// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/okian/prochallenge/internal/domain/bmi"
	"github.com/okian/prochallenge/internal/domain/coach"
	"github.com/okian/prochallenge/internal/domain/types"
	"github.com/okian/prochallenge/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionDependencies
	LeaderboardDependencies
	ChallengeDependencies
	WellnessDependencies
	FinanceDependencies
	LiveDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps   Dependencies
	logger logger.Logger
	now    func() time.Time

	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	sessionHandler     *SessionHandler
	leaderboardHandler *LeaderboardHandler
	challengeHandler   *ChallengeHandler
	wellnessHandler    *WellnessHandler
	financeHandler     *FinanceHandler
	liveHandler        *LiveHandler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the logger used by the handlers.
func WithServerLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithServerClock sets the time source used for report dates.
func WithServerClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAllowedOrigins restricts websocket upgrades to the given origins.
// An empty list accepts any origin.
func WithAllowedOrigins(origins ...string) ServerOption {
	return func(s *Server) {
		s.liveHandler = NewLiveHandler(s.deps, origins...)
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		deps:   deps,
		logger: logger.Get().Named("api"),
		now:    time.Now,
	}
	s.liveHandler = NewLiveHandler(deps)
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.sessionHandler = NewSessionHandler(deps)
	s.leaderboardHandler = NewLeaderboardHandler(deps)
	s.challengeHandler = NewChallengeHandler(deps)
	s.wellnessHandler = NewWellnessHandler(deps, s.now)
	s.financeHandler = NewFinanceHandler(deps)
	s.liveHandler.logger = s.logger.Named("live")
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(ctx context.Context, r *mux.Router) {
	r.Use(RequestIDMiddleware, MetricsMiddleware)

	// Open routes
	r.HandleFunc("/healthz", s.healthHandler.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.statsHandler.HandleStats).Methods(http.MethodGet)
	r.HandleFunc("/session", s.sessionHandler.HandleLogin).Methods(http.MethodPost)
	r.HandleFunc("/session", s.sessionHandler.HandleCurrent).Methods(http.MethodGet)
	r.HandleFunc("/session", s.sessionHandler.HandleLogout).Methods(http.MethodDelete)

	// Routes that need an active session
	protected := r.NewRoute().Subrouter()
	protected.Use(RequireSession(s.deps))

	protected.HandleFunc("/challenges/{challenge}/registration", s.challengeHandler.HandleRegistration).
		Methods(http.MethodGet)
	protected.HandleFunc("/challenges/{challenge}/registration", s.challengeHandler.HandleRegister).
		Methods(http.MethodPost)
	protected.HandleFunc("/challenge/status", s.challengeHandler.HandleStatus).Methods(http.MethodGet)
	protected.HandleFunc("/weights", s.challengeHandler.HandleSubmitWeight).Methods(http.MethodPost)
	protected.HandleFunc("/goal", s.challengeHandler.HandleSaveGoal).Methods(http.MethodPost)

	protected.HandleFunc("/leaderboard", s.leaderboardHandler.HandleGetBoard).Methods(http.MethodGet)
	protected.HandleFunc("/leaderboard/top", s.leaderboardHandler.HandleGetTop).Methods(http.MethodGet)
	protected.HandleFunc("/rank/{participant}", s.leaderboardHandler.HandleGetRank).Methods(http.MethodGet)
	protected.HandleFunc("/me/standing", s.leaderboardHandler.HandleGetStanding).Methods(http.MethodGet)

	protected.HandleFunc("/bmi", s.wellnessHandler.HandleBMI).Methods(http.MethodPost)
	protected.HandleFunc("/bmi/report", s.wellnessHandler.HandleReport).Methods(http.MethodGet)
	protected.HandleFunc("/coach", s.wellnessHandler.HandleCoach).Methods(http.MethodPost)

	protected.HandleFunc("/finance/budget", s.financeHandler.HandleGetBudget).Methods(http.MethodGet)
	protected.HandleFunc("/finance/budget", s.financeHandler.HandleSetBudget).Methods(http.MethodPut)
	protected.HandleFunc("/finance/expenses", s.financeHandler.HandleGetExpenses).Methods(http.MethodGet)
	protected.HandleFunc("/finance/expenses", s.financeHandler.HandleAddExpense).Methods(http.MethodPost)
	protected.HandleFunc("/finance/summary", s.financeHandler.HandleSummary).Methods(http.MethodGet)
	protected.HandleFunc("/finance/leaderboard", s.financeHandler.HandleLeaderboard).Methods(http.MethodGet)

	protected.HandleFunc("/live", s.liveHandler.HandleLive).Methods(http.MethodGet)

	s.logger.Info(ctx, "api routes registered")
}

// Request bodies.

type loginRequest struct {
	User string `json:"user"`
}

type weightRequest struct {
	Weight float64 `json:"weight"`
}

type goalRequest struct {
	StartWeight  float64 `json:"start_weight"`
	TargetWeight float64 `json:"target_weight"`
}

type bmiRequest struct {
	HeightCm float64 `json:"height_cm"`
	WeightKg float64 `json:"weight_kg"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
}

func (b bmiRequest) input() bmi.Input {
	return bmi.Input{HeightCm: b.HeightCm, WeightKg: b.WeightKg, Age: b.Age, Gender: bmi.ParseGender(b.Gender)}
}

type coachRequest struct {
	Query string `json:"query"`
}

type budgetRequest struct {
	TargetAmount float64 `json:"target_amount"`
}

// Response bodies.

type coachResponse struct {
	coach.Reply
	HTML string `json:"html"`
}

type topResponse struct {
	Limit     int              `json:"limit"`
	Standings []types.Standing `json:"standings"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before committing the status, so an unencodable value
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Get().Named("api").Error(context.Background(), "encode response", logger.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: msgInternal})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// writeError maps err onto its status and writes the error body.
func writeError(w http.ResponseWriter, err error) {
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Named("api").Error(context.Background(), "request failed", logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(r *http.Request, op string, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return NewKind(op, ErrBadRequest)
		}
		return WrapKind(op, ErrBadRequest, fmt.Errorf("invalid JSON body: %w", err))
	}
	return nil
}
