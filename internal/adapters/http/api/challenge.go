package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/okian/prochallenge/internal/domain/challenge"
	"github.com/okian/prochallenge/internal/domain/types"
)

// IdempotencyHeader carries the client-chosen key of a weigh-in.
const IdempotencyHeader = "Idempotency-Key"

var errUnknownChallenge = errors.New("unknown challenge")

// ChallengeDependencies defines the interface for challenge operations.
type ChallengeDependencies interface {
	ChallengeName() string
	Registration(ctx context.Context) (types.Registration, error)
	Register(ctx context.Context) (types.Registration, error)
	ChallengeStatus(ctx context.Context) types.ChallengeStatus
	SubmitWeight(ctx context.Context, kg float64, idempotencyKey string) (types.WeighIn, error)
	SaveGoal(ctx context.Context, startKg, targetKg float64) (challenge.Goal, error)
}

// ChallengeHandler handles registration, weigh-in and goal requests.
type ChallengeHandler struct {
	deps ChallengeDependencies
}

// NewChallengeHandler creates a new challenge handler.
func NewChallengeHandler(deps ChallengeDependencies) *ChallengeHandler {
	return &ChallengeHandler{deps: deps}
}

// HandleRegistration handles GET /challenges/{challenge}/registration requests.
func (h *ChallengeHandler) HandleRegistration(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_registration"
	if !h.known(r) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: errUnknownChallenge.Error()})
		return
	}
	reg, err := h.deps.Registration(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// HandleRegister handles POST /challenges/{challenge}/registration requests.
func (h *ChallengeHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "api.register"
	if !h.known(r) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: errUnknownChallenge.Error()})
		return
	}
	reg, err := h.deps.Register(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	status := http.StatusCreated
	if reg.AlreadyRegistered {
		status = http.StatusOK
	}
	writeJSON(w, status, reg)
}

// HandleStatus handles GET /challenge/status requests.
func (h *ChallengeHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.ChallengeStatus(r.Context()))
}

// HandleSubmitWeight handles POST /weights requests. A repeated submission
// answers 200 with duplicate set; a new one answers 201.
func (h *ChallengeHandler) HandleSubmitWeight(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_weight"
	var req weightRequest
	if err := decode(r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.deps.SubmitWeight(r.Context(), req.Weight, r.Header.Get(IdempotencyHeader))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	status := http.StatusCreated
	if out.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, out)
}

// HandleSaveGoal handles POST /goal requests.
func (h *ChallengeHandler) HandleSaveGoal(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_goal"
	var req goalRequest
	if err := decode(r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	goal, err := h.deps.SaveGoal(r.Context(), req.StartWeight, req.TargetWeight)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *ChallengeHandler) known(r *http.Request) bool {
	return strings.EqualFold(mux.Vars(r)["challenge"], h.deps.ChallengeName())
}
