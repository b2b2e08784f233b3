package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/okian/prochallenge/internal/domain/types"
)

const defaultTop = 3

// LeaderboardDependencies defines the interface for leaderboard operations
type LeaderboardDependencies interface {
	Board(ctx context.Context) types.Board
	TopN(ctx context.Context, n int) ([]types.Standing, error)
	Rank(ctx context.Context, participant string) (types.Standing, error)
	Standing(ctx context.Context) (types.Standing, error)
}

// LeaderboardHandler handles leaderboard requests
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetBoard handles GET /leaderboard requests
func (h *LeaderboardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Board(r.Context()))
}

// HandleGetTop handles GET /leaderboard/top?limit=N requests. The limit
// defaults to the podium.
func (h *LeaderboardHandler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top"
	n := defaultTop
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	standings, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, topResponse{Limit: n, Standings: standings})
}

// HandleGetRank handles GET /rank/{participant} requests
func (h *LeaderboardHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	participant := mux.Vars(r)["participant"]
	if participant == "" {
		writeError(w, NewKind(op, ErrBadRequest))
		return
	}
	st, err := h.deps.Rank(r.Context(), participant)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleGetStanding handles GET /me/standing requests
func (h *LeaderboardHandler) HandleGetStanding(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.Standing(r.Context())
	if err != nil {
		writeError(w, Wrap("api.get_standing", err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}
