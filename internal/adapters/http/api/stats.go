package api

import (
	"net/http"

	"github.com/okian/prochallenge/internal/domain/types"
)

// StatsProvider reports board, queue, live feed and weigh-in counters.
type StatsProvider interface {
	GetStats() types.Stats
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats writes a point-in-time snapshot.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.stats.GetStats())
}
