package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/prochallenge/internal/adapters/render"
	"github.com/okian/prochallenge/internal/domain/bmi"
	"github.com/okian/prochallenge/internal/domain/coach"
)

// WellnessDependencies defines the interface for BMI and coach operations.
type WellnessDependencies interface {
	BMI(ctx context.Context, in bmi.Input) (bmi.Result, error)
	LastBMI(ctx context.Context) (bmi.Result, error)
	Coach(ctx context.Context, query string) (coach.Reply, error)
}

// WellnessHandler handles BMI and coach requests.
type WellnessHandler struct {
	deps WellnessDependencies
	now  func() time.Time
}

// NewWellnessHandler creates a new wellness handler.
func NewWellnessHandler(deps WellnessDependencies, now func() time.Time) *WellnessHandler {
	return &WellnessHandler{deps: deps, now: now}
}

// HandleBMI handles POST /bmi requests.
func (h *WellnessHandler) HandleBMI(w http.ResponseWriter, r *http.Request) {
	const op = "api.bmi"
	var req bmiRequest
	if err := decode(r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.deps.BMI(r.Context(), req.input())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleReport handles GET /bmi/report requests with the printable report
// of the last result. ?print=false suppresses the print dialog.
func (h *WellnessHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.bmi_report"
	res, err := h.deps.LastBMI(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}

	autoPrint := true
	if v := r.URL.Query().Get("print"); v != "" {
		autoPrint, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
	}

	var buf bytes.Buffer
	if err := render.BMIReport(&buf, res, h.now(), render.WithAutoPrint(autoPrint)); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HandleCoach handles POST /coach requests. The reply is also returned as
// rendered HTML.
func (h *WellnessHandler) HandleCoach(w http.ResponseWriter, r *http.Request) {
	const op = "api.coach"
	var req coachRequest
	if err := decode(r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	reply, err := h.deps.Coach(r.Context(), req.Query)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	html, err := render.Markdown(reply.Text)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, coachResponse{Reply: reply, HTML: string(html)})
}
