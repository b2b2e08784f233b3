package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/prochallenge/internal/adapters/localstate"
	"github.com/okian/prochallenge/internal/adapters/remote"
	repository "github.com/okian/prochallenge/internal/adapters/repository"
	service "github.com/okian/prochallenge/internal/app"
	"github.com/okian/prochallenge/internal/domain/bmi"
	"github.com/okian/prochallenge/internal/domain/challenge"
	"github.com/okian/prochallenge/internal/domain/coach"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrUpgrade    = errors.New("websocket upgrade failed")
)

// Messages shown instead of upstream details.
const (
	msgUpstreamUnavailable = "The challenge service is unreachable. Please try again."
	msgUpstreamMalformed   = "The challenge service sent an unexpected answer."
	msgInternal            = "internal server error"
)

// OpError ties an error to the handler operation and the kind it maps to.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	switch {
	case e.Err != nil && e.Kind != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *OpError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an OpError of kind without a cause.
func NewKind(op string, kind error) error {
	return &OpError{Op: op, Kind: kind}
}

// WrapKind returns an OpError of kind caused by err.
func WrapKind(op string, kind, err error) error {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// Wrap returns an OpError caused by err.
func Wrap(op string, err error) error {
	return &OpError{Op: op, Err: err}
}

// classify maps an error onto a status, an error code and a client message.
func classify(err error) (int, string, string) {
	var rejected *remote.RejectedError
	switch {
	case errors.As(err, &rejected):
		return http.StatusUnprocessableEntity, "rejected", rejected.UserMessage()
	case errors.Is(err, remote.ErrRejected):
		return http.StatusUnprocessableEntity, "rejected", remote.UnknownErrorMessage
	case errors.Is(err, remote.ErrTransport):
		return http.StatusBadGateway, "upstream_unavailable", msgUpstreamUnavailable
	case errors.Is(err, remote.ErrMalformedResponse):
		return http.StatusBadGateway, "upstream_malformed", msgUpstreamMalformed
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", service.ErrUnauthenticated.Error()
	case errors.Is(err, challenge.ErrNotWeighInDay):
		return http.StatusConflict, "not_weigh_in_day", challenge.ErrNotWeighInDay.Error()
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrNoBMIResult):
		return http.StatusNotFound, "not_found", rootMessage(err)
	case errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "limit_exceeded", rootMessage(err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, bmi.ErrInvalidInput),
		errors.Is(err, challenge.ErrInvalidWeight),
		errors.Is(err, challenge.ErrInvalidGoal),
		errors.Is(err, coach.ErrEmptyQuery),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, localstate.ErrEmptyUser):
		return http.StatusBadRequest, "bad_request", rootMessage(err)
	default:
		return http.StatusInternalServerError, "internal_error", msgInternal
	}
}

// rootMessage strips the handler operation prefix from err.
func rootMessage(err error) string {
	var op *OpError
	if errors.As(err, &op) && op.Err != nil {
		return op.Err.Error()
	}
	if errors.As(err, &op) && op.Kind != nil {
		return op.Kind.Error()
	}
	return err.Error()
}
