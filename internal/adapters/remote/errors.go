package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport indicates a network failure or a non-2xx HTTP status.
	ErrTransport = errors.New("remote transport failure")
	// ErrMalformedResponse indicates a body that could not be decoded or lacks required fields.
	ErrMalformedResponse = errors.New("malformed remote response")
	// ErrRejected indicates a well-formed response with success=false.
	ErrRejected = errors.New("remote rejected request")
)

// UnknownErrorMessage is shown when a rejection carries no message.
const UnknownErrorMessage = "Unknown error"

// RejectedError carries the message of an application-level rejection.
type RejectedError struct {
	Action  string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.UserMessage())
}

// UserMessage returns the remote message or the generic fallback.
func (e *RejectedError) UserMessage() string {
	if e.Message == "" {
		return UnknownErrorMessage
	}
	return e.Message
}

// Is makes errors.Is(err, ErrRejected) hold.
func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

func transportErr(action string, err error) error {
	return fmt.Errorf("%s: %w: %w", action, ErrTransport, err)
}

func malformedErr(action, reason string) error {
	return fmt.Errorf("%s: %w: %s", action, ErrMalformedResponse, reason)
}
