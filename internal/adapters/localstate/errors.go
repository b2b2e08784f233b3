package localstate

import "errors"

var (
	// ErrNotAuthenticated indicates there is no live session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrEmptyUser indicates a login without a user name.
	ErrEmptyUser = errors.New("user name is required")
)
