package coach

import "errors"

// ErrEmptyQuery indicates a blank chat message.
var ErrEmptyQuery = errors.New("empty coach query")
