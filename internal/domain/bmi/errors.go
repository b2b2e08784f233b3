package bmi

import "errors"

// ErrInvalidInput indicates a missing, non-positive or non-numeric measurement.
var ErrInvalidInput = errors.New("invalid bmi input")
