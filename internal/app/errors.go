package service

import (
	"errors"

	"github.com/okian/prochallenge/internal/domain/challenge"
)

// Sentinel kinds for service errors.
var (
	ErrUnauthenticated = errors.New("not logged in")
	ErrNoBMIResult     = errors.New("no BMI result yet")
	ErrInvalidGoal     = challenge.ErrInvalidGoal
	ErrInvalidAmount   = errors.New("please enter a valid amount")
)
