package challenge

import "errors"

var (
	// ErrInvalidWeight indicates a weigh-in outside the accepted range.
	ErrInvalidWeight = errors.New("please enter a valid weight")
	// ErrNotWeighInDay indicates a weigh-in submitted on the wrong weekday.
	ErrNotWeighInDay = errors.New("weigh-ins are not open today")
	// ErrInvalidGoal indicates a goal with a missing or non-positive weight.
	ErrInvalidGoal = errors.New("please enter both start and target weights")
)
