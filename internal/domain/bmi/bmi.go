// Package bmi classifies body mass index and attaches static nutrition guidance.
package bmi

import (
	"fmt"
	"math"
	"strings"
)

// Band thresholds.
const (
	underweightBelow = 18.5
	normalBelow      = 25.0
	overweightBelow  = 30.0
	idealLow         = 18.5
	idealHigh        = 24.9
	maxMarkerPct     = 96.0
)

// Gender is informational; it never affects classification.
type Gender string

// Genders.
const (
	GenderUnspecified Gender = ""
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
)

// ParseGender maps free text to a Gender; anything unknown is unspecified.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	default:
		return GenderUnspecified
	}
}

// Title returns the display form, e.g. "Male".
func (g Gender) Title() string {
	if g == GenderUnspecified {
		return "Unspecified"
	}
	return strings.ToUpper(string(g[:1])) + string(g[1:])
}

// Input carries the measurements of one classification.
type Input struct {
	HeightCm float64 `json:"height_cm"`
	WeightKg float64 `json:"weight_kg"`
	Age      int     `json:"age"`
	Gender   Gender  `json:"gender"`
}

// Result is a classified measurement.
type Result struct {
	Input
	BMI        float64  `json:"bmi"`
	Rounded    float64  `json:"bmi_rounded"`
	Category   Category `json:"category"`
	IdealMinKg float64  `json:"ideal_min_kg"`
	IdealMaxKg float64  `json:"ideal_max_kg"`
	MarkerPct  float64  `json:"marker_pct"`
	Guidance   Guidance `json:"guidance"`
}

// Display returns the BMI with one decimal, e.g. "24.2".
func (r Result) Display() string {
	return fmt.Sprintf("%.1f", r.Rounded)
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithMealPlans attaches a per-category meal plan to every result.
func WithMealPlans(enabled bool) Option {
	return func(c *Classifier) {
		c.mealPlans = enabled
	}
}

// Classifier computes BMI results. It holds no mutable state.
type Classifier struct {
	mealPlans bool
}

// NewClassifier creates a classifier.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MealPlans reports whether results carry meal plans.
func (c *Classifier) MealPlans() bool { return c.mealPlans }

// Classify validates the input and computes the result.
func (c *Classifier) Classify(in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	hm := in.HeightCm / 100
	sq := hm * hm
	value := in.WeightKg / sq
	category := Classify(value)

	return Result{
		Input:      in,
		BMI:        value,
		Rounded:    round1(value),
		Category:   category,
		IdealMinKg: round1(idealLow * sq),
		IdealMaxKg: round1(idealHigh * sq),
		MarkerPct:  MarkerPosition(value),
		Guidance:   GuidanceFor(category, c.mealPlans),
	}, nil
}

// Classify returns the band of a BMI value.
func Classify(value float64) Category {
	switch {
	case value < underweightBelow:
		return Underweight
	case value < normalBelow:
		return Normal
	case value < overweightBelow:
		return Overweight
	default:
		return Obese
	}
}

// MarkerPosition maps a BMI value onto the four-segment scale, in percent.
func MarkerPosition(value float64) float64 {
	switch {
	case value < underweightBelow:
		return value / underweightBelow * 25
	case value < normalBelow:
		return 25 + (value-underweightBelow)/6.5*25
	case value < overweightBelow:
		return 50 + (value-normalBelow)/5*25
	default:
		return math.Min(75+(value-overweightBelow)/10*25, maxMarkerPct)
	}
}

func validate(in Input) error {
	if !positive(in.HeightCm) {
		return fmt.Errorf("%w: height must be a positive number", ErrInvalidInput)
	}
	if !positive(in.WeightKg) {
		return fmt.Errorf("%w: weight must be a positive number", ErrInvalidInput)
	}
	if in.Age <= 0 {
		return fmt.Errorf("%w: age must be a positive number", ErrInvalidInput)
	}
	return nil
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
