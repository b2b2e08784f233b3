package sheetmock

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/okian/prochallenge/pkg/logger"
)

// Generation ranges in kilograms.
const (
	startWeightMin   = 60.0
	startWeightRange = 60.0
	weeklyChangeMin  = -1.5
	weeklyChangeSpan = 2.0
	floorWeight      = 35.0
	daysPerWeek      = 7
)

var firstNames = []string{
	"Asha", "Ravi", "Meera", "Kabir", "Isha", "Arjun", "Nisha", "Vikram",
	"Priya", "Rohan", "Sana", "Dev", "Anaya", "Karan", "Tara", "Neel",
}

// GeneratorConfig controls synthetic weigh-in generation.
type GeneratorConfig struct {
	Participants int       // number of participants
	Weeks        int       // weigh-ins per participant
	Start        time.Time // first weigh-in day; moved forward to the next Monday
	Seed         uint64    // random seed; the same seed yields the same weights
	SkipRate     float64   // probability of a missed weigh-in, 0..1
}

// Generate produces weekly Monday weigh-ins for the configured participants.
func Generate(ctx context.Context, cfg GeneratorConfig) ([]Row, error) {
	if cfg.Participants <= 0 || cfg.Weeks <= 0 {
		return nil, fmt.Errorf("participants and weeks must be positive, got %d and %d", cfg.Participants, cfg.Weeks)
	}
	if cfg.SkipRate < 0 || cfg.SkipRate >= 1 {
		return nil, fmt.Errorf("skip rate must be in [0,1), got %v", cfg.SkipRate)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	first := nextMonday(cfg.Start)
	names := participantNames(cfg.Participants)

	rows := make([]Row, 0, cfg.Participants*cfg.Weeks)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled: %w", err)
		}
		weight := startWeightMin + rng.Float64()*startWeightRange
		for week := 0; week < cfg.Weeks; week++ {
			if week > 0 {
				weight = math.Max(floorWeight, weight+weeklyChangeMin+rng.Float64()*weeklyChangeSpan)
				if rng.Float64() < cfg.SkipRate {
					continue
				}
			}
			rows = append(rows, Row{
				Username: name,
				Date:     first.AddDate(0, 0, week*daysPerWeek).Add(time.Duration(rng.IntN(12*60)) * time.Minute),
				Weight:   math.Round(weight*10) / 10,
			})
		}
	}

	logger.Get().Info(ctx, "generated weigh-ins", logger.Int("participants", cfg.Participants), logger.Int("rows", len(rows)))
	return rows, nil
}

// participantNames returns distinct names, falling back to random suffixes
// once the fixed list is exhausted.
func participantNames(n int) []string {
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i < len(firstNames) {
			names = append(names, firstNames[i])
			continue
		}
		names = append(names, "athlete-"+uuid.NewString()[:8])
	}
	return names
}

func nextMonday(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
