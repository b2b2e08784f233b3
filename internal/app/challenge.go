package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/prochallenge/internal/adapters/localstate"
	eventqueue "github.com/okian/prochallenge/internal/adapters/mq/queue"
	"github.com/okian/prochallenge/internal/domain/challenge"
	"github.com/okian/prochallenge/internal/domain/dedupe"
	"github.com/okian/prochallenge/internal/domain/types"
	"github.com/okian/prochallenge/pkg/logger"
	"github.com/okian/prochallenge/pkg/metrics"
)

const dayKeyLayout = "2006-01-02"

// Registration reports whether the session user joined the challenge. The
// local flag is consulted first; a failed remote check counts as not
// registered.
func (s *Service) Registration(ctx context.Context) (types.Registration, error) {
	user, err := s.currentUser()
	if err != nil {
		return types.Registration{}, err
	}

	out := types.Registration{Challenge: s.challengeName}
	key := localstate.RegisteredKey(s.challengeName)
	if s.state.Flag(key) {
		out.Registered, out.Cached = true, true
		return out, nil
	}

	registered, err := s.remote.CheckRegistration(ctx, user, s.challengeName)
	if err != nil {
		s.logger.Warn(ctx, "registration check failed", logger.String("user", user), logger.Error(err))
		return out, nil
	}
	if registered {
		if err := s.state.SetFlag(key); err != nil {
			return types.Registration{}, fmt.Errorf("cache registration: %w", err)
		}
		out.Registered = true
	}
	return out, nil
}

// Register enrolls the session user. Being already registered is success.
func (s *Service) Register(ctx context.Context) (types.Registration, error) {
	user, err := s.currentUser()
	if err != nil {
		return types.Registration{}, err
	}

	reg, err := s.remote.RegisterChallenge(ctx, user, s.challengeName, s.now())
	if err != nil {
		return types.Registration{}, fmt.Errorf("register %s: %w", s.challengeName, err)
	}
	if err := s.state.SetFlag(localstate.RegisteredKey(s.challengeName)); err != nil {
		return types.Registration{}, fmt.Errorf("cache registration: %w", err)
	}

	s.logger.Info(ctx, "user registered",
		logger.String("user", user),
		logger.String("challenge", s.challengeName),
		logger.Bool("already", reg.AlreadyRegistered),
	)
	return types.Registration{
		Challenge:         s.challengeName,
		Registered:        true,
		AlreadyRegistered: reg.AlreadyRegistered,
		Message:           reg.Message,
	}, nil
}

// SubmitWeight logs a weigh-in for the session user. Submissions sharing an
// idempotency key take effect once; without a key the user, day and weight
// form one. An accepted weigh-in queues a board refresh.
func (s *Service) SubmitWeight(ctx context.Context, kg float64, idempotencyKey string) (types.WeighIn, error) {
	user, err := s.currentUser()
	if err != nil {
		return types.WeighIn{}, err
	}

	now := s.now()
	if err := s.calendar.CheckWeighIn(now, kg); err != nil {
		reason := "invalid_weight"
		if errors.Is(err, challenge.ErrNotWeighInDay) {
			reason = "not_weigh_in_day"
		}
		metrics.RecordWeighInRejected(reason)
		return types.WeighIn{}, err
	}

	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		key = dedupe.Key(user, now.Format(dayKeyLayout), strconv.FormatFloat(kg, 'f', -1, 64))
	} else {
		key = dedupe.Key(user, key)
	}

	out := types.WeighIn{User: user, WeightKg: kg, At: now}
	if s.guard.SeenAndRecord(ctx, key) {
		s.deduped.Add(1)
		metrics.RecordWeighInDuplicate()
		s.logger.Debug(ctx, "duplicate weigh-in suppressed", logger.String("user", user))
		out.Duplicate = true
		return out, nil
	}

	msg, err := s.remote.AddWeight(ctx, user, kg)
	if err != nil {
		s.guard.Forget(ctx, key)
		return types.WeighIn{}, fmt.Errorf("add weight: %w", err)
	}
	out.Message = msg

	s.accepted.Add(1)
	metrics.RecordWeighInSubmitted()
	s.logger.Info(ctx, "weigh-in accepted", logger.String("user", user), logger.Float64("weight", kg))

	if err := s.RequestRefresh(ctx, eventqueue.ReasonWeighIn); err != nil {
		s.logger.Warn(ctx, "refresh not queued", logger.Error(err))
	}
	return out, nil
}

// SaveGoal stores the session user's start and target weight for the
// challenge window.
func (s *Service) SaveGoal(ctx context.Context, startKg, targetKg float64) (challenge.Goal, error) {
	user, err := s.currentUser()
	if err != nil {
		return challenge.Goal{}, err
	}
	goal, err := s.calendar.NewGoal(startKg, targetKg)
	if err != nil {
		return challenge.Goal{}, err
	}
	if err := s.remote.SaveGoal(ctx, user, goal); err != nil {
		return challenge.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	return goal, nil
}

// ChallengeStatus describes the running challenge at the current time.
func (s *Service) ChallengeStatus(_ context.Context) types.ChallengeStatus {
	now := s.now()
	c := s.calendar
	p := c.Prizes()

	prizes := make([]string, 0, len(p.Places))
	for _, amount := range p.Places {
		prizes = append(prizes, challenge.FormatRupees(amount))
	}
	return types.ChallengeStatus{
		Now:          now,
		Start:        c.Start(),
		End:          c.End(),
		DaysLeft:     c.DaysLeft(now),
		DaysLeftText: c.DaysLeftText(now),
		Urgent:       c.Urgent(now),
		Countdown:    c.Countdown(now),
		Complete:     c.Complete(now),
		WeighInDay:   c.IsWeighInDay(now),
		WeighInLabel: c.WeighInMessage(now),
		PrizePool:    challenge.FormatRupees(p.Pool),
		EntryFee:     challenge.FormatRupees(p.EntryFee),
		Prizes:       prizes,
	}
}
