package service

import (
	"context"

	"github.com/okian/prochallenge/internal/domain/bmi"
	"github.com/okian/prochallenge/internal/domain/coach"
	"github.com/okian/prochallenge/pkg/logger"
	"github.com/okian/prochallenge/pkg/metrics"
)

// BMI classifies the measurements and keeps the result for the printable report.
func (s *Service) BMI(ctx context.Context, in bmi.Input) (bmi.Result, error) {
	if _, err := s.currentUser(); err != nil {
		return bmi.Result{}, err
	}
	res, err := s.classifier.Classify(in)
	if err != nil {
		return bmi.Result{}, err
	}
	metrics.RecordBMIClassification(string(res.Category))

	s.mu.Lock()
	s.lastBMI = &res
	s.mu.Unlock()

	s.logger.Debug(ctx, "bmi classified", logger.String("category", string(res.Category)))
	return res, nil
}

// LastBMI returns the most recent BMI result of the session.
func (s *Service) LastBMI(_ context.Context) (bmi.Result, error) {
	if _, err := s.currentUser(); err != nil {
		return bmi.Result{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastBMI == nil {
		return bmi.Result{}, ErrNoBMIResult
	}
	return *s.lastBMI, nil
}

// Coach answers a question with the session user's standing as context.
func (s *Service) Coach(ctx context.Context, query string) (coach.Reply, error) {
	user, err := s.currentUser()
	if err != nil {
		return coach.Reply{}, err
	}

	st := s.standingOf(ctx, user)
	pc := coach.Context{
		User:          user,
		Rank:          st.RankDisplay,
		TotalLoss:     st.PctDisplay,
		DaysRemaining: s.calendar.DaysLeftText(s.now()),
	}
	reply, err := s.coach.Reply(ctx, pc, query)
	if err != nil {
		return coach.Reply{}, err
	}
	metrics.RecordCoachReply(string(reply.Topic))
	return reply, nil
}
