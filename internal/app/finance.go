package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/prochallenge/internal/adapters/localstate"
	"github.com/okian/prochallenge/internal/adapters/remote"
	model "github.com/okian/prochallenge/internal/domain/model"
	"github.com/okian/prochallenge/internal/domain/types"
	"github.com/okian/prochallenge/pkg/logger"
)

const expenseDateLayout = "2006-01-02"

// Finance reads fall back to the local cache when the endpoint is
// unreachable. Rejections and malformed answers are returned as errors.

// Budget returns the session user's monthly target.
func (s *Service) Budget(ctx context.Context) (types.Budget, error) {
	user, err := s.currentUser()
	if err != nil {
		return types.Budget{}, err
	}

	b, err := s.remote.GetMonthlyBudget(ctx, user)
	if err == nil {
		if b.Set {
			s.cacheTarget(ctx, user, b.TargetAmount)
		}
		return types.Budget{TargetAmount: b.TargetAmount, Set: b.Set}, nil
	}
	if !errors.Is(err, remote.ErrTransport) {
		return types.Budget{}, fmt.Errorf("get budget: %w", err)
	}

	s.logger.Warn(ctx, "budget served from cache", logger.String("user", user), logger.Error(err))
	target, ok := s.cachedTarget(user)
	return types.Budget{TargetAmount: target, Set: ok, Cached: true}, nil
}

// SetBudget stores the session user's monthly target. The value is cached
// locally; an unreachable endpoint yields a cached result instead of an error.
func (s *Service) SetBudget(ctx context.Context, amount float64) (types.Budget, error) {
	user, err := s.currentUser()
	if err != nil {
		return types.Budget{}, err
	}
	if !validAmount(amount) {
		return types.Budget{}, ErrInvalidAmount
	}

	s.cacheTarget(ctx, user, amount)
	err = s.remote.SetMonthlyBudget(ctx, user, amount)
	switch {
	case err == nil:
		return types.Budget{TargetAmount: amount, Set: true}, nil
	case errors.Is(err, remote.ErrTransport):
		s.logger.Warn(ctx, "budget kept in cache only", logger.String("user", user), logger.Error(err))
		return types.Budget{TargetAmount: amount, Set: true, Cached: true}, nil
	default:
		return types.Budget{}, fmt.Errorf("set budget: %w", err)
	}
}

// Expenses lists the session user's expenses.
func (s *Service) Expenses(ctx context.Context) (types.Expenses, error) {
	user, err := s.currentUser()
	if err != nil {
		return types.Expenses{}, err
	}

	list, err := s.remote.GetUserExpenses(ctx, user)
	if err == nil {
		items := fromRemoteExpenses(list)
		s.cacheExpenses(ctx, user, items)
		return types.Expenses{Items: items}, nil
	}
	if !errors.Is(err, remote.ErrTransport) {
		return types.Expenses{}, fmt.Errorf("get expenses: %w", err)
	}

	s.logger.Warn(ctx, "expenses served from cache", logger.String("user", user), logger.Error(err))
	return types.Expenses{Items: s.cachedExpenses(ctx, user), Cached: true}, nil
}

// AddExpense logs an expense for the session user.
func (s *Service) AddExpense(ctx context.Context, e types.Expense) (types.Expenses, error) {
	user, err := s.currentUser()
	if err != nil {
		return types.Expenses{}, err
	}
	if !validAmount(e.Amount) {
		return types.Expenses{}, ErrInvalidAmount
	}
	e.Category = strings.TrimSpace(e.Category)
	e.Note = strings.TrimSpace(e.Note)
	if e.Date == "" {
		e.Date = s.now().Format(expenseDateLayout)
	}

	err = s.remote.AddExpense(ctx, user, remote.Expense{
		Amount:   remote.Number(e.Amount),
		Category: e.Category,
		Note:     e.Note,
		Date:     e.Date,
	})
	cached := false
	switch {
	case err == nil:
	case errors.Is(err, remote.ErrTransport):
		s.logger.Warn(ctx, "expense kept in cache only", logger.String("user", user), logger.Error(err))
		cached = true
	default:
		return types.Expenses{}, fmt.Errorf("add expense: %w", err)
	}

	items := append(s.cachedExpenses(ctx, user), e)
	s.cacheExpenses(ctx, user, items)
	return types.Expenses{Items: items, Cached: cached}, nil
}

// ExpenseSummary returns the session user's monthly summary, computed from
// the cache when the endpoint is unreachable.
func (s *Service) ExpenseSummary(ctx context.Context) (types.ExpenseSummary, error) {
	user, err := s.currentUser()
	if err != nil {
		return types.ExpenseSummary{}, err
	}

	sum, err := s.remote.GetExpenseSummary(ctx, user)
	if err == nil {
		out := types.ExpenseSummary{
			TotalSpent:   sum.TotalSpent.Float64(),
			TargetAmount: sum.TargetAmount.Float64(),
			Remaining:    sum.Remaining.Float64(),
			ByCategory:   make(map[string]float64, len(sum.ByCategory)),
		}
		for k, v := range sum.ByCategory {
			out.ByCategory[k] = v.Float64()
		}
		return out, nil
	}
	if !errors.Is(err, remote.ErrTransport) {
		return types.ExpenseSummary{}, fmt.Errorf("get expense summary: %w", err)
	}

	s.logger.Warn(ctx, "expense summary computed from cache", logger.String("user", user), logger.Error(err))
	return s.summarize(ctx, user), nil
}

// FinanceLeaderboard returns the savings leaderboard in the order served by
// the endpoint.
func (s *Service) FinanceLeaderboard(ctx context.Context) ([]types.FinanceStanding, error) {
	user, err := s.currentUser()
	if err != nil {
		return nil, err
	}
	list, err := s.remote.GetFinanceLeaderboard(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("get finance leaderboard: %w", err)
	}
	out := make([]types.FinanceStanding, len(list))
	for i, f := range list {
		out[i] = types.FinanceStanding{
			Position:     i + 1,
			Username:     f.Username,
			TotalSpent:   f.TotalSpent.Float64(),
			TargetAmount: f.TargetAmount.Float64(),
			SavedPct:     f.SavedPct.Float64(),
			Medal:        model.MedalFor(i + 1).Emoji(),
		}
	}
	return out, nil
}

func (s *Service) summarize(ctx context.Context, user string) types.ExpenseSummary {
	out := types.ExpenseSummary{ByCategory: map[string]float64{}, Cached: true}
	for _, e := range s.cachedExpenses(ctx, user) {
		out.TotalSpent += e.Amount
		out.ByCategory[e.Category] += e.Amount
	}
	out.TargetAmount, _ = s.cachedTarget(user)
	out.Remaining = out.TargetAmount - out.TotalSpent
	return out
}

func (s *Service) cacheTarget(ctx context.Context, user string, amount float64) {
	if err := s.state.Set(localstate.TargetKey(user), strconv.FormatFloat(amount, 'f', -1, 64)); err != nil {
		s.logger.Warn(ctx, "cache budget", logger.Error(err))
	}
}

func (s *Service) cachedTarget(user string) (float64, bool) {
	raw, ok := s.state.Get(localstate.TargetKey(user))
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *Service) cacheExpenses(ctx context.Context, user string, items []types.Expense) {
	if err := s.state.SetJSON(localstate.ExpensesKey(user), items); err != nil {
		s.logger.Warn(ctx, "cache expenses", logger.Error(err))
	}
}

func (s *Service) cachedExpenses(ctx context.Context, user string) []types.Expense {
	items := []types.Expense{}
	if _, err := s.state.GetJSON(localstate.ExpensesKey(user), &items); err != nil {
		s.logger.Warn(ctx, "read cached expenses", logger.Error(err))
		return []types.Expense{}
	}
	return items
}

func fromRemoteExpenses(list []remote.Expense) []types.Expense {
	out := make([]types.Expense, len(list))
	for i, e := range list {
		out[i] = types.Expense{Amount: e.Amount.Float64(), Category: e.Category, Note: e.Note, Date: e.Date}
	}
	return out
}

func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
