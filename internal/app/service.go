// Package service is the application layer of the hub. It owns every piece
// of mutable state: the session, the computed board, the last BMI result and
// the refresh pipeline.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/prochallenge/internal/adapters/localstate"
	eventqueue "github.com/okian/prochallenge/internal/adapters/mq/queue"
	refreshworker "github.com/okian/prochallenge/internal/adapters/mq/worker"
	"github.com/okian/prochallenge/internal/adapters/remote"
	repository "github.com/okian/prochallenge/internal/adapters/repository"
	"github.com/okian/prochallenge/internal/domain/bmi"
	"github.com/okian/prochallenge/internal/domain/challenge"
	"github.com/okian/prochallenge/internal/domain/coach"
	"github.com/okian/prochallenge/internal/domain/dedupe"
	"github.com/okian/prochallenge/internal/domain/leaderboard"
	model "github.com/okian/prochallenge/internal/domain/model"
	"github.com/okian/prochallenge/internal/domain/types"
	"github.com/okian/prochallenge/pkg/logger"
	"github.com/okian/prochallenge/pkg/metrics"
)

const (
	defaultSessionTTL   = 24 * time.Hour
	defaultQueueSize    = 16
	defaultDedupeSize   = 10000
	defaultDedupeTTL    = 7 * 24 * time.Hour
	defaultTopLimit     = 100
	liveBuffer          = 1
	stopTimeout         = 5 * time.Second
	refreshOutcomeOK    = "ok"
	refreshOutcomeError = "error"
)

// Remote is the subset of the remote endpoint the service calls.
type Remote interface {
	CheckRegistration(ctx context.Context, user, challengeName string) (bool, error)
	RegisterChallenge(ctx context.Context, user, challengeName string, at time.Time) (remote.Registration, error)
	AddWeight(ctx context.Context, user string, kg float64) (string, error)
	GetAllWeights(ctx context.Context) ([]model.RawRow, error)
	SaveGoal(ctx context.Context, user string, g challenge.Goal) error
	SetMonthlyBudget(ctx context.Context, user string, amount float64) error
	GetMonthlyBudget(ctx context.Context, user string) (remote.Budget, error)
	AddExpense(ctx context.Context, user string, e remote.Expense) error
	GetUserExpenses(ctx context.Context, user string) ([]remote.Expense, error)
	GetExpenseSummary(ctx context.Context, user string) (remote.ExpenseSummary, error)
	GetFinanceLeaderboard(ctx context.Context, user string) ([]remote.FinanceStanding, error)
}

// Service implements the operations exposed by the HTTP API and the CLI.
type Service struct {
	mu sync.RWMutex

	remote     Remote
	state      *localstate.Store
	calendar   *challenge.Calendar
	classifier *bmi.Classifier
	coach      *coach.Coach
	guard      dedupe.Guard
	store      *repository.SnapshotStore
	queue      *eventqueue.InMemoryQueue
	worker     *refreshworker.RefreshWorker

	// Configuration
	challengeName   string
	sessionTTL      time.Duration
	queueSize       int
	refreshInterval time.Duration
	dedupeSize      int
	dedupeTTL       time.Duration
	topLimit        int
	foldCase        bool
	boardOpts       []leaderboard.Option
	now             func() time.Time

	// State
	refreshMu      sync.Mutex
	lastBMI        *bmi.Result
	lastRefresh    time.Time
	lastRefreshErr error
	accepted       atomic.Int64
	deduped        atomic.Int64
	subscribers    map[uint64]chan types.Board
	nextSubscriber uint64
	started        bool
	cancel         context.CancelFunc

	logger logger.Logger
}

// New constructs a service over the remote endpoint and the local state store.
func New(r Remote, state *localstate.Store, opts ...Option) *Service {
	s := &Service{
		remote:        r,
		state:         state,
		challengeName: challenge.Fitness,
		sessionTTL:    defaultSessionTTL,
		queueSize:     defaultQueueSize,
		dedupeSize:    defaultDedupeSize,
		dedupeTTL:     defaultDedupeTTL,
		topLimit:      defaultTopLimit,
		now:           time.Now,
		subscribers:   make(map[uint64]chan types.Board),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.calendar == nil {
		s.calendar = challenge.NewCalendar()
	}
	if s.classifier == nil {
		s.classifier = bmi.NewClassifier()
	}
	if s.coach == nil {
		s.coach = coach.New()
	}
	s.guard = dedupe.NewGuard(
		dedupe.WithMaxSize(s.dedupeSize),
		dedupe.WithTTL(s.dedupeTTL),
		dedupe.WithClock(s.now),
	)
	s.store = repository.NewSnapshotStore(
		repository.WithMaxLimit(s.topLimit),
		repository.WithCaseInsensitiveLookup(s.foldCase),
	)
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	return s
}

// Start launches the refresh worker and requests the first board.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting hub service...")

	if s.queue.IsClosed() {
		s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	}
	s.worker = refreshworker.NewRefreshWorker(s.queue, s,
		refreshworker.WithInterval(s.refreshInterval),
		refreshworker.WithClock(s.now),
		refreshworker.WithLogger(s.logger.Named("worker")),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.worker.Run(runCtx)

	if err := s.queue.Enqueue(ctx, eventqueue.NewRefreshJob(eventqueue.ReasonStartup, s.now())); err != nil {
		s.logger.Warn(ctx, "initial refresh not queued", logger.Error(err))
	}

	s.started = true
	s.logger.Info(ctx, "hub service started",
		logger.String("challenge", s.challengeName),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("refreshInterval", s.refreshInterval),
	)
	return nil
}

// Stop shuts the refresh pipeline down and closes live subscriptions.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	q, w, cancel := s.queue, s.worker, s.cancel
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping hub service...")

	_ = q.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, stopTimeout)
	if err := w.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "worker shutdown", logger.Error(err))
	}
	shutdownCancel()
	cancel()

	s.mu.Lock()
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	s.mu.Unlock()
	metrics.UpdateLiveSubscribers(0)

	s.logger.Info(ctx, "hub service stopped")
}

// Refresh fetches every weigh-in and recomputes the board. On failure the
// previous board stays in place.
func (s *Service) Refresh(ctx context.Context, reason string) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	rows, err := s.remote.GetAllWeights(ctx)
	elapsed := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordLeaderboardRefresh(refreshOutcomeError, elapsed)
		s.mu.Lock()
		s.lastRefreshErr = err
		s.mu.Unlock()
		return err
	}

	board := leaderboard.Build(rows, s.boardOpts...)
	at := s.now()
	version := s.store.Replace(ctx, board, at)
	metrics.RecordLeaderboardRefresh(refreshOutcomeOK, float64(time.Since(start).Milliseconds()))
	metrics.RecordDroppedRows(board.Dropped)

	s.mu.Lock()
	s.lastRefresh = at
	s.lastRefreshErr = nil
	s.mu.Unlock()

	if board.Dropped > 0 {
		s.logger.Debug(ctx, "dropped rows with unparseable dates", logger.Int("dropped", board.Dropped))
	}
	s.logger.Info(ctx, "leaderboard refreshed",
		logger.String("reason", reason),
		logger.Int("participants", len(board.Entries)),
		logger.Int("timeline", len(board.Timeline)),
		logger.Int("version", int(version)),
	)

	s.publish(types.NewBoard(board, version, at))
	return nil
}

// RequestRefresh queues a refresh. A full queue already holds one, so the
// request is coalesced.
func (s *Service) RequestRefresh(ctx context.Context, reason string) error {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()

	err := q.Enqueue(ctx, eventqueue.NewRefreshJob(reason, s.now()))
	if errors.Is(err, eventqueue.ErrFull) {
		return nil
	}
	return err
}

// Board returns the current board.
func (s *Service) Board(ctx context.Context) types.Board {
	snap := s.store.Snapshot(ctx)
	return types.NewBoard(snap.Board, snap.Version, snap.GeneratedAt)
}

// TopN returns the leading n standings.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Standing, error) {
	entries, err := s.store.TopN(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]types.Standing, len(entries))
	for i, e := range entries {
		out[i] = types.NewStanding(e)
	}
	return out, nil
}

// Rank returns the standing of participant.
func (s *Service) Rank(ctx context.Context, participant string) (types.Standing, error) {
	e, err := s.store.Rank(ctx, participant)
	if err != nil {
		return types.Standing{}, err
	}
	return types.NewStanding(e), nil
}

// Standing returns the session user's standing, or the placeholder standing
// when they are not on the board.
func (s *Service) Standing(ctx context.Context) (types.Standing, error) {
	user, err := s.currentUser()
	if err != nil {
		return types.Standing{}, err
	}
	return s.standingOf(ctx, user), nil
}

func (s *Service) standingOf(ctx context.Context, user string) types.Standing {
	st, err := s.Rank(ctx, user)
	if err != nil {
		return types.MissingStanding(user)
	}
	return st
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	ctx := context.Background()
	snap := s.store.Snapshot(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		Participants:     len(snap.Board.Entries),
		TimelineLength:   len(snap.Board.Timeline),
		BoardVersion:     snap.Version,
		LastRefresh:      s.lastRefresh,
		QueueSize:        s.queue.Len(ctx),
		QueueCapacity:    s.queue.Cap(),
		LiveSubscribers:  len(s.subscribers),
		WeighInsAccepted: s.accepted.Load(),
		WeighInsDeduped:  s.deduped.Load(),
	}
	if s.lastRefreshErr != nil {
		stats.LastRefreshError = s.lastRefreshErr.Error()
	}
	return stats
}

// Started reports whether the refresh worker is running.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Calendar returns the challenge calendar.
func (s *Service) Calendar() *challenge.Calendar { return s.calendar }

// TopLimit returns the largest n accepted by TopN.
func (s *Service) TopLimit() int { return s.store.MaxLimit() }

// ChallengeName returns the challenge the session user takes part in.
func (s *Service) ChallengeName() string { return s.challengeName }
