// Package worker runs leaderboard refreshes off the request path.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/prochallenge/internal/adapters/mq/queue"
	"github.com/okian/prochallenge/pkg/logger"
	"github.com/okian/prochallenge/pkg/metrics"
)

// Refresher recomputes the board.
type Refresher interface {
	Refresh(ctx context.Context, reason string) error
}

// Queue defines how the worker receives jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.RefreshJob
}

// Worker processes refresh jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// RefreshWorker is a single consumer so refreshes never overlap.
type RefreshWorker struct {
	queue     Queue
	refresher Refresher
	name      string
	interval  time.Duration
	now       func() time.Time

	processed atomic.Int64
	failed    atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewRefreshWorker creates a worker bound to q and r.
func NewRefreshWorker(q Queue, r Refresher, opts ...Option) *RefreshWorker {
	w := &RefreshWorker{
		queue:     q,
		refresher: r,
		name:      "refresh",
		now:       time.Now,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "refresh" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *RefreshWorker) Run(ctx context.Context) {
	defer close(w.done)

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case <-tick:
			w.process(ctx, queue.NewRefreshJob(queue.ReasonInterval, w.now()))
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown stops the worker.
func (w *RefreshWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Processed returns the number of jobs handled, failed ones included.
func (w *RefreshWorker) Processed() int64 { return w.processed.Load() }

// Failed returns the number of jobs whose refresh returned an error.
func (w *RefreshWorker) Failed() int64 { return w.failed.Load() }

func (w *RefreshWorker) process(ctx context.Context, job queue.RefreshJob) {
	defer w.processed.Add(1)

	if err := w.refresher.Refresh(ctx, job.Reason); err != nil {
		w.failed.Add(1)
		metrics.RecordErrorByComponent("worker", "refresh_error")
		w.logger.Error(ctx, "refresh failed",
			logger.String("job", job.ID.String()),
			logger.String("reason", job.Reason),
			logger.Error(err),
		)
		return
	}
	w.logger.Debug(ctx, "refresh done",
		logger.String("job", job.ID.String()),
		logger.String("reason", job.Reason),
		logger.Duration("waited", w.now().Sub(job.RequestedAt)),
	)
}
