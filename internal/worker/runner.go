// Package worker delivers scored submissions in the background: report email,
// optional AI cover note and CRM sync. It is decoupled from the HTTP layer:
// the api package holds a worker.Enqueuer and calls Enqueue, never importing
// the concrete Runner or Job types.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nyashahama/ai-readiness-assessments/internal/store"
)

// ─── ENQUEUER INTERFACE ───────────────────────────────────────────────────────

// Enqueuer is the narrow interface the api package uses to hand off delivery
// once a submission is stored. In tests any struct with an Enqueue method
// satisfies it.
type Enqueuer interface {
	Enqueue(ctx context.Context, submissionID uuid.UUID) error
}

// ErrQueueFull is returned by Enqueue when the in-process queue is saturated.
// The row stays pending and the poller picks it up.
var ErrQueueFull = errors.New("worker: queue is full, submission will be picked up by poller")

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters. Zero fields take the defaults from
// DefaultRunnerConfig.
type RunnerConfig struct {
	// Workers is the number of concurrent delivery goroutines.
	Workers int

	// PollInterval is how often the recovery poller looks for pending rows
	// the channel missed (for example after a restart).
	PollInterval time.Duration

	// JobTimeout bounds one delivery, including the advisor call.
	JobTimeout time.Duration

	// PollBatch caps how many pending rows one poll enqueues.
	PollBatch int

	// StaleAfter is how long a row may sit in processing before the poller
	// puts it back to pending. Defaults to JobTimeout plus the outcome write
	// allowance.
	StaleAfter time.Duration
}

// DefaultRunnerConfig returns production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:      3,
		PollInterval: 30 * time.Second,
		JobTimeout:   2 * time.Minute,
		PollBatch:    50,
	}
}

// Runner manages a pool of delivery goroutines fed by an in-process channel
// (fast path, new submissions) and a database poller (recovery path).
// Deliveries are attempted once; failures are recorded and wait for an
// operator requeue. A delivery interrupted before its outcome was written is
// reclaimed by the poller once it is StaleAfter old.
type Runner struct {
	job    *Job
	store  *store.Store
	cfg    RunnerConfig
	logger *slog.Logger

	queue chan uuid.UUID
	wg    sync.WaitGroup
}

// NewRunner constructs a Runner. Call Start to begin processing.
func NewRunner(job *Job, st *store.Store, cfg RunnerConfig, logger *slog.Logger) *Runner {
	def := DefaultRunnerConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	if cfg.PollBatch <= 0 {
		cfg.PollBatch = def.PollBatch
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = cfg.JobTimeout + finishTimeout
	}

	return &Runner{
		job:    job,
		store:  st,
		cfg:    cfg,
		logger: logger,
		queue:  make(chan uuid.UUID, cfg.Workers*4),
	}
}

// Enqueue pushes a submission id onto the queue without blocking the caller.
func (r *Runner) Enqueue(_ context.Context, submissionID uuid.UUID) error {
	select {
	case r.queue <- submissionID:
		r.logger.Debug("worker: enqueued submission", "submission_id", submissionID)
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the pool and the poller and blocks until ctx is cancelled.
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers, "poll_interval", r.cfg.PollInterval)

	for i := range r.cfg.Workers {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	r.wg.Add(1)
	go r.poll(ctx)

	r.wg.Wait()
	r.logger.Info("worker: stopped")
}

func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)

	for {
		select {
		case <-ctx.Done():
			return
		case submissionID := <-r.queue:
			r.runOnce(ctx, submissionID, log)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, submissionID uuid.UUID, log *slog.Logger) {
	jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
	defer cancel()

	if err := r.job.Run(jobCtx, submissionID); err != nil {
		log.Error("worker: delivery failed", "submission_id", submissionID, "error", err)
	}
}

// poll runs once immediately, to pick up anything left from before a
// restart, then on every tick.
func (r *Runner) poll(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	r.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pollOnce(ctx)
		}
	}
}

func (r *Runner) pollOnce(ctx context.Context) {
	if n, err := r.store.ReclaimStale(ctx, time.Now().Add(-r.cfg.StaleAfter)); err != nil {
		if ctx.Err() == nil {
			r.logger.Error("worker: reclaim stale deliveries failed", "error", err)
		}
	} else if n > 0 {
		r.logger.Warn("worker: reclaimed stale deliveries", "count", n)
	}

	ids, err := r.store.ListPending(ctx, r.cfg.PollBatch)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("worker: poll failed", "error", err)
		}
		return
	}
	for _, id := range ids {
		select {
		case r.queue <- id:
			r.logger.Debug("worker: poller enqueued submission", "submission_id", id)
		default:
			// Queue full; the next poll picks it up.
			return
		}
	}
}
