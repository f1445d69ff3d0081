// Package worker defines the worker pool that drains recalculation
// triggers into the engine.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/readyrank/internal/adapters/repository"
	"github.com/okian/readyrank/internal/domain/dedupe"
	"github.com/okian/readyrank/internal/domain/model"
	"github.com/okian/readyrank/pkg/logger"
	"github.com/okian/readyrank/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Trigger is what workers read off the queue.
type Trigger = model.Trigger

// Recalculator is the engine surface workers drive. Global recalculation
// returns only a count: its failures are swallowed and logged by contract.
type Recalculator interface {
	RecalculateScore(ctx context.Context, studentID string) (model.ScoreBreakdown, error)
	RecalculateGlobalRankings(ctx context.Context) int
	RecalculateJobRankings(ctx context.Context, jobID string) (int, error)
}

// Queue defines how workers receive triggers and submit follow-up ones.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Trigger
	Enqueue(ctx context.Context, t Trigger) bool
}

// Worker processes triggers until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing recalculation triggers.
type InMemoryWorker struct {
	queue     Queue
	engine    Recalculator
	coalescer dedupe.Coalescer
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, engine Recalculator, coalescer dedupe.Coalescer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		engine:    engine,
		coalescer: coalescer,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	triggers := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case t, ok := <-triggers:
			if !ok {
				return
			}
			if err := w.processTrigger(ctx, t); err != nil {
				w.logger.Error(ctx, "error processing trigger", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processTrigger handles a single trigger.
func (w *InMemoryWorker) processTrigger(ctx context.Context, t Trigger) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerLatency(float64(time.Since(start).Milliseconds()))
	}()

	// Release the coalesce key up front: mutations arriving while this
	// computation runs must be able to queue a fresh trigger.
	w.coalescer.Unrecord(ctx, t.CoalesceKey())

	switch t.Kind {
	case model.TriggerScore:
		_, err := w.engine.RecalculateScore(ctx, t.StudentID)
		if err != nil {
			metrics.RecordWorkerError()
			if errors.Is(err, repository.ErrNotFound) {
				// Student deleted between mutation and processing; nothing to retry.
				w.logger.Warn(ctx, "trigger for unknown student",
					logger.String("studentID", t.StudentID),
				)
				return nil
			}
			return fmt.Errorf("score recalculation for %s: %w", t.StudentID, err)
		}
		w.enqueueGlobalFollowUp(ctx)
		return nil

	case model.TriggerGlobal:
		count := w.engine.RecalculateGlobalRankings(ctx)
		w.logger.Debug(ctx, "global ranking rebuilt", logger.Int("ranked", count))
		return nil

	case model.TriggerJob:
		count, err := w.engine.RecalculateJobRankings(ctx, t.JobID)
		if err != nil {
			metrics.RecordWorkerError()
			return fmt.Errorf("job ranking for %s: %w", t.JobID, err)
		}
		w.logger.Debug(ctx, "job ranking rebuilt",
			logger.String("jobID", t.JobID),
			logger.Int("ranked", count),
		)
		return nil

	default:
		w.logger.Warn(ctx, "unknown trigger kind", logger.String("kind", string(t.Kind)))
		return nil
	}
}

// enqueueGlobalFollowUp queues the best-effort global rebuild that follows
// every score change. Failures are logged and dropped: ranking staleness is
// recoverable on the next mutation.
func (w *InMemoryWorker) enqueueGlobalFollowUp(ctx context.Context) {
	follow := Trigger{
		ID:   uuid.NewString(),
		Kind: model.TriggerGlobal,
		TS:   time.Now(),
	}
	if w.coalescer.SeenAndRecord(ctx, follow.CoalesceKey()) {
		// A global rebuild is already pending; it will cover this change.
		return
	}
	if !w.queue.Enqueue(ctx, follow) {
		w.coalescer.Unrecord(ctx, follow.CoalesceKey())
		metrics.RecordTriggerDropped()
		w.logger.Warn(ctx, "dropped global ranking follow-up on backpressure")
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	engine    Recalculator
	coalescer dedupe.Coalescer

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, engine Recalculator, coalescer dedupe.Coalescer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     queue,
		engine:    engine,
		coalescer: coalescer,
		shutdown:  make(chan struct{}),
		logger:    logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			engine,
			coalescer,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		select {
		case <-worker.shutdown:
			// already signaled
		default:
			close(worker.shutdown)
		}
	}
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and waits for all workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
