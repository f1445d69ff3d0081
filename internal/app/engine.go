// Package app provides the readiness engine facade that implements the
// dependencies required by the HTTP API and the recalculation workers.
package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	triggerqueue "github.com/okian/readyrank/internal/adapters/mq/queue"
	workerpool "github.com/okian/readyrank/internal/adapters/mq/worker"
	repository "github.com/okian/readyrank/internal/adapters/repository"
	"github.com/okian/readyrank/internal/domain/dedupe"
	"github.com/okian/readyrank/internal/domain/model"
	"github.com/okian/readyrank/internal/domain/scoring"
	"github.com/okian/readyrank/internal/domain/weights"
	"github.com/okian/readyrank/pkg/logger"
	"github.com/okian/readyrank/pkg/metrics"
)

// Per-job relevance blend constants.
const (
	relevanceScoreWeight = 0.6
	relevanceSkillWeight = 0.4
	percentScale         = 100
)

// Engine is the readiness scoring and ranking core. It is stateless
// between invocations; all state lives behind the store.
type Engine struct {
	mu sync.RWMutex

	// Core components
	store          repository.Store
	weightProvider weights.Provider
	coalescer      dedupe.Coalescer
	triggerQueue   triggerqueue.Queue
	pool           *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	coalesceSize    int
	weightOverrides map[string]float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithStore injects the persistence gateway. Defaults to a fresh in-memory
// store when unset.
func WithStore(store repository.Store) Option {
	return func(e *Engine) {
		if store != nil {
			e.store = store
		}
	}
}

// WithWeightProvider injects the component weight provider.
func WithWeightProvider(p weights.Provider) Option {
	return func(e *Engine) {
		if p != nil {
			e.weightProvider = p
		}
	}
}

// WithWeightOverrides sets configuration-sourced weight overrides, applied
// only when no explicit provider is injected.
func WithWeightOverrides(overrides map[string]float64) Option {
	return func(e *Engine) {
		e.weightOverrides = overrides
	}
}

// WithWorkerCount sets the number of recalculation workers.
func WithWorkerCount(count int) Option {
	return func(e *Engine) {
		if count > 0 {
			e.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the trigger queue.
func WithQueueSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.queueSize = size
		}
	}
}

// WithCoalesceSize sets the size of the trigger coalescing cache.
func WithCoalesceSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.coalesceSize = size
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(logger logger.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Default sizing constants.
const (
	defaultQueueSize    = 100000
	defaultCoalesceSize = 50000
	workerMultiplier    = 2
)

// New constructs a new Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		workerCount:  runtime.NumCPU() * workerMultiplier,
		queueSize:    defaultQueueSize,
		coalesceSize: defaultCoalesceSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start initializes and starts the engine components.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}

	if e.logger == nil {
		e.logger = logger.Get()
	}

	e.logger.Info(ctx, "starting readiness engine...")

	if e.store == nil {
		e.store = repository.NewMemoryStore()
		e.logger.Info(ctx, "using in-memory store")
	}
	if e.weightProvider == nil {
		e.weightProvider = weights.NewStaticProvider(
			weights.WithOverrides(e.weightOverrides),
		)
	}
	e.coalescer = dedupe.NewInMemoryCoalescer(
		dedupe.WithMaxSize(e.coalesceSize),
	)
	e.triggerQueue = triggerqueue.NewInMemoryQueue(
		triggerqueue.WithCapacity(e.queueSize),
		triggerqueue.WithBufferSize(e.queueSize),
	)

	e.pool = workerpool.NewPool(e.workerCount, e.triggerQueue, e, e.coalescer)
	e.pool.Start(ctx)

	e.started = true
	e.logger.Info(ctx, "readiness engine started",
		logger.Int("workers", e.workerCount),
		logger.Int("queueSize", e.queueSize),
		logger.Int("coalesceSize", e.coalesceSize),
	)

	return nil
}

// Stop gracefully shuts down the engine.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}

	e.logger.Info(context.Background(), "stopping readiness engine...")

	if q, ok := e.triggerQueue.(*triggerqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if e.pool != nil {
		e.pool.Stop()
	}

	e.started = false
	e.logger.Info(context.Background(), "readiness engine stopped")
}

// RecalculateScore recomputes and persists one student's full breakdown.
// Calling it twice with unchanged inputs yields identical values.
func (e *Engine) RecalculateScore(ctx context.Context, studentID string) (model.ScoreBreakdown, error) {
	start := time.Now()
	defer func() {
		metrics.RecordScoreRecalcLatency(float64(time.Since(start).Milliseconds()))
	}()

	student, err := e.store.Student(ctx, studentID)
	if err != nil {
		metrics.RecordScoreRecalculationError()
		return model.ScoreBreakdown{}, fmt.Errorf("load student %s: %w", studentID, err)
	}

	signals, err := e.store.Signals(ctx, studentID)
	if err != nil {
		metrics.RecordScoreRecalculationError()
		return model.ScoreBreakdown{}, fmt.Errorf("load signals for %s: %w", studentID, err)
	}

	componentWeights := e.weightProvider.Weights(ctx)
	components := scoring.All(signals)

	var total float64
	for c, sub := range components {
		total += float64(sub) * componentWeights[c]
	}
	total = round2(total / percentScale)

	completion := int(math.Round(percentScale * float64(student.Profile.FilledFieldCount()) / model.OptionalFieldCount))

	breakdown := model.ScoreBreakdown{
		StudentID:         studentID,
		Components:        components,
		Weights:           componentWeights,
		Total:             total,
		ProfileCompletion: completion,
		CalculatedAt:      time.Now(),
	}

	if err := e.store.SaveBreakdown(ctx, breakdown); err != nil {
		metrics.RecordScoreRecalculationError()
		return model.ScoreBreakdown{}, fmt.Errorf("persist breakdown for %s: %w", studentID, err)
	}

	metrics.RecordScoreRecalculation()
	return breakdown, nil
}

// RecalculateGlobalRankings rebuilds the global ranking partition. Errors
// are swallowed and logged by contract: ranking staleness is tolerable and
// refreshed on the next trigger. Returns the number of students ranked.
func (e *Engine) RecalculateGlobalRankings(ctx context.Context) int {
	start := time.Now()
	defer func() {
		metrics.RecordGlobalRankingLatency(float64(time.Since(start).Milliseconds()))
	}()

	students, err := e.store.EligibleStudents(ctx)
	if err != nil {
		metrics.RecordGlobalRankingError()
		e.logger.Error(ctx, "global ranking: eligible student fetch failed", logger.Error(err))
		return 0
	}
	if len(students) == 0 {
		return 0
	}

	now := time.Now()
	entries := make([]model.RankingEntry, len(students))
	rank := 1
	for i, st := range students {
		if i > 0 && st.ReadinessScore < students[i-1].ReadinessScore {
			rank = i + 1
		}
		entries[i] = model.RankingEntry{
			StudentID:    st.ID,
			Rank:         rank,
			Score:        st.ReadinessScore,
			CalculatedAt: now,
		}
	}

	if err := e.store.ReplaceGlobalRanks(ctx, entries); err != nil {
		metrics.RecordGlobalRankingError()
		e.logger.Error(ctx, "global ranking: replace failed", logger.Error(err))
		return 0
	}

	metrics.RecordGlobalRankingRebuild()
	return len(entries)
}

// jobCandidate pairs a student with the computed job relevance.
type jobCandidate struct {
	studentID string
	relevance float64
}

// RecalculateJobRankings rebuilds one job's relevance ranking. An unknown
// job or an empty candidate set returns 0 without error; persistence
// failures propagate.
func (e *Engine) RecalculateJobRankings(ctx context.Context, jobID string) (int, error) {
	job, err := e.store.Job(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("load job %s: %w", jobID, err)
	}

	students, err := e.store.EligibleStudents(ctx)
	if err != nil {
		return 0, fmt.Errorf("load candidates for job %s: %w", jobID, err)
	}

	candidates := make([]jobCandidate, 0, len(students))
	for _, st := range students {
		if st.ReadinessScore < job.MinScore {
			continue
		}
		signals, err := e.store.Signals(ctx, st.ID)
		if err != nil {
			return 0, fmt.Errorf("load signals for candidate %s: %w", st.ID, err)
		}
		matching := scoring.MatchingSkillCount(signals.Skills, job.RequiredSkills)
		ratio := float64(matching) / math.Max(1, float64(len(job.RequiredSkills)))
		skillScore := math.Min(ratio*percentScale, percentScale)
		relevance := round2(st.ReadinessScore*relevanceScoreWeight + skillScore*relevanceSkillWeight)
		candidates = append(candidates, jobCandidate{studentID: st.ID, relevance: relevance})
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].relevance != candidates[j].relevance {
			return candidates[i].relevance > candidates[j].relevance
		}
		return candidates[i].studentID < candidates[j].studentID
	})

	now := time.Now()
	rank := 1
	for i, c := range candidates {
		if i > 0 && c.relevance < candidates[i-1].relevance {
			rank = i + 1
		}
		entry := model.RankingEntry{
			StudentID:    c.studentID,
			JobID:        &job.ID,
			Rank:         rank,
			Score:        c.relevance,
			CalculatedAt: now,
		}
		if err := e.store.UpsertJobRank(ctx, entry); err != nil {
			return i, fmt.Errorf("upsert job rank for %s: %w", c.studentID, err)
		}
		metrics.RecordJobRankUpsert()
	}

	metrics.RecordJobRankingRebuild()
	return len(candidates), nil
}

// GetStudentGlobalRank returns a student's global position. A student with
// no ranking entry, or an empty population, yields nil Rank and Percentile
// rather than an error.
func (e *Engine) GetStudentGlobalRank(ctx context.Context, studentID string) (model.GlobalRank, error) {
	entry, total, err := e.store.GlobalRank(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.GlobalRank{TotalEligible: total}, nil
		}
		return model.GlobalRank{}, fmt.Errorf("load global rank for %s: %w", studentID, err)
	}
	if total == 0 {
		return model.GlobalRank{}, nil
	}

	rank := entry.Rank
	percentile := int(math.Round(percentScale * float64(total-rank) / float64(total)))
	return model.GlobalRank{
		Rank:          &rank,
		Score:         entry.Score,
		TotalEligible: total,
		Percentile:    &percentile,
	}, nil
}

// ScoreLabel buckets a readiness score into a user-facing quality label.
func (e *Engine) ScoreLabel(score float64) string {
	return scoring.ScoreLabel(score)
}

// ReadinessClassification buckets a readiness score into a placement stage.
func (e *Engine) ReadinessClassification(score float64) string {
	return scoring.ReadinessClassification(score)
}

// Breakdown returns the last persisted breakdown for a student.
func (e *Engine) Breakdown(ctx context.Context, studentID string) (model.ScoreBreakdown, error) {
	return e.store.Breakdown(ctx, studentID)
}

// SeenAndRecord atomically checks whether an equivalent trigger is already
// pending and records it if not. Returns true if it was already pending.
func (e *Engine) SeenAndRecord(ctx context.Context, key string) bool {
	seen := e.coalescer.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordTriggerCoalesced()
	}
	return seen
}

// Unrecord releases a pending trigger key so it can be resubmitted.
func (e *Engine) Unrecord(ctx context.Context, key string) {
	e.coalescer.Unrecord(ctx, key)
}

// Enqueue submits a trigger for asynchronous processing. Returns false on
// backpressure.
func (e *Engine) Enqueue(ctx context.Context, t model.Trigger) bool {
	ok := e.triggerQueue.Enqueue(ctx, t)
	if ok {
		metrics.RecordTriggerAccepted()
		metrics.UpdateQueueSize(e.triggerQueue.Len(ctx))
	} else {
		metrics.RecordTriggerDropped()
	}
	return ok
}

// TopN returns the top N global ranking entries.
func (e *Engine) TopN(ctx context.Context, n int) ([]model.RankingEntry, error) {
	return e.store.TopN(ctx, n)
}

// GetStats returns engine statistics for monitoring.
func (e *Engine) GetStats() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      e.started,
		"workerCount":  e.workerCount,
		"queueSize":    e.queueSize,
		"coalesceSize": e.coalesceSize,
	}

	if e.started {
		queueLen := e.triggerQueue.Len(ctx)
		totalStudents := e.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalStudents"] = totalStudents
		stats["pendingTriggers"] = e.coalescer.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalStudents(totalStudents)
	}

	return stats
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*percentScale) / percentScale
}
