package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/readyrank/internal/domain/model"
	"github.com/okian/readyrank/pkg/metrics"
)

// MemoryStore is the in-memory reference implementation of Store. All
// multi-row operations run under one write lock, which is what gives
// SaveBreakdown and ReplaceGlobalRanks their transactional behavior.
type MemoryStore struct {
	mu sync.RWMutex

	students   map[string]model.Student
	signals    map[string]model.StudentSignals
	jobs       map[string]model.Job
	breakdowns map[string]model.ScoreBreakdown

	// globalRanks is sorted by rank ascending; globalIndex maps studentID
	// to its position. jobRanks is jobID -> studentID -> entry.
	globalRanks []model.RankingEntry
	globalIndex map[string]int
	jobRanks    map[string]map[string]model.RankingEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		students:    make(map[string]model.Student),
		signals:     make(map[string]model.StudentSignals),
		jobs:        make(map[string]model.Job),
		breakdowns:  make(map[string]model.ScoreBreakdown),
		globalIndex: make(map[string]int),
		jobRanks:    make(map[string]map[string]model.RankingEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Student returns the denormalized student record.
func (s *MemoryStore) Student(_ context.Context, studentID string) (model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[studentID]
	if !ok || st.Status == model.StatusDeleted {
		return model.Student{}, ErrNotFound
	}
	return st, nil
}

// Signals returns the signal snapshot for a student. Students without any
// recorded activity get an empty bundle.
func (s *MemoryStore) Signals(_ context.Context, studentID string) (model.StudentSignals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signals[studentID], nil
}

// Job returns a job posting.
func (s *MemoryStore) Job(_ context.Context, jobID string) (model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return model.Job{}, ErrNotFound
	}
	return j, nil
}

// EligibleStudents returns active students ordered by readiness score
// descending, ID ascending among ties for determinism.
func (s *MemoryStore) EligibleStudents(_ context.Context) ([]model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Student, 0, len(s.students))
	for _, st := range s.students {
		if st.Eligible() {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReadinessScore != out[j].ReadinessScore {
			return out[i].ReadinessScore > out[j].ReadinessScore
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveBreakdown upserts the breakdown and denormalizes the score onto the
// student row under a single lock acquisition.
func (s *MemoryStore) SaveBreakdown(_ context.Context, b model.ScoreBreakdown) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[b.StudentID]
	if !ok || st.Status == model.StatusDeleted {
		return ErrNotFound
	}

	s.breakdowns[b.StudentID] = b
	st.ReadinessScore = b.Total
	st.ProfileCompletion = b.ProfileCompletion
	s.students[b.StudentID] = st

	metrics.RecordStoreWrite()
	return nil
}

// Breakdown returns the last persisted breakdown.
func (s *MemoryStore) Breakdown(_ context.Context, studentID string) (model.ScoreBreakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.breakdowns[studentID]
	if !ok {
		return model.ScoreBreakdown{}, ErrNotFound
	}
	return b, nil
}

// ReplaceGlobalRanks swaps the whole global partition in one critical
// section. Stale entries for students that left the eligible set cannot
// survive a replace.
func (s *MemoryStore) ReplaceGlobalRanks(_ context.Context, entries []model.RankingEntry) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	ranks := make([]model.RankingEntry, len(entries))
	copy(ranks, entries)
	index := make(map[string]int, len(ranks))
	for i, e := range ranks {
		index[e.StudentID] = i
	}

	s.globalRanks = ranks
	s.globalIndex = index

	metrics.RecordStoreWrite()
	metrics.UpdateRankedStudents(len(ranks))
	return nil
}

// UpsertJobRank upserts one (student, job) entry. The store lock serializes
// concurrent writes to the same key.
func (s *MemoryStore) UpsertJobRank(_ context.Context, entry model.RankingEntry) error {
	if entry.JobID == nil {
		return ErrPersistence
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	part, ok := s.jobRanks[*entry.JobID]
	if !ok {
		part = make(map[string]model.RankingEntry)
		s.jobRanks[*entry.JobID] = part
	}
	part[entry.StudentID] = entry

	metrics.RecordStoreWrite()
	return nil
}

// GlobalRank returns a student's entry and the ranked population size.
func (s *MemoryStore) GlobalRank(_ context.Context, studentID string) (model.RankingEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.globalRanks)
	i, ok := s.globalIndex[studentID]
	if !ok {
		return model.RankingEntry{}, total, ErrNotFound
	}
	return s.globalRanks[i], total, nil
}

// TopN returns the first n global entries.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]model.RankingEntry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.globalRanks) {
		n = len(s.globalRanks)
	}
	out := make([]model.RankingEntry, n)
	copy(out, s.globalRanks[:n])
	return out, nil
}

// Count returns the number of non-deleted students.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, st := range s.students {
		if st.Status != model.StatusDeleted {
			n++
		}
	}
	return n
}

// JobRanks returns a copy of one job's ranking partition, ordered by rank.
// Used by the HTTP layer and tests; not part of the engine-facing Store.
func (s *MemoryStore) JobRanks(_ context.Context, jobID string) []model.RankingEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	part := s.jobRanks[jobID]
	out := make([]model.RankingEntry, 0, len(part))
	for _, e := range part {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].StudentID < out[j].StudentID
	})
	return out
}

// UpsertStudent inserts or replaces a student record.
func (s *MemoryStore) UpsertStudent(_ context.Context, st model.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[st.ID] = st
}

// PutSignals replaces the signal snapshot for a student.
func (s *MemoryStore) PutSignals(_ context.Context, studentID string, sig model.StudentSignals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals[studentID] = sig
}

// UpsertJob inserts or replaces a job posting.
func (s *MemoryStore) UpsertJob(_ context.Context, j model.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
}

// DeleteStudent removes the student and every derived record: signals,
// breakdown, and all ranking entries.
func (s *MemoryStore) DeleteStudent(_ context.Context, studentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.students, studentID)
	delete(s.signals, studentID)
	delete(s.breakdowns, studentID)

	if i, ok := s.globalIndex[studentID]; ok {
		s.globalRanks = append(s.globalRanks[:i], s.globalRanks[i+1:]...)
		delete(s.globalIndex, studentID)
		for j := i; j < len(s.globalRanks); j++ {
			s.globalIndex[s.globalRanks[j].StudentID] = j
		}
	}
	for _, part := range s.jobRanks {
		delete(part, studentID)
	}
}
