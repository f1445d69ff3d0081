// Package repository defines the persistence gateway contracts for score
// breakdowns and ranking entries, plus an in-memory reference
// implementation. The engine writes through these interfaces and owns no
// consistency beyond last-write-wins.
package repository

import (
	"context"

	"github.com/okian/readyrank/internal/domain/model"
)

// Store is the durable gateway the engine reads signals from and writes
// scores and ranks to.
type Store interface {
	// Student returns the denormalized student record.
	// Returns ErrNotFound for unknown or deleted students.
	Student(ctx context.Context, studentID string) (model.Student, error)

	// Signals returns the raw signal snapshot for one student. A student
	// with no recorded activity yields a zero-valued bundle, not an error.
	Signals(ctx context.Context, studentID string) (model.StudentSignals, error)

	// Job returns a job posting. Returns ErrNotFound for unknown jobs.
	Job(ctx context.Context, jobID string) (model.Job, error)

	// EligibleStudents returns all active students ordered by readiness
	// score descending.
	EligibleStudents(ctx context.Context) ([]model.Student, error)

	// SaveBreakdown upserts the breakdown and updates the student's
	// denormalized readiness score and profile completion in the same
	// write.
	SaveBreakdown(ctx context.Context, b model.ScoreBreakdown) error

	// Breakdown returns the last persisted breakdown for a student.
	Breakdown(ctx context.Context, studentID string) (model.ScoreBreakdown, error)

	// ReplaceGlobalRanks atomically replaces the entire global ranking
	// partition: readers never observe a partially replaced table.
	ReplaceGlobalRanks(ctx context.Context, entries []model.RankingEntry) error

	// UpsertJobRank upserts a single (student, job) ranking entry. Writes
	// to the same key serialize.
	UpsertJobRank(ctx context.Context, entry model.RankingEntry) error

	// GlobalRank returns a student's global ranking entry along with the
	// size of the ranked population. Returns ErrNotFound when the student
	// has no entry.
	GlobalRank(ctx context.Context, studentID string) (model.RankingEntry, int, error)

	// TopN returns the first n entries of the global partition.
	TopN(ctx context.Context, n int) ([]model.RankingEntry, error)

	// Count returns the number of students tracked by the store.
	Count(ctx context.Context) int
}
