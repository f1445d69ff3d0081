package model

import "time"

// RankingEntry is one row of a ranking partition. JobID == nil denotes the
// global partition; otherwise the entry belongs to that job's relevance
// ranking. Within a partition the entries form a dense competition ranking:
// tied scores share a rank and the next distinct score takes its absolute
// 1-based position.
type RankingEntry struct {
	StudentID    string
	JobID        *string
	Rank         int
	Score        float64
	CalculatedAt time.Time
}

// GlobalRank is the lookup result for a single student's global position.
// Rank and Percentile are nil when the student has no ranking entry or the
// eligible population is empty.
type GlobalRank struct {
	Rank          *int
	Score         float64
	TotalEligible int
	Percentile    *int
}

// TriggerKind selects which recomputation a trigger requests.
type TriggerKind string

// Trigger kinds accepted by the recalculation queue.
const (
	TriggerScore  TriggerKind = "score"
	TriggerGlobal TriggerKind = "global"
	TriggerJob    TriggerKind = "job"
)

// Trigger is a fire-and-forget recomputation request. StudentID is set for
// score triggers, JobID for job triggers; global triggers carry neither.
type Trigger struct {
	ID        string
	Kind      TriggerKind
	StudentID string
	JobID     string
	TS        time.Time
}

// CoalesceKey is the dedupe key under which pending triggers collapse.
// A burst of mutations for one student yields a single queued recalculation.
func (t Trigger) CoalesceKey() string {
	switch t.Kind {
	case TriggerScore:
		return "score:" + t.StudentID
	case TriggerJob:
		return "job:" + t.JobID
	default:
		return "global"
	}
}
