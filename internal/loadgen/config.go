package loadgen

import "time"

// Config holds configuration for the load test run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumStudents int           // Number of seeded students to exercise
	TopN        int           // Number of top entries to fetch
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// TriggerRequest mirrors the POST /triggers payload.
type TriggerRequest struct {
	TriggerID string `json:"trigger_id"`
	Kind      string `json:"kind"`
	StudentID string `json:"student_id,omitempty"`
	JobID     string `json:"job_id,omitempty"`
	TS        string `json:"ts"`
}

// AckResponse is the trigger submission acknowledgement.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// RankEntry is a student's global rank lookup result.
type RankEntry struct {
	StudentID     string  `json:"student_id"`
	Rank          *int    `json:"rank"`
	Score         float64 `json:"score"`
	TotalEligible int     `json:"total_eligible"`
	Percentile    *int    `json:"percentile"`
}

// LeaderboardRow is one global leaderboard entry.
type LeaderboardRow struct {
	StudentID string  `json:"student_id"`
	Rank      int     `json:"rank"`
	Score     float64 `json:"score"`
}

// leaderboardResponse wraps the /leaderboard payload.
type leaderboardResponse struct {
	Entries []LeaderboardRow `json:"entries"`
}

// Stats holds load test statistics.
type Stats struct {
	TriggersSubmitted  int
	TriggersAccepted   int
	TriggersCoalesced  int
	TriggersFailed     int
	RanksRetrieved     int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
