// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Default sizing constants.
const (
	defaultQueueSize           = 100_000
	defaultCoalesceSize        = 500_000
	defaultMaxLeaderboardLimit = 100
	workerCPUMultiplier        = 4
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TriggerQueueSize bounds the in-memory recalculation trigger queue.
	TriggerQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of recalculation workers.
	WorkerCount int `koanf:"worker_count"`

	// CoalesceSize bounds the pending-trigger coalescing cache.
	CoalesceSize int `koanf:"coalesce_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// ComponentWeights overrides the default component weight set. Keys
	// are component names (coding_practice, projects, ...); missing keys
	// keep their defaults.
	ComponentWeights map[string]float64 `koanf:"component_weights"`

	// SeedStudents generates that many synthetic students at startup.
	// Intended for demos and load testing; zero disables seeding.
	SeedStudents int `koanf:"seed_students"`

	// SeedJobs generates that many synthetic jobs at startup.
	SeedJobs int `koanf:"seed_jobs"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		TriggerQueueSize:    defaultQueueSize,
		WorkerCount:         runtime.NumCPU() * workerCPUMultiplier,
		CoalesceSize:        defaultCoalesceSize,
		MaxLeaderboardLimit: defaultMaxLeaderboardLimit,
		ComponentWeights:    map[string]float64{},
	}
}
