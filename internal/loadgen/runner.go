package loadgen

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/readyrank/pkg/logger"
)

// Run executes the complete load test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting readiness load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("students", config.NumStudents),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Submit score triggers concurrently
	if err := submitTriggers(ctx, config, stats); err != nil {
		return fmt.Errorf("trigger submission failed: %w", err)
	}

	// Step 3: Wait for the workers to drain the queue
	logger.Get().Info(ctx, "waiting for triggers to be processed")
	time.Sleep(ProcessingDelay)

	// Step 4: Force a global rebuild so every score lands in the ranking
	if err := forceGlobalRebuild(ctx, config); err != nil {
		return fmt.Errorf("global rebuild failed: %w", err)
	}

	// Step 5: Retrieve ranks concurrently
	ranks, err := retrieveRanks(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("rank retrieval failed: %w", err)
	}

	// Step 6: Get leaderboard
	leaderboard, err := getLeaderboard(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	// Step 7: Verify results
	if err := verifyResults(ranks, leaderboard, config.Verbose); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "load test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// forceGlobalRebuild posts a synchronous global ranking rebuild.
func forceGlobalRebuild(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/rankings/global"

	resp, err := client.Post(ctx, url, struct{}{})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// displayFinalStats prints the final load test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, triggersPerSecond float64

	if stats.TriggersSubmitted > 0 {
		successRate = float64(stats.TriggersAccepted) / float64(stats.TriggersSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		triggersPerSecond = float64(stats.TriggersSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("triggersSubmitted", stats.TriggersSubmitted),
		logger.Int("triggersAccepted", stats.TriggersAccepted),
		logger.Int("triggersCoalesced", stats.TriggersCoalesced),
		logger.Int("triggersFailed", stats.TriggersFailed),
		logger.Int("ranksRetrieved", stats.RanksRetrieved),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("triggersPerSecond", triggersPerSecond))
}
