package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveRanks retrieves global ranks for all seeded students concurrently.
func retrieveRanks(ctx context.Context, config *Config, stats *Stats) ([]RankEntry, error) {
	log.Printf("retrieving ranks for %d students with %d workers", config.NumStudents, config.Workers)

	client := newHTTPClient(config.Timeout)

	ranks := make([]RankEntry, config.NumStudents)
	var (
		retrieved int64
		failed    int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					entry, err := retrieveSingleRank(ctx, client, config.BaseURL, StudentID(index))
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("failed to get rank for %s: %v", StudentID(index), err)
						}
					} else {
						ranks[index] = entry
						atomic.AddInt64(&retrieved, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						log.Printf("rank progress: %d/%d retrieved (failed: %d)",
							atomic.LoadInt64(&retrieved)+atomic.LoadInt64(&failed),
							config.NumStudents, atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := 0; i < config.NumStudents; i++ {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	// Filter out failed retrievals and students without a rank yet.
	valid := make([]RankEntry, 0, len(ranks))
	for _, entry := range ranks {
		if entry.StudentID != "" && entry.Rank != nil {
			valid = append(valid, entry)
		}
	}

	stats.RanksRetrieved = len(valid)
	log.Printf("rank retrieval completed: retrieved=%d failed=%d", len(valid), int(atomic.LoadInt64(&failed)))

	return valid, nil
}

// retrieveSingleRank retrieves the global rank of a single student.
func retrieveSingleRank(ctx context.Context, client *HTTPClient, baseURL, studentID string) (RankEntry, error) {
	url := fmt.Sprintf("%s/students/%s/rank", baseURL, studentID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return RankEntry{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return RankEntry{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return RankEntry{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var entry RankEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return RankEntry{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return entry, nil
}

// getLeaderboard retrieves the top N leaderboard entries.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]LeaderboardRow, error) {
	log.Printf("getting top %d leaderboard entries", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var lb leaderboardResponse
	if err := json.Unmarshal(body, &lb); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.LeaderboardEntries = len(lb.Entries)
	log.Printf("retrieved %d leaderboard entries", len(lb.Entries))

	return lb.Entries, nil
}
