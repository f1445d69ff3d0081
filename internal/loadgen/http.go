package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitTriggers submits score triggers for every seeded student
// concurrently using a worker pool.
func submitTriggers(ctx context.Context, config *Config, stats *Stats) error {
	log.Printf("submitting %d score triggers with %d workers", config.NumStudents, config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/triggers"

	var (
		accepted  int64
		coalesced int64
		failed    int64
		submitted int64
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
					result := submitSingleTrigger(ctx, client, url, StudentID(index))

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "coalesced":
						atomic.AddInt64(&coalesced, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						log.Printf("progress: %d/%d submitted (accepted: %d, coalesced: %d, failed: %d)",
							atomic.LoadInt64(&submitted), config.NumStudents,
							atomic.LoadInt64(&accepted), atomic.LoadInt64(&coalesced), atomic.LoadInt64(&failed))
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

	stats.TriggersSubmitted = int(atomic.LoadInt64(&submitted))
	stats.TriggersAccepted = int(atomic.LoadInt64(&accepted))
	stats.TriggersCoalesced = int(atomic.LoadInt64(&coalesced))
	stats.TriggersFailed = int(atomic.LoadInt64(&failed))

	log.Printf("trigger submission completed: accepted=%d coalesced=%d failed=%d",
		stats.TriggersAccepted, stats.TriggersCoalesced, stats.TriggersFailed)

	return nil
}

// submitSingleTrigger submits one score trigger and classifies the outcome.
func submitSingleTrigger(ctx context.Context, client *HTTPClient, url, studentID string) string {
	req := TriggerRequest{
		TriggerID: uuid.NewString(),
		Kind:      "score",
		StudentID: studentID,
		TS:        time.Now().UTC().Format(time.RFC3339),
	}

	resp, err := client.Post(ctx, url, req)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		return "accepted"
	case StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "coalesced"
		}
		return "coalesced"
	default:
		return "failed"
	}
}
