package testleads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// checkServiceHealth verifies the service answers before the run starts.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(config.BaseURL + "/healthz")
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// outcome of a single score submission.
type outcome struct {
	kind     string // "scored", "duplicate" or "failed"
	contrast float64
}

// submitLeads posts leads concurrently using a worker pool.
func submitLeads(ctx context.Context, config *Config, leads []Lead, stats *Stats) error {
	log.Printf("submitting %d leads with %d workers...", len(leads), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/score"

	var (
		submitted  int64
		scored     int64
		duplicates int64
		failed     int64
	)
	var mu sync.Mutex
	contrastMin := math.Inf(1)
	contrastMax := math.Inf(-1)

	leadChan := make(chan Lead, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for lead := range leadChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				res := submitSingleLead(client, url, lead)

				atomic.AddInt64(&submitted, 1)
				switch res.kind {
				case "scored":
					atomic.AddInt64(&scored, 1)
					mu.Lock()
					if res.contrast < contrastMin {
						contrastMin = res.contrast
					}
					if res.contrast > contrastMax {
						contrastMax = res.contrast
					}
					mu.Unlock()
				case "duplicate":
					atomic.AddInt64(&duplicates, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}

				if config.Verbose {
					log.Printf("progress: %d/%d submitted (scored: %d, duplicate: %d, failed: %d)",
						atomic.LoadInt64(&submitted), len(leads),
						atomic.LoadInt64(&scored), atomic.LoadInt64(&duplicates), atomic.LoadInt64(&failed))
				}
			}
		}()
	}

	go func() {
		defer close(leadChan)
		for _, lead := range leads {
			select {
			case <-ctx.Done():
				return
			case leadChan <- lead:
			}
		}
	}()

	wg.Wait()

	stats.LeadsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.LeadsScored = int(atomic.LoadInt64(&scored))
	stats.DuplicatesReported = int(atomic.LoadInt64(&duplicates))
	stats.Failed = int(atomic.LoadInt64(&failed))
	if stats.LeadsScored > 0 {
		stats.ContrastMin = contrastMin
		stats.ContrastMax = contrastMax
	}

	log.Printf("lead submission completed: scored %d, duplicate %d, failed %d",
		stats.LeadsScored, stats.DuplicatesReported, stats.Failed)
	return nil
}

// submitSingleLead posts one lead and classifies the outcome.
func submitSingleLead(client *HTTPClient, url string, lead Lead) outcome {
	resp, err := client.Post(url, lead)
	if err != nil {
		return outcome{kind: "failed"}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return outcome{kind: "failed"}
	}

	var score ScoreResponse
	if err := json.Unmarshal(body, &score); err != nil {
		return outcome{kind: "failed"}
	}
	if score.IsDuplicate {
		return outcome{kind: "duplicate"}
	}
	return outcome{kind: "scored", contrast: score.Contrast}
}
