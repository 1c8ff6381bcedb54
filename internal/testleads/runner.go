package testleads

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/okian/leadrank/pkg/logger"
)

// Run executes the complete scoring smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting lead-scoring test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("leads", config.NumLeads),
		logger.Int("workers", config.Workers),
		logger.Float64("duplicateRatio", config.DuplicateRatio),
		logger.String("timeout", config.Timeout.String()))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate synthetic leads
	leads := generateLeads(ctx, config, stats)

	// Step 3: Submit leads concurrently
	if err := submitLeads(ctx, config, leads, stats); err != nil {
		return fmt.Errorf("lead submission failed: %w", err)
	}

	// Step 4: Sanity-check outcomes
	if err := verifyResults(config, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)
	return nil
}

// verifyResults applies basic expectations to the run outcome.
func verifyResults(config *Config, stats *Stats) error {
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d submissions failed", stats.Failed, stats.LeadsSubmitted)
	}
	if stats.LeadsSubmitted != stats.LeadsGenerated {
		return fmt.Errorf("submitted %d of %d generated leads", stats.LeadsSubmitted, stats.LeadsGenerated)
	}
	// With known emails configured and a positive ratio, at least one
	// duplicate verdict is expected on any non-trivial run.
	if len(config.KnownEmails) > 0 && config.DuplicateRatio > 0 &&
		stats.LeadsSubmitted >= 100 && stats.DuplicatesReported == 0 {
		return fmt.Errorf("expected duplicate verdicts but saw none")
	}
	return nil
}

// displayFinalStats prints the run summary.
func displayFinalStats(stats *Stats) {
	log.Printf(`scoring test completed in %s:
   Generated:  %d
   Scored:     %d
   Duplicates: %d
   Failed:     %d
   Contrast:   [%.4f, %.4f]
`, stats.Duration.Round(time.Millisecond),
		stats.LeadsGenerated, stats.LeadsScored, stats.DuplicatesReported,
		stats.Failed, stats.ContrastMin, stats.ContrastMax)
}
