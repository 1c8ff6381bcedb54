package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/leadrank/internal/testleads"
)

// Default configuration constants.
const (
	defaultNumLeads       = 1000
	defaultDuplicateRatio = 0.1
	defaultWorkers        = 2 // multiplier for runtime.NumCPU()
	defaultTimeout        = 30 * time.Second
	defaultTestTimeout    = 10 * time.Minute
)

// stringList collects repeatable string flags.
type stringList []string

func (s *stringList) String() string { return "" }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var knownEmails stringList
	var (
		baseURL        = flag.String("url", "http://localhost:9090", "Base URL of the service")
		numLeads       = flag.Int("leads", defaultNumLeads, "Number of synthetic leads to submit")
		workers        = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		duplicateRatio = flag.Float64("duplicate-ratio", defaultDuplicateRatio, "Fraction of leads reusing a known email")
		timeout        = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile        = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging")
		help           = flag.Bool("help", false, "Show help")
	)
	flag.Var(&knownEmails, "known-email", "Known customer email; repeatable")
	flag.Parse()

	if *help {
		testleads.ShowHelp()
		return
	}

	// Setup logging
	if err := testleads.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &testleads.Config{
		BaseURL:        *baseURL,
		NumLeads:       *numLeads,
		DuplicateRatio: *duplicateRatio,
		KnownEmails:    knownEmails,
		Workers:        *workers,
		Timeout:        *timeout,
		LogFile:        *logFile,
		Verbose:        *verbose,
	}

	// Run the test
	if err := testleads.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
