package testleads

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/leadrank/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "test_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the test leads tool.
func ShowHelp() {
	os.Stdout.WriteString(`Leadrank Scoring Test Tool
==========================

A concurrent smoke test for the lead-scoring service.

Usage:
  go run cmd/test-leads/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -leads int
        Number of synthetic leads to submit (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -duplicate-ratio float
        Fraction of leads reusing a known email (default 0.1)
  -known-email value
        Known customer email; repeatable. Required for duplicate checks.
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for test output (default: test_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Smoke test with default settings
  go run cmd/test-leads/main.go

  # Heavier run against a remote instance
  go run cmd/test-leads/main.go -leads 50000 -workers 16 -url http://scoring:9090

  # Exercise the duplicate gate
  go run cmd/test-leads/main.go -known-email ada@example.com -duplicate-ratio 0.2
`)
}
