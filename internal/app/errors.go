package service

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrNotStarted indicates a scoring request reached the service before
	// Start completed.
	ErrNotStarted = errors.New("service not started")
	// ErrArtifactMismatch indicates the loaded bundle was built in a
	// different embedding space than the encoder constructed at startup.
	ErrArtifactMismatch = errors.New("artifact bundle does not match encoder setup")
)
