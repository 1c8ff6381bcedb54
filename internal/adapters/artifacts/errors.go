package artifacts

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrNoBundle indicates no published bundle exists in the artifact dir.
	ErrNoBundle = errors.New("no artifact bundle found")
	// ErrCorruptBundle indicates a bundle that decoded but fails internal
	// consistency checks.
	ErrCorruptBundle = errors.New("corrupt artifact bundle")
	// ErrLockTimeout indicates the build lock could not be acquired in time.
	ErrLockTimeout = errors.New("timed out waiting for build lock")
)
