package health

import "errors"

var (
	// ErrCheckFailed is reported when a check returns an error.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is reported when a check outlives the probe timeout.
	ErrCheckTimeout = errors.New("health: check timeout")
)
