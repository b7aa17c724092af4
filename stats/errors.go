package stats

import "errors"

// Monitor lifecycle errors
var (
	// ErrAlreadyRunning is returned when Start is called on a running monitor
	ErrAlreadyRunning = errors.New("monitor is already running")
	// ErrInvalidInterval is returned when the report interval is not positive
	ErrInvalidInterval = errors.New("report interval must be positive")
)

// Attachment errors
var (
	// ErrNilPlayer is returned when attaching to a nil player
	ErrNilPlayer = errors.New("player cannot be nil")
	// ErrAlreadyAttached is returned when the monitor already observes a player
	ErrAlreadyAttached = errors.New("monitor is already attached to a player")
)
