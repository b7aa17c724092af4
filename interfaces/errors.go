package interfaces

import "errors"

// Event errors.
var (
	// ErrUnknownState is returned when a playback state name is not recognized.
	ErrUnknownState = errors.New("unknown playback state")
)

// Options errors.
var (
	// ErrUnknownBackend is returned when a backend name is not recognized.
	ErrUnknownBackend = errors.New("unknown decoder backend")

	// ErrInvalidBitrate is returned when an initial bitrate is negative.
	ErrInvalidBitrate = errors.New("initial bitrate cannot be negative")

	// ErrInvalidBandwidthFraction is returned when the bandwidth fraction is
	// outside (0, 1].
	ErrInvalidBandwidthFraction = errors.New("bandwidth fraction must be in (0, 1]")
)
