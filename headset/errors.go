package headset

import "errors"

// Recorder state errors
var (
	// ErrNotStopped is returned when recording, playback or I/O is started
	// while the recorder is busy
	ErrNotStopped = errors.New("recorder must be stopped first")
	// ErrNoHeadingSource is returned when Record has no heading source
	ErrNoHeadingSource = errors.New("heading source is required")
	// ErrNoPlayback is returned when Play has no playback callback
	ErrNoPlayback = errors.New("playback callback is required")
)

// Recording format errors
var (
	// ErrMismatchedSample is returned when a recorded sample lacks its timing
	// or its heading
	ErrMismatchedSample = errors.New("sample must have both a time and a heading")
	// ErrNegativeTiming is returned for a sample recorded before its
	// predecessor
	ErrNegativeTiming = errors.New("sample time cannot be negative")
)
