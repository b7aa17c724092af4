package player

import "errors"

// Contract errors. Calling an operation in the wrong state, or a decoder
// failing to provide what Ready requires, is a programmer error.
var (
	// ErrInvalidState is returned when an operation is not legal in the
	// current ready state.
	ErrInvalidState = errors.New("operation not valid in current state")

	// ErrContractViolation is returned when a required argument is missing or
	// Ready cannot be reached with the information the decoder reported.
	ErrContractViolation = errors.New("player contract violation")
)

// Decoder errors.
var (
	// ErrDecoder wraps fatal errors reported by the decoder.
	ErrDecoder = errors.New("decoder error")

	// ErrNoDecoderFactory is returned by Prepare when the player was built
	// without a decoder factory.
	ErrNoDecoderFactory = errors.New("no decoder factory")
)

// Track errors.
var (
	// ErrInvalidTrack is returned when a quality group or track has invalid
	// fields.
	ErrInvalidTrack = errors.New("invalid track")
)
