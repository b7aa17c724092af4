package bridge

import "errors"

// Command errors.
var (
	// ErrDisposed is returned by commands issued after Dispose.
	ErrDisposed = errors.New("decoder disposed")

	// ErrConfigType is returned when a configuration value has the wrong type
	// for its key.
	ErrConfigType = errors.New("configuration value has wrong type")
)

// Message errors.
var (
	// ErrUnknownMessage is returned for an unrecognized native method.
	ErrUnknownMessage = errors.New("unknown native message")

	// ErrMalformedMessage is returned when a payload cannot be parsed.
	ErrMalformedMessage = errors.New("malformed native message")
)
