package transform

import "errors"

// Parse errors.
var (
	// ErrUnknownKind indicates a transform name that is not recognized.
	ErrUnknownKind = errors.New("unknown transform")

	// ErrMissingField indicates a required transformInfo key is absent.
	ErrMissingField = errors.New("missing transform field")

	// ErrOutOfRange indicates a transformInfo value outside its range.
	ErrOutOfRange = errors.New("transform field out of range")

	// ErrMalformed indicates transformInfo that is not the expected JSON.
	ErrMalformed = errors.New("malformed transform info")
)

// UpdateShader errors.
var (
	// ErrNoLoader indicates a UV-map transform used without a texture source.
	ErrNoLoader = errors.New("uv map transform has no texture loader")
)
