package opf

import (
	"errors"
	"fmt"
)

// Parse errors.
var (
	// ErrMalformed indicates the payload is not valid JSON of the right shape.
	ErrMalformed = errors.New("malformed document")

	// ErrMissingField indicates a required key is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrOutOfRange indicates a numeric value outside its allowed range.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnknownValue indicates an enumerated value that is not recognized.
	ErrUnknownValue = errors.New("unknown value")

	// ErrUnsupportedVersion indicates a schema version below the minimum.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrInvalidTileID indicates a tile id containing a period.
	ErrInvalidTileID = errors.New("invalid tile id")

	// ErrDuplicateTile indicates two tiles with the same id.
	ErrDuplicateTile = errors.New("duplicate tile id")

	// ErrTooLarge indicates a payload over the document size limit.
	ErrTooLarge = errors.New("document too large")
)

// Geometry errors.
var (
	// ErrShapeMismatch indicates UpdateGeometry was handed a shape the format
	// did not create.
	ErrShapeMismatch = errors.New("shape does not belong to format")
)

// FormatError describes why a document was rejected.
type FormatError struct {
	Field  string
	Reason string
	Err    error
}

// Error implements error.
func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("opf: %s", e.Reason)
	}
	return fmt.Sprintf("opf: %s: %s", e.Field, e.Reason)
}

// Unwrap returns the sentinel.
func (e *FormatError) Unwrap() error { return e.Err }

func formatErr(sentinel error, field, format string, args ...interface{}) *FormatError {
	return &FormatError{Field: field, Reason: fmt.Sprintf(format, args...), Err: sentinel}
}
