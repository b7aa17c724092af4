package bezier

import "errors"

// Solve errors.
var (
	// ErrNoRealRoot indicates the curve never reaches the requested value.
	ErrNoRealRoot = errors.New("bezier has no real root for value")

	// ErrDegenerate indicates a curve that is constant along the solved axis.
	ErrDegenerate = errors.New("bezier is degenerate on axis")
)

// Curve construction errors.
var (
	// ErrInvalidSize indicates a non-positive original or squeezed size, a
	// negative identity size, or sizes not ordered identity <= squeezed <=
	// original.
	ErrInvalidSize = errors.New("invalid curve size")

	// ErrInvalidSmoothness indicates a smoothness outside [0, 1].
	ErrInvalidSmoothness = errors.New("smoothness must be within [0, 1]")
)
