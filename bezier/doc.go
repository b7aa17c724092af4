// Package bezier implements the remap curve used to undo a VariSqueeze
// encode.
//
// A VariSqueeze encoder compresses the periphery of an equirectangular frame
// while leaving a central identity region untouched. The Curve type models the
// mapping between squeezed coordinates (X) and equirectangular coordinates (Y)
// as three pieces:
//
//   - a quadratic Bezier transition on the left,
//   - an exact linear passthrough across the identity region,
//   - a quadratic Bezier transition on the right.
//
// Smoothness 1 produces a linear transition and smoothness 0 the sharpest
// curve the control points allow.
//
// # Inversion
//
// Evaluating a Bezier curve at a given X or Y means solving its quadratic for
// the parameter t. Among the real roots, the one nearest 0.5 is used so a root
// pushed just outside [0, 1] by rounding is still accepted. An input with no
// real root is reported as ErrNoRealRoot rather than producing a NaN sample.
//
// # Ramps
//
// Ramp samples Curve.X at every source pixel and normalizes by the squeezed
// size, producing the one-row lookup texture a shader reads:
//
//	ramp, err := bezier.Ramp(3840, 2560, 1280, 0.5)
package bezier
