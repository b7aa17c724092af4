// Package spatial holds the orientation math shared by the projection,
// geometry and projector packages.
//
// Headings are expressed in degrees using the convention of the host engines
// this SDK targets: X is pitch, Y is yaw and Z is roll, and an Euler triple is
// applied roll first, then pitch, then yaw. Every rotation is an
// mgl64.Quat so callers can compose offsets with Mul.
//
// # Forward Vector
//
// Tile selection compares rotated copies of Forward (0, 0, 1):
//
//	pos := spatial.Euler(0, 170, 0).Rotate(spatial.Forward)
//	d := pos.Sub(tilePos).Len()
package spatial
