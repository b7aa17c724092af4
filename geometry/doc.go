// Package geometry builds the projection meshes that decoded video frames are
// textured onto.
//
// Three shapes are provided:
//
//   - Sphere: an equirectangular sphere that can be clipped to a sub-range of
//     its source field of view while still mapping the clipped texture region
//     onto 0..1.
//   - Frustum: a six-faced frustum laid out as a 3x2 texture atlas, with
//     per-edge seam padding so stereo tile layouts do not bleed.
//   - Icosahedron: a twenty-faced solid for diamond-plane media.
//
// # Idempotent Builds
//
// Shapes expose their parameters as exported struct fields. Build compares
// the current parameters to the ones used for the previous build and only
// regenerates when something changed, so callers that mutate fields directly
// never trigger redundant work:
//
//	s := geometry.NewSphere()
//	m1 := s.Build()
//	m2 := s.Build() // same *Mesh, Version unchanged
//	s.ClipH = 180
//	m3 := s.Build() // same *Mesh, regenerated, Version+1
//
// # Inside And Outside
//
// A shape with Inside set to false has its winding reversed, its normals
// negated and its U coordinates mirrored, so the same topology reads
// correctly from outside.
//
// # Arena
//
// Arena hands out integer handles for shapes so an owner can release and
// reuse geometry without exposing pointers to the host renderer.
package geometry
