package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/spatial"
	"github.com/sirupsen/logrus"
)

// Sphere parameter limits.
const (
	MinFOV           = 0.5
	MaxHorizontalFOV = 360.0
	MaxVerticalFOV   = 180.0
	MinSlices        = 3
	DefaultSlices    = 64
)

// SphereParams are the constructing parameters of a Sphere.
type SphereParams struct {
	// SourceH and SourceV are the field of view, in degrees, covered by the
	// full source texture.
	SourceH float64
	SourceV float64

	// ClipH and ClipV are the field of view actually generated. The UVs are
	// remapped so the clipped region of the texture covers the geometry.
	ClipH float64
	ClipV float64

	// VerticalSlices is the number of columns around the sphere and
	// HorizontalSlices the number of rows from pole to pole.
	VerticalSlices   int
	HorizontalSlices int

	// Inside selects whether the texture faces the center.
	Inside bool
}

// Sphere is an equirectangular projection sphere of unit radius.
type Sphere struct {
	SphereParams

	meshCache
	last  SphereParams
	built bool
}

// NewSphere returns a full 360x180 sphere textured on the inside.
func NewSphere() *Sphere {
	return &Sphere{SphereParams: SphereParams{
		SourceH:          MaxHorizontalFOV,
		SourceV:          MaxVerticalFOV,
		ClipH:            MaxHorizontalFOV,
		ClipV:            MaxVerticalFOV,
		VerticalSlices:   DefaultSlices,
		HorizontalSlices: DefaultSlices,
		Inside:           true,
	}}
}

// Kind implements Shape.
func (s *Sphere) Kind() Kind { return KindSphere }

// Offset implements Shape. The sphere seam sits a quarter turn from forward.
func (s *Sphere) Offset() mgl64.Quat { return spatial.Euler(0, 90, 0) }

// TextureInside implements Shape.
func (s *Sphere) TextureInside() bool { return s.Inside }

// SetTextureInside implements Shape.
func (s *Sphere) SetTextureInside(inside bool) { s.Inside = inside }

func (s *Sphere) clamp() {
	s.SourceH = mgl64.Clamp(s.SourceH, MinFOV, MaxHorizontalFOV)
	s.SourceV = mgl64.Clamp(s.SourceV, MinFOV, MaxVerticalFOV)
	s.ClipH = mgl64.Clamp(s.ClipH, MinFOV, MaxHorizontalFOV)
	s.ClipV = mgl64.Clamp(s.ClipV, MinFOV, MaxVerticalFOV)
	if s.VerticalSlices < MinSlices {
		s.VerticalSlices = MinSlices
	}
	if s.HorizontalSlices < MinSlices {
		s.HorizontalSlices = MinSlices
	}
}

// Build implements Shape.
func (s *Sphere) Build() *Mesh {
	if s.built && s.SphereParams == s.last {
		return s.mesh
	}
	s.clamp()

	logrus.WithFields(logrus.Fields{
		"function": "Sphere.Build",
		"clip_h":   s.ClipH,
		"clip_v":   s.ClipV,
		"slices":   s.VerticalSlices,
		"rows":     s.HorizontalSlices,
		"inside":   s.Inside,
	}).Debug("Regenerating sphere")

	m := s.prepare("Sphere")
	cols, rows := s.VerticalSlices, s.HorizontalSlices
	count := (cols + 1) * (rows + 1)

	vScale := s.ClipV / MaxVerticalFOV
	vOffset := (1 - vScale) / 2
	hScale := s.ClipH / MaxHorizontalFOV
	hOffset := (1 - hScale) / 2

	m.Vertices = make([]mgl64.Vec3, count)
	for y := 0; y <= rows; y++ {
		a1 := math.Pi*(float64(y)/float64(rows))*vScale + vOffset*math.Pi
		sin1, cos1 := math.Sincos(a1)
		for x := 0; x <= cols; x++ {
			a2 := 2*math.Pi*(float64(x)/float64(cols))*hScale + hOffset*2*math.Pi
			sin2, cos2 := math.Sincos(a2)
			m.Vertices[x+y*(cols+1)] = mgl64.Vec3{sin1 * cos2, cos1, sin1 * sin2}
		}
	}

	m.Normals = make([]mgl64.Vec3, count)
	for i, v := range m.Vertices {
		m.Normals[i] = v.Normalize().Mul(-1)
	}

	uvHScale := s.ClipH / s.SourceH
	uvHOffset := (1 - uvHScale) / 2
	uvVScale := s.ClipV / s.SourceV
	uvVOffset := (1 - uvVScale) / 2

	m.UVs = make([]mgl64.Vec2, count)
	for y := 0; y <= rows; y++ {
		for x := 0; x <= cols; x++ {
			u := 1 - float64(x)/float64(cols)
			v := 1 - float64(y)/float64(rows)
			m.UVs[x+y*(cols+1)] = mgl64.Vec2{u*uvHScale + uvHOffset, v*uvVScale + uvVOffset}
		}
	}

	tris := make([]int, 0, rows*cols*6)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			current := x + y*(cols+1)
			next := current + cols + 1
			tris = append(tris,
				current+1, current, next+1,
				next+1, current, next,
			)
		}
	}
	m.SubMeshes[0] = tris

	finish(m, s.Inside)

	s.last = s.SphereParams
	s.built = true
	return m
}
