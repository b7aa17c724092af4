package geometry

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies a shape variant.
type Kind int

const (
	// KindSphere is an equirectangular sphere.
	KindSphere Kind = iota
	// KindFrustum is a six-faced frustum atlas.
	KindFrustum
	// KindIcosahedron is a twenty-faced solid.
	KindIcosahedron
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "Sphere"
	case KindFrustum:
		return "Frustum"
	case KindIcosahedron:
		return "Icosahedron"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// TextureEdge flags which edges of the texture frame receive seam padding.
type TextureEdge uint8

const (
	// EdgeNone pads no frame edge.
	EdgeNone TextureEdge = 0
	// EdgeLeft pads the left frame edge.
	EdgeLeft TextureEdge = 1 << 0
	// EdgeTop pads the top frame edge.
	EdgeTop TextureEdge = 1 << 1
	// EdgeRight pads the right frame edge.
	EdgeRight TextureEdge = 1 << 2
	// EdgeBottom pads the bottom frame edge.
	EdgeBottom TextureEdge = 1 << 3
)

// Has reports whether every flag in f is set.
func (e TextureEdge) Has(f TextureEdge) bool {
	return e&f == f
}

// String returns the set flags joined with "|".
func (e TextureEdge) String() string {
	if e == EdgeNone {
		return "None"
	}
	var parts []string
	for _, f := range []struct {
		flag TextureEdge
		name string
	}{
		{EdgeLeft, "Left"},
		{EdgeTop, "Top"},
		{EdgeRight, "Right"},
		{EdgeBottom, "Bottom"},
	} {
		if e.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// Shape is a projection solid that can (re)build its mesh.
type Shape interface {
	// Kind reports the variant.
	Kind() Kind

	// Build regenerates the mesh if any parameter changed since the last
	// build and returns it. The returned pointer is stable for the life of
	// the shape.
	Build() *Mesh

	// Mesh returns the last built mesh, or nil before the first Build.
	Mesh() *Mesh

	// Version counts regenerations.
	Version() int

	// Offset is the seam rotation this topology needs to line up with a
	// forward-facing source.
	Offset() mgl64.Quat

	// TextureInside reports whether the texture faces the center.
	TextureInside() bool

	// SetTextureInside changes the facing. The mesh is rebuilt on the next
	// Build.
	SetTextureInside(inside bool)
}

// meshCache tracks the stable mesh pointer and regeneration count shared by
// every shape.
type meshCache struct {
	mesh    *Mesh
	version int
}

func (c *meshCache) Mesh() *Mesh  { return c.mesh }
func (c *meshCache) Version() int { return c.version }

// prepare returns the mesh to fill, cleared, creating it on first use.
func (c *meshCache) prepare(name string) *Mesh {
	if c.mesh == nil {
		c.mesh = NewMesh(name)
	} else {
		c.mesh.Clear()
	}
	c.version++
	return c.mesh
}

// finish applies the outside-facing transformation when needed.
func finish(m *Mesh, inside bool) {
	if !inside {
		ReverseNormals(m)
		FlipUVs(m, Horizontal)
	}
}
