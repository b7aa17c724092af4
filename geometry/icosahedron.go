package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/spatial"
	"github.com/sirupsen/logrus"
)

// IcosahedronParams are the constructing parameters of an Icosahedron.
type IcosahedronParams struct {
	Radius float64
	Inside bool
}

// Icosahedron is a regular twenty-faced solid with flat-shaded faces and
// equirectangular UVs.
type Icosahedron struct {
	IcosahedronParams

	meshCache
	last  IcosahedronParams
	built bool
}

// NewIcosahedron returns a unit icosahedron textured on the inside.
func NewIcosahedron() *Icosahedron {
	return &Icosahedron{IcosahedronParams: IcosahedronParams{Radius: 1, Inside: true}}
}

// Kind implements Shape.
func (i *Icosahedron) Kind() Kind { return KindIcosahedron }

// Offset implements Shape. The diamond-plane seam sits behind the viewer.
func (i *Icosahedron) Offset() mgl64.Quat { return spatial.Euler(0, 180, 0) }

// TextureInside implements Shape.
func (i *Icosahedron) TextureInside() bool { return i.Inside }

// SetTextureInside implements Shape.
func (i *Icosahedron) SetTextureInside(inside bool) { i.Inside = inside }

var icosahedronFaces = [20][3]int{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

func icosahedronCorners() []mgl64.Vec3 {
	t := (1 + math.Sqrt(5)) / 2
	raw := []mgl64.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i, v := range raw {
		raw[i] = v.Normalize()
	}
	return raw
}

// sphericalUV maps a unit direction to the same layout the Sphere uses.
func sphericalUV(v mgl64.Vec3) mgl64.Vec2 {
	theta := math.Acos(mgl64.Clamp(v.Y(), -1, 1))
	phi := math.Atan2(v.Z(), v.X())
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return mgl64.Vec2{1 - phi/(2*math.Pi), 1 - theta/math.Pi}
}

// Build implements Shape.
func (i *Icosahedron) Build() *Mesh {
	if i.built && i.IcosahedronParams == i.last {
		return i.mesh
	}
	if i.Radius <= 0 {
		i.Radius = 1
	}

	logrus.WithFields(logrus.Fields{
		"function": "Icosahedron.Build",
		"radius":   i.Radius,
		"inside":   i.Inside,
	}).Debug("Regenerating icosahedron")

	m := i.prepare("Icosahedron")
	corners := icosahedronCorners()

	tris := make([]int, 0, len(icosahedronFaces)*3)
	for _, face := range icosahedronFaces {
		base := len(m.Vertices)
		var uvs [3]mgl64.Vec2
		for k, idx := range face {
			dir := corners[idx]
			m.Vertices = append(m.Vertices, dir.Mul(i.Radius))
			m.Normals = append(m.Normals, dir.Mul(-1))
			uvs[k] = sphericalUV(dir)
		}
		unwrapSeam(&uvs)
		m.UVs = append(m.UVs, uvs[:]...)
		// Wound so Cross(b-a, c-a) points at the center.
		tris = append(tris, base, base+2, base+1)
	}
	m.SubMeshes[0] = tris

	finish(m, i.Inside)

	i.last = i.IcosahedronParams
	i.built = true
	return m
}

// unwrapSeam keeps a face that straddles the U seam contiguous.
func unwrapSeam(uvs *[3]mgl64.Vec2) {
	lo, hi := uvs[0].X(), uvs[0].X()
	for _, uv := range uvs[1:] {
		lo = math.Min(lo, uv.X())
		hi = math.Max(hi, uv.X())
	}
	if hi-lo <= 0.5 {
		return
	}
	for k := range uvs {
		if uvs[k].X() < 0.5 {
			uvs[k][0]++
		}
	}
}
