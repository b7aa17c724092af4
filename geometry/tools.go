package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Direction selects the axis FlipUVs mirrors.
type Direction int

const (
	// Horizontal mirrors U.
	Horizontal Direction = iota
	// Vertical mirrors V.
	Vertical
)

// ReverseNormals negates every normal and swaps the first two indices of
// every triangle in every sub-mesh.
func ReverseNormals(m *Mesh) {
	for i, n := range m.Normals {
		m.Normals[i] = n.Mul(-1)
	}
	for _, tris := range m.SubMeshes {
		for i := 0; i+2 < len(tris); i += 3 {
			tris[i], tris[i+1] = tris[i+1], tris[i]
		}
	}
}

// FlipUVs mirrors the texture coordinates along one axis.
func FlipUVs(m *Mesh, dir Direction) {
	for i, uv := range m.UVs {
		switch dir {
		case Horizontal:
			m.UVs[i] = mgl64.Vec2{1 - uv.X(), uv.Y()}
		case Vertical:
			m.UVs[i] = mgl64.Vec2{uv.X(), 1 - uv.Y()}
		}
	}
}

// bounds is a UV rectangle packed as (minU, minV, maxU, maxV).
type bounds [4]float64

func triangleBounds(t [3]mgl64.Vec2) bounds {
	b := bounds{t[0].X(), t[0].Y(), t[0].X(), t[0].Y()}
	for _, pt := range t[1:] {
		if pt.X() < b[0] {
			b[0] = pt.X()
		} else if pt.X() > b[2] {
			b[2] = pt.X()
		}
		if pt.Y() < b[1] {
			b[1] = pt.Y()
		} else if pt.Y() > b[3] {
			b[3] = pt.Y()
		}
	}
	return b
}

func pointInTriangle(pt mgl64.Vec2, pts [3]mgl64.Vec2, normals [3]mgl64.Vec2) bool {
	for i := 0; i < 3; i++ {
		if pt.Sub(pts[i]).Dot(normals[i]) > 0 {
			return false
		}
	}
	return true
}

// containsVertexOf reports whether any vertex of t2 lies inside t1.
func containsVertexOf(t1, t2 [3]mgl64.Vec2) bool {
	var normals [3]mgl64.Vec2
	for i := 0; i < 3; i++ {
		d := t1[(i+1)%3].Sub(t1[i])
		normals[i] = mgl64.Vec2{-d.Y(), d.X()}
	}
	for i := 0; i < 3; i++ {
		if pointInTriangle(t2[i], t1, normals) {
			return true
		}
	}
	return false
}

func trianglesIntersect(t1 [3]mgl64.Vec2, b1 bounds, t2 [3]mgl64.Vec2, b2 bounds) bool {
	if b1[2] > b2[0] && b1[0] < b2[2] && b1[1] < b2[3] && b1[3] > b2[1] {
		return containsVertexOf(t1, t2) || containsVertexOf(t2, t1)
	}
	return false
}

// AddIntersectedUVs copies every triangle of subMesh whose UV triangle
// overlaps one of the given UV triangles into sub-mesh 1. The mesh ends up
// with exactly two sub-meshes.
//
// Containment uses left-hand edge normals, so both triangle sets are expected
// to wind clockwise in UV space.
func AddIntersectedUVs(m *Mesh, subMesh int, uvTriangles []mgl64.Vec2) error {
	if len(uvTriangles)%3 != 0 {
		return ErrTriangleList
	}
	tris, err := m.Triangles(subMesh)
	if err != nil {
		return err
	}

	added := make([]int, 0)
	for i := 0; i+2 < len(tris); i += 3 {
		mt := [3]mgl64.Vec2{m.UVs[tris[i]], m.UVs[tris[i+1]], m.UVs[tris[i+2]]}
		mb := triangleBounds(mt)
		for j := 0; j+2 < len(uvTriangles); j += 3 {
			nt := [3]mgl64.Vec2{uvTriangles[j], uvTriangles[j+1], uvTriangles[j+2]}
			if trianglesIntersect(mt, mb, nt, triangleBounds(nt)) {
				added = append(added, tris[i], tris[i+1], tris[i+2])
				break
			}
		}
	}

	m.SubMeshes = m.SubMeshes[:1]
	return m.SetTriangles(1, added)
}
