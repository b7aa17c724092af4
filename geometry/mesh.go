package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is a renderable vertex buffer with one or more triangle lists.
//
// SubMeshes[0] holds the base triangles. AddIntersectedUVs moves nothing but
// copies overlapping triangles into SubMeshes[1] so a renderer can shade them
// separately.
type Mesh struct {
	Name      string
	Vertices  []mgl64.Vec3
	Normals   []mgl64.Vec3
	UVs       []mgl64.Vec2
	SubMeshes [][]int
}

// NewMesh returns an empty mesh with a single sub-mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name, SubMeshes: [][]int{nil}}
}

// Clear drops all buffers but keeps the mesh identity.
func (m *Mesh) Clear() {
	m.Vertices = nil
	m.Normals = nil
	m.UVs = nil
	m.SubMeshes = [][]int{nil}
}

// Triangles returns the index list of a sub-mesh.
func (m *Mesh) Triangles(subMesh int) ([]int, error) {
	if subMesh < 0 || subMesh >= len(m.SubMeshes) {
		return nil, ErrInvalidSubMesh
	}
	return m.SubMeshes[subMesh], nil
}

// SetTriangles replaces the index list of a sub-mesh, growing the sub-mesh
// list if needed.
func (m *Mesh) SetTriangles(subMesh int, triangles []int) error {
	if subMesh < 0 {
		return ErrInvalidSubMesh
	}
	for len(m.SubMeshes) <= subMesh {
		m.SubMeshes = append(m.SubMeshes, nil)
	}
	m.SubMeshes[subMesh] = triangles
	return nil
}

// TriangleCount is the number of triangles across all sub-meshes.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, t := range m.SubMeshes {
		n += len(t) / 3
	}
	return n
}

// RecalculateNormals averages the face normals incident to each vertex.
// Faces are wound so that Cross(b-a, c-a) is the visible side.
func (m *Mesh) RecalculateNormals() {
	normals := make([]mgl64.Vec3, len(m.Vertices))
	for _, tris := range m.SubMeshes {
		for i := 0; i+2 < len(tris); i += 3 {
			a, b, c := m.Vertices[tris[i]], m.Vertices[tris[i+1]], m.Vertices[tris[i+2]]
			face := b.Sub(a).Cross(c.Sub(a))
			if face.Len() == 0 {
				continue
			}
			face = face.Normalize()
			normals[tris[i]] = normals[tris[i]].Add(face)
			normals[tris[i+1]] = normals[tris[i+1]].Add(face)
			normals[tris[i+2]] = normals[tris[i+2]].Add(face)
		}
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	m.Normals = normals
}

// Bounds returns the axis-aligned box enclosing every vertex.
func (m *Mesh) Bounds() (lo, hi mgl64.Vec3) {
	if len(m.Vertices) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	lo = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range m.Vertices {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], v[i])
			hi[i] = math.Max(hi[i], v[i])
		}
	}
	return lo, hi
}
