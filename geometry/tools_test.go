package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadMesh() *Mesh {
	m := NewMesh("quad")
	m.Vertices = []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {2, 0, 0}, {3, 0, 0}, {3, 1, 0}}
	m.UVs = []mgl64.Vec2{{0, 0}, {0.25, 0}, {0.25, 0.25}, {0, 0.25}, {0.5, 0}, {1, 0.5}, {1, 0}}
	m.SubMeshes[0] = []int{0, 1, 2, 0, 2, 3, 4, 5, 6}
	return m
}

func TestFlipUVs(t *testing.T) {
	m := quadMesh()
	FlipUVs(m, Horizontal)
	assert.Equal(t, mgl64.Vec2{0.75, 0}, m.UVs[1])
	FlipUVs(m, Vertical)
	assert.Equal(t, mgl64.Vec2{0.75, 1}, m.UVs[1])
}

func TestReverseNormals(t *testing.T) {
	m := quadMesh()
	m.RecalculateNormals()
	before := m.Normals[0]
	ReverseNormals(m)
	assert.Equal(t, before.Mul(-1), m.Normals[0])
	assert.Equal(t, []int{1, 0, 2, 2, 0, 3, 5, 4, 6}, m.SubMeshes[0])
}

func TestAddIntersectedUVs(t *testing.T) {
	m := quadMesh()
	// A small clockwise triangle sitting inside the right-most triangle only.
	discont := []mgl64.Vec2{{0.9, 0.05}, {0.95, 0.1}, {0.95, 0.05}}
	require.NoError(t, AddIntersectedUVs(m, 0, discont))

	require.Len(t, m.SubMeshes, 2)
	assert.Equal(t, []int{4, 5, 6}, m.SubMeshes[1])
	assert.Len(t, m.SubMeshes[0], 9)
}

func TestAddIntersectedUVsNoOverlap(t *testing.T) {
	m := quadMesh()
	discont := []mgl64.Vec2{{0.6, 0.8}, {0.7, 0.8}, {0.7, 0.9}}
	require.NoError(t, AddIntersectedUVs(m, 0, discont))
	require.Len(t, m.SubMeshes, 2)
	assert.Empty(t, m.SubMeshes[1])
}

func TestAddIntersectedUVsErrors(t *testing.T) {
	m := quadMesh()
	assert.ErrorIs(t, AddIntersectedUVs(m, 0, []mgl64.Vec2{{0, 0}}), ErrTriangleList)
	assert.ErrorIs(t, AddIntersectedUVs(m, 3, nil), ErrInvalidSubMesh)
}

func TestArena(t *testing.T) {
	a := NewArena()
	h, err := a.Put(NewSphere())
	require.NoError(t, err)
	assert.NotZero(t, h)
	assert.Equal(t, 1, a.Len())

	s, err := a.Get(h)
	require.NoError(t, err)
	assert.Equal(t, KindSphere, s.Kind())

	require.NoError(t, a.Release(h))
	_, err = a.Get(h)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.ErrorIs(t, a.Release(h), ErrInvalidHandle)

	_, err = a.Put(nil)
	assert.ErrorIs(t, err, ErrNilShape)

	_, _ = a.Put(NewFrustum())
	a.Clear()
	assert.Zero(t, a.Len())
}
