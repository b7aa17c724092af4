package bezier

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBezier3Endpoints(t *testing.T) {
	b := Bezier3{P0: mgl64.Vec2{0, 0}, P1: mgl64.Vec2{1, 2}, P2: mgl64.Vec2{4, 4}}
	assert.Equal(t, b.P0, b.Point(0))
	assert.Equal(t, b.P2, b.Point(1))
	assert.True(t, b.Point(0.5).ApproxEqualThreshold(mgl64.Vec2{1.5, 2}, 1e-12))
}

func TestBezier3RootSelection(t *testing.T) {
	b := Bezier3{P0: mgl64.Vec2{0, 0}, P1: mgl64.Vec2{1, 2}, P2: mgl64.Vec2{4, 4}}
	for _, tt := range []float64{0, 0.1, 0.5, 0.9, 1} {
		p := b.Point(tt)
		got, err := b.T(p.X(), AxisX)
		require.NoError(t, err)
		assert.InDelta(t, tt, got, 1e-9)

		got, err = b.T(p.Y(), AxisY)
		require.NoError(t, err)
		assert.InDelta(t, tt, got, 1e-9)
	}
}

func TestBezier3LinearAxis(t *testing.T) {
	b := Bezier3{P0: mgl64.Vec2{0, 0}, P1: mgl64.Vec2{1, 1}, P2: mgl64.Vec2{2, 4}}
	roots, err := b.Roots(1, AxisX)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.InDelta(t, 0.5, roots[0], 1e-12)
}

func TestBezier3NoRealRoot(t *testing.T) {
	b := Bezier3{P0: mgl64.Vec2{0, 0}, P1: mgl64.Vec2{1, 1}, P2: mgl64.Vec2{2, 0}}
	_, err := b.T(1, AxisY)
	assert.ErrorIs(t, err, ErrNoRealRoot)
}

func TestBezier3Degenerate(t *testing.T) {
	b := Bezier3{P0: mgl64.Vec2{0, 0}, P1: mgl64.Vec2{1, 0}, P2: mgl64.Vec2{2, 0}}
	_, err := b.T(0, AxisY)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestAxisString(t *testing.T) {
	assert.Equal(t, "X", AxisX.String())
	assert.Equal(t, "Y", AxisY.String())
	assert.Equal(t, "Unknown(7)", Axis(7).String())
}
