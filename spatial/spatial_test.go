package spatial

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEulerYawRotatesForward(t *testing.T) {
	got := Euler(0, 90, 0).Rotate(Forward)
	assert.True(t, got.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9), "got %v", got)

	got = Euler(0, 180, 0).Rotate(Forward)
	assert.True(t, got.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-9), "got %v", got)
}

func TestEulerPitchRotatesForwardDown(t *testing.T) {
	got := Euler(90, 0, 0).Rotate(Forward)
	assert.True(t, got.ApproxEqualThreshold(mgl64.Vec3{0, -1, 0}, 1e-9), "got %v", got)
}

func TestEulerAnglesRoundTrip(t *testing.T) {
	tests := []mgl64.Vec3{
		{0, 0, 0},
		{10, 20, 30},
		{350, 170, 5},
		{45, 270, 0},
		{0, 90, 0},
	}
	for _, in := range tests {
		q := EulerVec(in)
		out := EulerAngles(q)
		back := EulerVec(out)
		// q and -q are the same rotation
		same := back.ApproxEqualThreshold(q, 1e-9) || back.Scale(-1).ApproxEqualThreshold(q, 1e-9)
		assert.True(t, same, "in %v out %v", in, out)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	assert.InDelta(t, 350.0, NormalizeDegrees(-10), 1e-12)
	assert.InDelta(t, 0.0, NormalizeDegrees(360), 1e-12)
	assert.InDelta(t, 30.0, NormalizeDegrees(750), 1e-12)
}

func TestAngleDistance(t *testing.T) {
	assert.InDelta(t, 20.0, AngleDistance(350, 10), 1e-12)
	assert.InDelta(t, 180.0, AngleDistance(0, 180), 1e-12)
	assert.InDelta(t, 10.0, AngleDistance(170, 180), 1e-12)
}

func TestVec3TextRoundTrip(t *testing.T) {
	v := mgl64.Vec3{1.5, -2, 360}
	got, err := ParseVec3(FormatVec3(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = ParseVec3("1, 2, 3")
	assert.Error(t, err)
	_, err = ParseVec3("(1, 2)")
	assert.Error(t, err)
	_, err = ParseVec3("(1, x, 2)")
	assert.Error(t, err)
}
