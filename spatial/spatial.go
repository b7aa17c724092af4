package spatial

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Forward is the unrotated viewing direction.
var Forward = mgl64.Vec3{0, 0, 1}

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// gimbalEpsilon bounds |sin(pitch)| before EulerAngles treats the rotation
// as gimbal locked.
const gimbalEpsilon = 1e-9

// Euler returns the rotation described by x (pitch), y (yaw) and z (roll)
// degrees. The rotation applies z, then x, then y.
func Euler(x, y, z float64) mgl64.Quat {
	qx := mgl64.QuatRotate(mgl64.DegToRad(x), axisX)
	qy := mgl64.QuatRotate(mgl64.DegToRad(y), axisY)
	qz := mgl64.QuatRotate(mgl64.DegToRad(z), axisZ)
	return qy.Mul(qx).Mul(qz)
}

// EulerVec is Euler with the angles packed into a vector.
func EulerVec(v mgl64.Vec3) mgl64.Quat {
	return Euler(v.X(), v.Y(), v.Z())
}

// EulerAngles decomposes q into the degrees Euler would need to rebuild it.
// Each angle is normalized into [0, 360).
func EulerAngles(q mgl64.Quat) mgl64.Vec3 {
	m := q.Normalize().Mat4()

	sinX := -m.At(1, 2)
	sinX = math.Max(-1, math.Min(1, sinX))
	x := math.Asin(sinX)

	var y, z float64
	if math.Abs(math.Cos(x)) > gimbalEpsilon {
		y = math.Atan2(m.At(0, 2), m.At(2, 2))
		z = math.Atan2(m.At(1, 0), m.At(1, 1))
	} else {
		y = math.Atan2(-m.At(2, 0), m.At(0, 0))
		z = 0
	}

	return mgl64.Vec3{
		NormalizeDegrees(mgl64.RadToDeg(x)),
		NormalizeDegrees(mgl64.RadToDeg(y)),
		NormalizeDegrees(mgl64.RadToDeg(z)),
	}
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// AngleDistance returns the smallest absolute difference between two angles
// in degrees, in [0, 180].
func AngleDistance(a, b float64) float64 {
	d := math.Abs(NormalizeDegrees(a) - NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Heading is a yaw/pitch/roll triple in degrees as written in documents.
type Heading struct {
	Yaw   float64 `json:"yawDegrees"`
	Pitch float64 `json:"pitchDegrees"`
	Roll  float64 `json:"rollDegrees"`
}

// String returns a compact representation of the heading.
func (h Heading) String() string {
	return fmt.Sprintf("yaw=%.2f pitch=%.2f roll=%.2f", h.Yaw, h.Pitch, h.Roll)
}

// FormatVec3 renders v the way recorded headings are stored: "(x, y, z)".
func FormatVec3(v mgl64.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X(), v.Y(), v.Z())
}

// ParseVec3 reads the "(x, y, z)" form written by FormatVec3.
func ParseVec3(s string) (mgl64.Vec3, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return mgl64.Vec3{}, fmt.Errorf("vector %q is not parenthesized", s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("vector %q has %d components, want 3", s, len(parts))
	}
	var v mgl64.Vec3
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}
