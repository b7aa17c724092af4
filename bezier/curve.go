package bezier

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// Curve maps between squeezed coordinates (X) and original coordinates (Y)
// along one axis of a VariSqueeze frame.
type Curve struct {
	// Xa is the uniform outer margin, Xb the transition width and Xc the
	// identity width, all in pixels.
	Xa, Xb, Xc float64

	// Left spans the left transition and Right the right one.
	Left, Right Bezier3

	original, squeezed, identity int
	smoothness                   float64
}

// NewCurve builds the curve for one axis. Sizes must satisfy
// 0 <= identity <= squeezed <= original with original and squeezed positive.
func NewCurve(original, squeezed, identity int, smoothness float64) (*Curve, error) {
	if original <= 0 || squeezed <= 0 || identity < 0 || identity > squeezed || squeezed > original {
		return nil, fmt.Errorf("%w: original=%d squeezed=%d identity=%d",
			ErrInvalidSize, original, squeezed, identity)
	}
	if smoothness < 0 || smoothness > 1 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSmoothness, smoothness)
	}

	k := 1 - smoothness
	c := &Curve{
		// Margins are whole pixels.
		Xa:         float64((original - squeezed) / 2),
		Xb:         float64((squeezed - identity) / 2),
		Xc:         float64(identity),
		original:   original,
		squeezed:   squeezed,
		identity:   identity,
		smoothness: smoothness,
	}

	p1x := c.Xb * k
	p4x := c.Xb + c.Xc + c.Xb*(1-k)
	c.Left = Bezier3{
		P0: mgl64.Vec2{0, 0},
		P1: mgl64.Vec2{p1x, c.Xa + p1x},
		P2: mgl64.Vec2{c.Xb, c.Xa + c.Xb},
	}
	c.Right = Bezier3{
		P0: mgl64.Vec2{c.Xb + c.Xc, c.Xa + c.Xb + c.Xc},
		P1: mgl64.Vec2{p4x, c.Xa + p4x},
		P2: mgl64.Vec2{float64(squeezed), float64(original)},
	}
	return c, nil
}

// Y maps a squeezed coordinate to the original frame.
func (c *Curve) Y(x float64) (float64, error) {
	switch {
	case x < c.Xb:
		return c.Left.YAt(x)
	case x < c.Xb+c.Xc:
		return c.Xa + x, nil
	default:
		return c.Right.YAt(x)
	}
}

// X maps an original coordinate to the squeezed frame.
func (c *Curve) X(y float64) (float64, error) {
	switch {
	case y < c.Xa+c.Xb:
		return c.Left.XAt(y)
	case y < c.Xa+c.Xb+c.Xc:
		return y - c.Xa, nil
	default:
		return c.Right.XAt(y)
	}
}

// InIdentity reports whether an original coordinate falls in the linear
// region.
func (c *Curve) InIdentity(y float64) bool {
	return y >= c.Xa+c.Xb && y < c.Xa+c.Xb+c.Xc
}

// Ramp samples X at every pixel of the original size, normalized by the
// squeezed size.
func (c *Curve) Ramp() ([]float32, error) {
	ramp := make([]float32, c.original)
	for i := range ramp {
		x, err := c.X(float64(i))
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":   "Curve.Ramp",
				"sample":     i,
				"original":   c.original,
				"squeezed":   c.squeezed,
				"identity":   c.identity,
				"smoothness": c.smoothness,
				"error":      err.Error(),
			}).Error("Remap curve has no sample")
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		ramp[i] = float32(x / float64(c.squeezed))
	}
	return ramp, nil
}

// Ramp builds a curve and samples it.
func Ramp(original, squeezed, identity int, smoothness float64) ([]float32, error) {
	c, err := NewCurve(original, squeezed, identity, smoothness)
	if err != nil {
		return nil, err
	}
	return c.Ramp()
}

// LinearRamp returns i/size for every i, the ramp of an unsqueezed axis.
func LinearRamp(n, size int) []float32 {
	ramp := make([]float32, n)
	for i := range ramp {
		ramp[i] = float32(float64(i) / float64(size))
	}
	return ramp
}
