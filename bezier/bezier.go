package bezier

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis selects the coordinate a Bezier3 is solved along.
type Axis int

const (
	// AxisX solves for a given X.
	AxisX Axis = 0
	// AxisY solves for a given Y.
	AxisY Axis = 1
)

// String returns the string representation of Axis.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// noRoot seeds the closest-root search.
const noRoot = 100000.0

// Bezier3 is a quadratic Bezier curve.
type Bezier3 struct {
	P0, P1, P2 mgl64.Vec2
}

// Point evaluates the curve at parameter t.
func (b Bezier3) Point(t float64) mgl64.Vec2 {
	u := 1 - t
	return b.P0.Mul(u).Add(b.P1.Mul(t)).Mul(u).Add(b.P1.Mul(u).Add(b.P2.Mul(t)).Mul(t))
}

// Roots returns every real t at which the curve's coordinate on axis equals
// v. The result has zero, one or two entries.
func (b Bezier3) Roots(v float64, axis Axis) ([]float64, error) {
	p0, p1, p2 := b.P0[axis], b.P1[axis], b.P2[axis]
	qa := p0 - 2*p1 + p2
	qb := -2*p0 + 2*p1
	qc := p0 - v
	d := qb*qb - 4*qa*qc

	switch {
	case qa == 0:
		if qb == 0 {
			return nil, fmt.Errorf("%w: %s", ErrDegenerate, axis)
		}
		return []float64{-qc / qb}, nil
	case d < 0:
		return nil, nil
	case d == 0:
		return []float64{-qb / (2 * qa)}, nil
	default:
		e := math.Sqrt(d)
		return []float64{(-qb + e) / (2 * qa), (-qb - e) / (2 * qa)}, nil
	}
}

// T returns the root closest to 0.5. Ties keep the first root.
func (b Bezier3) T(v float64, axis Axis) (float64, error) {
	roots, err := b.Roots(v, axis)
	if err != nil {
		return 0, err
	}
	best := noRoot
	for _, r := range roots {
		if math.Abs(r-0.5) < math.Abs(best-0.5) {
			best = r
		}
	}
	if best == noRoot {
		return 0, fmt.Errorf("%w: %s=%g", ErrNoRealRoot, axis, v)
	}
	return best, nil
}

// YAt returns the curve's Y where its X equals x.
func (b Bezier3) YAt(x float64) (float64, error) {
	t, err := b.T(x, AxisX)
	if err != nil {
		return 0, err
	}
	return b.Point(t).Y(), nil
}

// XAt returns the curve's X where its Y equals y.
func (b Bezier3) XAt(y float64) (float64, error) {
	t, err := b.T(y, AxisY)
	if err != nil {
		return 0, err
	}
	return b.Point(t).X(), nil
}
