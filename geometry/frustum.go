package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// Frustum defaults.
const (
	DefaultFrontRadius   = 0.5
	DefaultBackRadius    = 1.0
	DefaultZFront        = 1.0
	DefaultZBack         = -1.0
	DefaultTextureWidth  = 1536
	DefaultTextureHeight = 1024
	DefaultPadding       = 1
)

// FrustumParams are the constructing parameters of a Frustum.
type FrustumParams struct {
	FrontRadius float64
	BackRadius  float64
	ZFront      float64
	ZBack       float64

	// TextureWidth and TextureHeight are the per-eye texture size in pixels,
	// used to turn Padding into a UV fraction.
	TextureWidth  int
	TextureHeight int

	// Padding is the number of texels inset at the atlas seam and at every
	// edge flagged in Edge.
	Padding int
	Edge    TextureEdge

	Inside bool
}

// Frustum is a six-faced frustum whose faces are packed into a 3x2 atlas
// with the front face in the middle of the upper row and the back face in
// the middle of the lower row.
type Frustum struct {
	FrustumParams

	meshCache
	last  FrustumParams
	built bool
}

// NewFrustum returns a frustum with the default dimensions.
func NewFrustum() *Frustum {
	return &Frustum{FrustumParams: FrustumParams{
		FrontRadius:   DefaultFrontRadius,
		BackRadius:    DefaultBackRadius,
		ZFront:        DefaultZFront,
		ZBack:         DefaultZBack,
		TextureWidth:  DefaultTextureWidth,
		TextureHeight: DefaultTextureHeight,
		Padding:       DefaultPadding,
		Edge:          EdgeNone,
		Inside:        true,
	}}
}

// Kind implements Shape.
func (f *Frustum) Kind() Kind { return KindFrustum }

// Offset implements Shape. The frustum front already faces forward.
func (f *Frustum) Offset() mgl64.Quat { return mgl64.QuatIdent() }

// TextureInside implements Shape.
func (f *Frustum) TextureInside() bool { return f.Inside }

// SetTextureInside implements Shape.
func (f *Frustum) SetTextureInside(inside bool) { f.Inside = inside }

// SetTextureSize updates the texel size used for padding.
func (f *Frustum) SetTextureSize(width, height int) {
	f.TextureWidth = width
	f.TextureHeight = height
}

func (f *Frustum) clamp() {
	f.FrontRadius = math.Max(0, f.FrontRadius)
	f.BackRadius = math.Max(0, f.BackRadius)
	zFront := math.Max(f.ZBack, f.ZFront)
	zBack := math.Min(f.ZFront, f.ZBack)
	f.ZFront, f.ZBack = zFront, zBack
	if f.TextureWidth < 1 {
		f.TextureWidth = 1
	}
	if f.TextureHeight < 1 {
		f.TextureHeight = 1
	}
	if f.Padding < 0 {
		f.Padding = 0
	}
}

// Build implements Shape.
func (f *Frustum) Build() *Mesh {
	if f.built && f.FrustumParams == f.last {
		return f.mesh
	}
	f.clamp()

	logrus.WithFields(logrus.Fields{
		"function":       "Frustum.Build",
		"front_radius":   f.FrontRadius,
		"back_radius":    f.BackRadius,
		"texture_width":  f.TextureWidth,
		"texture_height": f.TextureHeight,
		"padding":        f.Padding,
		"edge":           f.Edge.String(),
	}).Debug("Regenerating frustum")

	m := f.prepare("Frustum")
	m.Vertices = f.vertices()
	m.UVs = f.uvs()
	m.SubMeshes[0] = append([]int(nil), frustumTriangles...)
	m.RecalculateNormals()

	finish(m, f.Inside)

	f.last = f.FrustumParams
	f.built = true
	return m
}

func (f *Frustum) vertices() []mgl64.Vec3 {
	fr, br := f.FrontRadius, f.BackRadius
	zf, zb := f.ZFront, f.ZBack
	return []mgl64.Vec3{
		// front
		{-fr, -fr, zf}, {-fr, fr, zf}, {fr, fr, zf}, {fr, -fr, zf},
		// back
		{-br, br, zb}, {br, -br, zb}, {br, br, zb}, {-br, -br, zb},
		// right
		{br, br, zb}, {br, -br, zb}, {fr, -fr, zf}, {fr, fr, zf},
		// left
		{-br, -br, zb}, {-br, br, zb}, {-fr, fr, zf}, {-fr, -fr, zf},
		// top
		{-br, br, zb}, {fr, fr, zf}, {-fr, fr, zf}, {br, br, zb},
		// bottom
		{-fr, -fr, zf}, {fr, -fr, zf}, {br, -br, zb}, {-br, -br, zb},
	}
}

func (f *Frustum) uvs() []mgl64.Vec2 {
	const (
		third     = 1.0 / 3.0
		half      = 0.5
		twoThirds = 2.0 / 3.0
	)

	hPad := float64(f.Padding) / float64(f.TextureWidth)
	vPad := float64(f.Padding) / float64(f.TextureHeight)

	halfPlus := half + vPad
	halfMinus := half - vPad
	left, right, bottom, top := 0.0, 1.0, 0.0, 1.0
	if f.Edge.Has(EdgeLeft) {
		left += hPad
	}
	if f.Edge.Has(EdgeRight) {
		right -= hPad
	}
	if f.Edge.Has(EdgeBottom) {
		bottom += vPad
	}
	if f.Edge.Has(EdgeTop) {
		top -= vPad
	}

	return []mgl64.Vec2{
		{third, halfPlus}, {third, top}, {twoThirds, top}, {twoThirds, halfPlus},
		{twoThirds, bottom}, {third, halfMinus}, {twoThirds, halfMinus}, {third, bottom},
		{right, top}, {right, halfPlus}, {twoThirds, halfPlus}, {twoThirds, top},
		{left, halfPlus}, {left, top}, {third, top}, {third, halfPlus},
		{twoThirds, bottom}, {right, halfMinus}, {right, bottom}, {twoThirds, halfMinus},
		{left, bottom}, {left, halfMinus}, {third, halfMinus}, {third, bottom},
	}
}

var frustumTriangles = []int{
	0, 1, 2, 0, 2, 3, // front
	4, 5, 6, 4, 7, 5, // back
	8, 9, 10, 10, 11, 8, // right
	12, 13, 14, 14, 15, 12, // left
	16, 17, 18, 16, 19, 17, // top
	20, 21, 22, 22, 23, 20, // bottom
}
