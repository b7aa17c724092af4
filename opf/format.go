package opf

import (
	"encoding/json"
	"fmt"

	"github.com/opd-ai/spinplay/geometry"
)

// FormatKind identifies a projection format.
type FormatKind int

const (
	// FormatEquirectangular projects onto a sphere.
	FormatEquirectangular FormatKind = iota
	// FormatFrustum projects onto a six-faced frustum atlas.
	FormatFrustum
	// FormatDiamondPlane projects onto an icosahedron.
	FormatDiamondPlane
)

// String returns the document name of the format.
func (k FormatKind) String() string {
	switch k {
	case FormatEquirectangular:
		return "equirectangular"
	case FormatFrustum:
		return "frustum"
	case FormatDiamondPlane:
		return "diamondPlane"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Format builds the geometry a projection is drawn on.
type Format interface {
	Kind() FormatKind

	// CreateGeometry returns a fresh shape for one eye. Texture dimensions
	// are per eye, in pixels.
	CreateGeometry(textureWidth, textureHeight int, stereo StereoMode, isLeftEye bool) geometry.Shape

	// UpdateGeometry adjusts a shape this format created to a new texture
	// size without changing its topology.
	UpdateGeometry(shape geometry.Shape, textureWidth, textureHeight int) error
}

// Equirectangular is a full or clipped sphere.
type Equirectangular struct {
	SourceHorizontalFOV float64 `json:"sourceHorizontalFov"`
	SourceVerticalFOV   float64 `json:"sourceVerticalFov"`
	ClipHorizontalFOV   float64 `json:"clipHorizontalFov"`
	ClipVerticalFOV     float64 `json:"clipVerticalFov"`
}

// Kind implements Format.
func (e *Equirectangular) Kind() FormatKind { return FormatEquirectangular }

// CreateGeometry implements Format.
func (e *Equirectangular) CreateGeometry(_, _ int, _ StereoMode, _ bool) geometry.Shape {
	s := geometry.NewSphere()
	s.SourceH = e.SourceHorizontalFOV
	s.SourceV = e.SourceVerticalFOV
	s.ClipH = e.ClipHorizontalFOV
	s.ClipV = e.ClipVerticalFOV
	return s
}

// UpdateGeometry implements Format. Sphere UVs do not depend on the texture
// size.
func (e *Equirectangular) UpdateGeometry(geometry.Shape, int, int) error { return nil }

// Frustum is a frustum atlas with seam padding.
type Frustum struct {
	RadiusFront float64 `json:"radiusFront"`
	RadiusBack  float64 `json:"radiusBack"`
	ZFront      float64 `json:"zFront"`
	ZBack       float64 `json:"zBack"`
	Padding     int     `json:"padding"`
}

// Kind implements Format.
func (f *Frustum) Kind() FormatKind { return FormatFrustum }

// CreateGeometry implements Format. Stereo layouts pad the edge shared with
// the other eye's image.
func (f *Frustum) CreateGeometry(textureWidth, textureHeight int, stereo StereoMode, isLeftEye bool) geometry.Shape {
	s := geometry.NewFrustum()
	s.FrontRadius = f.RadiusFront
	s.BackRadius = f.RadiusBack
	s.ZFront = f.ZFront
	s.ZBack = f.ZBack
	s.Padding = f.Padding
	s.Edge = FrustumEdge(stereo, isLeftEye)
	s.SetTextureSize(textureWidth, textureHeight)
	return s
}

// UpdateGeometry implements Format.
func (f *Frustum) UpdateGeometry(shape geometry.Shape, textureWidth, textureHeight int) error {
	s, ok := shape.(*geometry.Frustum)
	if !ok {
		return fmt.Errorf("%w: frustum cannot update %T", ErrShapeMismatch, shape)
	}
	s.SetTextureSize(textureWidth, textureHeight)
	return nil
}

// FrustumEdge returns the frame edge that borders the other eye.
func FrustumEdge(stereo StereoMode, isLeftEye bool) geometry.TextureEdge {
	switch stereo {
	case TopBottom:
		if isLeftEye {
			return geometry.EdgeBottom
		}
		return geometry.EdgeTop
	case LeftRight:
		if isLeftEye {
			return geometry.EdgeRight
		}
		return geometry.EdgeLeft
	default:
		return geometry.EdgeNone
	}
}

// DiamondPlane is an icosahedral projection.
type DiamondPlane struct{}

// Kind implements Format.
func (d *DiamondPlane) Kind() FormatKind { return FormatDiamondPlane }

// CreateGeometry implements Format.
func (d *DiamondPlane) CreateGeometry(_, _ int, _ StereoMode, _ bool) geometry.Shape {
	return geometry.NewIcosahedron()
}

// UpdateGeometry implements Format.
func (d *DiamondPlane) UpdateGeometry(geometry.Shape, int, int) error { return nil }

func parseFormat(name string, info json.RawMessage) (Format, error) {
	switch name {
	case "equirectangular":
		return parseEquirectangular(info)
	case "frustum":
		return parseFrustum(info)
	case "diamondPlane":
		return &DiamondPlane{}, nil
	default:
		return nil, formatErr(ErrUnknownValue, "format", "%q is not a known format", name)
	}
}

func parseEquirectangular(info json.RawMessage) (*Equirectangular, error) {
	obj, err := objectOrEmpty(info, "formatInfo")
	if err != nil {
		return nil, err
	}

	e := &Equirectangular{}
	fields := []struct {
		key      string
		dst      *float64
		def      float64
		max      float64
		fallback *float64
	}{
		{"sourceHorizontalFov", &e.SourceHorizontalFOV, geometry.MaxHorizontalFOV, geometry.MaxHorizontalFOV, nil},
		{"sourceVerticalFov", &e.SourceVerticalFOV, geometry.MaxVerticalFOV, geometry.MaxVerticalFOV, nil},
		{"clipHorizontalFov", &e.ClipHorizontalFOV, 0, geometry.MaxHorizontalFOV, &e.SourceHorizontalFOV},
		{"clipVerticalFov", &e.ClipVerticalFOV, 0, geometry.MaxVerticalFOV, &e.SourceVerticalFOV},
	}
	for _, f := range fields {
		def := f.def
		if f.fallback != nil {
			def = *f.fallback
		}
		v, present, err := number(obj, f.key)
		if err != nil {
			return nil, err
		}
		if !present {
			v = def
		}
		if v < geometry.MinFOV || v > f.max {
			return nil, formatErr(ErrOutOfRange, "formatInfo."+f.key,
				"must be within [%g, %g], got %g", geometry.MinFOV, f.max, v)
		}
		*f.dst = v
	}
	return e, nil
}

func parseFrustum(info json.RawMessage) (*Frustum, error) {
	if len(info) == 0 {
		return nil, formatErr(ErrMissingField, "formatInfo", "required for frustum")
	}
	obj, err := object(info, "formatInfo")
	if err != nil {
		return nil, err
	}

	f := &Frustum{}
	required := []struct {
		key   string
		dst   *float64
		valid func(float64) bool
		rule  string
	}{
		{"radiusFront", &f.RadiusFront, func(v float64) bool { return v >= 0 }, ">= 0"},
		{"radiusBack", &f.RadiusBack, func(v float64) bool { return v >= 0 }, ">= 0"},
		{"zFront", &f.ZFront, func(v float64) bool { return v >= 0 }, ">= 0"},
		{"zBack", &f.ZBack, func(v float64) bool { return v <= 0 }, "<= 0"},
	}
	for _, r := range required {
		v, present, err := number(obj, r.key)
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, formatErr(ErrMissingField, "formatInfo."+r.key, "required for frustum")
		}
		if !r.valid(v) {
			return nil, formatErr(ErrOutOfRange, "formatInfo."+r.key, "must be %s, got %g", r.rule, v)
		}
		*r.dst = v
	}

	padding, present, err := number(obj, "padding")
	if err != nil {
		return nil, err
	}
	if !present {
		padding = geometry.DefaultPadding
	}
	if padding < 0 {
		return nil, formatErr(ErrOutOfRange, "formatInfo.padding", "must be >= 0, got %g", padding)
	}
	f.Padding = int(padding)
	return f, nil
}
