package projector

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/geometry"
	"github.com/opd-ai/spinplay/opf"
	"github.com/opd-ai/spinplay/shader"
)

// Side selects an eye.
type Side int

const (
	// LeftEye is the first eye built.
	LeftEye Side = iota
	// RightEye is the second eye built.
	RightEye
)

// String returns the string representation of Side.
func (s Side) String() string {
	switch s {
	case LeftEye:
		return "Left"
	case RightEye:
		return "Right"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Eye is the render state of one eye: the geometry the host draws, the
// material it draws with and where it sits in the scene.
//
// An Eye is a player.Target. The player rebinds its source textures whenever
// it allocates new ones.
type Eye struct {
	Side   Side
	Handle geometry.Handle
	Shape  geometry.Shape

	// Material is an instance owned by this eye.
	Material *shader.Material

	// Orientation rotates the geometry to the current tile.
	Orientation mgl64.Quat

	// Layer is the camera culling layer and Scale the uniform scale that
	// pushes the geometry out to the projection distance.
	Layer int
	Scale float64

	Visible bool
}

// Mesh returns the last built mesh of the eye's shape.
func (e *Eye) Mesh() *geometry.Mesh { return e.Shape.Mesh() }

// SetVideoTextures implements player.Target.
func (e *Eye) SetVideoTextures(model shader.ColorModel, textures []shader.Texture) {
	if e.Material == nil || len(textures) == 0 {
		return
	}
	e.Material.Textures[shader.PropMainTex] = textures[0]
	if model == shader.YUV && len(textures) > 1 {
		e.Material.Textures[shader.PropY] = textures[0]
		e.Material.Textures[shader.PropUV] = textures[1]
	}
}

// String renders the eye for logs.
func (e *Eye) String() string {
	kind := "none"
	if e.Material != nil {
		kind = e.Material.Kind.String()
	}
	return fmt.Sprintf("%s eye: %s handle=%d material=%s layer=%d scale=%g visible=%t",
		e.Side, e.Shape.Kind(), e.Handle, kind, e.Layer, e.Scale, e.Visible)
}

// EyeTextureSize halves the decoded frame along the axis a stereo layout
// splits.
func EyeTextureSize(stereo opf.StereoMode, width, height int) (int, int) {
	switch stereo {
	case opf.LeftRight:
		return width / 2, height
	case opf.TopBottom:
		return width, height / 2
	default:
		return width, height
	}
}

// TextureTransform returns the main texture scale and offset that crop one
// eye's image out of the decoded frame. mediaScale is the media size over
// the decoded frame size. yDown flips V for decoders whose first scan line
// is the top of the image.
func TextureTransform(stereo opf.StereoMode, side Side, mediaScale mgl64.Vec2, yDown bool) (scale, offset mgl64.Vec2) {
	ws, hs := mediaScale.X(), mediaScale.Y()
	flip := func(h float64) float64 {
		if yDown {
			return -h
		}
		return h
	}
	base := 0.0
	if yDown {
		base = hs
	}

	switch stereo {
	case opf.TopBottom:
		scale = mgl64.Vec2{ws, flip(hs * 0.5)}
		if side == LeftEye {
			offset = mgl64.Vec2{0, hs * 0.5}
		} else {
			offset = mgl64.Vec2{0, base}
		}
	case opf.LeftRight:
		scale = mgl64.Vec2{ws * 0.5, flip(hs)}
		if side == LeftEye {
			offset = mgl64.Vec2{0, base}
		} else {
			offset = mgl64.Vec2{ws * 0.5, base}
		}
	default:
		scale = mgl64.Vec2{ws, flip(hs)}
		offset = mgl64.Vec2{0, base}
	}
	return scale, offset
}
