package shader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ColorModel is the pixel layout of decoded video textures.
type ColorModel int

const (
	// RGB is a single packed color texture.
	RGB ColorModel = iota
	// YUV is a full resolution luma texture plus a chroma texture.
	YUV
)

// String returns the string representation of ColorModel.
func (c ColorModel) String() string {
	switch c {
	case RGB:
		return "RGB"
	case YUV:
		return "YUV"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Texture is anything that can be bound to a sampler.
type Texture interface {
	Size() (width, height int)
}

// Ramp is a one-row floating point lookup texture.
type Ramp struct {
	Name   string
	Values []float32
}

// Size implements Texture.
func (r *Ramp) Size() (int, int) { return len(r.Values), 1 }

// Selector is the per-update bag of shader inputs.
type Selector struct {
	ProduceLinearRGB bool
	ColorModel       ColorModel

	// SourceTextures holds one texture for RGB and luma then chroma for YUV.
	SourceTextures []Texture

	// UVMaps holds the to-format and from-format remap textures.
	UVMaps          []Texture
	Discontinuities []mgl64.Vec2

	// VSMaps holds the horizontal and vertical VariSqueeze ramps, and the
	// bounds of the identity region as fractions of the frame.
	VSMaps                   []Texture
	Left, Right, Top, Bottom float64
}

// NewSelector returns an empty RGB selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Reset clears every field.
func (s *Selector) Reset() {
	*s = Selector{}
}

// HasUVMaps reports whether a UV-map transform filled the selector.
func (s *Selector) HasUVMaps() bool { return len(s.UVMaps) > 0 }

// HasDiscontinuities reports whether the discontinuity triangle is present.
func (s *Selector) HasDiscontinuities() bool { return len(s.Discontinuities) > 1 }

// HasVSMaps reports whether a VariSqueeze transform filled the selector.
func (s *Selector) HasVSMaps() bool { return len(s.VSMaps) > 0 }

// Validate checks that the source textures match the color model.
func (s *Selector) Validate() error {
	need := 1
	if s.ColorModel == YUV {
		need = 2
	}
	if len(s.SourceTextures) < need {
		return fmt.Errorf("%w: %s needs %d, have %d",
			ErrMissingSource, s.ColorModel, need, len(s.SourceTextures))
	}
	return nil
}
