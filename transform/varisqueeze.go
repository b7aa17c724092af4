package transform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opd-ai/spinplay/bezier"
	"github.com/opd-ai/spinplay/shader"
	"github.com/sirupsen/logrus"
)

// VariSqueezeParams are the transformInfo fields of a VariSqueeze transform.
type VariSqueezeParams struct {
	EquirectWidth        int     `json:"equirectWidth"`
	EquirectHeight       int     `json:"equirectHeight"`
	SqueezedWidth        int     `json:"squeezedWidth"`
	SqueezedHeight       int     `json:"squeezedHeight"`
	IdentityWidth        int     `json:"identityWidth"`
	IdentityHeight       int     `json:"identityHeight"`
	SmoothnessHorizontal float64 `json:"smoothnessHorizontal"`
	SmoothnessVertical   float64 `json:"smoothnessVertical"`
}

// VariSqueeze undoes an encoder-side squeeze with two computed ramps.
type VariSqueeze struct {
	Params VariSqueezeParams
	XRamp  *shader.Ramp
	YRamp  *shader.Ramp
}

// ParseVariSqueeze validates transformInfo and builds both ramps.
func ParseVariSqueeze(info json.RawMessage) (*VariSqueeze, error) {
	var raw struct {
		EquirectWidth        *int     `json:"equirectWidth"`
		EquirectHeight       *int     `json:"equirectHeight"`
		SqueezedWidth        *int     `json:"squeezedWidth"`
		SqueezedHeight       *int     `json:"squeezedHeight"`
		IdentityWidth        *int     `json:"identityWidth"`
		IdentityHeight       *int     `json:"identityHeight"`
		SmoothnessHorizontal *float64 `json:"smoothnessHorizontal"`
		SmoothnessVertical   *float64 `json:"smoothnessVertical"`
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("%w: transformInfo", ErrMissingField)
	}
	if err := json.Unmarshal(info, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	ints := []struct {
		key string
		v   *int
		min int
	}{
		{"equirectWidth", raw.EquirectWidth, 1},
		{"equirectHeight", raw.EquirectHeight, 1},
		{"squeezedWidth", raw.SqueezedWidth, 1},
		{"squeezedHeight", raw.SqueezedHeight, 1},
		{"identityWidth", raw.IdentityWidth, 0},
		{"identityHeight", raw.IdentityHeight, 0},
	}
	for _, f := range ints {
		if f.v == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, f.key)
		}
		if *f.v < f.min {
			return nil, fmt.Errorf("%w: %s must be at least %d, got %d", ErrOutOfRange, f.key, f.min, *f.v)
		}
	}
	axes := []struct {
		name                         string
		original, squeezed, identity int
	}{
		{"width", *raw.EquirectWidth, *raw.SqueezedWidth, *raw.IdentityWidth},
		{"height", *raw.EquirectHeight, *raw.SqueezedHeight, *raw.IdentityHeight},
	}
	for _, a := range axes {
		if a.identity > a.squeezed || a.squeezed > a.original {
			return nil, fmt.Errorf("%w: %s needs identity <= squeezed <= equirect, got %d, %d, %d",
				ErrOutOfRange, a.name, a.identity, a.squeezed, a.original)
		}
	}

	floats := []struct {
		key string
		v   *float64
	}{
		{"smoothnessHorizontal", raw.SmoothnessHorizontal},
		{"smoothnessVertical", raw.SmoothnessVertical},
	}
	for _, f := range floats {
		if f.v == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, f.key)
		}
		if *f.v < 0 || *f.v > 1 {
			return nil, fmt.Errorf("%w: %s must be within [0, 1], got %g", ErrOutOfRange, f.key, *f.v)
		}
	}

	return NewVariSqueeze(VariSqueezeParams{
		EquirectWidth:        *raw.EquirectWidth,
		EquirectHeight:       *raw.EquirectHeight,
		SqueezedWidth:        *raw.SqueezedWidth,
		SqueezedHeight:       *raw.SqueezedHeight,
		IdentityWidth:        *raw.IdentityWidth,
		IdentityHeight:       *raw.IdentityHeight,
		SmoothnessHorizontal: *raw.SmoothnessHorizontal,
		SmoothnessVertical:   *raw.SmoothnessVertical,
	})
}

// NewVariSqueeze builds the ramps for already validated parameters.
func NewVariSqueeze(p VariSqueezeParams) (*VariSqueeze, error) {
	x, err := bezier.Ramp(p.EquirectWidth, p.SqueezedWidth, p.IdentityWidth, p.SmoothnessHorizontal)
	if err != nil {
		return nil, fmt.Errorf("horizontal ramp: %w", err)
	}
	y, err := bezier.Ramp(p.EquirectHeight, p.SqueezedHeight, p.IdentityHeight, p.SmoothnessVertical)
	if err != nil {
		return nil, fmt.Errorf("vertical ramp: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":       "NewVariSqueeze",
		"equirectWidth":  p.EquirectWidth,
		"equirectHeight": p.EquirectHeight,
		"squeezedWidth":  p.SqueezedWidth,
		"squeezedHeight": p.SqueezedHeight,
		"identityWidth":  p.IdentityWidth,
		"identityHeight": p.IdentityHeight,
	}).Debug("Built VariSqueeze ramps")

	return &VariSqueeze{
		Params: p,
		XRamp:  &shader.Ramp{Name: "uvX", Values: x},
		YRamp:  &shader.Ramp{Name: "uvY", Values: y},
	}, nil
}

// Kind implements VideoTransform.
func (v *VariSqueeze) Kind() Kind { return KindVariSqueeze }

// Bounds returns the identity region as fractions of the equirect frame.
func (v *VariSqueeze) Bounds() (left, right, top, bottom float64) {
	p := v.Params
	w, h := float64(p.EquirectWidth), float64(p.EquirectHeight)
	iw, ih := float64(p.IdentityWidth), float64(p.IdentityHeight)
	left = (w/2 - iw/2) / w
	right = (w/2 + iw/2) / w
	top = (h/2 - ih/2) / h
	bottom = (h/2 + ih/2) / h
	return left, right, top, bottom
}

// UpdateShader implements VideoTransform.
func (v *VariSqueeze) UpdateShader(_ context.Context, sel *shader.Selector, done func(error)) {
	sel.VSMaps = []shader.Texture{v.XRamp, v.YRamp}
	sel.Left, sel.Right, sel.Top, sel.Bottom = v.Bounds()
	done(nil)
}
