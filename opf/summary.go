package opf

import (
	"fmt"

	"github.com/opd-ai/spinplay/transform"
)

// Summary is a JSON friendly digest of a Projection.
type Summary struct {
	Version         int         `json:"version"`
	URL             string      `json:"url"`
	BackgroundColor string      `json:"backgroundColor"`
	StereoMode      StereoMode  `json:"stereoMode"`
	Format          string      `json:"format"`
	FormatInfo      interface{} `json:"formatInfo,omitempty"`
	Transform       string      `json:"transform"`
	TransformInfo   interface{} `json:"transformInfo,omitempty"`
	Audio           Audio       `json:"audio"`
	Tiles           []*Tile     `json:"tiles"`
	HeadingDegrees  [3]float64  `json:"heading"`
}

// Summarize builds the digest.
func (p *Projection) Summarize() Summary {
	s := Summary{
		Version:         p.Version,
		URL:             p.URL,
		BackgroundColor: fmt.Sprintf("#%02x%02x%02x%02x", p.BackgroundColor.R, p.BackgroundColor.G, p.BackgroundColor.B, p.BackgroundColor.A),
		StereoMode:      p.StereoMode,
		Format:          p.Format.Kind().String(),
		Transform:       p.Transform.Kind().String(),
		Audio:           p.Audio,
		Tiles:           p.Tiles,
		HeadingDegrees:  [3]float64{p.Heading.Yaw, p.Heading.Pitch, p.Heading.Roll},
	}
	if _, ok := p.Format.(*DiamondPlane); !ok {
		s.FormatInfo = p.Format
	}
	switch t := p.Transform.(type) {
	case *transform.UvMap:
		s.TransformInfo = t.Maps
	case *transform.VariSqueeze:
		s.TransformInfo = t.Params
	}
	return s
}
