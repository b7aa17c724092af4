package opf

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/spatial"
)

// StereoMode is the packing of the two eye images in one frame.
type StereoMode int

const (
	// StereoUndefined is the zero state before a document is parsed.
	StereoUndefined StereoMode = iota - 1
	// Mono carries one image for both eyes.
	Mono
	// TopBottom carries the left eye above the right eye.
	TopBottom
	// LeftRight carries the left eye beside the right eye.
	LeftRight
	// Interleaved alternates eyes by line.
	Interleaved
)

var stereoNames = map[StereoMode]string{
	Mono:        "mono",
	TopBottom:   "stereoTopBottom",
	LeftRight:   "stereoLeftRight",
	Interleaved: "stereoInterleaved",
}

// String returns the document name of the mode.
func (s StereoMode) String() string {
	if n, ok := stereoNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Unknown(%d)", int(s))
}

// IsStereo reports whether the frame carries two images.
func (s StereoMode) IsStereo() bool {
	return s == TopBottom || s == LeftRight || s == Interleaved
}

// MarshalText implements encoding.TextMarshaler.
func (s StereoMode) MarshalText() ([]byte, error) {
	n, ok := stereoNames[s]
	if !ok {
		return nil, fmt.Errorf("%w: stereo mode %d", ErrUnknownValue, int(s))
	}
	return []byte(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StereoMode) UnmarshalText(text []byte) error {
	for mode, n := range stereoNames {
		if n == string(text) {
			*s = mode
			return nil
		}
	}
	return fmt.Errorf("%w: stereo mode %q", ErrUnknownValue, text)
}

// SpatialFormat is the encoding of the spatial audio channels.
type SpatialFormat int

const (
	// SpatialNone means no spatial audio.
	SpatialNone SpatialFormat = iota
	// SpatialAmbiX is first-order ambisonics in AmbiX channel order.
	SpatialAmbiX
)

// String returns the document name of the format.
func (f SpatialFormat) String() string {
	switch f {
	case SpatialNone:
		return "none"
	case SpatialAmbiX:
		return "ambix"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f SpatialFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Audio describes the soundtrack channel layout.
type Audio struct {
	SpatialChannels    int           `json:"spatialChannels"`
	HeadLockedChannels int           `json:"headLockedChannels"`
	SpatialFormat      SpatialFormat `json:"spatialFormat"`
}

// DefaultAudio is a plain stereo soundtrack.
func DefaultAudio() Audio {
	return Audio{HeadLockedChannels: 2, SpatialFormat: SpatialNone}
}

// String returns a one-line description.
func (a Audio) String() string {
	return fmt.Sprintf("spatialChannels: %d, headLockedChannels: %d, spatialFormat: %s",
		a.SpatialChannels, a.HeadLockedChannels, a.SpatialFormat)
}

// Tile is one independently streamed angular region.
type Tile struct {
	ID      string          `json:"id"`
	Heading spatial.Heading `json:"heading"`

	orientation mgl64.Quat
}

// NewTile creates a tile facing the given heading.
func NewTile(id string, h spatial.Heading) *Tile {
	return &Tile{
		ID:          id,
		Heading:     h,
		orientation: spatial.Euler(-h.Pitch, h.Yaw, h.Roll),
	}
}

// Orientation is the rotation from forward to the tile center.
func (t *Tile) Orientation() mgl64.Quat { return t.orientation }

// String returns a one-line description.
func (t *Tile) String() string {
	return fmt.Sprintf("id: %q, %s", t.ID, t.Heading)
}

func validTileID(id string) bool {
	return !strings.Contains(id, ".")
}
