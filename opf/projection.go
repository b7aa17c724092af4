package opf

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/limits"
	"github.com/opd-ai/spinplay/spatial"
	"github.com/opd-ai/spinplay/texture"
	"github.com/opd-ai/spinplay/transform"
	"github.com/sirupsen/logrus"
)

const (
	// MinVersion is the oldest schema this parser accepts.
	MinVersion = 1
	// MinTransformVersion is the first schema with transforms.
	MinTransformVersion = 2
)

// Projection is a parsed OPF document. It is read-only after Parse.
type Projection struct {
	Version         int
	URL             string
	BackgroundColor color.NRGBA
	Heading         spatial.Heading
	Audio           Audio
	StereoMode      StereoMode
	Format          Format
	Tiles           []*Tile
	UserData        json.RawMessage
	Transform       transform.VideoTransform
}

// ResolveURL resolves ref against the directory of base.
func ResolveURL(base, ref string) string {
	return texture.ResolveURL(base, ref)
}

// ParseString parses a document held in a string.
func ParseString(s, baseURL string) (*Projection, error) {
	return Parse([]byte(s), baseURL)
}

// Parse validates data and builds a Projection. baseURL, when set, is used
// to resolve relative URLs.
func Parse(data []byte, baseURL string) (*Projection, error) {
	if err := limits.ValidateOPFDocument(data); err != nil {
		sentinel := ErrMalformed
		if errors.Is(err, limits.ErrPayloadTooLarge) {
			sentinel = ErrTooLarge
		}
		return nil, &FormatError{Reason: err.Error(), Err: fmt.Errorf("%w: %w", sentinel, err)}
	}

	var root jsonObject
	if err := json.Unmarshal(data, &root); err != nil || root == nil {
		reason := "top level must be an object"
		if err != nil {
			reason = err.Error()
		}
		return nil, formatErr(ErrMalformed, "", "%s", reason)
	}

	p := &Projection{Audio: DefaultAudio()}
	steps := []func(jsonObject, string) error{
		p.parseVersion,
		p.parseURL,
		p.parseBackground,
		p.parseHeading,
		p.parseAudio,
		p.parseStereoMode,
		p.parseFormat,
		p.parseTiles,
		p.parseTransform,
	}
	for _, step := range steps {
		if err := step(root, baseURL); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Parse",
				"base":     baseURL,
				"error":    err.Error(),
			}).Warn("Rejected OPF document")
			return nil, err
		}
	}
	if raw, ok := root["userData"]; ok && !isAbsent(raw) {
		p.UserData = append(json.RawMessage(nil), raw...)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Parse",
		"url":        p.URL,
		"format":     p.Format.Kind().String(),
		"stereoMode": p.StereoMode.String(),
		"tiles":      len(p.Tiles),
		"transform":  p.Transform.Kind().String(),
	}).Debug("Parsed OPF document")

	return p, nil
}

func (p *Projection) parseVersion(root jsonObject, _ string) error {
	v, present, err := number(root, "version")
	if err != nil {
		return err
	}
	if !present {
		return formatErr(ErrMissingField, "version", "is required")
	}
	if v != math.Trunc(v) {
		return formatErr(ErrMalformed, "version", "must be an integer, got %g", v)
	}
	if v < MinVersion {
		return formatErr(ErrUnsupportedVersion, "version", "must be at least %d, got %g", MinVersion, v)
	}
	p.Version = int(v)
	return nil
}

func (p *Projection) parseURL(root jsonObject, base string) error {
	u, _, err := str(root, "url")
	if err != nil {
		return err
	}
	if u == "" {
		return formatErr(ErrMissingField, "url", "is required")
	}
	p.URL = ResolveURL(base, u)
	return nil
}

func (p *Projection) parseBackground(root jsonObject, _ string) error {
	s, present, err := str(root, "backgroundColor")
	if err != nil || !present {
		return err
	}
	c, err := ParseColor(s)
	if err != nil {
		return err
	}
	p.BackgroundColor = c
	return nil
}

func (p *Projection) parseHeading(root jsonObject, _ string) error {
	obj, err := objectOrEmpty(root["heading"], "heading")
	if err != nil {
		return err
	}
	yaw, pitch, roll, err := heading(obj)
	if err != nil {
		return err
	}
	p.Heading = spatial.Heading{Yaw: yaw, Pitch: pitch, Roll: roll}
	return nil
}

func (p *Projection) parseAudio(root jsonObject, _ string) error {
	obj, err := objectOrEmpty(root["audio"], "audio")
	if err != nil {
		return err
	}
	if v, present, err := number(obj, "spatialChannels"); err != nil {
		return err
	} else if present {
		p.Audio.SpatialChannels = int(v)
	}
	if v, present, err := number(obj, "headLockedChannels"); err != nil {
		return err
	} else if present {
		p.Audio.HeadLockedChannels = int(v)
	}

	s, present, err := str(obj, "spatialFormat")
	if err != nil || !present {
		return err
	}
	switch s {
	case "none":
		p.Audio.SpatialFormat = SpatialNone
	case "ambix":
		p.Audio.SpatialFormat = SpatialAmbiX
	default:
		logrus.WithFields(logrus.Fields{
			"function":      "Parse",
			"spatialFormat": s,
		}).Warn("Unknown spatial audio format, using none")
	}
	return nil
}

func (p *Projection) parseStereoMode(root jsonObject, _ string) error {
	s, present, err := str(root, "stereoMode")
	if err != nil {
		return err
	}
	p.StereoMode = Mono
	if !present {
		return nil
	}
	if err := p.StereoMode.UnmarshalText([]byte(s)); err != nil {
		return formatErr(ErrUnknownValue, "stereoMode", "%q is not a known stereo mode", s)
	}
	return nil
}

func (p *Projection) parseFormat(root jsonObject, _ string) error {
	name, _, err := str(root, "format")
	if err != nil {
		return err
	}
	if name == "" {
		return formatErr(ErrMissingField, "format", "is required")
	}
	f, err := parseFormat(name, root["formatInfo"])
	if err != nil {
		return err
	}
	p.Format = f
	return nil
}

func (p *Projection) parseTiles(root jsonObject, _ string) error {
	raw, ok := root["tiles"]
	if !ok || isAbsent(raw) {
		p.Tiles = []*Tile{NewTile("", spatial.Heading{})}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return formatErr(ErrMalformed, "tiles", "must be an array")
	}
	if len(items) == 0 {
		return formatErr(ErrOutOfRange, "tiles", "must contain 1 or more items")
	}

	seen := make(map[string]bool, len(items))
	for i, item := range items {
		field := fmt.Sprintf("tiles[%d]", i)
		obj, err := object(item, field)
		if err != nil {
			return err
		}
		id, present, err := str(obj, "id")
		if err != nil {
			return err
		}
		if !present {
			return formatErr(ErrMissingField, field+".id", "is required")
		}
		if id == "" && len(items) > 1 {
			return formatErr(ErrInvalidTileID, field+".id", "may only be empty for a single tile")
		}
		if !validTileID(id) {
			return formatErr(ErrInvalidTileID, field+".id", "%q cannot contain a period", id)
		}
		if seen[id] {
			return formatErr(ErrDuplicateTile, field+".id", "%q is used twice", id)
		}
		seen[id] = true

		yaw, pitch, roll, err := heading(obj)
		if err != nil {
			return err
		}
		p.Tiles = append(p.Tiles, NewTile(id, spatial.Heading{Yaw: yaw, Pitch: pitch, Roll: roll}))
	}
	return nil
}

func (p *Projection) parseTransform(root jsonObject, base string) error {
	p.Transform = transform.Identity{}
	if p.Version < MinTransformVersion {
		return nil
	}
	name, present, err := str(root, "transform")
	if err != nil || !present {
		return err
	}

	t, err := transform.Parse(name, root["transformInfo"], base)
	if err != nil {
		sentinel := ErrMalformed
		switch {
		case errors.Is(err, transform.ErrUnknownKind):
			sentinel = ErrUnknownValue
		case errors.Is(err, transform.ErrMissingField):
			sentinel = ErrMissingField
		case errors.Is(err, transform.ErrOutOfRange):
			sentinel = ErrOutOfRange
		}
		return &FormatError{Field: "transformInfo", Reason: err.Error(), Err: fmt.Errorf("%w: %w", sentinel, err)}
	}
	p.Transform = t
	return nil
}

// HeadingQuat is the declared initial heading as a rotation.
func (p *Projection) HeadingQuat() mgl64.Quat {
	return spatial.Euler(p.Heading.Pitch, -p.Heading.Yaw, p.Heading.Roll)
}

// ClosestTileForHeading returns the tile whose center, rotated by offset,
// is nearest to heading (Euler degrees). Distance is measured between the
// rotated forward vectors. The first tile wins ties.
func (p *Projection) ClosestTileForHeading(heading mgl64.Vec3, offset mgl64.Quat) *Tile {
	target := spatial.EulerVec(heading).Rotate(spatial.Forward)

	var closest *Tile
	best := math.MaxFloat64
	for _, t := range p.Tiles {
		pos := offset.Mul(t.Orientation()).Rotate(spatial.Forward)
		if d := target.Sub(pos).Len(); d < best {
			best = d
			closest = t
		}
	}
	return closest
}

// TileWithID returns the tile with the given id, or nil. The empty id is
// valid for untiled documents.
func (p *Projection) TileWithID(id string) *Tile {
	for _, t := range p.Tiles {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TileIDs lists the tile ids in document order.
func (p *Projection) TileIDs() []string {
	ids := make([]string, len(p.Tiles))
	for i, t := range p.Tiles {
		ids[i] = t.ID
	}
	return ids
}

// String returns a multi-line description.
func (p *Projection) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "url: %s, heading: %s, audio: %s, stereoMode: %s, format: %s, transform: %s, tiles:",
		p.URL, p.Heading, p.Audio, p.StereoMode, p.Format.Kind(), p.Transform.Kind())
	for _, t := range p.Tiles {
		fmt.Fprintf(&b, "\n    %s", t)
	}
	return b.String()
}
