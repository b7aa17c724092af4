package transform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/shader"
	"github.com/opd-ai/spinplay/texture"
	"github.com/sirupsen/logrus"
)

// TextureSource loads decoded UV maps asynchronously.
type TextureSource interface {
	Load(ctx context.Context, url string, done func(*texture.UVMap, error))
}

// MapEntry is one named pair of remap textures.
type MapEntry struct {
	ID                string   `json:"id"`
	ToFormatURL       string   `json:"toFormatUrl"`
	FromFormatURL     string   `json:"fromFormatUrl"`
	DiscontinuityArea []uint16 `json:"discontinuityArea,omitempty"`
}

// Discontinuities is the fixed seam triangle handed to the discontinuity
// material.
func Discontinuities() []mgl64.Vec2 {
	return []mgl64.Vec2{{0.49, 0.18}, {0.51, 1.5}, {0.51, 0.18}}
}

// UvMap remaps texture coordinates through a pair of UV textures.
type UvMap struct {
	Maps []MapEntry
	// Active names the entry UpdateShader loads. Empty means the first.
	Active string
	// Source must be set before UpdateShader.
	Source TextureSource
}

// ParseUvMap parses {"uvMaps": [...]}.
func ParseUvMap(info json.RawMessage, base string) (*UvMap, error) {
	var doc struct {
		Maps []MapEntry `json:"uvMaps"`
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("%w: transformInfo", ErrMissingField)
	}
	if err := json.Unmarshal(info, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(doc.Maps) == 0 {
		return nil, fmt.Errorf("%w: uvMaps", ErrMissingField)
	}

	for i := range doc.Maps {
		m := &doc.Maps[i]
		if m.ToFormatURL == "" {
			return nil, fmt.Errorf("%w: uvMaps[%d].toFormatUrl", ErrMissingField, i)
		}
		if m.FromFormatURL == "" {
			return nil, fmt.Errorf("%w: uvMaps[%d].fromFormatUrl", ErrMissingField, i)
		}
		if n := len(m.DiscontinuityArea); n%6 != 0 {
			return nil, fmt.Errorf("%w: uvMaps[%d].discontinuityArea length %d is not a multiple of 6",
				ErrOutOfRange, i, n)
		}
		m.ToFormatURL = texture.ResolveURL(base, m.ToFormatURL)
		m.FromFormatURL = texture.ResolveURL(base, m.FromFormatURL)
	}
	return &UvMap{Maps: doc.Maps}, nil
}

// Kind implements VideoTransform.
func (u *UvMap) Kind() Kind { return KindUvMap }

// NamedEntry returns the entry with the given id, or the first entry when
// none matches.
func (u *UvMap) NamedEntry(id string) *MapEntry {
	for i := range u.Maps {
		if u.Maps[i].ID == id {
			return &u.Maps[i]
		}
	}
	logrus.WithFields(logrus.Fields{
		"function": "UvMap.NamedEntry",
		"id":       id,
	}).Error("UV map not present, using first entry")
	return &u.Maps[0]
}

// UpdateShader implements VideoTransform. It loads the to-format texture,
// then the from-format texture, then fills sel.
func (u *UvMap) UpdateShader(ctx context.Context, sel *shader.Selector, done func(error)) {
	if u.Source == nil {
		done(ErrNoLoader)
		return
	}
	entry := &u.Maps[0]
	if u.Active != "" {
		entry = u.NamedEntry(u.Active)
	}

	u.Source.Load(ctx, entry.ToFormatURL, func(to *texture.UVMap, err error) {
		if err != nil {
			done(fmt.Errorf("load %s: %w", entry.ToFormatURL, err))
			return
		}
		u.Source.Load(ctx, entry.FromFormatURL, func(from *texture.UVMap, err error) {
			if err != nil {
				done(fmt.Errorf("load %s: %w", entry.FromFormatURL, err))
				return
			}
			sel.UVMaps = []shader.Texture{to, from}
			sel.Discontinuities = Discontinuities()

			logrus.WithFields(logrus.Fields{
				"function": "UvMap.UpdateShader",
				"id":       entry.ID,
			}).Debug("UV maps ready")

			done(nil)
		})
	})
}
