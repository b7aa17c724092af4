package shader

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Shader property names.
const (
	PropMainTex    = "_MainTex"
	PropY          = "_Y"
	PropUV         = "_UV"
	PropToFormat   = "_ToFormat"
	PropFromFormat = "_FromFormat"
	PropUVXTex     = "_UVXTex"
	PropUVYTex     = "_UVYTex"
	PropLeft       = "_Left"
	PropRight      = "_Right"
	PropTop        = "_Top"
	PropBottom     = "_Bottom"
)

// MaterialKind is one material permutation.
type MaterialKind int

const (
	// MaterialDefault samples a single RGB texture.
	MaterialDefault MaterialKind = iota
	// MaterialYUVNV12 converts a luma and an interleaved chroma texture.
	MaterialYUVNV12
	// MaterialUvMapRGB remaps an RGB texture through a UV map.
	MaterialUvMapRGB
	// MaterialUvMapRGBDiscont is MaterialUvMapRGB with seam handling.
	MaterialUvMapRGBDiscont
	// MaterialUvMapYUV remaps a YUV pair through a UV map.
	MaterialUvMapYUV
	// MaterialUvMapYUVDiscont is MaterialUvMapYUV with seam handling.
	MaterialUvMapYUVDiscont
	// MaterialVariSqueeze undoes a VariSqueeze encode.
	MaterialVariSqueeze
)

// String returns the string representation of MaterialKind.
func (k MaterialKind) String() string {
	switch k {
	case MaterialDefault:
		return "Default"
	case MaterialYUVNV12:
		return "YUVNV12"
	case MaterialUvMapRGB:
		return "UvMapRGB"
	case MaterialUvMapRGBDiscont:
		return "UvMapRGBDiscont"
	case MaterialUvMapYUV:
		return "UvMapYUV"
	case MaterialUvMapYUVDiscont:
		return "UvMapYUVDiscont"
	case MaterialVariSqueeze:
		return "VariSqueeze"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Select picks the material permutation for a filled selector.
// VariSqueeze has no YUV variant.
func Select(s *Selector) MaterialKind {
	switch {
	case s.HasUVMaps():
		switch {
		case s.ColorModel == YUV && s.HasDiscontinuities():
			return MaterialUvMapYUVDiscont
		case s.ColorModel == YUV:
			return MaterialUvMapYUV
		case s.HasDiscontinuities():
			return MaterialUvMapRGBDiscont
		default:
			return MaterialUvMapRGB
		}
	case s.HasVSMaps():
		return MaterialVariSqueeze
	case s.ColorModel == YUV:
		return MaterialYUVNV12
	default:
		return MaterialDefault
	}
}

// Material is a renderer-agnostic material instance.
type Material struct {
	// ID is unique per instance; templates keep the zero UUID.
	ID   uuid.UUID
	Kind MaterialKind

	Textures map[string]Texture
	Floats   map[string]float64

	// TextureScale and TextureOffset apply to the main texture.
	TextureScale  mgl64.Vec2
	TextureOffset mgl64.Vec2
}

// NewMaterial returns an empty template of the given kind.
func NewMaterial(kind MaterialKind) *Material {
	return &Material{
		Kind:         kind,
		Textures:     make(map[string]Texture),
		Floats:       make(map[string]float64),
		TextureScale: mgl64.Vec2{1, 1},
	}
}

// Clone returns a deep copy with a fresh ID.
func (m *Material) Clone() *Material {
	c := &Material{
		ID:            uuid.New(),
		Kind:          m.Kind,
		Textures:      make(map[string]Texture, len(m.Textures)),
		Floats:        make(map[string]float64, len(m.Floats)),
		TextureScale:  m.TextureScale,
		TextureOffset: m.TextureOffset,
	}
	for k, v := range m.Textures {
		c.Textures[k] = v
	}
	for k, v := range m.Floats {
		c.Floats[k] = v
	}
	return c
}

// Apply binds the selector's textures and parameters.
func (m *Material) Apply(s *Selector) error {
	if err := s.Validate(); err != nil {
		return err
	}

	m.Textures[PropMainTex] = s.SourceTextures[0]
	if s.ColorModel == YUV {
		m.Textures[PropY] = s.SourceTextures[0]
		m.Textures[PropUV] = s.SourceTextures[1]
	}

	if s.HasUVMaps() {
		m.Textures[PropToFormat] = s.UVMaps[0]
	}
	if s.HasDiscontinuities() && len(s.UVMaps) > 1 {
		m.Textures[PropFromFormat] = s.UVMaps[1]
	}

	if s.HasVSMaps() && len(s.VSMaps) > 1 {
		m.Textures[PropUVXTex] = s.VSMaps[0]
		m.Textures[PropUVYTex] = s.VSMaps[1]
		m.Floats[PropLeft] = s.Left
		m.Floats[PropRight] = s.Right
		m.Floats[PropTop] = s.Top
		m.Floats[PropBottom] = s.Bottom
	}
	return nil
}

// SetTextureTransform sets the main texture scale and offset.
func (m *Material) SetTextureTransform(scale, offset mgl64.Vec2) {
	m.TextureScale = scale
	m.TextureOffset = offset
}

// Library holds one template per material kind.
type Library struct {
	mu        sync.RWMutex
	templates map[MaterialKind]*Material
}

// NewLibrary returns a library with an empty template for every kind.
func NewLibrary() *Library {
	l := &Library{templates: make(map[MaterialKind]*Material)}
	for k := MaterialDefault; k <= MaterialVariSqueeze; k++ {
		l.templates[k] = NewMaterial(k)
	}
	return l
}

// SetTemplate replaces the template for a kind.
func (l *Library) SetTemplate(m *Material) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.templates[m.Kind] = m
}

// Template returns the shared template. Callers must not mutate it.
func (l *Library) Template(kind MaterialKind) (*Material, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.templates[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMaterial, kind)
	}
	return t, nil
}

// Instantiate copies the template for a kind.
func (l *Library) Instantiate(kind MaterialKind) (*Material, error) {
	t, err := l.Template(kind)
	if err != nil {
		return nil, err
	}
	m := t.Clone()

	logrus.WithFields(logrus.Fields{
		"function": "Library.Instantiate",
		"kind":     kind.String(),
		"id":       m.ID.String(),
	}).Debug("Instantiated material")

	return m, nil
}
