package projector

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/geometry"
	"github.com/opd-ai/spinplay/opf"
	"github.com/opd-ai/spinplay/player"
	"github.com/opd-ai/spinplay/shader"
	"github.com/opd-ai/spinplay/spatial"
	"github.com/sirupsen/logrus"
)

// updateProjection builds both eyes once the player knows the frame size.
func (p *Projector) updateProjection() error {
	proj := p.projection
	if proj == nil {
		return fmt.Errorf("%w: no projection", ErrProjection)
	}
	p.clearGeometry()

	if proj.BackgroundColor.A > 0 {
		p.camera.SetClearColor(proj.BackgroundColor)
	}

	vw, vh := p.player.VideoSize()
	tw, th := EyeTextureSize(proj.StereoMode, vw, vh)

	p.player.UpdateShader(p.selector)
	kind := shader.Select(p.selector)
	split := len(p.selector.UVMaps) > 1

	for _, side := range []Side{LeftEye, RightEye} {
		eye, err := p.buildEye(side, tw, th, kind, split)
		if err != nil {
			p.clearGeometry()
			return fmt.Errorf("%w: %s eye: %w", ErrProjection, side, err)
		}
		p.eyes = append(p.eyes, eye)
	}

	p.updateStereoMode()

	left := p.eyes[LeftEye]
	p.headingOffset = spatial.Euler(0, p.yawOffset, 0).Mul(proj.HeadingQuat()).Mul(left.Shape.Offset())
	if id, ok := p.player.RequestedTileID(); ok {
		p.orientForTile(proj.TileWithID(id))
	}

	if err := p.player.SetTargets(p.eyes[LeftEye], p.eyes[RightEye]); err != nil {
		p.clearGeometry()
		return fmt.Errorf("%w: %w", ErrProjection, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":       "Projector.updateProjection",
		"format":         proj.Format.Kind().String(),
		"stereo":         proj.StereoMode.String(),
		"texture_width":  tw,
		"texture_height": th,
		"material":       kind.String(),
		"split":          split,
	}).Info("Projection built")
	return nil
}

func (p *Projector) buildEye(side Side, tw, th int, kind shader.MaterialKind, split bool) (*Eye, error) {
	proj := p.projection
	shape := proj.Format.CreateGeometry(tw, th, proj.StereoMode, side == LeftEye)
	mesh := shape.Build()
	if split {
		if err := geometry.AddIntersectedUVs(mesh, 0, p.selector.Discontinuities); err != nil {
			return nil, err
		}
	}

	handle, err := p.arena.Put(shape)
	if err != nil {
		return nil, err
	}
	eye := &Eye{
		Side:        side,
		Handle:      handle,
		Shape:       shape,
		Orientation: mgl64.QuatIdent(),
		Layer:       DefaultLayer,
		Scale:       p.cfg.MonoScale,
		Visible:     p.visible,
	}

	// Templates are shared, so every eye draws with its own copy.
	material, err := p.materials.Instantiate(kind)
	if err != nil {
		p.arena.Release(handle)
		return nil, err
	}
	if err := material.Apply(p.selector); err != nil {
		p.arena.Release(handle)
		return nil, err
	}
	eye.Material = material
	p.configureMaterial(eye)
	return eye, nil
}

// configureMaterial crops the eye's image out of the decoded frame.
func (p *Projector) configureMaterial(e *Eye) {
	vw, vh := p.player.VideoSize()
	mw, mh := p.player.MediaSize()
	if vw <= 0 || vh <= 0 {
		return
	}
	media := mgl64.Vec2{float64(mw) / float64(vw), float64(mh) / float64(vh)}
	scale, offset := TextureTransform(p.projection.StereoMode, e.Side, media, p.player.YDown())
	e.Material.SetTextureTransform(scale, offset)
}

// updateStereoMode assigns culling layers and projection distance.
func (p *Projector) updateStereoMode() {
	if len(p.eyes) != 2 || p.projection == nil {
		return
	}
	mono := p.projection.StereoMode == opf.Mono || p.forceMonoscopic
	left, right := p.camera.EyeLayers()
	scale := p.cfg.StereoScale
	if mono {
		left, right = DefaultLayer, DefaultLayer
		scale = p.cfg.MonoScale
	}
	p.eyes[LeftEye].Layer, p.eyes[RightEye].Layer = left, right
	for _, e := range p.eyes {
		e.Scale = scale
	}
}

// orientForTile rotates both eyes to face tile.
func (p *Projector) orientForTile(tile *opf.Tile) {
	if tile == nil {
		return
	}
	rotation := p.headingOffset.Mul(tile.Orientation())

	logrus.WithFields(logrus.Fields{
		"function": "Projector.orientForTile",
		"tile":     tile.String(),
	}).Debug("Orienting geometry")

	for _, e := range p.eyes {
		e.Orientation = rotation
	}
}

// resize refits both eyes to a new quality group's frame. The player's
// frame size is the largest group's, so the group's own size is used.
func (p *Projector) resize(g *player.QualityGroup) {
	if len(p.eyes) != 2 || g == nil {
		logrus.WithFields(logrus.Fields{
			"function": "Projector.resize",
			"eyes":     len(p.eyes),
		}).Warn("No eye geometry to resize")
		return
	}
	tw, th := EyeTextureSize(p.projection.StereoMode, g.VideoWidth, g.VideoHeight)
	split := len(p.selector.UVMaps) > 1
	for _, e := range p.eyes {
		if err := p.projection.Format.UpdateGeometry(e.Shape, tw, th); err != nil {
			p.raiseError(fmt.Errorf("%w: %w", ErrProjection, err))
			return
		}
		before := e.Shape.Version()
		mesh := e.Shape.Build()
		if split && e.Shape.Version() != before {
			if err := geometry.AddIntersectedUVs(mesh, 0, p.selector.Discontinuities); err != nil {
				p.raiseError(fmt.Errorf("%w: %w", ErrProjection, err))
				return
			}
		}
		p.configureMaterial(e)
	}

	logrus.WithFields(logrus.Fields{
		"function":       "Projector.resize",
		"quality_group":  g.Name,
		"texture_width":  tw,
		"texture_height": th,
	}).Debug("Eye geometry resized")
}

// clearGeometry releases both eyes.
func (p *Projector) clearGeometry() {
	for _, e := range p.eyes {
		if err := p.arena.Release(e.Handle); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Projector.clearGeometry",
				"handle":   e.Handle,
				"error":    err.Error(),
			}).Warn("Releasing eye geometry failed")
		}
	}
	p.eyes = nil
}
