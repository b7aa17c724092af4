package projector

import (
	"context"
	"fmt"

	"github.com/opd-ai/spinplay/headset"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/opd-ai/spinplay/opf"
	"github.com/opd-ai/spinplay/player"
	"github.com/opd-ai/spinplay/shader"
	"github.com/opd-ai/spinplay/spatial"
	"github.com/opd-ai/spinplay/transform"
	"github.com/sirupsen/logrus"
)

// Prepare loads the source document and prepares the player for it. The
// projection is built when the player reaches Ready, after which
// EventPrepared is raised.
//
// Precondition failures are returned. Fetch, parse and transform failures
// are raised as EventError and leave the projector ready for another
// Prepare.
func (p *Projector) Prepare(ctx context.Context) error {
	switch {
	case !p.initialized:
		return ErrNotInitialized
	case p.preparing:
		return ErrAlreadyPreparing
	case p.player.ReadyState() != player.Idle:
		return fmt.Errorf("%w: Prepare in %s", ErrPlayerNotIdle, p.player.ReadyState())
	case p.sourceURL == "" && p.sourceText == "":
		return ErrNoSource
	}

	p.preparing = true
	p.attempt++
	p.setVisible(false)
	p.yawOffset = 0
	if p.resetForward {
		p.yawOffset = p.headset.Heading().Y()
	}
	p.wasPlaying = false

	logrus.WithFields(logrus.Fields{
		"function":   "Projector.Prepare",
		"source_url": p.sourceURL,
		"literal":    p.sourceText != "",
		"yaw_offset": p.yawOffset,
	}).Info("Preparing projector")

	if p.sourceURL != "" {
		p.fetch(ctx, p.attempt, p.sourceURL)
		return nil
	}
	p.load(ctx, []byte(p.sourceText), "")
	return nil
}

// fetch retrieves the document in the background and resumes on the tick
// thread.
func (p *Projector) fetch(ctx context.Context, attempt uint64, url string) {
	fetcher, queue := p.fetcher, p.queue
	go func() {
		data, err := fetcher.Fetch(ctx, url)
		queue.Post(func() {
			if attempt != p.attempt {
				logrus.WithFields(logrus.Fields{
					"function": "Projector.fetch",
					"url":      url,
				}).Debug("Dropping stale fetch completion")
				return
			}
			if err != nil {
				p.abort(fmt.Errorf("%w: %s: %w", ErrFetch, url, err))
				return
			}
			logrus.WithFields(logrus.Fields{
				"function": "Projector.fetch",
				"url":      url,
				"bytes":    len(data),
			}).Info("Fetched OPF document")
			p.load(ctx, data, url)
		})
	}()
}

// abort ends a failed Prepare and raises err.
func (p *Projector) abort(err error) {
	p.preparing = false
	p.raiseError(err)
}

// load parses the document and prepares the player for it.
func (p *Projector) load(ctx context.Context, data []byte, baseURL string) {
	if len(data) == 0 {
		p.abort(ErrEmptyDocument)
		return
	}
	proj, err := opf.Parse(data, baseURL)
	if err != nil {
		p.abort(err)
		return
	}
	p.projection = proj

	logrus.WithFields(logrus.Fields{
		"function":   "Projector.load",
		"projection": proj.String(),
	}).Info("Parsed OPF document")

	p.preparePlayer(ctx)
}

// preparePlayer hands the document to the player and runs the transform.
// The player is prepared once the transform's shader inputs are ready.
func (p *Projector) preparePlayer(ctx context.Context) {
	proj := p.projection
	if err := p.player.SetSourceURL(proj.URL); err != nil {
		p.abort(err)
		return
	}

	// The seam offset of the shape the format builds is known before any
	// geometry exists, so the first tile request already accounts for it.
	seam := proj.Format.CreateGeometry(0, 0, proj.StereoMode, true).Offset()
	p.headingOffset = spatial.Euler(0, p.yawOffset, 0).Mul(proj.HeadingQuat()).Mul(seam)
	p.updateHeading()
	p.updateAudioOrientation()

	config := p.decoderConfig()

	// Each attempt fills its own selector so a late completion cannot touch
	// the inputs of a newer one.
	attempt := p.attempt
	sel := shader.NewSelector()
	p.videoTransform().UpdateShader(ctx, sel, func(err error) {
		if attempt != p.attempt {
			logrus.WithFields(logrus.Fields{
				"function": "Projector.preparePlayer",
			}).Debug("Dropping stale transform completion")
			return
		}
		p.selector = sel
		if err != nil {
			p.abort(fmt.Errorf("%w: %s: %w", ErrTransform, proj.Transform.Kind(), err))
			return
		}
		if err := p.player.Prepare(config); err != nil {
			if p.player.ReadyState() == player.Error {
				// Already forwarded from the player's own error event.
				p.preparing = false
				return
			}
			p.abort(err)
		}
	})
}

// videoTransform returns the document's transform ready to run. A UV map
// without its own source is copied and given the loader bound to the tick
// queue, so the parsed document is left as it was.
func (p *Projector) videoTransform() transform.VideoTransform {
	u, ok := p.projection.Transform.(*transform.UvMap)
	if !ok || u.Source != nil || p.loader == nil {
		return p.projection.Transform
	}
	bound := *u
	bound.Source = p.loader.Bind(p.queue)
	return &bound
}

// decoderConfig merges the headset's configuration with the document's
// tiling and audio layout.
func (p *Projector) decoderConfig() interfaces.DecoderConfig {
	proj := p.projection
	config := p.headset.PlayerConfiguration().Clone()
	config[interfaces.ForceFrameSyncKey] = len(proj.Tiles) > 1
	if p.cfg.Platform == headset.PlatformAndroid && len(proj.Tiles) < 2 {
		config = config.Merge(androidBuffering())
	}
	config[interfaces.SpatialChannelsKey] = proj.Audio.SpatialChannels
	config[interfaces.HeadLockedChannelsKey] = proj.Audio.HeadLockedChannels
	config[interfaces.SpatialFormatKey] = proj.Audio.SpatialFormat.String()
	return config
}
