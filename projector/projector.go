package projector

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/dispatch"
	"github.com/opd-ai/spinplay/geometry"
	"github.com/opd-ai/spinplay/headset"
	"github.com/opd-ai/spinplay/opf"
	"github.com/opd-ai/spinplay/player"
	"github.com/opd-ai/spinplay/shader"
	"github.com/opd-ai/spinplay/spatial"
	"github.com/opd-ai/spinplay/texture"
	"github.com/sirupsen/logrus"
)

// Projector turns an OPF document into per-eye geometry and keeps it aimed
// at the tile the viewer is looking toward.
//
// All methods must be called from the tick thread.
type Projector struct {
	cfg Config

	player    *player.Player
	headset   headset.Headset
	camera    Camera
	fetcher   texture.Fetcher
	loader    *texture.Loader
	queue     *dispatch.Queue
	ownsQueue bool
	materials *shader.Library
	arena     *geometry.Arena

	initialized bool
	playerSub   int
	headsetSub  int

	observers []subscription
	nextSubID int

	sourceURL  string
	sourceText string
	projection *opf.Projection
	selector   *shader.Selector
	eyes       []*Eye

	visible         bool
	forceMonoscopic bool
	resetForward    bool
	preparing       bool
	wasPlaying      bool
	unmounted       bool

	// attempt invalidates fetch and transform completions that outlive the
	// Prepare that started them.
	attempt uint64

	yawOffset     float64
	headingOffset mgl64.Quat
}

// New creates a projector. A nil cfg uses DefaultConfig.
func New(cfg *Config) *Projector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if c.MonoScale <= 0 {
		c.MonoScale = DefaultMonoScale
	}
	if c.StereoScale <= 0 {
		c.StereoScale = DefaultStereoScale
	}

	logrus.WithFields(logrus.Fields{
		"function":      "New",
		"force_mono":    c.ForceMonoscopic,
		"reset_forward": c.ResetForwardOrientation,
		"auto_prepare":  c.AutoPrepare,
	}).Info("Creating projector")

	return &Projector{
		cfg:             c,
		arena:           geometry.NewArena(),
		selector:        shader.NewSelector(),
		forceMonoscopic: c.ForceMonoscopic,
		resetForward:    c.ResetForwardOrientation,
		headingOffset:   mgl64.QuatIdent(),
	}
}

// Initialize attaches the collaborators and subscribes to their events. With
// AutoPrepare set and a source already assigned it also starts Prepare.
func (p *Projector) Initialize(ctx context.Context, c Collaborators) error {
	if p.initialized {
		return ErrAlreadyInitialized
	}
	switch {
	case c.Player == nil:
		return fmt.Errorf("%w: player", ErrMissingCollaborator)
	case c.Headset == nil:
		return fmt.Errorf("%w: headset", ErrMissingCollaborator)
	case c.Camera == nil:
		return fmt.Errorf("%w: camera", ErrMissingCollaborator)
	}

	p.player = c.Player
	p.headset = c.Headset
	p.camera = c.Camera
	p.fetcher = c.Fetcher
	if p.fetcher == nil {
		p.fetcher = texture.DefaultFetcher()
	}
	p.loader = c.Loader
	p.queue = c.Queue
	if p.queue == nil {
		p.queue = dispatch.NewQueue()
		p.ownsQueue = true
	}
	p.materials = c.Materials
	if p.materials == nil {
		p.materials = shader.NewLibrary()
	}

	p.playerSub = p.player.Subscribe(p.onPlayerEvent)
	queue := p.queue
	p.headsetSub = p.headset.Subscribe(func(ev headset.MountEvent) {
		queue.Post(func() { p.onMountChanged(ev) })
	})
	p.initialized = true
	p.setVisible(false)

	logrus.WithFields(logrus.Fields{
		"function":   "Projector.Initialize",
		"has_loader": p.loader != nil,
		"owns_queue": p.ownsQueue,
	}).Info("Projector initialized")

	if p.cfg.AutoPrepare && p.CanPrepare() {
		return p.Prepare(ctx)
	}
	return nil
}

// Teardown unsubscribes from the collaborators and releases the geometry.
// The projector can be initialized again afterwards.
func (p *Projector) Teardown() {
	if !p.initialized {
		return
	}
	p.player.Unsubscribe(p.playerSub)
	p.headset.Unsubscribe(p.headsetSub)
	p.clearGeometry()
	p.attempt++
	p.preparing = false
	p.projection = nil
	if p.ownsQueue {
		p.queue.Close()
	}

	p.player, p.headset, p.camera = nil, nil, nil
	p.fetcher, p.loader, p.queue, p.materials = nil, nil, nil, nil
	p.ownsQueue = false
	p.unmounted = false
	p.initialized = false

	logrus.WithFields(logrus.Fields{
		"function": "Projector.Teardown",
	}).Info("Projector torn down")
}

// Tick runs one frame: queued completions, the player's decoder events, then
// tile selection and the audio orientation.
func (p *Projector) Tick() {
	if !p.initialized {
		return
	}
	p.queue.Drain()
	p.player.Tick()
	p.updateHeading()
	p.updateAudioOrientation()
}

// Player returns the attached player.
func (p *Projector) Player() *player.Player { return p.player }

// Projection returns the parsed document, or nil.
func (p *Projector) Projection() *opf.Projection { return p.projection }

// Eyes returns the left and right eye, or nil before the projection is
// built.
func (p *Projector) Eyes() []*Eye { return p.eyes }

// HeadingOffset is the rotation applied to tile orientations.
func (p *Projector) HeadingOffset() mgl64.Quat { return p.headingOffset }

// IsPreparing reports whether a Prepare is in progress.
func (p *Projector) IsPreparing() bool { return p.preparing }

// SourceURL returns the OPF document URL.
func (p *Projector) SourceURL() string { return p.sourceURL }

// SetSourceURL sets the OPF document URL and clears SourceText. The player
// must be Idle.
func (p *Projector) SetSourceURL(url string) error {
	if err := p.requireIdle("SetSourceURL"); err != nil {
		return err
	}
	p.sourceText = ""
	p.sourceURL = url
	p.projection = nil
	return nil
}

// SourceText returns the literal OPF document.
func (p *Projector) SourceText() string { return p.sourceText }

// SetSourceText sets a literal OPF document and clears SourceURL. The player
// must be Idle.
func (p *Projector) SetSourceText(text string) error {
	if err := p.requireIdle("SetSourceText"); err != nil {
		return err
	}
	p.sourceURL = ""
	p.sourceText = text
	p.projection = nil
	return nil
}

func (p *Projector) requireIdle(op string) error {
	if p.player == nil || p.player.ReadyState() == player.Idle {
		return nil
	}
	return fmt.Errorf("%w: %s in %s", ErrPlayerNotIdle, op, p.player.ReadyState())
}

// ForceMonoscopic reports whether stereo content is shown monoscopically.
func (p *Projector) ForceMonoscopic() bool { return p.forceMonoscopic }

// SetForceMonoscopic changes the stereo presentation and raises
// EventForceMonoscopicChanged when the value changes.
func (p *Projector) SetForceMonoscopic(v bool) {
	if v == p.forceMonoscopic {
		return
	}
	p.forceMonoscopic = v
	p.updateStereoMode()
	p.raise(Event{Kind: EventForceMonoscopicChanged, ForceMonoscopic: v})
}

// ResetForwardOrientation reports whether Prepare re-centers on the current
// view direction.
func (p *Projector) ResetForwardOrientation() bool { return p.resetForward }

// SetResetForwardOrientation takes effect at the next Prepare.
func (p *Projector) SetResetForwardOrientation(v bool) { p.resetForward = v }

// Visible reports whether the geometry is shown.
func (p *Projector) Visible() bool { return p.visible }

// SetVisible shows or hides the geometry.
func (p *Projector) SetVisible(v bool) { p.setVisible(v) }

func (p *Projector) setVisible(v bool) {
	p.visible = v
	for _, e := range p.eyes {
		e.Visible = v
	}
}

// CanPrepare reports whether Prepare would start.
func (p *Projector) CanPrepare() bool {
	return !p.preparing &&
		p.initialized &&
		p.player.ReadyState() == player.Idle &&
		(p.sourceURL != "" || p.sourceText != "")
}

// updateHeading requests the tile closest to the view direction.
func (p *Projector) updateHeading() {
	if p.projection == nil {
		return
	}
	tile := p.projection.ClosestTileForHeading(p.headset.Heading(), p.headingOffset)
	if tile == nil {
		logrus.WithFields(logrus.Fields{
			"function": "Projector.updateHeading",
			"tiles":    len(p.projection.Tiles),
		}).Error("Unable to find the closest tile")
		return
	}
	if id, ok := p.player.RequestedTileID(); ok && id == tile.ID {
		return
	}
	if err := p.player.SetTileID(tile.ID); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Projector.updateHeading",
			"tile_id":  tile.ID,
			"error":    err.Error(),
		}).Warn("Tile request failed")
	}
}

// audioOffset is the heading offset without the shape seam, which only
// applies to the visuals.
func (p *Projector) audioOffset() mgl64.Quat {
	return spatial.Euler(0, p.yawOffset, 0).Mul(p.projection.HeadingQuat())
}

func (p *Projector) updateAudioOrientation() {
	if p.projection == nil {
		return
	}
	if err := p.player.SetAudioOrientation(p.headset.Heading(), p.audioOffset()); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Projector.updateAudioOrientation",
			"error":    err.Error(),
		}).Warn("Audio orientation update failed")
	}
}
