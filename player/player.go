package player

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/opd-ai/spinplay/shader"
	"github.com/sirupsen/logrus"
)

// DecoderFactory creates a decoder delivering to sink.
type DecoderFactory interface {
	Create(sink interfaces.EventSink) (interfaces.Decoder, error)
}

// DecoderFactoryFunc adapts a function to DecoderFactory.
type DecoderFactoryFunc func(sink interfaces.EventSink) (interfaces.Decoder, error)

// Create implements DecoderFactory.
func (f DecoderFactoryFunc) Create(sink interfaces.EventSink) (interfaces.Decoder, error) {
	return f(sink)
}

type queuedEvent struct {
	generation uuid.UUID
	ev         interfaces.DecoderEvent
}

// Player drives a decoder through the Idle, Preparing, Ready, Ended and Error
// states and normalizes its callbacks into player events.
//
// Except for Deliver, methods must be called from the tick thread.
type Player struct {
	cfg     Config
	factory DecoderFactory
	clock   TimeProvider

	decoder interfaces.Decoder

	inboxMu    sync.Mutex
	inbox      []queuedEvent
	generation uuid.UUID

	observers []subscription
	nextSubID int

	readyState  ReadyState
	sourceURL   string
	targets     []Target
	autoPlay    bool
	loop        bool
	autoQuality bool
	isPlaying   bool
	preferYUV   bool

	qualityGroups []*QualityGroup
	audioTracks   []*AudioTrack
	videoWidth    int
	videoHeight   int
	mediaWidth    int
	mediaHeight   int
	duration      time.Duration
	currentTime   time.Duration

	colorModel shader.ColorModel
	textures   []shader.Texture

	currentTileID       string
	hasCurrentTile      bool
	requestedTileID     string
	hasRequestedTile    bool
	currentQualityGroup *QualityGroup
	currentAudioTrack   *AudioTrack

	prepared      bool
	lastState     interfaces.PlaybackState
	hasLastState  bool
	seeking       bool
	stalled       bool
	firstFrame    bool
	scheduledTile string
	scheduledAtUs int64
	hasScheduled  bool
	nextPoll      time.Time
	pending       []interfaces.DecoderEvent
}

// New creates an Idle player. A nil cfg uses DefaultConfig.
func New(factory DecoderFactory, cfg *Config) *Player {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}

	logrus.WithFields(logrus.Fields{
		"function":     "New",
		"auto_play":    c.AutoPlay,
		"auto_quality": c.AutoQuality,
		"loop":         c.Loop,
		"poll":         c.PollInterval,
	}).Info("Creating player")

	p := &Player{
		cfg:        c,
		factory:    factory,
		clock:      DefaultTimeProvider{},
		generation: uuid.New(),
	}
	p.clear()
	return p
}

// SetTimeProvider replaces the clock used to throttle current time queries.
func (p *Player) SetTimeProvider(tp TimeProvider) {
	if tp == nil {
		tp = DefaultTimeProvider{}
	}
	p.clock = tp
}

// clear restores every field Reset restores.
func (p *Player) clear() {
	p.sourceURL = ""
	p.targets = nil
	p.autoPlay = p.cfg.AutoPlay
	p.loop = p.cfg.Loop
	p.autoQuality = p.cfg.AutoQuality
	p.isPlaying = false
	p.preferYUV = false
	p.qualityGroups = nil
	p.audioTracks = nil
	p.videoWidth, p.videoHeight = UnknownSize, UnknownSize
	p.mediaWidth, p.mediaHeight = UnknownSize, UnknownSize
	p.duration = UnknownTime
	p.currentTime = UnknownTime
	p.colorModel = shader.RGB
	p.textures = nil
	p.currentTileID, p.hasCurrentTile = "", false
	p.requestedTileID, p.hasRequestedTile = "", false
	p.currentQualityGroup = nil
	p.currentAudioTrack = nil
	p.prepared = false
	p.hasLastState = false
	p.seeking = false
	p.stalled = false
	p.firstFrame = false
	p.hasScheduled = false
	p.nextPoll = time.Time{}
	p.pending = nil
}

func (p *Player) setReadyState(s ReadyState) {
	if s == p.readyState {
		return
	}
	logrus.WithFields(logrus.Fields{
		"function": "Player.setReadyState",
		"from":     p.readyState.String(),
		"to":       s.String(),
	}).Info("Player ready state changed")
	p.readyState = s
	p.raise(Event{Kind: EventReadyStateChanged, ReadyState: s})
}

// known reports whether derived properties may be read.
func (p *Player) known() bool {
	return p.readyState != Idle && p.readyState != Preparing
}

// ReadyState returns the lifecycle state.
func (p *Player) ReadyState() ReadyState { return p.readyState }

// Generation identifies the current Prepare cycle. It changes on Reset.
func (p *Player) Generation() uuid.UUID {
	p.inboxMu.Lock()
	defer p.inboxMu.Unlock()
	return p.generation
}

// Config returns the defaults the player was created with.
func (p *Player) Config() Config { return p.cfg }

// SourceURL returns the media URL.
func (p *Player) SourceURL() string { return p.sourceURL }

// SetSourceURL sets the media URL. Only legal while Idle.
func (p *Player) SetSourceURL(url string) error {
	if err := p.requireState("SetSourceURL", Idle); err != nil {
		return err
	}
	p.sourceURL = url
	return nil
}

// Targets returns the render targets.
func (p *Player) Targets() []Target { return p.targets }

// SetTargets replaces the render targets and hands them the current textures.
func (p *Player) SetTargets(targets ...Target) error {
	if err := p.requireState("SetTargets", Idle, Preparing, Ready, Ended); err != nil {
		return err
	}
	p.targets = targets
	p.updateTargets()
	return nil
}

func (p *Player) updateTargets() {
	if p.textures == nil {
		return
	}
	for _, t := range p.targets {
		t.SetVideoTextures(p.colorModel, p.textures)
	}
}

// AutoPlay reports whether Ready starts playback.
func (p *Player) AutoPlay() bool { return p.autoPlay }

// SetAutoPlay changes AutoPlay. Changing it after Prepare has no effect on
// the current cycle.
func (p *Player) SetAutoPlay(v bool) error {
	if err := p.requireState("SetAutoPlay", Idle, Preparing, Ready, Ended); err != nil {
		return err
	}
	if p.readyState == Ready || p.readyState == Ended {
		logrus.WithFields(logrus.Fields{
			"function":  "Player.SetAutoPlay",
			"auto_play": v,
			"state":     p.readyState.String(),
		}).Warn("AutoPlay changed after Ready has no effect until the next Prepare")
	}
	p.autoPlay = v
	return nil
}

// Loop reports whether playback restarts at the end.
func (p *Player) Loop() bool { return p.loop }

// SetLoop changes Loop.
func (p *Player) SetLoop(v bool) error {
	if err := p.requireState("SetLoop", Idle, Preparing, Ready, Ended); err != nil {
		return err
	}
	if p.readyState == Ended {
		logrus.WithFields(logrus.Fields{
			"function": "Player.SetLoop",
			"loop":     v,
		}).Warn("Loop changed after playback ended has no effect")
	}
	p.loop = v
	return nil
}

// AutoQuality reports whether the decoder picks quality groups.
func (p *Player) AutoQuality() bool { return p.autoQuality }

// SetAutoQuality hands quality selection to the decoder, or pins the
// current quality group. Only legal in Ready or Ended.
func (p *Player) SetAutoQuality(v bool) error {
	if err := p.requireState("SetAutoQuality", Ready, Ended); err != nil {
		return err
	}
	if v {
		p.autoQuality = true
		return p.decoder.EnableAutoQuality()
	}
	if p.currentQualityGroup == nil {
		p.autoQuality = false
		return nil
	}
	return p.SetQualityGroup(p.currentQualityGroup)
}

// IsPlaying reports whether the player is Ready and playing.
func (p *Player) IsPlaying() bool {
	return p.readyState == Ready && p.isPlaying
}

// QualityGroups returns the announced quality groups, or nil before Ready.
func (p *Player) QualityGroups() []*QualityGroup {
	if !p.known() {
		return nil
	}
	return p.qualityGroups
}

// AudioTracks returns the announced audio tracks, or nil before Ready.
func (p *Player) AudioTracks() []*AudioTrack {
	if !p.known() {
		return nil
	}
	return p.audioTracks
}

// VideoSize returns the decoded frame size, or UnknownSize before Ready.
func (p *Player) VideoSize() (int, int) {
	if !p.known() {
		return UnknownSize, UnknownSize
	}
	return p.videoWidth, p.videoHeight
}

// MediaSize returns the size of the media within the decoded frame, or
// UnknownSize before Ready.
func (p *Player) MediaSize() (int, int) {
	if !p.known() {
		return UnknownSize, UnknownSize
	}
	return p.mediaWidth, p.mediaHeight
}

// Duration returns the media duration, or UnknownTime before Ready.
func (p *Player) Duration() time.Duration {
	if !p.known() {
		return UnknownTime
	}
	return p.duration
}

// CurrentTime returns the playhead, or UnknownTime before Ready.
func (p *Player) CurrentTime() time.Duration {
	if !p.known() {
		return UnknownTime
	}
	return p.currentTime
}

// Textures returns the decoder output textures, or nil before Ready.
func (p *Player) Textures() []shader.Texture {
	if !p.known() {
		return nil
	}
	return p.textures
}

// ColorModel returns the layout of the output textures.
func (p *Player) ColorModel() shader.ColorModel { return p.colorModel }

// YDown reports whether decoded frames start at the top scan line.
func (p *Player) YDown() bool { return p.cfg.YDown }

// CurrentTileID returns the tile being rendered. ok is false before Ready or
// before any tile is known.
func (p *Player) CurrentTileID() (id string, ok bool) {
	if !p.known() {
		return "", false
	}
	return p.currentTileID, p.hasCurrentTile
}

// RequestedTileID returns the last requested tile.
func (p *Player) RequestedTileID() (id string, ok bool) {
	return p.requestedTileID, p.hasRequestedTile
}

// CurrentQualityGroup returns the quality group being rendered, or nil.
func (p *Player) CurrentQualityGroup() *QualityGroup {
	if !p.known() {
		return nil
	}
	return p.currentQualityGroup
}

// CurrentAudioTrack returns the audio track being played, or nil.
func (p *Player) CurrentAudioTrack() *AudioTrack {
	if !p.known() {
		return nil
	}
	return p.currentAudioTrack
}

// QualityGroupWithName returns the announced group named name, or nil.
func (p *Player) QualityGroupWithName(name string) *QualityGroup {
	for _, g := range p.qualityGroups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// AudioTrackWithID returns the announced track with id, or nil.
func (p *Player) AudioTrackWithID(id string) *AudioTrack {
	for _, t := range p.audioTracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// UpdateShader copies the output textures and their color model into s.
func (p *Player) UpdateShader(s *shader.Selector) {
	s.ColorModel = p.colorModel
	s.SourceTextures = p.textures
}

func (p *Player) setCurrentTime(t time.Duration) {
	if t == p.currentTime {
		return
	}
	p.currentTime = t
	p.raise(Event{Kind: EventCurrentTimeChanged, Time: t})
}

func (p *Player) setCurrentTileID(id string) {
	if p.hasCurrentTile && id == p.currentTileID {
		return
	}
	p.currentTileID, p.hasCurrentTile = id, true
	p.raise(Event{Kind: EventTileChanged, TileID: id})
}

func (p *Player) setCurrentQualityGroup(g *QualityGroup) {
	if g == p.currentQualityGroup {
		return
	}
	p.currentQualityGroup = g
	p.raise(Event{Kind: EventQualityGroupChanged, QualityGroup: g})
}

func (p *Player) setCurrentAudioTrack(t *AudioTrack) {
	if t == p.currentAudioTrack {
		return
	}
	p.currentAudioTrack = t
	p.raise(Event{Kind: EventAudioTrackChanged, AudioTrack: t})
}
