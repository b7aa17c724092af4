package spinplay

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/opd-ai/spinplay/dispatch"
	"github.com/opd-ai/spinplay/factory"
	"github.com/opd-ai/spinplay/headset"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/opd-ai/spinplay/player"
	"github.com/opd-ai/spinplay/projector"
	"github.com/opd-ai/spinplay/shader"
	"github.com/opd-ai/spinplay/stats"
	"github.com/opd-ai/spinplay/texture"
	"github.com/sirupsen/logrus"
)

// ErrClosed indicates a Session used after Close.
var ErrClosed = errors.New("session closed")

// Options configures a Session. Zero fields take the defaults noted on
// each.
type Options struct {
	// Factory creates decoders. Defaults to factory.NewDecoderFactory.
	Factory player.DecoderFactory

	// Headset defaults to a mounted simulated Oculus Rift.
	Headset headset.Headset

	// Camera defaults to a HeadlessCamera.
	Camera projector.Camera

	// Fetcher retrieves OPF documents and remap textures. Defaults to
	// texture.DefaultFetcher.
	Fetcher texture.Fetcher

	Player    *player.Config
	Projector *projector.Config
	Loader    *texture.LoaderConfig

	// Thresholds grade playback health. Defaults to stats.DefaultThresholds.
	Thresholds *stats.Thresholds

	// ReportInterval starts periodic health reports when positive.
	ReportInterval time.Duration
	OnReport       func(stats.Report)
}

// DefaultOptions returns options that build every collaborator itself.
func DefaultOptions() *Options {
	return &Options{}
}

// Session is a player, projector and their collaborators wired together.
// Tick and every other method must be called from one goroutine.
type Session struct {
	queue     *dispatch.Queue
	loader    *texture.Loader
	player    *player.Player
	headset   headset.Headset
	camera    projector.Camera
	projector *projector.Projector
	monitor   *stats.Monitor

	// decoder is the latest decoder the session created, kept so
	// scripted decoders can be clocked by Tick.
	mu      sync.Mutex
	decoder interfaces.Decoder

	closed bool
}

// clockedDecoder is a decoder whose media time is driven from outside.
type clockedDecoder interface {
	Advance(elapsed time.Duration)
}

// NewSession builds and initializes every collaborator.
func NewSession(ctx context.Context, opts *Options) (*Session, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	s := &Session{
		queue:   dispatch.NewQueue(),
		headset: opts.Headset,
		camera:  opts.Camera,
	}
	if s.headset == nil {
		s.headset = headset.NewSimulated(headset.TypeOculusRift)
	}
	if s.camera == nil {
		s.camera = &HeadlessCamera{LeftLayer: 1, RightLayer: 2}
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = texture.DefaultFetcher()
	}
	s.loader = texture.NewLoader(fetcher, s.queue, opts.Loader)

	decoders := opts.Factory
	if decoders == nil {
		decoders = factory.NewDecoderFactory()
	}
	s.player = player.New(player.DecoderFactoryFunc(func(sink interfaces.EventSink) (interfaces.Decoder, error) {
		dec, err := decoders.Create(sink)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.decoder = dec
		s.mu.Unlock()
		return dec, nil
	}), opts.Player)

	s.monitor = stats.NewMonitor(opts.Thresholds)
	if err := s.monitor.Attach(s.player); err != nil {
		return nil, err
	}

	s.projector = projector.New(opts.Projector)
	err := s.projector.Initialize(ctx, projector.Collaborators{
		Player:    s.player,
		Headset:   s.headset,
		Camera:    s.camera,
		Fetcher:   fetcher,
		Loader:    s.loader,
		Queue:     s.queue,
		Materials: shader.NewLibrary(),
	})
	if err != nil {
		s.monitor.Detach()
		return nil, fmt.Errorf("initialize projector: %w", err)
	}

	if opts.ReportInterval > 0 {
		s.monitor.OnReport(opts.OnReport)
		if err := s.monitor.Start(opts.ReportInterval); err != nil {
			s.Close()
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewSession",
		"headset":  fmt.Sprintf("%T", s.headset),
		"reports":  opts.ReportInterval > 0,
	}).Info("Session ready")
	return s, nil
}

// Open points the projector at an OPF document URL and prepares it.
func (s *Session) Open(ctx context.Context, url string) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.projector.SetSourceURL(url); err != nil {
		return err
	}
	return s.projector.Prepare(ctx)
}

// OpenText prepares an OPF document held in memory.
func (s *Session) OpenText(ctx context.Context, doc string) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.projector.SetSourceText(doc); err != nil {
		return err
	}
	return s.projector.Prepare(ctx)
}

// Stop resets the player so another document can be opened.
func (s *Session) Stop() {
	if s.closed {
		return
	}
	s.player.Reset()
}

// Tick advances a scripted decoder by elapsed and runs one projector frame.
func (s *Session) Tick(elapsed time.Duration) {
	if s.closed {
		return
	}
	s.mu.Lock()
	dec := s.decoder
	s.mu.Unlock()
	if c, ok := dec.(clockedDecoder); ok && elapsed > 0 {
		c.Advance(elapsed)
	}
	s.projector.Tick()
}

// Report returns the current playback statistics.
func (s *Session) Report() stats.Report { return s.monitor.Snapshot() }

// Player returns the session's player.
func (s *Session) Player() *player.Player { return s.player }

// Projector returns the session's projector.
func (s *Session) Projector() *projector.Projector { return s.projector }

// Headset returns the session's headset.
func (s *Session) Headset() headset.Headset { return s.headset }

// Loader returns the remap texture cache.
func (s *Session) Loader() *texture.Loader { return s.loader }

// Monitor returns the playback statistics monitor.
func (s *Session) Monitor() *stats.Monitor { return s.monitor }

// Close tears everything down. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.monitor.Stop()
	s.monitor.Detach()
	s.projector.Teardown()
	s.player.Reset()
	s.queue.Close()

	logrus.WithFields(logrus.Fields{
		"function": "Session.Close",
	}).Info("Session closed")
}

// HeadlessCamera is a Camera for hosts without a renderer. It remembers
// the last clear color.
type HeadlessCamera struct {
	LeftLayer, RightLayer int
	ClearColor            color.NRGBA
	Cleared               bool
}

// SetClearColor implements projector.Camera.
func (c *HeadlessCamera) SetClearColor(col color.NRGBA) {
	c.ClearColor = col
	c.Cleared = true
}

// EyeLayers implements projector.Camera.
func (c *HeadlessCamera) EyeLayers() (int, int) { return c.LeftLayer, c.RightLayer }
