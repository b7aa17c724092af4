package projector

import (
	"image/color"

	"github.com/opd-ai/spinplay/dispatch"
	"github.com/opd-ai/spinplay/headset"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/opd-ai/spinplay/player"
	"github.com/opd-ai/spinplay/shader"
	"github.com/opd-ai/spinplay/texture"
)

// DefaultLayer is the culling layer every camera renders.
const DefaultLayer = 0

// Projection distances. Geometry is built in unit space and scaled out so
// that monoscopic content sits beyond stereo acuity.
const (
	DefaultMonoScale   = 200.0
	DefaultStereoScale = DefaultMonoScale
)

// Camera is the host's stereo camera rig.
type Camera interface {
	// SetClearColor switches both eye cameras to a solid background.
	SetClearColor(c color.NRGBA)

	// EyeLayers returns the culling layers only the left and only the right
	// eye camera render.
	EyeLayers() (left, right int)
}

// Collaborators are the objects a projector drives. Player, Headset and
// Camera are required.
type Collaborators struct {
	Player  *player.Player
	Headset headset.Headset
	Camera  Camera

	// Fetcher retrieves OPF documents. Nil uses texture.DefaultFetcher.
	Fetcher texture.Fetcher

	// Loader resolves UV map textures for documents that need them.
	Loader *texture.Loader

	// Queue carries fetch completions and headset notifications to the
	// tick thread. Nil creates a private queue.
	Queue *dispatch.Queue

	// Materials holds the material templates. Nil uses an empty library.
	Materials *shader.Library
}

// Config holds the projector settings.
type Config struct {
	// Platform selects platform specific decoder tuning
	Platform headset.Platform

	// MonoScale and StereoScale are the projection distances in meters
	MonoScale   float64
	StereoScale float64

	// ForceMonoscopic shows the left eye image to both eyes
	ForceMonoscopic bool

	// ResetForwardOrientation makes the current view direction forward at
	// Prepare
	ResetForwardOrientation bool

	// AutoPrepare prepares during Initialize when a source is already set
	AutoPrepare bool
}

// DefaultConfig returns the default projector configuration.
func DefaultConfig() *Config {
	return &Config{
		Platform:    headset.PlatformDesktop,
		MonoScale:   DefaultMonoScale,
		StereoScale: DefaultStereoScale,
	}
}

// androidBuffering is the decoder buffer tuning for untiled streams on
// Android.
func androidBuffering() interfaces.DecoderConfig {
	return interfaces.DecoderConfig{
		interfaces.MaxInitialBitrateKey:                 15_000_000,
		interfaces.MinDurationForQualityIncreaseMsKey:   10_000,
		interfaces.MaxDurationForQualityDecreaseMsKey:   25_000,
		interfaces.MinDurationToRetainAfterDiscardMsKey: 25_000,
		interfaces.BandwidthFractionKey:                 0.75,
		interfaces.MinBufferMsKey:                       15_000,
		interfaces.MaxBufferMsKey:                       30_000,
		interfaces.BufferForPlaybackMsKey:               2_500,
		interfaces.BufferForPlaybackAfterRebufferMsKey:  5_000,
	}
}
