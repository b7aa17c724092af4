package interfaces

import "github.com/go-gl/mathgl/mgl64"

// Decoder is the control surface of a video decoder backend.
// This abstraction allows switching between native and scripted decoders.
type Decoder interface {
	// Prepare loads url and starts buffering from startMs. Configuration keys
	// the backend does not understand are ignored.
	Prepare(url string, startMs int64, autoPlay bool, config DecoderConfig) error

	// Play starts or resumes playback
	Play() error

	// Pause pauses playback
	Pause() error

	// SeekTo moves the playhead to ms
	SeekTo(ms int64) error

	// SetTileID requests a tile. The switch is reported later with a
	// ScheduledTile event.
	SetTileID(id string) error

	// SetQualityGroupName requests a quality group and disables automatic
	// quality selection
	SetQualityGroupName(name string) error

	// SetAudioTrackID requests an audio track
	SetAudioTrackID(id string) error

	// EnableAutoQuality hands quality selection back to the decoder
	EnableAutoQuality() error

	// SetOrientation points spatial audio at q
	SetOrientation(q mgl64.Quat) error

	// CurrentPositionMs returns the playhead position
	CurrentPositionMs() int64

	// DurationMs returns the media duration, or a negative value if unknown
	DurationMs() int64

	// LastFrameTimestampUs returns the presentation time of the last rendered
	// frame
	LastFrameTimestampUs() int64

	// Dispose releases the decoder. No events are delivered afterwards.
	Dispose() error

	// IsSimulation returns true if this is a scripted implementation
	IsSimulation() bool
}

// EventSink receives decoder events. Deliver may be called from any goroutine.
type EventSink interface {
	Deliver(ev DecoderEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ev DecoderEvent)

// Deliver implements EventSink.
func (f EventSinkFunc) Deliver(ev DecoderEvent) { f(ev) }
