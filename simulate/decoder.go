package simulate

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/sirupsen/logrus"
)

// Options configure a scripted decoder.
type Options struct {
	// DurationMs is the reported media duration
	DurationMs int64

	// FrameDuration is the spacing of rendered frames
	FrameDuration time.Duration

	// AutoRespond makes the decoder emit the events a native player would in
	// answer to each command
	AutoRespond bool

	// QualityGroups and AudioFormats are announced by Prepare when
	// AutoRespond is set
	QualityGroups []byte
	AudioFormats  []byte
}

// DefaultOptions returns a one minute, 30 fps scripted decoder that only
// emits what it is told to.
func DefaultOptions() Options {
	return Options{
		DurationMs:    60000,
		FrameDuration: time.Second / 30,
		QualityGroups: DefaultQualityGroups,
		AudioFormats:  DefaultAudioFormats,
	}
}

// CommandRecord is one command received by the decoder.
type CommandRecord struct {
	Method string
	Args   []any
}

// Decoder implements interfaces.Decoder with scripted behavior.
type Decoder struct {
	sink interfaces.EventSink
	opts Options

	mu            sync.RWMutex
	commands      []CommandRecord
	failures      map[string]error
	positionMs    int64
	lastFrameUs   int64
	prepared      bool
	playWhenReady bool
	ended         bool
	tileID        string
	qualityGroup  string
	orientation   mgl64.Quat
	config        interfaces.DecoderConfig
	disposed      bool
}

// NewDecoder creates a scripted decoder delivering to sink.
func NewDecoder(sink interfaces.EventSink, opts Options) *Decoder {
	logrus.Warn("SIMULATION DECODER - NO MEDIA IS DECODED")
	logrus.WithFields(logrus.Fields{
		"function":     "NewDecoder",
		"duration_ms":  opts.DurationMs,
		"auto_respond": opts.AutoRespond,
	}).Info("Creating scripted decoder")

	if opts.FrameDuration <= 0 {
		opts.FrameDuration = time.Second / 30
	}
	return &Decoder{
		sink:        sink,
		opts:        opts,
		failures:    make(map[string]error),
		orientation: mgl64.QuatIdent(),
	}
}

// record logs a command and returns the failure queued for it, if any. The
// caller must hold the lock.
func (d *Decoder) record(method string, args ...any) error {
	d.commands = append(d.commands, CommandRecord{Method: method, Args: args})
	if d.disposed && method != "Dispose" {
		return fmt.Errorf("%s: %w", method, ErrDisposed)
	}
	if err, ok := d.failures[method]; ok {
		delete(d.failures, method)
		return err
	}
	return nil
}

// Emit delivers events to the sink in order.
func (d *Decoder) Emit(events ...interfaces.DecoderEvent) {
	d.mu.RLock()
	disposed := d.disposed
	d.mu.RUnlock()
	if disposed {
		return
	}
	for _, ev := range events {
		logrus.WithFields(logrus.Fields{
			"function": "Decoder.Emit",
			"event":    ev.String(),
		}).Debug("Emitting scripted event")
		d.sink.Deliver(ev)
	}
}

// EmitForced delivers events even after Dispose, modelling a native callback
// that races teardown.
func (d *Decoder) EmitForced(events ...interfaces.DecoderEvent) {
	for _, ev := range events {
		d.sink.Deliver(ev)
	}
}

// Prepare implements interfaces.Decoder.Prepare
func (d *Decoder) Prepare(url string, startMs int64, autoPlay bool, config interfaces.DecoderConfig) error {
	d.mu.Lock()
	if err := d.record("Prepare", url, startMs, autoPlay); err != nil {
		d.mu.Unlock()
		return err
	}
	d.config = config.Clone()
	d.positionMs = startMs
	d.prepared = true
	d.playWhenReady = autoPlay
	d.ended = false
	auto := d.opts.AutoRespond
	d.mu.Unlock()

	if auto {
		d.Emit(d.readySequence(autoPlay)...)
	}
	return nil
}

func (d *Decoder) readySequence(playWhenReady bool) []interfaces.DecoderEvent {
	return []interfaces.DecoderEvent{
		interfaces.QualityGroupsEvent(d.opts.QualityGroups),
		interfaces.AudioFormatsEvent(d.opts.AudioFormats),
		interfaces.PlaybackStateEvent(playWhenReady, interfaces.StateBuffering),
		interfaces.PlaybackStateEvent(playWhenReady, interfaces.StateReady),
		interfaces.FirstFrameRenderedEvent(),
	}
}

func (d *Decoder) setPlayWhenReady(method string, v bool) error {
	d.mu.Lock()
	if err := d.record(method); err != nil {
		d.mu.Unlock()
		return err
	}
	d.playWhenReady = v
	auto := d.opts.AutoRespond && d.prepared && !d.ended
	d.mu.Unlock()

	if auto {
		d.Emit(interfaces.PlaybackStateEvent(v, interfaces.StateReady))
	}
	return nil
}

// Play implements interfaces.Decoder.Play
func (d *Decoder) Play() error { return d.setPlayWhenReady("Play", true) }

// Pause implements interfaces.Decoder.Pause
func (d *Decoder) Pause() error { return d.setPlayWhenReady("Pause", false) }

// SeekTo implements interfaces.Decoder.SeekTo
func (d *Decoder) SeekTo(ms int64) error {
	d.mu.Lock()
	if err := d.record("SeekTo", ms); err != nil {
		d.mu.Unlock()
		return err
	}
	d.positionMs = ms
	d.lastFrameUs = ms * 1000
	d.ended = false
	pwr := d.playWhenReady
	auto := d.opts.AutoRespond && d.prepared
	d.mu.Unlock()

	if auto {
		d.Emit(
			interfaces.PlaybackStateEvent(pwr, interfaces.StateBuffering),
			interfaces.PlaybackStateEvent(pwr, interfaces.StateReady),
		)
	}
	return nil
}

// SetTileID implements interfaces.Decoder.SetTileID. With AutoRespond the
// switch is scheduled for the next frame.
func (d *Decoder) SetTileID(id string) error {
	d.mu.Lock()
	if err := d.record("SetTileID", id); err != nil {
		d.mu.Unlock()
		return err
	}
	changed := id != d.tileID
	d.tileID = id
	at := d.lastFrameUs + d.opts.FrameDuration.Microseconds()
	group := d.qualityGroup
	auto := d.opts.AutoRespond && d.prepared && changed
	d.mu.Unlock()

	if auto {
		d.Emit(interfaces.ScheduledTileEvent(id, at))
		if group != "" {
			d.Emit(interfaces.DownstreamFormatChangedEvent(id, group))
		}
	}
	return nil
}

// SetQualityGroupName implements interfaces.Decoder.SetQualityGroupName
func (d *Decoder) SetQualityGroupName(name string) error {
	d.mu.Lock()
	if err := d.record("SetQualityGroupName", name); err != nil {
		d.mu.Unlock()
		return err
	}
	d.qualityGroup = name
	tile := d.tileID
	auto := d.opts.AutoRespond && d.prepared
	d.mu.Unlock()

	if auto {
		d.Emit(interfaces.DownstreamFormatChangedEvent(tile, name))
	}
	return nil
}

// SetAudioTrackID implements interfaces.Decoder.SetAudioTrackID
func (d *Decoder) SetAudioTrackID(id string) error {
	d.mu.Lock()
	if err := d.record("SetAudioTrackID", id); err != nil {
		d.mu.Unlock()
		return err
	}
	auto := d.opts.AutoRespond && d.prepared
	d.mu.Unlock()

	if auto {
		d.Emit(interfaces.AudioFormatChangedEvent(id))
	}
	return nil
}

// EnableAutoQuality implements interfaces.Decoder.EnableAutoQuality
func (d *Decoder) EnableAutoQuality() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.record("EnableAutoQuality")
}

// SetOrientation implements interfaces.Decoder.SetOrientation
func (d *Decoder) SetOrientation(q mgl64.Quat) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record("SetOrientation", q); err != nil {
		return err
	}
	d.orientation = q
	return nil
}

// CurrentPositionMs implements interfaces.Decoder.CurrentPositionMs
func (d *Decoder) CurrentPositionMs() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.positionMs
}

// DurationMs implements interfaces.Decoder.DurationMs
func (d *Decoder) DurationMs() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.prepared {
		return -1
	}
	return d.opts.DurationMs
}

// LastFrameTimestampUs implements interfaces.Decoder.LastFrameTimestampUs
func (d *Decoder) LastFrameTimestampUs() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastFrameUs
}

// Dispose implements interfaces.Decoder.Dispose
func (d *Decoder) Dispose() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.record("Dispose")
	d.disposed = true
	d.prepared = false
	return err
}

// IsSimulation implements interfaces.Decoder.IsSimulation
func (d *Decoder) IsSimulation() bool { return true }

// Advance moves the playhead by elapsed while playing. Reaching the duration
// reports the end of the media when AutoRespond is set.
func (d *Decoder) Advance(elapsed time.Duration) {
	d.mu.Lock()
	if !d.prepared || !d.playWhenReady || d.ended || d.disposed {
		d.mu.Unlock()
		return
	}
	d.positionMs += elapsed.Milliseconds()
	d.lastFrameUs += elapsed.Microseconds()
	var events []interfaces.DecoderEvent
	if d.positionMs >= d.opts.DurationMs {
		d.positionMs = d.opts.DurationMs
		d.lastFrameUs = d.opts.DurationMs * 1000
		d.ended = true
		if d.opts.AutoRespond {
			events = EndedSequence(d.playWhenReady)
		}
	}
	d.mu.Unlock()

	d.Emit(events...)
}

// SetPosition sets the scripted playhead and last-frame timestamp.
func (d *Decoder) SetPosition(ms int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.positionMs = ms
	d.lastFrameUs = ms * 1000
}

// SetLastFrameTimestamp sets the scripted last-frame timestamp.
func (d *Decoder) SetLastFrameTimestamp(us int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastFrameUs = us
}

// FailNext makes the next call of method return err.
func (d *Decoder) FailNext(method string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[method] = err
}

// Commands returns a copy of the command log.
func (d *Decoder) Commands() []CommandRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]CommandRecord, len(d.commands))
	copy(out, d.commands)
	return out
}

// CommandNames returns the method names of the command log.
func (d *Decoder) CommandNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.commands))
	for i, c := range d.commands {
		out[i] = c.Method
	}
	return out
}

// ClearCommands empties the command log.
func (d *Decoder) ClearCommands() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = d.commands[:0]
}

// Config returns the configuration passed to the last Prepare.
func (d *Decoder) Config() interfaces.DecoderConfig {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.config.Clone()
}

// Orientation returns the last audio orientation.
func (d *Decoder) Orientation() mgl64.Quat {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.orientation
}

// IsDisposed reports whether Dispose was called.
func (d *Decoder) IsDisposed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.disposed
}
