package headset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/spatial"
	"github.com/sirupsen/logrus"
)

// TimeProvider abstracts time for deterministic recording and playback.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the system clock.
type DefaultTimeProvider struct{}

// Now returns the current time.
func (DefaultTimeProvider) Now() time.Time { return time.Now() }

// RecordingState is what a Recorder is doing.
type RecordingState int

const (
	Stopped RecordingState = iota
	Recording
	Playing
)

// String returns the string representation of RecordingState.
func (s RecordingState) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Recording:
		return "Recording"
	case Playing:
		return "Playing"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// DefaultSampleDuration is the interval between recorded headings.
const DefaultSampleDuration = 100 * time.Millisecond

// Sample is one recorded heading and the time since the previous sample.
type Sample struct {
	Delay   time.Duration
	Heading mgl64.Vec3
}

type sampleJSON struct {
	Time    *float64 `json:"time"`
	Heading *string  `json:"heading"`
}

// Recorder samples a heading source over time and plays the samples back
// with the same timing. Recording and playback advance in Tick.
type Recorder struct {
	SampleDuration time.Duration

	clock   TimeProvider
	state   RecordingState
	samples []Sample

	source     func() mgl64.Vec3
	lastSample time.Time

	play      func(mgl64.Vec3)
	playIndex int
	cursor    time.Time
}

// NewRecorder returns a stopped recorder with no samples.
func NewRecorder() *Recorder {
	return &Recorder{
		SampleDuration: DefaultSampleDuration,
		clock:          DefaultTimeProvider{},
	}
}

// SetTimeProvider replaces the clock.
func (r *Recorder) SetTimeProvider(tp TimeProvider) {
	if tp == nil {
		tp = DefaultTimeProvider{}
	}
	r.clock = tp
}

// State returns what the recorder is doing.
func (r *Recorder) State() RecordingState { return r.state }

// Samples returns a copy of the recording.
func (r *Recorder) Samples() []Sample {
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

// Record replaces the current recording with samples of source, starting
// with one taken now.
func (r *Recorder) Record(source func() mgl64.Vec3) error {
	if r.state != Stopped {
		return ErrNotStopped
	}
	if source == nil {
		return ErrNoHeadingSource
	}
	r.source = source
	r.state = Recording
	r.samples = r.samples[:0]
	r.lastSample = r.clock.Now()
	r.samples = append(r.samples, Sample{Heading: source()})

	logrus.WithFields(logrus.Fields{
		"function":        "Recorder.Record",
		"sample_duration": r.SampleDuration,
	}).Info("Recording headings")
	return nil
}

// Play replays the recording from the beginning through play.
func (r *Recorder) Play(play func(mgl64.Vec3)) error {
	if r.state != Stopped {
		return ErrNotStopped
	}
	if play == nil {
		return ErrNoPlayback
	}
	r.play = play
	r.playIndex = 0
	r.cursor = r.clock.Now()
	r.state = Playing

	logrus.WithFields(logrus.Fields{
		"function": "Recorder.Play",
		"samples":  len(r.samples),
	}).Info("Playing recorded headings")
	return nil
}

// Stop ends recording or playback.
func (r *Recorder) Stop() {
	r.state = Stopped
	r.source = nil
	r.play = nil
}

// Tick takes a sample when one is due while recording, and delivers every
// sample that has come due while playing. Playback stops by itself after the
// last sample.
func (r *Recorder) Tick() {
	now := r.clock.Now()
	switch r.state {
	case Recording:
		if elapsed := now.Sub(r.lastSample); elapsed >= r.SampleDuration {
			r.samples = append(r.samples, Sample{Delay: elapsed, Heading: r.source()})
			r.lastSample = now
		}
	case Playing:
		for r.playIndex < len(r.samples) {
			s := r.samples[r.playIndex]
			due := r.cursor.Add(s.Delay)
			if now.Before(due) {
				return
			}
			r.cursor = due
			r.playIndex++
			r.play(s.Heading)
		}
		logrus.WithFields(logrus.Fields{
			"function": "Recorder.Tick",
			"samples":  len(r.samples),
		}).Debug("Playback finished")
		r.Stop()
	}
}

// Save writes the recording as a JSON array of
// {"time": seconds, "heading": "(x, y, z)"} objects.
func (r *Recorder) Save(w io.Writer) error {
	if r.state != Stopped {
		return ErrNotStopped
	}
	out := make([]sampleJSON, len(r.samples))
	for i, s := range r.samples {
		t := s.Delay.Seconds()
		h := spatial.FormatVec3(s.Heading)
		out[i] = sampleJSON{Time: &t, Heading: &h}
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("save recording: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"function": "Recorder.Save",
		"samples":  len(r.samples),
	}).Info("Saved headset samples")
	return nil
}

// Load replaces the recording with one written by Save.
func (r *Recorder) Load(rd io.Reader) error {
	if r.state != Stopped {
		return ErrNotStopped
	}
	var in []sampleJSON
	if err := json.NewDecoder(rd).Decode(&in); err != nil {
		return fmt.Errorf("load recording: %w", err)
	}
	samples := make([]Sample, len(in))
	for i, s := range in {
		if s.Time == nil || s.Heading == nil {
			return fmt.Errorf("sample %d: %w", i, ErrMismatchedSample)
		}
		if *s.Time < 0 {
			return fmt.Errorf("sample %d: %w", i, ErrNegativeTiming)
		}
		h, err := spatial.ParseVec3(*s.Heading)
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		samples[i] = Sample{
			Delay:   time.Duration(*s.Time * float64(time.Second)),
			Heading: h,
		}
	}
	r.samples = samples
	return nil
}

// SaveFile writes the recording to path.
func (r *Recorder) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a recording from path.
func (r *Recorder) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Load(f)
}
