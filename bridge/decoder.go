package bridge

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/sirupsen/logrus"
)

// Decoder implements interfaces.Decoder over a NativePlayer.
type Decoder struct {
	native NativePlayer
	sink   interfaces.EventSink

	mu       sync.RWMutex
	disposed bool
}

// NewDecoder creates a bridge decoder. Events parsed by HandleMessage are
// delivered to sink.
func NewDecoder(native NativePlayer, sink interfaces.EventSink) *Decoder {
	logrus.WithFields(logrus.Fields{
		"function": "NewDecoder",
	}).Info("Creating native bridge decoder")

	return &Decoder{native: native, sink: sink}
}

func (d *Decoder) call(method string, args ...any) error {
	d.mu.RLock()
	disposed := d.disposed
	d.mu.RUnlock()
	if disposed {
		return fmt.Errorf("%s: %w", method, ErrDisposed)
	}

	if err := d.native.Call(method, args...); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Decoder.call",
			"method":   method,
			"error":    err.Error(),
		}).Error("Native call failed")
		return fmt.Errorf("native %s: %w", method, err)
	}
	return nil
}

func (d *Decoder) callInt64(method string) int64 {
	d.mu.RLock()
	disposed := d.disposed
	d.mu.RUnlock()
	if disposed {
		return -1
	}

	v, err := d.native.CallInt64(method)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Decoder.callInt64",
			"method":   method,
			"error":    err.Error(),
		}).Warn("Native query failed")
		return -1
	}
	return v
}

// Prepare implements interfaces.Decoder.Prepare
func (d *Decoder) Prepare(url string, startMs int64, autoPlay bool, config interfaces.DecoderConfig) error {
	payload, err := ConfigurationJSON(config)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function":  "Decoder.Prepare",
		"url":       url,
		"start_ms":  startMs,
		"auto_play": autoPlay,
		"config":    string(payload),
	}).Info("Preparing native player")

	if err := d.call(MethodSetConfiguration, string(payload)); err != nil {
		return err
	}
	return d.call(MethodPrepare, url, startMs, autoPlay)
}

// Play implements interfaces.Decoder.Play
func (d *Decoder) Play() error { return d.call(MethodPlay) }

// Pause implements interfaces.Decoder.Pause
func (d *Decoder) Pause() error { return d.call(MethodPause) }

// SeekTo implements interfaces.Decoder.SeekTo
func (d *Decoder) SeekTo(ms int64) error { return d.call(MethodSeekTo, ms) }

// SetTileID implements interfaces.Decoder.SetTileID
func (d *Decoder) SetTileID(id string) error { return d.call(MethodSetTileID, id) }

// SetQualityGroupName implements interfaces.Decoder.SetQualityGroupName
func (d *Decoder) SetQualityGroupName(name string) error {
	return d.call(MethodSetQualityGroupName, name)
}

// SetAudioTrackID implements interfaces.Decoder.SetAudioTrackID
func (d *Decoder) SetAudioTrackID(id string) error { return d.call(MethodSetAudioTrackID, id) }

// EnableAutoQuality implements interfaces.Decoder.EnableAutoQuality
func (d *Decoder) EnableAutoQuality() error { return d.call(MethodEnableAutoQuality) }

// SetOrientation implements interfaces.Decoder.SetOrientation. The native
// player takes the components in w, x, y, z order.
func (d *Decoder) SetOrientation(q mgl64.Quat) error {
	return d.call(MethodSetOrientation, q.W, q.V.X(), q.V.Y(), q.V.Z())
}

// CurrentPositionMs implements interfaces.Decoder.CurrentPositionMs
func (d *Decoder) CurrentPositionMs() int64 { return d.callInt64(MethodGetCurrentPosition) }

// DurationMs implements interfaces.Decoder.DurationMs
func (d *Decoder) DurationMs() int64 { return d.callInt64(MethodGetDuration) }

// LastFrameTimestampUs implements interfaces.Decoder.LastFrameTimestampUs
func (d *Decoder) LastFrameTimestampUs() int64 {
	return d.callInt64(MethodGetLastFrameTimestamp)
}

// Dispose implements interfaces.Decoder.Dispose. It is safe to call twice.
func (d *Decoder) Dispose() error {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return nil
	}
	d.disposed = true
	d.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "Decoder.Dispose",
	}).Info("Disposing native player")

	if err := d.native.Call(MethodDispose); err != nil {
		return fmt.Errorf("native %s: %w", MethodDispose, err)
	}
	return nil
}

// IsSimulation implements interfaces.Decoder.IsSimulation
func (d *Decoder) IsSimulation() bool { return false }
