package player

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/opd-ai/spinplay/spatial"
	"github.com/sirupsen/logrus"
)

// Prepare creates a decoder and starts loading the source. Only legal while
// Idle, with a source URL and a requested tile. The player moves to Preparing
// immediately and to Ready once the decoder has reported everything Ready
// requires.
func (p *Player) Prepare(config interfaces.DecoderConfig) error {
	if err := p.requireState("Prepare", Idle); err != nil {
		return err
	}
	if p.sourceURL == "" {
		return fmt.Errorf("%w: Prepare requires a source URL", ErrContractViolation)
	}
	if !p.hasRequestedTile {
		return fmt.Errorf("%w: Prepare requires a requested tile ID", ErrContractViolation)
	}
	if p.factory == nil {
		return ErrNoDecoderFactory
	}

	p.preferYUV, _ = config.Bool(interfaces.PreferYUVBuffersKey)

	logrus.WithFields(logrus.Fields{
		"function":   "Player.Prepare",
		"source_url": p.sourceURL,
		"tile_id":    p.requestedTileID,
		"prefer_yuv": p.preferYUV,
		"config":     config.GoString(),
	}).Info("Preparing player")

	p.setReadyState(Preparing)
	if p.readyState != Preparing {
		return fmt.Errorf("%w: player left Preparing during Prepare", ErrInvalidState)
	}

	dec, err := p.factory.Create(&generationSink{player: p, generation: p.Generation()})
	if err != nil {
		err = fmt.Errorf("%w: create decoder: %w", ErrDecoder, err)
		p.fail(err, err.Error())
		return err
	}
	p.decoder = dec

	if err := dec.SetTileID(p.requestedTileID); err != nil {
		err = fmt.Errorf("%w: %w", ErrDecoder, err)
		p.fail(err, err.Error())
		return err
	}
	if err := dec.Prepare(p.sourceURL, 0, false, config); err != nil {
		err = fmt.Errorf("%w: %w", ErrDecoder, err)
		p.fail(err, err.Error())
		return err
	}
	return nil
}

// onPrepared completes the Preparing to Ready transition.
func (p *Player) onPrepared() {
	if err := p.checkPrepared(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Player.onPrepared",
			"error":    err.Error(),
		}).Error("Decoder did not report what Ready requires")
		p.fail(err, err.Error())
		return
	}

	p.prepared = true
	p.currentTime = time.Duration(p.decoder.CurrentPositionMs()) * time.Millisecond
	if !p.hasCurrentTile {
		p.currentTileID, p.hasCurrentTile = p.requestedTileID, true
	}
	p.setReadyState(Ready)

	pending := p.pending
	p.pending = nil
	for _, ev := range pending {
		p.applyFormatChange(ev)
	}

	if p.autoPlay && p.readyState == Ready && !p.isPlaying {
		if err := p.Play(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Player.onPrepared",
				"error":    err.Error(),
			}).Error("Auto play failed")
		}
	}
}

func (p *Player) checkPrepared() error {
	switch {
	case len(p.qualityGroups) == 0:
		return fmt.Errorf("%w: could not determine quality group(s)", ErrContractViolation)
	case p.videoWidth == UnknownSize || p.videoHeight == UnknownSize:
		return fmt.Errorf("%w: could not determine video size", ErrContractViolation)
	case p.mediaWidth == UnknownSize || p.mediaHeight == UnknownSize:
		return fmt.Errorf("%w: could not determine media size", ErrContractViolation)
	case p.duration == UnknownTime:
		return fmt.Errorf("%w: could not determine video duration", ErrContractViolation)
	case len(p.textures) == 0:
		return fmt.Errorf("%w: could not create video texture", ErrContractViolation)
	}
	return nil
}

// Play starts playback. Only legal while Ready and paused.
func (p *Player) Play() error {
	if err := p.requireState("Play", Ready); err != nil {
		return err
	}
	if p.isPlaying {
		return fmt.Errorf("%w: Play while already playing", ErrInvalidState)
	}
	if len(p.targets) == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Player.Play",
		}).Warn("Add one or more targets to see rendered video")
	}
	if err := p.decoder.Play(); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoder, err)
	}
	p.isPlaying = true
	p.raise(Event{Kind: EventPlay})
	return nil
}

// Pause pauses playback. Only legal while Ready and playing.
func (p *Player) Pause() error {
	if err := p.requireState("Pause", Ready); err != nil {
		return err
	}
	if !p.isPlaying {
		return fmt.Errorf("%w: Pause while already paused", ErrInvalidState)
	}
	if err := p.decoder.Pause(); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoder, err)
	}
	p.isPlaying = false
	p.raise(Event{Kind: EventPause})
	return nil
}

// Seek moves the playhead. Only legal while Ready. t is clamped to
// [0, Duration]. approximate is a hint decoders may ignore.
func (p *Player) Seek(t time.Duration, approximate bool) error {
	if err := p.requireState("Seek", Ready); err != nil {
		return err
	}
	clamped := t
	if clamped < 0 {
		clamped = 0
	}
	if clamped > p.duration {
		clamped = p.duration
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Player.Seek",
		"requested":   t,
		"clamped":     clamped,
		"approximate": approximate,
	}).Debug("Seeking")

	p.seeking = true
	if err := p.decoder.SeekTo(clamped.Milliseconds()); err != nil {
		p.seeking = false
		return fmt.Errorf("%w: %w", ErrDecoder, err)
	}
	return nil
}

// SetTileID requests a tile. The decoder decides when it becomes current,
// which is reported with a TileChanged event.
func (p *Player) SetTileID(id string) error {
	p.requestedTileID, p.hasRequestedTile = id, true
	if p.decoder == nil {
		return nil
	}
	if err := p.decoder.SetTileID(id); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoder, err)
	}
	return nil
}

// SetQualityGroup requests a quality group and disables auto quality. Only
// legal in Ready or Ended.
func (p *Player) SetQualityGroup(g *QualityGroup) error {
	if g == nil {
		return fmt.Errorf("%w: quality group is required", ErrContractViolation)
	}
	if err := p.requireState("SetQualityGroup", Ready, Ended); err != nil {
		return err
	}
	p.autoQuality = false
	if err := p.decoder.SetQualityGroupName(g.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoder, err)
	}
	return nil
}

// NextQualityGroup requests the quality group direction steps from the
// current one, wrapping at either end. It does nothing when no group is
// current.
func (p *Player) NextQualityGroup(direction int) error {
	if err := p.requireState("NextQualityGroup", Ready, Ended); err != nil {
		return err
	}
	index := -1
	for i, g := range p.qualityGroups {
		if g == p.currentQualityGroup {
			index = i
			break
		}
	}
	if index < 0 {
		return nil
	}
	n := len(p.qualityGroups)
	index = ((index+direction)%n + n) % n
	return p.SetQualityGroup(p.qualityGroups[index])
}

// SetAudioTrack requests an audio track. Only legal in Ready or Ended.
func (p *Player) SetAudioTrack(t *AudioTrack) error {
	if t == nil {
		return fmt.Errorf("%w: audio track is required", ErrContractViolation)
	}
	if err := p.requireState("SetAudioTrack", Ready, Ended); err != nil {
		return err
	}
	if err := p.decoder.SetAudioTrackID(t.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoder, err)
	}
	return nil
}

// AudioOrientation converts a listener heading (Euler degrees) and a
// heading offset into the quaternion spatial audio expects.
func AudioOrientation(orientation mgl64.Vec3, offset mgl64.Quat) mgl64.Quat {
	off := spatial.EulerAngles(offset)
	return spatial.Euler(
		orientation.X()+off.X(),
		360-(orientation.Y()-off.Y()),
		orientation.Z()+off.Z(),
	)
}

// SetAudioOrientation points spatial audio at the listener heading. It does
// nothing without a decoder.
func (p *Player) SetAudioOrientation(orientation mgl64.Vec3, offset mgl64.Quat) error {
	if p.decoder == nil {
		return nil
	}
	if err := p.decoder.SetOrientation(AudioOrientation(orientation, offset)); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoder, err)
	}
	return nil
}

// Reset disposes the decoder and returns to Idle from any state. Decoder
// events still in flight are discarded.
func (p *Player) Reset() {
	if p.decoder != nil {
		if err := p.decoder.Dispose(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Player.Reset",
				"error":    err.Error(),
			}).Warn("Decoder dispose failed")
		}
		p.decoder = nil
	}

	p.inboxMu.Lock()
	p.generation = uuid.New()
	dropped := len(p.inbox)
	p.inbox = nil
	p.inboxMu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":       "Player.Reset",
		"dropped_events": dropped,
	}).Info("Resetting player")

	p.clear()
	p.setReadyState(Idle)
	p.raise(Event{Kind: EventReset})
}

// fail moves the player to Error and raises an Error event.
func (p *Player) fail(err error, msg string) {
	logrus.WithFields(logrus.Fields{
		"function": "Player.fail",
		"state":    p.readyState.String(),
		"error":    err.Error(),
	}).Error("Player error")

	if p.readyState == Error {
		return
	}
	p.setReadyState(Error)
	p.raise(Event{Kind: EventError, Err: err, Message: msg})
}
