package player

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/sirupsen/logrus"
)

// generationSink tags events with the Prepare cycle their decoder belongs to.
type generationSink struct {
	player     *Player
	generation uuid.UUID
}

// Deliver implements interfaces.EventSink.
func (s *generationSink) Deliver(ev interfaces.DecoderEvent) {
	s.player.enqueue(s.generation, ev)
}

// Deliver queues a decoder event for the current Prepare cycle. It is safe
// to call from any goroutine; the event is processed by the next Tick.
func (p *Player) Deliver(ev interfaces.DecoderEvent) {
	p.inboxMu.Lock()
	gen := p.generation
	p.inboxMu.Unlock()
	p.enqueue(gen, ev)
}

func (p *Player) enqueue(gen uuid.UUID, ev interfaces.DecoderEvent) {
	p.inboxMu.Lock()
	defer p.inboxMu.Unlock()
	if gen != p.generation {
		logrus.WithFields(logrus.Fields{
			"function":   "Player.enqueue",
			"event":      ev.String(),
			"generation": gen.String(),
			"current":    p.generation.String(),
		}).Warn("Dropping decoder event from a previous prepare cycle")
		return
	}
	p.inbox = append(p.inbox, queuedEvent{generation: gen, ev: ev})
}

// Pending returns the number of queued decoder events.
func (p *Player) Pending() int {
	p.inboxMu.Lock()
	defer p.inboxMu.Unlock()
	return len(p.inbox)
}

// Tick processes queued decoder events in arrival order and then runs the
// per-frame update: scheduled tile switches and throttled current time
// polling.
func (p *Player) Tick() {
	p.inboxMu.Lock()
	batch := p.inbox
	p.inbox = nil
	p.inboxMu.Unlock()

	for _, q := range batch {
		// A Reset run by an observer earlier in the batch invalidates the rest.
		if q.generation != p.Generation() {
			logrus.WithFields(logrus.Fields{
				"function": "Player.Tick",
				"event":    q.ev.String(),
			}).Warn("Dropping decoder event from a previous prepare cycle")
			continue
		}
		p.handle(q.ev)
	}
	p.update()
}

func (p *Player) handle(ev interfaces.DecoderEvent) {
	logrus.WithFields(logrus.Fields{
		"function": "Player.handle",
		"event":    ev.String(),
		"state":    p.readyState.String(),
	}).Debug("Processing decoder event")

	if p.readyState == Idle || p.readyState == Error {
		return
	}

	switch ev.Kind {
	case interfaces.EventPlaybackState:
		p.onPlaybackState(ev.PlayWhenReady, ev.State)
	case interfaces.EventQualityGroups:
		p.onQualityGroups(ev.Payload)
	case interfaces.EventAudioFormats:
		p.onAudioFormats(ev.Payload)
	case interfaces.EventFirstFrameRendered:
		p.firstFrame = true
	case interfaces.EventDownstreamFormatChanged, interfaces.EventAudioFormatChanged:
		if p.prepared {
			p.applyFormatChange(ev)
		} else {
			p.pending = append(p.pending, ev)
		}
	case interfaces.EventDroppedFrames:
		p.raise(Event{Kind: EventDroppedFrames, Frames: ev.Count})
	case interfaces.EventPlayerError, interfaces.EventLoadError:
		p.fail(fmt.Errorf("%w: %s: %s", ErrDecoder, ev.Kind, ev.Message), ev.Message)
	case interfaces.EventBandwidthSample:
		p.raise(Event{
			Kind:    EventIOCompleted,
			Bytes:   ev.Bytes,
			Elapsed: time.Duration(ev.ElapsedMs) * time.Millisecond,
		})
	case interfaces.EventScheduledTile:
		p.scheduledTile = ev.TileID
		p.scheduledAtUs = ev.PresentationTimeUs
		p.hasScheduled = true
	default:
		logrus.WithFields(logrus.Fields{
			"function": "Player.handle",
			"kind":     ev.Kind.String(),
		}).Warn("Ignoring unknown decoder event")
	}
}

func (p *Player) onPlaybackState(playWhenReady bool, state interfaces.PlaybackState) {
	if p.readyState == Ready {
		if playWhenReady && !p.isPlaying {
			p.isPlaying = true
			p.raise(Event{Kind: EventPlay})
		} else if !playWhenReady && p.isPlaying {
			p.isPlaying = false
			p.raise(Event{Kind: EventPause})
		}
	}

	if p.hasLastState && state == p.lastState {
		// A seek that completes without buffering reports Ready twice.
		if state == interfaces.StateReady {
			p.checkSeeked()
		}
		return
	}
	p.lastState, p.hasLastState = state, true

	switch state {
	case interfaces.StateReady:
		if !p.prepared {
			p.duration = time.Duration(p.decoder.DurationMs()) * time.Millisecond
			if p.duration < 0 {
				p.duration = UnknownTime
			}
			p.onPrepared()
			if p.readyState != Ready {
				return
			}
		}
		p.checkSeeked()
		if p.stalled {
			p.stalled = false
			p.raise(Event{Kind: EventStallRecover})
		}
	case interfaces.StateEnded:
		p.checkSeeked()
		p.onLoop()
	case interfaces.StateBuffering:
		p.stalled = p.IsPlaying() && !p.seeking
		if p.stalled {
			p.raise(Event{Kind: EventStall})
		}
	}
}

func (p *Player) checkSeeked() {
	if !p.seeking || p.readyState != Ready {
		return
	}
	p.seeking = false
	t := time.Duration(p.decoder.CurrentPositionMs()) * time.Millisecond
	p.raise(Event{Kind: EventSeeked, Time: t})
}

func (p *Player) onLoop() {
	if p.readyState != Ready {
		return
	}
	if p.loop {
		p.raise(Event{Kind: EventLoop})
		if err := p.Seek(0, false); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Player.onLoop",
				"error":    err.Error(),
			}).Error("Loop seek failed")
			p.fail(err, err.Error())
		}
		return
	}
	p.setReadyState(Ended)
}

func (p *Player) onQualityGroups(payload []byte) {
	groups, err := ParseQualityGroups(payload)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrContractViolation, err)
		p.fail(err, err.Error())
		return
	}
	p.qualityGroups = groups

	w, h := UnknownSize, UnknownSize
	for _, g := range groups {
		w = max(w, g.VideoWidth)
		h = max(h, g.VideoHeight)
	}
	p.videoWidth, p.videoHeight = w, h
	p.mediaWidth, p.mediaHeight = w, h

	if p.currentQualityGroup != nil {
		p.currentQualityGroup = p.QualityGroupWithName(p.currentQualityGroup.Name)
	}
	if len(groups) > 0 && w > 0 && h > 0 {
		p.colorModel, p.textures = newVideoTextures(w, h, p.preferYUV)
		p.updateTargets()
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Player.onQualityGroups",
		"groups":       len(groups),
		"video_width":  w,
		"video_height": h,
		"color_model":  p.colorModel.String(),
	}).Info("Quality groups announced")
}

func (p *Player) onAudioFormats(payload []byte) {
	tracks, err := ParseAudioTracks(payload)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrContractViolation, err)
		p.fail(err, err.Error())
		return
	}
	p.audioTracks = tracks
}

// applyFormatChange makes a decoder-reported quality group or audio track
// current.
func (p *Player) applyFormatChange(ev interfaces.DecoderEvent) {
	switch ev.Kind {
	case interfaces.EventDownstreamFormatChanged:
		g := p.QualityGroupWithName(ev.QualityGroupName)
		if g == nil {
			logrus.WithFields(logrus.Fields{
				"function":      "Player.applyFormatChange",
				"quality_group": ev.QualityGroupName,
			}).Warn("Decoder reported an unknown quality group")
			return
		}
		p.setCurrentQualityGroup(g)
	case interfaces.EventAudioFormatChanged:
		t := p.AudioTrackWithID(ev.TrackID)
		if t == nil {
			logrus.WithFields(logrus.Fields{
				"function": "Player.applyFormatChange",
				"track_id": ev.TrackID,
			}).Warn("Decoder reported an unknown audio track")
			return
		}
		p.setCurrentAudioTrack(t)
	}
}

// update runs once per tick after the queued events.
func (p *Player) update() {
	if !p.firstFrame || p.readyState != Ready {
		return
	}

	if p.hasScheduled && p.decoder.LastFrameTimestampUs() >= p.scheduledAtUs {
		p.hasScheduled = false
		p.setCurrentTileID(p.scheduledTile)
	}

	if p.isPlaying {
		now := p.clock.Now()
		if !now.Before(p.nextPoll) {
			p.nextPoll = now.Add(p.cfg.PollInterval)
			p.setCurrentTime(time.Duration(p.decoder.CurrentPositionMs()) * time.Millisecond)
		}
	}
}

// IsContractViolation reports whether err is a programmer error rather than
// a recoverable failure.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContractViolation) || errors.Is(err, ErrInvalidState)
}
