package projector

import (
	"github.com/opd-ai/spinplay/headset"
	"github.com/opd-ai/spinplay/player"
	"github.com/opd-ai/spinplay/shader"
	"github.com/sirupsen/logrus"
)

func (p *Projector) onPlayerEvent(ev player.Event) {
	switch ev.Kind {
	case player.EventReadyStateChanged:
		p.onReadyStateChanged(ev.ReadyState)
	case player.EventTileChanged:
		// Geometry only follows tile switches during playback.
		if p.player.IsPlaying() && p.player.ReadyState() == player.Ready && p.projection != nil {
			p.orientForTile(p.projection.TileWithID(ev.TileID))
		}
	case player.EventQualityGroupChanged:
		if p.projection != nil {
			p.resize(ev.QualityGroup)
		}
	case player.EventError:
		p.preparing = false
		p.raise(Event{Kind: EventError, Err: ev.Err, Message: ev.Message})
	case player.EventReset:
		p.onReset()
	}
}

func (p *Projector) onReadyStateChanged(state player.ReadyState) {
	logrus.WithFields(logrus.Fields{
		"function": "Projector.onReadyStateChanged",
		"state":    state.String(),
	}).Debug("Player ready state changed")

	if state != player.Ready || !p.preparing {
		return
	}
	if err := p.updateProjection(); err != nil {
		p.abort(err)
		return
	}
	p.setVisible(true)
	p.preparing = false
	p.raise(Event{Kind: EventPrepared})
}

// onReset forgets the built projection and any Prepare in flight.
func (p *Projector) onReset() {
	p.attempt++
	p.preparing = false
	p.wasPlaying = false
	p.clearGeometry()
	p.selector = shader.NewSelector()
}

// onMountChanged pauses while the headset is off and resumes on remount if
// playback was running. Only transitions count; a repeated notification
// keeps the state recorded by the first.
func (p *Projector) onMountChanged(ev headset.MountEvent) {
	if !p.initialized {
		return
	}
	logrus.WithFields(logrus.Fields{
		"function":    "Projector.onMountChanged",
		"mounted":     ev.Mounted,
		"was_playing": p.wasPlaying,
	}).Info("Headset mount changed")

	if ev.Mounted {
		if !p.unmounted {
			return
		}
		p.unmounted = false
		if p.wasPlaying && !p.player.IsPlaying() {
			if err := p.player.Play(); err != nil {
				logrus.WithFields(logrus.Fields{
					"function": "Projector.onMountChanged",
					"error":    err.Error(),
				}).Warn("Resume failed")
			}
		}
		return
	}

	if p.unmounted {
		return
	}
	p.unmounted = true
	p.wasPlaying = p.player.IsPlaying()
	if p.wasPlaying {
		if err := p.player.Pause(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Projector.onMountChanged",
				"error":    err.Error(),
			}).Warn("Pause failed")
		}
	}
}
