package player

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// EventKind identifies a player notification.
type EventKind int

const (
	EventReadyStateChanged EventKind = iota
	EventReset
	EventPlay
	EventPause
	EventSeeked
	EventCurrentTimeChanged
	EventLoop
	EventTileChanged
	EventQualityGroupChanged
	EventAudioTrackChanged
	EventError
	EventIOCompleted
	EventStall
	EventStallRecover
	EventDroppedFrames
)

var eventKindNames = [...]string{
	"ReadyStateChanged",
	"Reset",
	"Play",
	"Pause",
	"Seeked",
	"CurrentTimeChanged",
	"Loop",
	"TileChanged",
	"QualityGroupChanged",
	"AudioTrackChanged",
	"Error",
	"IOCompleted",
	"Stall",
	"StallRecover",
	"DroppedFrames",
}

// String returns the string representation of EventKind.
func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// Event is a player notification. Only the fields used by Kind are set.
type Event struct {
	Kind EventKind

	// EventReadyStateChanged
	ReadyState ReadyState

	// EventSeeked and EventCurrentTimeChanged
	Time time.Duration

	// EventTileChanged
	TileID string

	// EventQualityGroupChanged
	QualityGroup *QualityGroup

	// EventAudioTrackChanged
	AudioTrack *AudioTrack

	// EventError
	Err     error
	Message string

	// EventIOCompleted
	Bytes   int64
	Elapsed time.Duration

	// EventDroppedFrames
	Frames int
}

// String renders the event for logs.
func (e Event) String() string {
	switch e.Kind {
	case EventReadyStateChanged:
		return fmt.Sprintf("%s(%s)", e.Kind, e.ReadyState)
	case EventSeeked, EventCurrentTimeChanged:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Time)
	case EventTileChanged:
		return fmt.Sprintf("%s(%q)", e.Kind, e.TileID)
	case EventQualityGroupChanged:
		return fmt.Sprintf("%s(%s)", e.Kind, e.QualityGroup.Name)
	case EventAudioTrackChanged:
		return fmt.Sprintf("%s(%s)", e.Kind, e.AudioTrack.ID)
	case EventError:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Message)
	case EventIOCompleted:
		return fmt.Sprintf("%s(%d bytes in %s)", e.Kind, e.Bytes, e.Elapsed)
	case EventDroppedFrames:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Frames)
	default:
		return e.Kind.String()
	}
}

// Observer receives player events on the tick thread.
type Observer func(Event)

type subscription struct {
	id int
	fn Observer
}

// Subscribe registers fn and returns an id for Unsubscribe. Observers run in
// subscription order.
func (p *Player) Subscribe(fn Observer) int {
	p.nextSubID++
	p.observers = append(p.observers, subscription{id: p.nextSubID, fn: fn})
	return p.nextSubID
}

// Unsubscribe removes an observer. Unknown ids are ignored.
func (p *Player) Unsubscribe(id int) {
	for i, s := range p.observers {
		if s.id == id {
			p.observers = append(p.observers[:i:i], p.observers[i+1:]...)
			return
		}
	}
}

func (p *Player) raise(ev Event) {
	logrus.WithFields(logrus.Fields{
		"function": "Player.raise",
		"event":    ev.String(),
	}).Debug("Raising player event")
	observers := p.observers
	for _, s := range observers {
		s.fn(ev)
	}
}
