package projector

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// EventKind identifies a projector notification.
type EventKind int

const (
	// EventPrepared is raised once the geometry is built and visible.
	EventPrepared EventKind = iota
	// EventError carries a recoverable error from the projector or the
	// player.
	EventError
	// EventForceMonoscopicChanged is raised when ForceMonoscopic changes.
	EventForceMonoscopicChanged
)

// String returns the string representation of EventKind.
func (k EventKind) String() string {
	switch k {
	case EventPrepared:
		return "Prepared"
	case EventError:
		return "Error"
	case EventForceMonoscopicChanged:
		return "ForceMonoscopicChanged"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Event is a projector notification.
type Event struct {
	Kind EventKind

	// EventError
	Err     error
	Message string

	// EventForceMonoscopicChanged
	ForceMonoscopic bool
}

// String renders the event for logs.
func (e Event) String() string {
	switch e.Kind {
	case EventError:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Message)
	case EventForceMonoscopicChanged:
		return fmt.Sprintf("%s(%t)", e.Kind, e.ForceMonoscopic)
	default:
		return e.Kind.String()
	}
}

// Observer receives projector events on the tick thread.
type Observer func(Event)

type subscription struct {
	id int
	fn Observer
}

// Subscribe registers fn and returns an id for Unsubscribe.
func (p *Projector) Subscribe(fn Observer) int {
	p.nextSubID++
	p.observers = append(p.observers, subscription{id: p.nextSubID, fn: fn})
	return p.nextSubID
}

// Unsubscribe removes an observer. Unknown ids are ignored.
func (p *Projector) Unsubscribe(id int) {
	for i, s := range p.observers {
		if s.id == id {
			p.observers = append(p.observers[:i:i], p.observers[i+1:]...)
			return
		}
	}
}

func (p *Projector) raise(ev Event) {
	logrus.WithFields(logrus.Fields{
		"function": "Projector.raise",
		"event":    ev.String(),
	}).Debug("Raising projector event")
	for _, s := range p.observers {
		s.fn(ev)
	}
}

// raiseError logs err and raises it as EventError.
func (p *Projector) raiseError(err error) {
	logrus.WithFields(logrus.Fields{
		"function": "Projector.raiseError",
		"error":    err.Error(),
	}).Error("Projector error")
	p.raise(Event{Kind: EventError, Err: err, Message: err.Error()})
}
