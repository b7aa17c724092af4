package player

import (
	"fmt"
	"strings"
	"time"
)

// ReadyState is the lifecycle state of a Player.
type ReadyState int

const (
	// Idle means no media is loaded.
	Idle ReadyState = iota
	// Preparing means the decoder is loading media.
	Preparing
	// Ready means the media can be played. See Player.IsPlaying.
	Ready
	// Ended means playback completed without looping.
	Ended
	// Error means a fatal error occurred. Only Reset leaves it.
	Error
)

// String returns the string representation of ReadyState.
func (s ReadyState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Preparing:
		return "Preparing"
	case Ready:
		return "Ready"
	case Ended:
		return "Ended"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Unknown values reported while a property is not yet known.
const (
	UnknownSize                = -1
	UnknownTime  time.Duration = -1
	UnknownCount               = -1
)

// DefaultPollInterval throttles current time queries while playing.
const DefaultPollInterval = 250 * time.Millisecond

// Config holds the player defaults restored by Reset.
type Config struct {
	// AutoPlay starts playback as soon as Ready is reached
	AutoPlay bool

	// AutoQuality lets the decoder pick quality groups
	AutoQuality bool

	// Loop restarts playback at the end of the media
	Loop bool

	// PollInterval throttles current time queries
	PollInterval time.Duration

	// YDown reports that decoded frames start at the top scan line
	YDown bool
}

// DefaultConfig returns the default player configuration.
func DefaultConfig() *Config {
	return &Config{
		AutoPlay:     true,
		AutoQuality:  true,
		Loop:         false,
		PollInterval: DefaultPollInterval,
	}
}

func invalidState(op string, current ReadyState, valid ...ReadyState) error {
	names := make([]string, len(valid))
	for i, s := range valid {
		names[i] = s.String()
	}
	return fmt.Errorf("%w: %s requires %s, player is %s",
		ErrInvalidState, op, strings.Join(names, " | "), current)
}

func (p *Player) requireState(op string, valid ...ReadyState) error {
	for _, s := range valid {
		if p.readyState == s {
			return nil
		}
	}
	return invalidState(op, p.readyState, valid...)
}
