package interfaces

import (
	"fmt"
	"strings"
)

// PlaybackState is the raw state reported by a decoder.
type PlaybackState int

const (
	// StateIdle means the decoder has no media.
	StateIdle PlaybackState = iota
	// StateBuffering means the decoder cannot play from its buffer.
	StateBuffering
	// StateReady means the decoder can play immediately.
	StateReady
	// StateEnded means the decoder reached the end of the media.
	StateEnded
)

var playbackStateNames = [...]string{"STATE_IDLE", "STATE_BUFFERING", "STATE_READY", "STATE_ENDED"}

// String returns the native protocol name of the state.
func (s PlaybackState) String() string {
	if s >= 0 && int(s) < len(playbackStateNames) {
		return playbackStateNames[s]
	}
	return fmt.Sprintf("Unknown(%d)", int(s))
}

// ParsePlaybackState accepts the native protocol names case-insensitively,
// with or without the STATE_ prefix.
func ParsePlaybackState(s string) (PlaybackState, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(name, "STATE_") {
		name = "STATE_" + name
	}
	for i, n := range playbackStateNames {
		if n == name {
			return PlaybackState(i), nil
		}
	}
	return StateIdle, fmt.Errorf("%w: %q", ErrUnknownState, s)
}
