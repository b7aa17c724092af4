package interfaces

import (
	"encoding/json"
	"fmt"
)

// DecoderEventKind identifies a decoder notification.
type DecoderEventKind int

const (
	// EventPlaybackState reports playWhenReady and the raw playback state.
	EventPlaybackState DecoderEventKind = iota
	// EventQualityGroups announces the quality groups as a JSON array.
	EventQualityGroups
	// EventAudioFormats announces the audio tracks as a JSON array.
	EventAudioFormats
	// EventFirstFrameRendered reports that a frame reached the output.
	EventFirstFrameRendered
	// EventDownstreamFormatChanged reports the quality group now being
	// rendered for a tile.
	EventDownstreamFormatChanged
	// EventAudioFormatChanged reports the audio track now being played.
	EventAudioFormatChanged
	// EventDroppedFrames reports dropped frames.
	EventDroppedFrames
	// EventPlayerError reports a fatal playback error.
	EventPlayerError
	// EventLoadError reports a fatal loading error.
	EventLoadError
	// EventBandwidthSample reports a completed transfer.
	EventBandwidthSample
	// EventScheduledTile reports when a requested tile becomes visible.
	EventScheduledTile
)

var decoderEventKindNames = [...]string{
	"PlaybackState",
	"QualityGroups",
	"AudioFormats",
	"FirstFrameRendered",
	"DownstreamFormatChanged",
	"AudioFormatChanged",
	"DroppedFrames",
	"PlayerError",
	"LoadError",
	"BandwidthSample",
	"ScheduledTile",
}

// String returns the string representation of DecoderEventKind.
func (k DecoderEventKind) String() string {
	if k >= 0 && int(k) < len(decoderEventKindNames) {
		return decoderEventKindNames[k]
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// DecoderEvent is a single decoder notification. Only the fields used by
// Kind are meaningful.
type DecoderEvent struct {
	Kind DecoderEventKind

	// EventPlaybackState
	PlayWhenReady bool
	State         PlaybackState

	// EventQualityGroups and EventAudioFormats
	Payload json.RawMessage

	// EventDownstreamFormatChanged and EventScheduledTile
	TileID string
	// EventDownstreamFormatChanged
	QualityGroupName string
	// EventAudioFormatChanged
	TrackID string

	// EventDroppedFrames
	Count int

	// EventPlayerError and EventLoadError
	Message string

	// EventBandwidthSample
	ElapsedMs int64
	Bytes     int64
	Bitrate   int64

	// EventScheduledTile
	PresentationTimeUs int64
}

// IsFatal reports whether the event moves a player to its error state.
func (e DecoderEvent) IsFatal() bool {
	return e.Kind == EventPlayerError || e.Kind == EventLoadError
}

// String renders the event for logs.
func (e DecoderEvent) String() string {
	switch e.Kind {
	case EventPlaybackState:
		return fmt.Sprintf("%s(playWhenReady=%t, %s)", e.Kind, e.PlayWhenReady, e.State)
	case EventQualityGroups, EventAudioFormats:
		return fmt.Sprintf("%s(%d bytes)", e.Kind, len(e.Payload))
	case EventDownstreamFormatChanged:
		return fmt.Sprintf("%s(%s, %s)", e.Kind, e.TileID, e.QualityGroupName)
	case EventAudioFormatChanged:
		return fmt.Sprintf("%s(%s)", e.Kind, e.TrackID)
	case EventDroppedFrames:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Count)
	case EventPlayerError, EventLoadError:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Message)
	case EventBandwidthSample:
		return fmt.Sprintf("%s(%dms, %d bytes, %d bps)", e.Kind, e.ElapsedMs, e.Bytes, e.Bitrate)
	case EventScheduledTile:
		return fmt.Sprintf("%s(%s @ %dus)", e.Kind, e.TileID, e.PresentationTimeUs)
	default:
		return e.Kind.String()
	}
}

// PlaybackStateEvent builds an EventPlaybackState event.
func PlaybackStateEvent(playWhenReady bool, state PlaybackState) DecoderEvent {
	return DecoderEvent{Kind: EventPlaybackState, PlayWhenReady: playWhenReady, State: state}
}

// QualityGroupsEvent builds an EventQualityGroups event from a JSON array.
func QualityGroupsEvent(payload []byte) DecoderEvent {
	return DecoderEvent{Kind: EventQualityGroups, Payload: json.RawMessage(payload)}
}

// AudioFormatsEvent builds an EventAudioFormats event from a JSON array.
func AudioFormatsEvent(payload []byte) DecoderEvent {
	return DecoderEvent{Kind: EventAudioFormats, Payload: json.RawMessage(payload)}
}

// FirstFrameRenderedEvent builds an EventFirstFrameRendered event.
func FirstFrameRenderedEvent() DecoderEvent {
	return DecoderEvent{Kind: EventFirstFrameRendered}
}

// DownstreamFormatChangedEvent builds an EventDownstreamFormatChanged event.
func DownstreamFormatChangedEvent(tileID, qualityGroup string) DecoderEvent {
	return DecoderEvent{Kind: EventDownstreamFormatChanged, TileID: tileID, QualityGroupName: qualityGroup}
}

// AudioFormatChangedEvent builds an EventAudioFormatChanged event.
func AudioFormatChangedEvent(trackID string) DecoderEvent {
	return DecoderEvent{Kind: EventAudioFormatChanged, TrackID: trackID}
}

// DroppedFramesEvent builds an EventDroppedFrames event.
func DroppedFramesEvent(count int) DecoderEvent {
	return DecoderEvent{Kind: EventDroppedFrames, Count: count}
}

// PlayerErrorEvent builds an EventPlayerError event.
func PlayerErrorEvent(msg string) DecoderEvent {
	return DecoderEvent{Kind: EventPlayerError, Message: msg}
}

// LoadErrorEvent builds an EventLoadError event.
func LoadErrorEvent(msg string) DecoderEvent {
	return DecoderEvent{Kind: EventLoadError, Message: msg}
}

// BandwidthSampleEvent builds an EventBandwidthSample event.
func BandwidthSampleEvent(elapsedMs, bytes, bitrate int64) DecoderEvent {
	return DecoderEvent{Kind: EventBandwidthSample, ElapsedMs: elapsedMs, Bytes: bytes, Bitrate: bitrate}
}

// ScheduledTileEvent builds an EventScheduledTile event.
func ScheduledTileEvent(tileID string, presentationTimeUs int64) DecoderEvent {
	return DecoderEvent{Kind: EventScheduledTile, TileID: tileID, PresentationTimeUs: presentationTimeUs}
}
