package simulate

import "github.com/opd-ai/spinplay/interfaces"

// DefaultQualityGroups announces a 4K and an HD rendition.
var DefaultQualityGroups = []byte(`[` +
	`{"name":"4k","videoWidth":3840,"videoHeight":2160,"frameRateNumerator":30,"frameRateDenominator":1,"bandwidth":16000000},` +
	`{"name":"hd","videoWidth":1920,"videoHeight":1080,"frameRateNumerator":30,"frameRateDenominator":1,"bandwidth":6000000}` +
	`]`)

// DefaultAudioFormats announces an English and a French track.
var DefaultAudioFormats = []byte(`[` +
	`{"id":"en","bandwidth":128000,"channelCount":2,"language":"en"},` +
	`{"id":"fr","bandwidth":128000,"channelCount":2,"language":"fr"}` +
	`]`)

// ReadySequence is what a native player reports while preparing: the
// renditions, a buffering period, readiness and the first frame.
func ReadySequence(qualityGroups, audioFormats []byte) []interfaces.DecoderEvent {
	return []interfaces.DecoderEvent{
		interfaces.QualityGroupsEvent(qualityGroups),
		interfaces.AudioFormatsEvent(audioFormats),
		interfaces.PlaybackStateEvent(false, interfaces.StateBuffering),
		interfaces.PlaybackStateEvent(false, interfaces.StateReady),
		interfaces.FirstFrameRenderedEvent(),
	}
}

// EndedSequence is what a native player reports at the end of the media.
func EndedSequence(playWhenReady bool) []interfaces.DecoderEvent {
	return []interfaces.DecoderEvent{
		interfaces.PlaybackStateEvent(playWhenReady, interfaces.StateEnded),
	}
}

// StallSequence reports a buffering stall while playing followed by recovery.
func StallSequence() []interfaces.DecoderEvent {
	return []interfaces.DecoderEvent{
		interfaces.PlaybackStateEvent(true, interfaces.StateBuffering),
		interfaces.PlaybackStateEvent(true, interfaces.StateReady),
	}
}
