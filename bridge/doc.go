// Package bridge adapts a native platform video player to the
// interfaces.Decoder control surface and translates its string messages into
// typed decoder events.
//
// This package is the production decoder backend, distinct from the scripted
// decoder in simulate used for testing.
//
// # Architecture
//
// A [Decoder] wraps a [NativePlayer], the thin method-call handle a host
// exposes for its platform player (a JNI object on Android, a plugin handle
// on desktop). Commands flow down as named method calls; notifications flow
// up as (method, payload) string pairs that the host hands to
// [Decoder.HandleMessage]:
//
//	┌──────────────────────────────────────┐
//	│               player                 │
//	└──────────┬───────────────▲───────────┘
//	  commands │               │ DecoderEvent
//	┌──────────▼───────────────┴───────────┐
//	│            bridge.Decoder            │
//	│  config JSON     message parsing     │
//	└──────────┬───────────────▲───────────┘
//	    Call() │               │ HandleMessage()
//	┌──────────▼───────────────┴───────────┐
//	│      NativePlayer (host supplied)    │
//	└──────────────────────────────────────┘
//
// # Message Protocol
//
// Payloads are plain strings:
//   - onPlayerStateChanged: "TRUE|STATE_READY" (playWhenReady, state)
//   - onQualityGroupsChanged, onAudioFormatsChanged: JSON arrays
//   - onDownstreamFormatChanged: "tileId|qualityGroupName"
//   - onAudioFormatChanged: the track id
//   - onExoDroppedFrames: a decimal count
//   - onPlayerError, onLoadError: the message
//   - onBandwidthSample: "elapsedMs|bytes|bitrate"
//   - onScheduledTileAtTime: "tileId|presentationTimeUs"
//   - onRenderedFirstFrame, onLoadingChanged: payload ignored
//
// A malformed payload is delivered as a PlayerError event so the player fails
// visibly instead of stalling.
//
// # Usage
//
//	dec := bridge.NewDecoder(native, p)
//	host.OnMessage(func(method, payload string) {
//	    _ = dec.HandleMessage(method, payload)
//	})
//
// # Thread Safety
//
// HandleMessage may be called from the native callback thread concurrently
// with commands from the tick thread. After Dispose, messages are dropped.
package bridge
