package bridge

// NativePlayer is the method-call handle of a platform player.
type NativePlayer interface {
	// Call invokes a void method.
	Call(method string, args ...any) error

	// CallInt64 invokes a method returning a long.
	CallInt64(method string) (int64, error)
}

// Native method names.
const (
	MethodSetConfiguration      = "setConfiguration"
	MethodPrepare               = "prepare"
	MethodPlay                  = "play"
	MethodPause                 = "pause"
	MethodSeekTo                = "seekTo"
	MethodSetTileID             = "setTileId"
	MethodSetQualityGroupName   = "setQualityGroupName"
	MethodSetAudioTrackID       = "setAudioTrackId"
	MethodEnableAutoQuality     = "enableAutoQuality"
	MethodSetOrientation        = "setOrientation"
	MethodGetCurrentPosition    = "getCurrentPosition"
	MethodGetDuration           = "getDuration"
	MethodGetLastFrameTimestamp = "getLastFrameTimestamp"
	MethodDispose               = "dispose"
)

// Native message names.
const (
	MessagePlayerStateChanged      = "onPlayerStateChanged"
	MessageQualityGroupsChanged    = "onQualityGroupsChanged"
	MessageAudioFormatsChanged     = "onAudioFormatsChanged"
	MessageRenderedFirstFrame      = "onRenderedFirstFrame"
	MessageLoadingChanged          = "onLoadingChanged"
	MessageDownstreamFormatChanged = "onDownstreamFormatChanged"
	MessageAudioFormatChanged      = "onAudioFormatChanged"
	MessageDroppedFrames           = "onExoDroppedFrames"
	MessagePlayerError             = "onPlayerError"
	MessageLoadError               = "onLoadError"
	MessageBandwidthSample         = "onBandwidthSample"
	MessageScheduledTileAtTime     = "onScheduledTileAtTime"
)

const boolTrue = "TRUE"
