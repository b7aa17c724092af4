package interfaces

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Decoder configuration keys.
const (
	// ForceFrameSyncKey holds a bool requesting that tile switches land on an
	// exact decoded frame.
	ForceFrameSyncKey = "ForceFrameSync"
	// PreferYUVBuffersKey holds a bool hinting that raw YUV planes are
	// preferred over an RGB texture.
	PreferYUVBuffersKey = "PreferYUVBuffers"
	// PreferredLanguageKey holds a language.Tag or BCP 47 string.
	PreferredLanguageKey = "PreferredLanguage"
	// SpatialChannelsKey holds the number of spatial audio channels.
	SpatialChannelsKey = "SpatialChannels"
	// HeadLockedChannelsKey holds the number of head-locked audio channels.
	HeadLockedChannelsKey = "HeadLockedChannels"
	// SpatialFormatKey holds the spatial audio format name.
	SpatialFormatKey = "SpatialFormat"
	// AudioOutIDKey holds the audio output device id.
	AudioOutIDKey = "AudioOutId"

	AllowExceedsCapabilitiesKey          = "AllowExceedsCapabilities"
	MaxInitialBitrateKey                 = "MaxInitialBitrate"
	MinDurationForQualityIncreaseMsKey   = "MinDurationForQualityIncreaseMs"
	MaxDurationForQualityDecreaseMsKey   = "MaxDurationForQualityDecreaseMs"
	MinDurationToRetainAfterDiscardMsKey = "MinDurationToRetainAfterDiscardMs"
	BandwidthFractionKey                 = "BandwidthFraction"
	MinBufferMsKey                       = "MinBufferMs"
	MaxBufferMsKey                       = "MaxBufferMs"
	BufferForPlaybackMsKey               = "BufferForPlaybackMs"
	BufferForPlaybackAfterRebufferMsKey  = "BufferForPlaybackAfterRebufferMs"
)

// DecoderConfig is the keyed configuration bag handed to Decoder.Prepare.
// A nil DecoderConfig is empty.
type DecoderConfig map[string]any

// Has reports whether key is present.
func (c DecoderConfig) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Int returns an integer value. Floating point values are accepted when
// they are whole numbers.
func (c DecoderConfig) Int(key string) (int, bool) {
	switch v := c[key].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	case float32:
		if float64(v) == math.Trunc(float64(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// Float returns a floating point value. Integers are widened.
func (c DecoderConfig) Float(key string) (float64, bool) {
	switch v := c[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Bool returns a boolean value.
func (c DecoderConfig) Bool(key string) (bool, bool) {
	v, ok := c[key].(bool)
	return v, ok
}

// String returns a string value.
func (c DecoderConfig) String(key string) (string, bool) {
	v, ok := c[key].(string)
	return v, ok
}

// Language returns the preferred language stored under key. Both
// language.Tag values and BCP 47 strings are accepted.
func (c DecoderConfig) Language(key string) (language.Tag, bool) {
	switch v := c[key].(type) {
	case language.Tag:
		return v, true
	case string:
		tag, err := language.Parse(v)
		if err != nil {
			return language.Und, false
		}
		return tag, true
	}
	return language.Und, false
}

// Clone returns a shallow copy.
func (c DecoderConfig) Clone() DecoderConfig {
	out := make(DecoderConfig, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge returns a new bag holding c overlaid with every entry of other.
func (c DecoderConfig) Merge(other DecoderConfig) DecoderConfig {
	out := c.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Keys returns the keys in sorted order.
func (c DecoderConfig) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GoString renders the bag deterministically for logs.
func (c DecoderConfig) GoString() string {
	parts := make([]string, 0, len(c))
	for _, k := range c.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, c[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Backend selects a decoder implementation.
type Backend int

const (
	// BackendBridge drives a native platform decoder.
	BackendBridge Backend = iota
	// BackendSimulation drives a scripted decoder.
	BackendSimulation
)

// String returns the string representation of Backend.
func (b Backend) String() string {
	switch b {
	case BackendBridge:
		return "bridge"
	case BackendSimulation:
		return "simulation"
	default:
		return fmt.Sprintf("Unknown(%d)", int(b))
	}
}

// ParseBackend accepts "bridge", "native", "simulation" and "sim".
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bridge", "native":
		return BackendBridge, nil
	case "simulation", "sim":
		return BackendSimulation, nil
	default:
		return BackendBridge, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// DecoderOptions holds configuration for decoder creation.
type DecoderOptions struct {
	// Backend selects the implementation
	Backend Backend

	// MaxInitialBitrate caps the bitrate of the first quality group; zero
	// leaves the decoder default
	MaxInitialBitrate int

	// BandwidthFraction is the share of estimated bandwidth adaptive quality
	// may use
	BandwidthFraction float64

	// PreferYUVBuffers asks the decoder for raw YUV planes
	PreferYUVBuffers bool

	// PreferredLanguage selects the default audio track
	PreferredLanguage language.Tag
}

// Validate checks the numeric bounds.
func (o *DecoderOptions) Validate() error {
	if o.MaxInitialBitrate < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBitrate, o.MaxInitialBitrate)
	}
	if o.BandwidthFraction <= 0 || o.BandwidthFraction > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidBandwidthFraction, o.BandwidthFraction)
	}
	return nil
}

// Config returns the configuration entries the options contribute to every
// Prepare call.
func (o *DecoderOptions) Config() DecoderConfig {
	cfg := DecoderConfig{
		BandwidthFractionKey: o.BandwidthFraction,
		PreferYUVBuffersKey:  o.PreferYUVBuffers,
	}
	if o.MaxInitialBitrate > 0 {
		cfg[MaxInitialBitrateKey] = o.MaxInitialBitrate
	}
	if o.PreferredLanguage != language.Und {
		cfg[PreferredLanguageKey] = o.PreferredLanguage
	}
	return cfg
}
