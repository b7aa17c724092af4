package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/opd-ai/spinplay/interfaces"
	"github.com/sirupsen/logrus"
)

type configKind int

const (
	configInt configKind = iota
	configFloat
	configBool
	configString
	configLanguage
)

// nativeConfigKeys lists every key the native player understands.
var nativeConfigKeys = []struct {
	key  string
	kind configKind
}{
	{interfaces.PreferredLanguageKey, configLanguage},
	{interfaces.AllowExceedsCapabilitiesKey, configBool},
	{interfaces.MaxInitialBitrateKey, configInt},
	{interfaces.MinDurationForQualityIncreaseMsKey, configInt},
	{interfaces.MaxDurationForQualityDecreaseMsKey, configInt},
	{interfaces.MinDurationToRetainAfterDiscardMsKey, configInt},
	{interfaces.BandwidthFractionKey, configFloat},
	{interfaces.MinBufferMsKey, configInt},
	{interfaces.MaxBufferMsKey, configInt},
	{interfaces.BufferForPlaybackMsKey, configInt},
	{interfaces.BufferForPlaybackAfterRebufferMsKey, configInt},
	{interfaces.SpatialChannelsKey, configInt},
	{interfaces.HeadLockedChannelsKey, configInt},
	{interfaces.SpatialFormatKey, configString},
	{interfaces.ForceFrameSyncKey, configBool},
	{interfaces.PreferYUVBuffersKey, configBool},
	{interfaces.AudioOutIDKey, configString},
}

// ConfigurationJSON serializes the keys of cfg the native player understands.
// Other keys are dropped. The preferred language is sent as its two-letter
// base code.
func ConfigurationJSON(cfg interfaces.DecoderConfig) ([]byte, error) {
	out := make(map[string]any, len(nativeConfigKeys))
	for _, k := range nativeConfigKeys {
		if !cfg.Has(k.key) {
			continue
		}
		var (
			v  any
			ok bool
		)
		switch k.kind {
		case configInt:
			v, ok = cfg.Int(k.key)
		case configFloat:
			v, ok = cfg.Float(k.key)
		case configBool:
			v, ok = cfg.Bool(k.key)
		case configString:
			v, ok = cfg.String(k.key)
		case configLanguage:
			tag, found := cfg.Language(k.key)
			if found {
				base, _ := tag.Base()
				v, ok = base.String(), true
			}
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s=%v (%T)", ErrConfigType, k.key, cfg[k.key], cfg[k.key])
		}
		out[k.key] = v
	}

	for _, key := range cfg.Keys() {
		if _, known := out[key]; !known {
			logrus.WithFields(logrus.Fields{
				"function": "ConfigurationJSON",
				"key":      key,
			}).Debug("Dropping configuration key the native player does not understand")
		}
	}
	return json.Marshal(out)
}
