package factory

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/opd-ai/spinplay/bridge"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/opd-ai/spinplay/simulate"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Validation constants for option bounds checking.
const (
	// MaxInitialBitrate is the largest accepted initial bitrate (1 Gbps).
	MaxInitialBitrate = 1_000_000_000
	// DefaultBandwidthFraction is the share of estimated bandwidth adaptive
	// quality may use.
	DefaultBandwidthFraction = 0.75
)

// ErrNoNativeSupplier is returned when a bridge decoder is requested without
// a native player supplier.
var ErrNoNativeSupplier = errors.New("native player supplier is required for the bridge decoder")

// NativeSupplier returns a fresh native player handle.
type NativeSupplier func() (bridge.NativePlayer, error)

// DecoderFactory creates decoder implementations based on options.
// It is safe for concurrent use; all methods are protected by an internal mutex.
type DecoderFactory struct {
	mu             sync.RWMutex
	defaultOptions *interfaces.DecoderOptions
	native         NativeSupplier
	simulation     simulate.Options
}

// TestOption is a functional option for customizing a scripted test decoder.
type TestOption func(*simulate.Options)

// NewDecoderFactory creates a new factory with default options.
func NewDecoderFactory() *DecoderFactory {
	opts := createDefaultOptions()
	applyEnvironmentOverrides(opts)
	logOptionsInfo(opts)

	sim := simulate.DefaultOptions()
	sim.AutoRespond = true

	return &DecoderFactory{
		defaultOptions: opts,
		simulation:     sim,
	}
}

// createDefaultOptions initializes the default decoder options.
//
// Default Value Rationale:
//   - Backend: bridge - Production mode by default; simulation must be explicitly enabled
//   - BandwidthFraction: 0.75 - Leaves headroom for the tile switches of multi-tile media
//   - PreferYUVBuffers: false - Every backend can deliver RGB
func createDefaultOptions() *interfaces.DecoderOptions {
	return &interfaces.DecoderOptions{
		Backend:           interfaces.BackendBridge,
		BandwidthFraction: DefaultBandwidthFraction,
		PreferredLanguage: language.Und,
	}
}

// applyEnvironmentOverrides updates options from SPINPLAY_* environment
// variables.
func applyEnvironmentOverrides(opts *interfaces.DecoderOptions) {
	parseBackendSetting(opts)
	parseBitrateSetting(opts)
	parseBandwidthFractionSetting(opts)
	parseYUVSetting(opts)
	parseLanguageSetting(opts)
}

func warnEnv(function, env, value string, err error, using any, msg string) {
	fields := logrus.Fields{
		"function":    function,
		"env_var":     env,
		"value":       value,
		"using_value": using,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	logrus.WithFields(fields).Warn(msg)
}

// parseBackendSetting reads SPINPLAY_DECODER.
func parseBackendSetting(opts *interfaces.DecoderOptions) {
	if s := os.Getenv("SPINPLAY_DECODER"); s != "" {
		b, err := interfaces.ParseBackend(s)
		if err != nil {
			warnEnv("parseBackendSetting", "SPINPLAY_DECODER", s, err, opts.Backend.String(),
				"Failed to parse SPINPLAY_DECODER environment variable, using default")
			return
		}
		opts.Backend = b
	}
}

// parseBitrateSetting reads SPINPLAY_MAX_INITIAL_BITRATE, bounded to
// [0, MaxInitialBitrate].
func parseBitrateSetting(opts *interfaces.DecoderOptions) {
	if s := os.Getenv("SPINPLAY_MAX_INITIAL_BITRATE"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			warnEnv("parseBitrateSetting", "SPINPLAY_MAX_INITIAL_BITRATE", s, err, opts.MaxInitialBitrate,
				"Failed to parse SPINPLAY_MAX_INITIAL_BITRATE environment variable, using default")
			return
		}
		if v < 0 || v > MaxInitialBitrate {
			warnEnv("parseBitrateSetting", "SPINPLAY_MAX_INITIAL_BITRATE", s, nil, opts.MaxInitialBitrate,
				"SPINPLAY_MAX_INITIAL_BITRATE value out of bounds, using default")
			return
		}
		opts.MaxInitialBitrate = v
	}
}

// parseBandwidthFractionSetting reads SPINPLAY_BANDWIDTH_FRACTION, bounded to
// (0, 1].
func parseBandwidthFractionSetting(opts *interfaces.DecoderOptions) {
	if s := os.Getenv("SPINPLAY_BANDWIDTH_FRACTION"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			warnEnv("parseBandwidthFractionSetting", "SPINPLAY_BANDWIDTH_FRACTION", s, err, opts.BandwidthFraction,
				"Failed to parse SPINPLAY_BANDWIDTH_FRACTION environment variable, using default")
			return
		}
		if v <= 0 || v > 1 {
			warnEnv("parseBandwidthFractionSetting", "SPINPLAY_BANDWIDTH_FRACTION", s, nil, opts.BandwidthFraction,
				"SPINPLAY_BANDWIDTH_FRACTION value out of bounds, using default")
			return
		}
		opts.BandwidthFraction = v
	}
}

// parseYUVSetting reads SPINPLAY_PREFER_YUV.
func parseYUVSetting(opts *interfaces.DecoderOptions) {
	if s := os.Getenv("SPINPLAY_PREFER_YUV"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			warnEnv("parseYUVSetting", "SPINPLAY_PREFER_YUV", s, err, opts.PreferYUVBuffers,
				"Failed to parse SPINPLAY_PREFER_YUV environment variable, using default")
			return
		}
		opts.PreferYUVBuffers = v
	}
}

// parseLanguageSetting reads SPINPLAY_PREFERRED_LANGUAGE.
func parseLanguageSetting(opts *interfaces.DecoderOptions) {
	if s := os.Getenv("SPINPLAY_PREFERRED_LANGUAGE"); s != "" {
		tag, err := language.Parse(s)
		if err != nil {
			warnEnv("parseLanguageSetting", "SPINPLAY_PREFERRED_LANGUAGE", s, err, opts.PreferredLanguage.String(),
				"Failed to parse SPINPLAY_PREFERRED_LANGUAGE environment variable, using default")
			return
		}
		opts.PreferredLanguage = tag
	}
}

// logOptionsInfo logs the final options.
func logOptionsInfo(opts *interfaces.DecoderOptions) {
	logrus.WithFields(logrus.Fields{
		"function":            "NewDecoderFactory",
		"backend":             opts.Backend.String(),
		"max_initial_bitrate": opts.MaxInitialBitrate,
		"bandwidth_fraction":  opts.BandwidthFraction,
		"prefer_yuv":          opts.PreferYUVBuffers,
		"preferred_language":  opts.PreferredLanguage.String(),
	}).Info("Created decoder factory with options")
}

// SetNativeSupplier installs the supplier bridge decoders are built from.
func (f *DecoderFactory) SetNativeSupplier(s NativeSupplier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.native = s
}

// SetSimulationOptions replaces the options of scripted decoders created by
// Create in simulation mode.
func (f *DecoderFactory) SetSimulationOptions(opts simulate.Options) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.simulation = opts
}

// Create creates a decoder delivering to sink using the current options.
func (f *DecoderFactory) Create(sink interfaces.EventSink) (interfaces.Decoder, error) {
	f.mu.RLock()
	opts := *f.defaultOptions
	f.mu.RUnlock()
	return f.CreateWithOptions(sink, &opts)
}

// CreateWithOptions creates a decoder with custom options. nil means the
// current defaults.
func (f *DecoderFactory) CreateWithOptions(sink interfaces.EventSink, opts *interfaces.DecoderOptions) (interfaces.Decoder, error) {
	f.mu.RLock()
	if opts == nil {
		opts = f.defaultOptions
	}
	native := f.native
	sim := f.simulation
	f.mu.RUnlock()

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid decoder options: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "CreateWithOptions",
		"backend":  opts.Backend.String(),
	}).Info("Creating decoder implementation")

	switch opts.Backend {
	case interfaces.BackendSimulation:
		return simulate.NewDecoder(sink, sim), nil
	case interfaces.BackendBridge:
		if native == nil {
			return nil, ErrNoNativeSupplier
		}
		handle, err := native()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "CreateWithOptions",
				"error":    err.Error(),
			}).Error("Native player supplier failed")
			return nil, fmt.Errorf("create native player: %w", err)
		}
		return bridge.NewDecoder(handle, sink), nil
	default:
		return nil, fmt.Errorf("%w: %s", interfaces.ErrUnknownBackend, opts.Backend)
	}
}

// WithDuration sets the scripted media duration.
func WithDuration(d time.Duration) TestOption {
	return func(o *simulate.Options) {
		o.DurationMs = d.Milliseconds()
	}
}

// WithAutoRespond makes the scripted decoder answer its own commands.
func WithAutoRespond(enabled bool) TestOption {
	return func(o *simulate.Options) {
		o.AutoRespond = enabled
	}
}

// WithQualityGroups sets the quality groups announced by auto-responding
// Prepare calls.
func WithQualityGroups(payload []byte) TestOption {
	return func(o *simulate.Options) {
		o.QualityGroups = payload
	}
}

// CreateSimulationForTesting creates a scripted decoder specifically for
// testing. By default it only emits what the test tells it to.
func (f *DecoderFactory) CreateSimulationForTesting(sink interfaces.EventSink, opts ...TestOption) *simulate.Decoder {
	testOptions := simulate.DefaultOptions()
	for _, opt := range opts {
		opt(&testOptions)
	}

	logrus.WithFields(logrus.Fields{
		"function":     "CreateSimulationForTesting",
		"duration_ms":  testOptions.DurationMs,
		"auto_respond": testOptions.AutoRespond,
	}).Info("Creating scripted decoder for testing")

	return simulate.NewDecoder(sink, testOptions)
}

func (f *DecoderFactory) switchBackend(function string, b interfaces.Backend) {
	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": function,
		"previous": f.defaultOptions.Backend.String(),
		"current":  b.String(),
	}).Info("Switching factory backend")

	f.defaultOptions.Backend = b
}

// SwitchToSimulation switches the factory to scripted decoders
func (f *DecoderFactory) SwitchToSimulation() {
	f.switchBackend("SwitchToSimulation", interfaces.BackendSimulation)
}

// SwitchToBridge switches the factory to native decoders
func (f *DecoderFactory) SwitchToBridge() {
	f.switchBackend("SwitchToBridge", interfaces.BackendBridge)
}

// IsUsingSimulation returns true if the factory creates scripted decoders
func (f *DecoderFactory) IsUsingSimulation() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.defaultOptions.Backend == interfaces.BackendSimulation
}

// GetCurrentOptions returns a copy of the current default options
func (f *DecoderFactory) GetCurrentOptions() *interfaces.DecoderOptions {
	f.mu.RLock()
	defer f.mu.RUnlock()
	opts := *f.defaultOptions
	return &opts
}

// UpdateOptions validates and replaces the default options
func (f *DecoderFactory) UpdateOptions(opts *interfaces.DecoderOptions) error {
	if opts == nil {
		return fmt.Errorf("options cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid decoder options: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":    "UpdateOptions",
		"old_backend": f.defaultOptions.Backend.String(),
		"new_backend": opts.Backend.String(),
	}).Info("Updating factory options")

	copied := *opts
	f.defaultOptions = &copied
	return nil
}
