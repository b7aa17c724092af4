// Package factory creates decoder backends for spinplay.
//
// The factory abstracts the creation of decoders, allowing seamless switching
// between the scripted decoder (for tests and dry runs) and the native bridge
// without changing the player.
//
// # Factory Pattern Rationale
//
// The factory pattern is used here to:
//   - Decouple the player from concrete decoder implementations
//   - Enable dependency injection for testing scenarios
//   - Centralize decoder option management
//   - Support runtime switching between simulation and native modes
//
// # Configuration
//
// The factory supports configuration via environment variables:
//   - SPINPLAY_DECODER: "bridge" or "simulation"
//   - SPINPLAY_MAX_INITIAL_BITRATE: integer bits per second
//   - SPINPLAY_BANDWIDTH_FRACTION: float in (0, 1]
//   - SPINPLAY_PREFER_YUV: "true" or "false"
//   - SPINPLAY_PREFERRED_LANGUAGE: a BCP 47 tag such as "en" or "pt-BR"
//
// # Usage
//
//	f := factory.NewDecoderFactory()
//	f.SetNativeSupplier(func() (bridge.NativePlayer, error) {
//	    return host.NewPlayerHandle()
//	})
//	dec, err := f.Create(p)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing Support
//
// CreateSimulationForTesting returns the concrete scripted decoder so tests
// can emit events and inspect the command log:
//
//	func TestMyFeature(t *testing.T) {
//	    dec := factory.NewDecoderFactory().CreateSimulationForTesting(p)
//	    dec.Emit(simulate.ReadySequence(simulate.DefaultQualityGroups, simulate.DefaultAudioFormats)...)
//	}
//
// # Mode Switching
//
//	f := factory.NewDecoderFactory()
//	f.SwitchToSimulation()
//	f.SwitchToBridge()
package factory
