// Package interfaces defines the decoder control and event surface shared by
// the player and every decoder backend in spinplay.
//
// This package provides the abstractions that let the same player drive a
// native platform decoder in production and a scripted decoder in tests,
// supporting both real playback and deterministic state-machine testing.
//
// # Core Interfaces
//
// [Decoder] is the control surface. The player issues every command through
// it and never touches a native handle directly:
//
//	dec, err := factory.NewDecoderFactory().Create(p)
//	if err != nil {
//	    log.Fatalf("no decoder: %v", err)
//	}
//	err = dec.Prepare(url, 0, false, cfg)
//
// [EventSink] is the event surface. Decoders report raw playback state and
// discrete notifications by delivering [DecoderEvent] values to the sink they
// were created with. Delivery may happen on any goroutine; the sink is
// responsible for handing the event over to the tick thread.
//
//	sink := interfaces.EventSinkFunc(func(ev interfaces.DecoderEvent) {
//	    log.Printf("decoder: %s", ev)
//	})
//
// # Events
//
// A [DecoderEvent] carries a [DecoderEventKind] plus the fields that kind
// uses. Constructors such as [PlaybackStateEvent] and [BandwidthSampleEvent]
// build well-formed values:
//
//	sink.Deliver(interfaces.PlaybackStateEvent(true, interfaces.StateReady))
//	sink.Deliver(interfaces.DroppedFramesEvent(3))
//
// # Configuration
//
// [DecoderConfig] is the keyed configuration bag handed to Prepare. Keys are
// the exported *Key constants; typed getters report whether a key is present
// with the right type:
//
//	cfg := interfaces.DecoderConfig{
//	    interfaces.ForceFrameSyncKey: true,
//	    interfaces.MinBufferMsKey:    2000,
//	}
//	if v, ok := cfg.Int(interfaces.MinBufferMsKey); ok {
//	    fmt.Println(v)
//	}
//	merged := cfg.Merge(headset.PlayerConfiguration())
//
// [DecoderOptions] configures backend selection in the factory package.
//
// # Implementation Selection
//
// The factory package creates implementations based on [DecoderOptions]:
//   - Backend=BackendSimulation: creates a scripted decoder from simulate
//   - Backend=BackendBridge: creates a native bridge from bridge
//
// # Thread Safety
//
// Decoder implementations must tolerate being called from the tick thread
// while their own native threads deliver events. EventSink implementations
// must be safe for concurrent use.
package interfaces
