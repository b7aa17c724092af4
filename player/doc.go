// Package player implements the playback state machine that sits between a
// decoder backend and the renderer.
//
// A [Player] owns one decoder per prepare cycle. It translates the raw
// playback states and notifications the decoder reports into a small
// lifecycle ([Idle], [Preparing], [Ready], [Ended], [Error]) and a stream of
// [Event] values for observers.
//
// # Lifecycle
//
//	p := player.New(factory.NewDecoderFactory(), nil)
//	p.SetSourceURL("https://cdn.example.com/video.mpd")
//	p.SetTileID("")
//	if err := p.Prepare(nil); err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    p.Tick()
//	}
//
// Prepare moves to Preparing at once. The player becomes Ready the first time
// the decoder reports ready, provided it has announced quality groups, a
// duration and a video size. Anything missing is a contract violation and
// moves the player to Error. Format changes reported before Ready are queued
// and replayed in order right after Ready, before auto play starts.
//
// Error is terminal. Only [Player.Reset] leaves it, and Reset may be called
// from any state.
//
// # Threading
//
// Every method runs on the tick thread except [Player.Deliver] and the sinks
// handed to decoders, which may be called from any goroutine. Events queue in
// an inbox that [Player.Tick] drains. Each prepare cycle has its own
// generation; events delivered by a decoder from an earlier cycle are dropped.
//
// # Tiles
//
// [Player.SetTileID] only requests a tile. The decoder schedules the switch
// for a presentation time and the player makes the tile current once a frame
// at or after that time has been rendered.
//
// # Errors
//
// [ErrInvalidState] and [ErrContractViolation] report misuse by the caller.
// [ErrDecoder] wraps failures reported by the decoder backend. Use
// [IsContractViolation] to tell the two apart.
package player
