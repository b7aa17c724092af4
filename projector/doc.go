// Package projector ties an OPF document, the player and the headset
// together into per-eye projection geometry.
//
// A [Projector] owns the left and right [Eye], each holding an arena handle
// to its shape, a private material instance and the orientation of the
// current tile. Hosts read the eyes to draw them.
//
// # Lifecycle
//
//	p := projector.New(nil)
//	err := p.Initialize(ctx, projector.Collaborators{
//	    Player:  pl,
//	    Headset: hmd,
//	    Camera:  rig,
//	    Loader:  loader,
//	    Queue:   queue,
//	})
//	p.SetSourceURL("https://cdn.example.com/title/index.opf")
//	err = p.Prepare(ctx)
//	for running {
//	    p.Tick()
//	}
//	p.Teardown()
//
// Prepare fetches and parses the document, prepares its video transform and
// then the player. When the player reaches Ready both eyes are built, shown,
// handed to the player as render targets, and [EventPrepared] is raised.
//
// # Ticking
//
// Tick drains the dispatch queue, ticks the player, requests the tile
// closest to the view direction and points spatial audio at the listener.
// Fetch completions and headset mount changes only take effect on Tick.
//
// # Errors
//
// Prepare returns contract errors, see [IsContractViolation]. Fetch, parse
// and transform failures, as well as player errors, are raised as
// [EventError]; after one the projector can be prepared again once the
// player is Idle.
package projector
