// Package spinplay is the core of a 360 degree and VR video playback SDK.
//
// An OPF document describes how a video maps onto the sphere around the
// viewer: its projection format, stereo layout, tiles, heading, audio layout
// and an optional video transform. spinplay parses that document, builds
// projection geometry for each eye, drives a native decoder through a
// playback state machine and keeps the decoder streaming the tile the
// viewer is looking at.
//
// # Getting Started
//
// A [Session] wires every collaborator together:
//
//	s, err := spinplay.NewSession(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	s.Projector().Subscribe(func(ev projector.Event) {
//	    fmt.Println(ev)
//	})
//	if err := s.Open(ctx, "https://cdn.example.com/title/index.opf"); err != nil {
//	    log.Fatal(err)
//	}
//
//	for running {
//	    s.Tick(frameTime)
//	    draw(s.Projector().Eyes())
//	}
//
// # Core Types
//
//   - [Session]: player, projector, headset, texture cache and statistics
//   - [Options]: collaborators and configuration for a Session
//   - [HeadlessCamera]: a projector camera for hosts without a renderer
//
// # Packages
//
// The work is split across packages that can also be used on their own:
//
//   - opf parses documents into a Projection
//   - geometry and spatial build sphere, frustum and icosahedron meshes
//   - bezier evaluates the warp curves behind VariSqueeze
//   - transform and shader turn a video transform into material inputs
//   - texture fetches, decodes and caches remap textures
//   - player is the playback state machine over an interfaces.Decoder
//   - bridge, simulate and factory provide decoders
//   - headset reports view direction and mount state
//   - projector orchestrates all of the above per frame
//   - stats grades playback health
//   - playlist, config and server support the spinplay command
//
// # Threading
//
// Everything except decoder event delivery and texture fetching runs on the
// thread that calls Tick. Background work reports back through a
// dispatch.Queue that Tick drains.
package spinplay
