// Package headset provides the view orientation source the projector
// follows, a simulated headset for tools and tests, and a recorder that
// captures and replays head motion.
//
// # Headings
//
// A heading is a Vec3 of Euler degrees: x is pitch, y is yaw and z is roll,
// in the same convention as [spatial.Euler].
//
// # Recording
//
//	rec := headset.NewRecorder()
//	rec.Record(hmd.Heading)
//	// ... call rec.Tick() every frame ...
//	rec.Stop()
//	rec.SaveFile("session.json")
//
// Playback is driven by Tick too and stops after the last sample:
//
//	rec.Play(sim.SetHeading)
package headset
