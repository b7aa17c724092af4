// Package simulate provides a scripted implementation of interfaces.Decoder
// for deterministic player testing and offline dry runs.
//
// # Overview
//
// [Decoder] records every command it receives, keeps a scripted playhead,
// duration and last-frame timestamp, and delivers events only when told to.
// Tests drive a player through a whole Prepare cycle by emitting canned
// sequences:
//
//	dec := simulate.NewDecoder(p, simulate.DefaultOptions())
//	dec.Emit(simulate.ReadySequence(simulate.DefaultQualityGroups, simulate.DefaultAudioFormats)...)
//	p.Tick()
//
// With Options.AutoRespond set, the decoder answers its own commands the way
// a well-behaved native player would: Prepare announces quality groups and
// becomes ready, Play and Pause report playWhenReady changes, seeks buffer
// and recover, tile requests are scheduled one frame ahead, and [Decoder.Advance]
// moves the playhead and reports the end of the media.
//
// # Command Log
//
// [Decoder.Commands] returns every command in call order. [Decoder.FailNext]
// makes the next call of a method fail, for exercising error paths.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Events are delivered outside the
// decoder's lock.
package simulate
