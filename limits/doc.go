// Package limits provides centralized payload size constants and validation
// functions for everything spinplay reads from disk or the network. Every
// fetcher and parser checks its input here before decoding it.
//
// # Size Hierarchy
//
//   - MaxOPFDocument (1 MiB): a projection descriptor. Real documents are a
//     few kilobytes; anything near the limit is not an OPF file.
//
//   - MaxPlaylistDocument (1 MiB): a playlist document.
//
//   - MaxRecordingBytes (16 MiB): a saved head-motion recording. Ten samples
//     per second for several hours fit comfortably.
//
//   - MaxTextureBytes (64 MiB): one encoded remap texture.
//
// # Validation Functions
//
//	if err := limits.ValidateOPFDocument(data); err != nil {
//	    // ErrPayloadEmpty or ErrPayloadTooLarge
//	}
//
// For custom limits, use ValidatePayloadSize:
//
//	err := limits.ValidatePayloadSize(data, 4096)
//
// LimitReader caps a stream at a maximum plus one byte so callers can detect
// oversize bodies without buffering them whole.
package limits
