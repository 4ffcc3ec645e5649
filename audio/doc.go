// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoded audio model shared by every other
// package in mixtape.
//
// This package contains:
//   - Source interface for streaming decoder output
//   - Buffer, a fully decoded, immutable payload
//   - ReadAll to drain a Source into a Buffer
//   - Format registry for decoder registration by file extension
//
// # Source Interface
//
// Format decoders return a Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Sources that know the PCM depth of their container also implement
// BitDepther, which ReadAll keeps on the resulting Buffer.
//
// # Buffers
//
// mixtape decodes whole files into memory:
//
//	buf, err := audio.ReadAll(src, 4096)
//	head := buf.Slice(0, buf.Offset(30)) // first 30 seconds, clamped
//
// Slice never fails on out of range bounds. Both ends are clamped to
// [0, Frames()] and the result is always a fresh copy.
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, ok := registry.Lookup("/music/track.wav")
//
// Keys are case insensitive and a leading dot is ignored.
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// # Error Handling
//
// Sources return io.EOF when no more data is available. ReadAll treats
// io.EOF as the normal end and returns any other error wrapped.
package audio
