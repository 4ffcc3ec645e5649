// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes the raw decoded container used by mixtape.
//
// Decoding and encoding are built on github.com/go-audio/wav, which walks
// RIFF chunks (LIST, smpl, cue and unknown chunks are skipped) and patches
// the header sizes on close.
//
// # Supported Formats
//
//   - PCM 16, 24 and 32-bit
//   - Any channel count
//   - Any sample rate
//
// 8-bit and IEEE float files are rejected with ErrUnsupportedBitDepth and
// ErrOnlyPCMSupported.
//
// # Decoding
//
//	source, err := wav.Decoder{}.Decode(file)
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Or decode a whole file into an audio.Buffer:
//
//	buf, err := wav.ReadFile("track.wav")
//
// ReadSamples only fills whole frames. A dst shorter than one frame returns
// audio.ErrInvalidDstSize.
//
// # Encoding
//
//	err := wav.WriteFile("out.wav", buf)
//
// The output keeps the buffer's sample rate, channel count and BitDepth
// (16 when unset). Write needs an io.WriteSeeker because the sizes in the
// header are only known once every sample has been written.
package wav
