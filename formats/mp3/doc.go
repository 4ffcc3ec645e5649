// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// It backs the native decoding backend of the codec package, which is used
// when ffmpeg is not available.
//
//	src, err := mp3.Decoder{}.Decode(file)
//	buf, err := audio.ReadAll(src, 0)
//
// go-mp3 always produces interleaved 16-bit stereo, so the Source reports
// two channels and a BitDepth of 16 whatever the file holds. Mono files come
// out with both channels equal.
//
// Reads that stop inside a sample are carried over to the next call, so
// ReadSamples only ever returns whole frames.
package mp3
