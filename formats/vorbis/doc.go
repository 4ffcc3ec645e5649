// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// The decoder keeps the stream's own channel count and sample rate. Vorbis
// has no PCM depth, so the Source does not implement audio.BitDepther and
// buffers read from it fall back to audio.DefaultBitDepth.
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	buf, err := audio.ReadAll(src, 0)
package vorbis
