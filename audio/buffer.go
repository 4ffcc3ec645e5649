// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"time"
)

// DefaultBitDepth is assumed for buffers that do not carry a source depth.
const DefaultBitDepth = 16

// Buffer is a fully decoded audio payload. Data holds interleaved samples
// normalized to [-1, 1]; a frame is Channels consecutive values.
//
// A Buffer is never modified after it is built. Slice returns a copy so
// holders of the original are not affected.
type Buffer struct {
	SampleRate int
	Channels   int
	// BitDepth of the PCM container the samples came from. Zero means
	// DefaultBitDepth.
	BitDepth int
	Data     []float32
}

// NewBuffer builds a Buffer, treating a channel count below one as mono.
func NewBuffer(sampleRate, channels, bitDepth int, data []float32) *Buffer {
	if channels < 1 {
		channels = 1
	}

	return &Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
		Data:       data,
	}
}

// Frames is the number of sample frames in the buffer.
func (b *Buffer) Frames() int {
	if b == nil || b.Channels < 1 {
		return 0
	}

	return len(b.Data) / b.Channels
}

// Duration of the buffer at its sample rate.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}

	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Depth returns BitDepth, or DefaultBitDepth when unset.
func (b *Buffer) Depth() int {
	if b.BitDepth <= 0 {
		return DefaultBitDepth
	}

	return b.BitDepth
}

// Slice copies frames [start, end) into a new Buffer. Both bounds are
// clamped to [0, Frames()], and an inverted range yields an empty buffer.
func (b *Buffer) Slice(start, end int) *Buffer {
	frames := b.Frames()
	start = clamp(start, 0, frames)
	end = clamp(end, 0, frames)
	if end < start {
		end = start
	}

	data := make([]float32, (end-start)*b.Channels)
	copy(data, b.Data[start*b.Channels:end*b.Channels])

	return &Buffer{
		SampleRate: b.SampleRate,
		Channels:   b.Channels,
		BitDepth:   b.BitDepth,
		Data:       data,
	}
}

// Offset converts a position in seconds to a frame index at the buffer's
// sample rate, truncating toward zero. Positions beyond the int range
// saturate, and NaN is 0.
func (b *Buffer) Offset(seconds float64) int {
	v := seconds * float64(b.SampleRate)
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt:
		return math.MaxInt
	case v <= math.MinInt:
		return math.MinInt
	}
	return int(v)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
