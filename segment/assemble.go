// SPDX-License-Identifier: EPL-2.0

package segment

import (
	"fmt"

	"github.com/ik5/mixtape/audio"
)

// Assemble concatenates the segments in order. Every segment must share the
// first one's sample rate and channel count; the result takes the first
// segment's bit depth. Nothing is trimmed, mixed or faded. A segment
// without audio is an error.
func Assemble(segs []Segment) (*audio.Buffer, error) {
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}
	for i, seg := range segs {
		if seg.Audio == nil {
			return nil, fmt.Errorf("%w: segment %d %q has no audio", ErrInvalidInput, i, seg.Label)
		}
	}

	first := segs[0].Audio
	total := 0
	for _, seg := range segs {
		switch {
		case seg.Audio.SampleRate != first.SampleRate:
			return nil, fmt.Errorf("%w: %q is %d Hz, expected %d Hz",
				ErrSampleRateMismatch, seg.Label, seg.Audio.SampleRate, first.SampleRate)
		case seg.Audio.Channels != first.Channels:
			return nil, fmt.Errorf("%w: %q has %d channels, expected %d",
				ErrChannelMismatch, seg.Label, seg.Audio.Channels, first.Channels)
		}
		total += len(seg.Audio.Data)
	}

	data := make([]float32, 0, total)
	for _, seg := range segs {
		data = append(data, seg.Audio.Data...)
	}

	return audio.NewBuffer(first.SampleRate, first.Channels, first.BitDepth, data), nil
}
