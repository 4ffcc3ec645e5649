// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"

	"github.com/ik5/mixtape/audio"
)

// Source streams a Buffer through audio.Source, as a decoder would.
type Source struct {
	buf *audio.Buffer
	pos int
}

func NewSource(buf *audio.Buffer) *Source {
	return &Source{buf: buf}
}

// SilentSource streams frames of zeros.
func SilentSource(sampleRate, channels, frames int) *Source {
	return NewSource(audio.NewBuffer(sampleRate, channels, 16, make([]float32, frames*channels)))
}

// SineBuffer builds a buffer holding the same sine wave on every channel.
func SineBuffer(sampleRate, channels, frames int, frequency float64) *audio.Buffer {
	data := make([]float32, frames*channels)
	for f := range frames {
		v := float32(math.Sin(2 * math.Pi * frequency * float64(f) / float64(sampleRate)))
		for ch := range channels {
			data[f*channels+ch] = v
		}
	}

	return audio.NewBuffer(sampleRate, channels, 16, data)
}

func (s *Source) SampleRate() int { return s.buf.SampleRate }
func (s *Source) Channels() int   { return s.buf.Channels }
func (s *Source) BitDepth() int   { return s.buf.Depth() }
func (s *Source) BufSize() int    { return 4096 }
func (s *Source) Close() error    { return nil }

// ReadSamples copies whole frames and returns io.EOF together with the last
// of them.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.buf.Data) {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%s.buf.Channels
	if want == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	n := copy(dst[:want], s.buf.Data[s.pos:])
	s.pos += n

	if s.pos >= len(s.buf.Data) {
		return n, io.EOF
	}
	return n, nil
}
