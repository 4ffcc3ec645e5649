// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/mixtape/audio"
	"github.com/ik5/mixtape/utils"
)

// go-mp3 always emits interleaved stereo 16-bit little-endian PCM.
const (
	channels   = 2
	bitDepth   = 16
	sampleSize = 2
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	raw        []byte
	// pending holds the odd trailing byte of a read split inside a sample.
	pending []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) BitDepth() int   { return bitDepth }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.raw) / sampleSize }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	want := len(dst) - len(dst)%channels
	if want == 0 {
		return 0, audio.ErrInvalidDstSize
	}

	size := want * sampleSize
	if cap(s.raw) < size {
		s.raw = make([]byte, size)
	}
	s.raw = s.raw[:size]

	off := copy(s.raw, s.pending)
	s.pending = s.pending[:0]

	n, err := s.dec.Read(s.raw[off:])
	n += off

	frameBytes := channels * sampleSize
	whole := n - n%frameBytes
	if whole < n {
		s.pending = append(s.pending, s.raw[whole:n]...)
	}

	for i := 0; i < whole/sampleSize; i++ {
		v := int16(binary.LittleEndian.Uint16(s.raw[i*sampleSize:]))
		dst[i] = utils.PCMToFloat(int(v), bitDepth)
	}

	samples := whole / sampleSize
	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("reading mp3 frames: %w", err)
	}
	if samples == 0 && err == io.EOF {
		return 0, io.EOF
	}

	return samples, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		raw:        make([]byte, 8192),
	}, nil
}
