// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/mixtape/audio"
	"github.com/ik5/mixtape/utils"
)

// chunkFrames bounds the int conversion buffer handed to the encoder.
const chunkFrames = 8192

// Write encodes buf as PCM WAV at the buffer's own rate, channel count and
// bit depth. The encoder patches the header sizes on close, so w must seek.
func Write(w io.WriteSeeker, buf *audio.Buffer) error {
	if buf == nil {
		return ErrNilBuffer
	}

	bitDepth := buf.Depth()
	if !supportedBitDepth(bitDepth) {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	enc := gowav.NewEncoder(w, buf.SampleRate, bitDepth, buf.Channels, pcmFormat)

	intBuf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: buf.Channels, SampleRate: buf.SampleRate},
		Data:           make([]int, 0, min(len(buf.Data), chunkFrames*buf.Channels)),
		SourceBitDepth: bitDepth,
	}

	step := chunkFrames * buf.Channels
	// The header is written on the first Write, even for an empty buffer.
	for i := 0; i == 0 || i < len(buf.Data); i += step {
		end := min(i+step, len(buf.Data))

		intBuf.Data = intBuf.Data[:0]
		for _, x := range buf.Data[i:end] {
			intBuf.Data = append(intBuf.Data, utils.FloatToPCM(x, bitDepth))
		}

		if err := enc.Write(intBuf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
