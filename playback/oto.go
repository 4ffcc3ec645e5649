// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/mixtape/audio"
)

const pollInterval = 10 * time.Millisecond

// OtoDevice plays through the system output with oto. oto allows a single
// context per process, so the device is opened at the format of the first
// non-empty buffer and keeps it.
type OtoDevice struct {
	mu       sync.Mutex
	otoCtx   *oto.Context
	rate     int
	channels int
}

func NewOtoDevice() *OtoDevice {
	return &OtoDevice{}
}

func (d *OtoDevice) Play(ctx context.Context, buf *audio.Buffer) error {
	if buf.Frames() == 0 {
		return nil
	}

	otoCtx, err := d.open(ctx, buf.SampleRate, buf.Channels)
	if err != nil {
		return err
	}

	player := otoCtx.NewPlayer(newFloatReader(buf.Data))
	defer player.Close()

	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return player.Err()
}

func (d *OtoDevice) open(ctx context.Context, rate, channels int) (*oto.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.otoCtx != nil {
		if rate != d.rate || channels != d.channels {
			return nil, fmt.Errorf("%w: opened at %d Hz %d ch, segment is %d Hz %d ch",
				ErrFormatChanged, d.rate, d.channels, rate, channels)
		}
		return d.otoCtx, nil
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	select {
	case <-ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	d.otoCtx, d.rate, d.channels = otoCtx, rate, channels
	return otoCtx, nil
}

// floatReader streams samples as little-endian float32 bytes.
type floatReader struct {
	data []float32
	pos  int
}

func newFloatReader(data []float32) *floatReader {
	return &floatReader{data: data}
}

func (r *floatReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}

	n := 0
	for n+4 <= len(p) && r.pos < len(r.data) {
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(r.data[r.pos]))
		r.pos++
		n += 4
	}

	return n, nil
}
