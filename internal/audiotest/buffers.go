// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"context"
	"fmt"
	"sync"

	"github.com/ik5/mixtape/audio"
)

// FrameValue is the value RampBuffer stores for a frame and channel. Values
// stay exact in float32 for buffers below 2^24 samples.
func FrameValue(frame, channel int) float32 {
	return float32(frame*8 + channel)
}

// RampBuffer builds a buffer where every sample identifies its position.
func RampBuffer(sampleRate, channels, frames int) *audio.Buffer {
	data := make([]float32, frames*channels)
	for f := range frames {
		for ch := range channels {
			data[f*channels+ch] = FrameValue(f, ch)
		}
	}

	return audio.NewBuffer(sampleRate, channels, 16, data)
}

// PCMBuffer builds a buffer of values that survive a 16-bit PCM round trip.
func PCMBuffer(sampleRate, channels, frames int) *audio.Buffer {
	data := make([]float32, frames*channels)
	for i := range data {
		data[i] = float32(i%2000-1000) / 32768
	}

	return audio.NewBuffer(sampleRate, channels, 16, data)
}

// FakeDecoder serves preloaded buffers by path and counts calls.
type FakeDecoder struct {
	mu      sync.Mutex
	buffers map[string]*audio.Buffer
	errs    map[string]error
	calls   map[string]int
	order   []string
}

func NewFakeDecoder() *FakeDecoder {
	return &FakeDecoder{
		buffers: make(map[string]*audio.Buffer),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

// Add registers the buffer returned for path.
func (f *FakeDecoder) Add(path string, buf *audio.Buffer) *FakeDecoder {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buffers[path] = buf
	return f
}

// Fail makes every decode of path return err.
func (f *FakeDecoder) Fail(path string, err error) *FakeDecoder {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errs[path] = err
	return f
}

func (f *FakeDecoder) Decode(ctx context.Context, path string) (*audio.Buffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[path]++
	f.order = append(f.order, path)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[path]; ok {
		return nil, err
	}

	buf, ok := f.buffers[path]
	if !ok {
		return nil, fmt.Errorf("audiotest: no buffer for %q", path)
	}

	return buf, nil
}

// Calls returns how many times path was decoded.
func (f *FakeDecoder) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[path]
}

// Order returns every decoded path in call order.
func (f *FakeDecoder) Order() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.order...)
}
