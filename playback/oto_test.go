// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/mixtape/audio"
)

func TestFloatReader(t *testing.T) {
	t.Parallel()

	data := []float32{0, 0.5, -1, 1, 0.25}
	r := newFloatReader(data)

	var got []float32
	buf := make([]byte, 7) // not a multiple of 4
	for {
		n, err := r.Read(buf)
		if n%4 != 0 {
			t.Fatalf("Read() = %d bytes, want whole samples", n)
		}
		for i := 0; i < n; i += 4 {
			got = append(got, math.Float32frombits(binary.LittleEndian.Uint32(buf[i:])))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}

	if len(got) != len(data) {
		t.Fatalf("read %v, want %v", got, data)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], data[i])
		}
	}
}

func TestOtoDevice_EmptyBufferSkipsDevice(t *testing.T) {
	t.Parallel()

	d := NewOtoDevice()
	if err := d.Play(context.Background(), audio.NewBuffer(44100, 2, 16, nil)); err != nil {
		t.Fatalf("Play(empty) error = %v", err)
	}
	if d.otoCtx != nil {
		t.Error("empty buffer opened the audio device")
	}
}
