// SPDX-License-Identifier: EPL-2.0

package segment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ik5/mixtape/audio"
	"github.com/ik5/mixtape/internal/audiotest"
)

// tenSeconds is a 10 s, 1000 Hz mono source.
func tenSeconds() *audiotest.FakeDecoder {
	return audiotest.NewFakeDecoder().Add("music/a.wav", audiotest.RampBuffer(1000, 1, 10000))
}

func assertFrames(t *testing.T, buf *audio.Buffer, start, end int) {
	t.Helper()

	if got, want := buf.Frames(), end-start; got != want {
		t.Fatalf("frames = %d, want %d", got, want)
	}
	for f := range buf.Frames() {
		for ch := range buf.Channels {
			if got, want := buf.Data[f*buf.Channels+ch], audiotest.FrameValue(start+f, ch); got != want {
				t.Fatalf("frame %d ch %d = %v, want %v", f, ch, got, want)
			}
		}
	}
}

func TestExtractor_Beginning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		length    float64
		wantEnd   int
		wantLabel string
	}{
		{"three seconds", 3, 3000, "a.wav: First 3 seconds"},
		{"fractional", 2.5, 2500, "a.wav: First 2.5 seconds"},
		{"longer than file", 60, 10000, "a.wav: First 60 seconds"},
		{"below one sample", 0.0004, 0, "a.wav: First 0.0004 seconds"},
		{"beyond int range", 1e15, 10000, "a.wav: First 1000000000000000 seconds"},
		{"infinite", math.Inf(1), 10000, "a.wav: First +Inf seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			segs, err := NewExtractor(tenSeconds()).Beginning(context.Background(), Params{Length: tt.length}, []string{"music/a.wav"})
			if err != nil {
				t.Fatalf("Beginning() error = %v", err)
			}
			if len(segs) != 1 {
				t.Fatalf("Beginning() returned %d segments, want 1", len(segs))
			}
			if segs[0].Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", segs[0].Label, tt.wantLabel)
			}
			assertFrames(t, segs[0].Audio, 0, tt.wantEnd)
		})
	}
}

func TestExtractor_End(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		length    float64
		wantStart int
		wantLabel string
	}{
		{"three seconds", 3, 7000, "a.wav: Last 3 seconds"},
		{"longer than file", 60, 0, "a.wav: Last 60 seconds"},
		{"whole file", 10, 0, "a.wav: Last 10 seconds"},
		{"below one sample", 0.0001, 10000, "a.wav: Last 0.0001 seconds"},
		{"beyond int range", 1e15, 0, "a.wav: Last 1000000000000000 seconds"},
		{"infinite", math.Inf(1), 0, "a.wav: Last +Inf seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			segs, err := NewExtractor(tenSeconds()).End(context.Background(), Params{Length: tt.length}, []string{"music/a.wav"})
			if err != nil {
				t.Fatalf("End() error = %v", err)
			}
			if len(segs) != 1 {
				t.Fatalf("End() returned %d segments, want 1", len(segs))
			}
			if segs[0].Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", segs[0].Label, tt.wantLabel)
			}
			assertFrames(t, segs[0].Audio, tt.wantStart, 10000)
		})
	}
}

func TestExtractor_DecodesOnlyFirstInput(t *testing.T) {
	t.Parallel()

	dec := tenSeconds().Add("b.wav", audiotest.RampBuffer(1000, 1, 10))
	ext := NewExtractor(dec)

	for _, mode := range []Mode{Beginning, End} {
		if _, err := ext.Extract(context.Background(), mode, Params{Length: 1}, []string{"music/a.wav", "b.wav"}); err != nil {
			t.Fatalf("Extract(%s) error = %v", mode, err)
		}
	}

	if got := dec.Calls("b.wav"); got != 0 {
		t.Errorf("second input decoded %d times, want 0", got)
	}
}

func TestExtractor_Slice(t *testing.T) {
	t.Parallel()

	segs, err := NewExtractor(tenSeconds()).Slice(context.Background(), Params{Length: 2, Skip: 1}, []string{"music/a.wav"})
	if err != nil {
		t.Fatalf("Slice() error = %v", err)
	}

	want := []struct {
		start, end int
		label      string
	}{
		{0, 2000, "a.wav: 0:00"},
		{3000, 5000, "a.wav: 0:03"},
		{6000, 8000, "a.wav: 0:06"},
		{9000, 10000, "a.wav: 0:09"},
	}

	if len(segs) != len(want) {
		t.Fatalf("Slice() returned %d segments, want %d", len(segs), len(want))
	}
	for i, w := range want {
		if segs[i].Label != w.label {
			t.Errorf("segment %d label = %q, want %q", i, segs[i].Label, w.label)
		}
		assertFrames(t, segs[i].Audio, w.start, w.end)
	}
}

func TestExtractor_Slice_LengthBeyondFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		length, skip float64
	}{
		{"beyond int range", 1e15, 1},
		{"infinite length", math.Inf(1), 1},
		{"infinite skip", 2, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := audiotest.NewFakeDecoder().
				Add("one.wav", audiotest.RampBuffer(44100, 1, 44100)).
				Add("two.wav", audiotest.RampBuffer(44100, 1, 100))

			segs, err := NewExtractor(dec).Slice(context.Background(), Params{Length: tt.length, Skip: tt.skip}, []string{"one.wav", "two.wav"})
			if err != nil {
				t.Fatalf("Slice() error = %v", err)
			}
			if len(segs) != 2 {
				t.Fatalf("Slice() returned %d segments, want one per file", len(segs))
			}

			assertFrames(t, segs[0].Audio, 0, 44100)
			assertFrames(t, segs[1].Audio, 0, 100)
			if segs[0].Label != "one.wav: 0:00" || segs[1].Label != "two.wav: 0:00" {
				t.Errorf("labels = %q, %q", segs[0].Label, segs[1].Label)
			}
		})
	}
}

func TestExtractor_Slice_MultipleFiles(t *testing.T) {
	t.Parallel()

	dec := audiotest.NewFakeDecoder().
		Add("one.wav", audiotest.RampBuffer(10, 2, 12750)).
		Add("two.wav", audiotest.RampBuffer(10, 2, 50))

	segs, err := NewExtractor(dec).Slice(context.Background(), Params{Length: 30, Skip: 30}, []string{"one.wav", "two.wav"})
	if err != nil {
		t.Fatalf("Slice() error = %v", err)
	}

	wantLabels := []string{
		"one.wav: 0:00", "one.wav: 1:00", "one.wav: 2:00",
		"one.wav: 3:00", "one.wav: 4:00", "one.wav: 5:00",
		"one.wav: 6:00", "one.wav: 7:00", "one.wav: 8:00",
		"one.wav: 9:00", "one.wav: 10:00", "one.wav: 11:00",
		"one.wav: 12:00", "one.wav: 13:00", "one.wav: 14:00",
		"one.wav: 15:00", "one.wav: 16:00", "one.wav: 17:00",
		"one.wav: 18:00", "one.wav: 19:00", "one.wav: 20:00",
		"one.wav: 21:00",
		"two.wav: 0:00",
	}
	if len(segs) != len(wantLabels) {
		t.Fatalf("Slice() returned %d segments, want %d", len(segs), len(wantLabels))
	}
	for i, want := range wantLabels {
		if segs[i].Label != want {
			t.Errorf("segment %d label = %q, want %q", i, segs[i].Label, want)
		}
	}

	// stride is 600 frames, so the last span of one.wav is cut at 12750
	assertFrames(t, segs[21].Audio, 12600, 12750)
	assertFrames(t, segs[22].Audio, 0, 50)

	if order := dec.Order(); len(order) != 2 || order[0] != "one.wav" || order[1] != "two.wav" {
		t.Errorf("decode order = %v, want [one.wav two.wav]", order)
	}
}

func TestExtractor_Slice_CoversSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		frames       int
		length, skip float64
	}{
		{"exact fit", 9000, 2, 1},
		{"short tail", 10000, 2, 1},
		{"tail inside skip", 11500, 2, 1},
		{"fractional", 7777, 0.25, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := audiotest.NewFakeDecoder().Add("x.wav", audiotest.RampBuffer(1000, 1, tt.frames))
			segs, err := NewExtractor(dec).Slice(context.Background(), Params{Length: tt.length, Skip: tt.skip}, []string{"x.wav"})
			if err != nil {
				t.Fatalf("Slice() error = %v", err)
			}

			stride := int((tt.length + tt.skip) * 1000)
			keep := int(tt.length * 1000)
			for i, seg := range segs {
				start := i * stride
				end := min(start+keep, tt.frames)
				assertFrames(t, seg.Audio, start, end)
			}

			// the last segment starts inside the source and the next would not
			last := (len(segs) - 1) * stride
			if last >= tt.frames || last+stride < tt.frames {
				t.Errorf("last start %d with stride %d does not end the walk over %d frames", last, stride, tt.frames)
			}
		})
	}
}

func TestExtractor_Slice_EmptyFile(t *testing.T) {
	t.Parallel()

	dec := audiotest.NewFakeDecoder().Add("empty.wav", audio.NewBuffer(8000, 1, 16, nil))

	segs, err := NewExtractor(dec).Slice(context.Background(), Params{Length: 1, Skip: 1}, []string{"empty.wav"})
	if err != nil {
		t.Fatalf("Slice() error = %v", err)
	}
	if len(segs) != 0 {
		t.Errorf("Slice() returned %d segments for an empty file, want 0", len(segs))
	}
}

func TestExtractor_Transition(t *testing.T) {
	t.Parallel()

	dec := audiotest.NewFakeDecoder().
		Add("one.wav", audiotest.RampBuffer(1000, 1, 5000)).
		Add("two.wav", audiotest.RampBuffer(1000, 1, 5000))

	segs, err := NewExtractor(dec).Transition(context.Background(), Params{Length: 1}, []string{"one.wav", "two.wav"})
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("Transition() returned %d segments, want 2", len(segs))
	}

	if segs[0].Label != "one.wav: Last 1 seconds" || segs[1].Label != "two.wav: First 1 seconds" {
		t.Errorf("labels = %q, %q", segs[0].Label, segs[1].Label)
	}
	assertFrames(t, segs[0].Audio, 4000, 5000)
	assertFrames(t, segs[1].Audio, 0, 1000)
}

func TestExtractor_Transition_Count(t *testing.T) {
	t.Parallel()

	for n := 2; n <= 6; n++ {
		dec := audiotest.NewFakeDecoder()
		inputs := make([]string, n)
		for i := range inputs {
			inputs[i] = string(rune('a'+i)) + ".wav"
			dec.Add(inputs[i], audiotest.RampBuffer(1000, 1, 3000))
		}

		segs, err := NewExtractor(dec).Transition(context.Background(), Params{Length: 1}, inputs)
		if err != nil {
			t.Fatalf("Transition(%d inputs) error = %v", n, err)
		}
		if len(segs) != 2*(n-1) {
			t.Fatalf("Transition(%d inputs) returned %d segments, want %d", n, len(segs), 2*(n-1))
		}

		for i := 0; i < len(segs); i += 2 {
			pair := i / 2
			if want := inputs[pair] + ": Last 1 seconds"; segs[i].Label != want {
				t.Errorf("segment %d = %q, want %q", i, segs[i].Label, want)
			}
			if want := inputs[pair+1] + ": First 1 seconds"; segs[i+1].Label != want {
				t.Errorf("segment %d = %q, want %q", i+1, segs[i+1].Label, want)
			}
		}

		// inner files are decoded once as a tail and once as a head
		for i, in := range inputs {
			want := 2
			if i == 0 || i == n-1 {
				want = 1
			}
			if got := dec.Calls(in); got != want {
				t.Errorf("%s decoded %d times, want %d", in, got, want)
			}
		}
	}
}

func TestExtractor_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mode   Mode
		params Params
		inputs []string
	}{
		{"beginning without inputs", Beginning, Params{Length: 1}, nil},
		{"end without inputs", End, Params{Length: 1}, []string{}},
		{"slice without inputs", Slice, Params{Length: 1, Skip: 1}, nil},
		{"transition with one input", Transition, Params{Length: 1}, []string{"music/a.wav"}},
		{"zero length", Beginning, Params{Length: 0}, []string{"music/a.wav"}},
		{"negative length", End, Params{Length: -1}, []string{"music/a.wav"}},
		{"NaN length", Beginning, Params{Length: math.NaN()}, []string{"music/a.wav"}},
		{"slice NaN skip", Slice, Params{Length: 1, Skip: math.NaN()}, []string{"music/a.wav"}},
		{"slice without skip", Slice, Params{Length: 1}, []string{"music/a.wav"}},
		{"slice negative skip", Slice, Params{Length: 1, Skip: -2}, []string{"music/a.wav"}},
		{"slice stride below one sample", Slice, Params{Length: 0.0001, Skip: 0.0001}, []string{"music/a.wav"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			segs, err := NewExtractor(tenSeconds()).Extract(context.Background(), tt.mode, tt.params, tt.inputs)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Extract() error = %v, want ErrInvalidInput", err)
			}
			if segs != nil {
				t.Errorf("Extract() returned %d segments alongside an error", len(segs))
			}
		})
	}
}

func TestExtractor_UnknownMode(t *testing.T) {
	t.Parallel()

	_, err := NewExtractor(tenSeconds()).Extract(context.Background(), Mode(42), Params{Length: 1}, []string{"music/a.wav"})
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Extract() error = %v, want ErrUnknownMode", err)
	}
}

func TestExtractor_DecodeErrorPropagates(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken container")
	dec := audiotest.NewFakeDecoder().
		Add("ok.wav", audiotest.RampBuffer(1000, 1, 5000)).
		Fail("bad.mp3", errBroken)

	for _, mode := range []Mode{Beginning, End, Slice, Transition} {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			inputs := []string{"bad.mp3", "ok.wav"}
			if mode == Transition {
				inputs = []string{"ok.wav", "bad.mp3"}
			}

			_, err := NewExtractor(dec).Extract(context.Background(), mode, Params{Length: 1, Skip: 1}, inputs)
			if !errors.Is(err, errBroken) {
				t.Errorf("Extract() error = %v, want %v", err, errBroken)
			}
		})
	}
}

func TestExtractor_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor(tenSeconds()).Beginning(ctx, Params{Length: 1}, []string{"music/a.wav"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Beginning() error = %v, want context.Canceled", err)
	}
}

func TestExtractor_SourceUnchanged(t *testing.T) {
	t.Parallel()

	src := audiotest.RampBuffer(1000, 2, 4000)
	dec := audiotest.NewFakeDecoder().Add("s.wav", src)

	segs, err := NewExtractor(dec).Beginning(context.Background(), Params{Length: 1}, []string{"s.wav"})
	if err != nil {
		t.Fatal(err)
	}

	segs[0].Audio.Data[0] = 99
	if src.Data[0] != audiotest.FrameValue(0, 0) {
		t.Error("changing a segment changed the decoded source")
	}
}

func BenchmarkExtractor_Slice(b *testing.B) {
	dec := audiotest.NewFakeDecoder().Add("long.wav", audiotest.RampBuffer(44100, 2, 44100*180))
	ext := NewExtractor(dec)
	params := Params{Length: 1, Skip: 5}

	for b.Loop() {
		if _, err := ext.Slice(context.Background(), params, []string{"long.wav"}); err != nil {
			b.Fatal(err)
		}
	}
}
