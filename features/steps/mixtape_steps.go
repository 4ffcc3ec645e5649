//go:build integration

// SPDX-License-Identifier: EPL-2.0

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cucumber/godog"
	"github.com/ik5/mixtape"
	"github.com/ik5/mixtape/audio"
	"github.com/ik5/mixtape/codec"
	"github.com/ik5/mixtape/formats/wav"
	"github.com/ik5/mixtape/internal/audiotest"
	"github.com/ik5/mixtape/internal/scratch"
	"github.com/ik5/mixtape/playback"
	"github.com/ik5/mixtape/segment"
)

const existingContent = "previous mix"

// recordingDevice stands in for the sound card and keeps what it was given.
type recordingDevice struct {
	mu     sync.Mutex
	played []*audio.Buffer
}

func (d *recordingDevice) Play(_ context.Context, buf *audio.Buffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.played = append(d.played, buf)
	return nil
}

// mixtapeContext holds test state for one scenario
type mixtapeContext struct {
	dir        string
	sampleRate int
	scratch    *scratch.Dir
	device     *recordingDevice
	sink       *playback.Sink
	terminal   *bytes.Buffer
	played     []string
	err        error
}

// SharedMixtapeContext is reset before each scenario via Before hook
var SharedMixtapeContext *mixtapeContext

func getMixtapeContext() *mixtapeContext {
	return SharedMixtapeContext
}

// recordingPlayer keeps the labels and forwards to the real sink.
type recordingPlayer struct {
	m *mixtapeContext
}

func (p recordingPlayer) Play(ctx context.Context, segs []segment.Segment) error {
	for _, seg := range segs {
		p.m.played = append(p.m.played, seg.Label)
	}
	return p.m.sink.Play(ctx, segs)
}

func InitializeMixtapeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "mixtape-features-*")
		if err != nil {
			return c, err
		}
		sd, err := scratch.New(filepath.Join(dir, ".scratch"))
		if err != nil {
			return c, err
		}

		m := &mixtapeContext{
			dir:        dir,
			sampleRate: 44100,
			scratch:    sd,
			device:     &recordingDevice{},
			terminal:   &bytes.Buffer{},
		}
		m.sink = playback.NewSink(m.device, m.terminal)
		SharedMixtapeContext = m
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		m := getMixtapeContext()
		SharedMixtapeContext = nil
		if m == nil {
			return c, nil
		}
		_ = m.scratch.Close()
		return c, os.RemoveAll(m.dir)
	})

	ctx.Step(`^tracks are sampled at (\d+) Hz$`, tracksAreSampledAt)
	ctx.Step(`^a (\d+) second track "([^"]*)"$`, aSecondTrack)
	ctx.Step(`^an existing output "([^"]*)"$`, anExistingOutput)

	ctx.Step(`^I write the (beginning|end) of "([^"]*)" with length (\d+(?:\.\d+)?) to "([^"]*)"$`, iWriteOne)
	ctx.Step(`^I force writing the (beginning|end) of "([^"]*)" with length (\d+(?:\.\d+)?) to "([^"]*)"$`, iForceWriteOne)
	ctx.Step(`^I attempt to write the (beginning|end) of "([^"]*)" with length (\d+(?:\.\d+)?) to "([^"]*)"$`, iAttemptToWriteOne)
	ctx.Step(`^I write the transitions of "([^"]*)" with length (\d+(?:\.\d+)?) to "([^"]*)"$`, iWriteTransitions)
	ctx.Step(`^I attempt to write the transitions of "([^"]*)" with length (\d+(?:\.\d+)?) to "([^"]*)"$`, iAttemptToWriteTransitions)
	ctx.Step(`^I play slices of "([^"]*)" with length (\d+(?:\.\d+)?) and skip (\d+(?:\.\d+)?)$`, iPlaySlices)
	ctx.Step(`^I play the transitions of "([^"]*)" with length (\d+(?:\.\d+)?)$`, iPlayTransitions)

	ctx.Step(`^the output "([^"]*)" lasts (\d+) seconds$`, theOutputLasts)
	ctx.Step(`^the output "([^"]*)" starts with frame (\d+) of "([^"]*)"$`, theOutputStartsWithFrame)
	ctx.Step(`^the output "([^"]*)" is unchanged$`, theOutputIsUnchanged)
	ctx.Step(`^no output "([^"]*)" exists$`, noOutputExists)
	ctx.Step(`^the played labels are:$`, thePlayedLabelsAre)
	ctx.Step(`^the terminal shows "([^"]*)"$`, theTerminalShows)
	ctx.Step(`^I should receive an error about invalid input$`, iShouldReceiveAnErrorAbout(segment.ErrInvalidInput))
	ctx.Step(`^I should receive an error about an existing output$`, iShouldReceiveAnErrorAbout(codec.ErrOutputExists))
	ctx.Step(`^I should receive an error about an unsupported format$`, iShouldReceiveAnErrorAbout(codec.ErrUnsupportedFormat))
}

func (m *mixtapeContext) path(name string) string {
	return filepath.Join(m.dir, name)
}

func (m *mixtapeContext) paths(list string) []string {
	var out []string
	for _, name := range strings.Split(list, ",") {
		out = append(out, m.path(strings.TrimSpace(name)))
	}
	return out
}

func (m *mixtapeContext) run(opts mixtape.Options) error {
	c := codec.New(m.scratch, codec.WithBackend(codec.BackendNative))
	r := mixtape.NewRunner(c,
		mixtape.WithScratch(m.scratch),
		mixtape.WithPlayer(recordingPlayer{m: m}),
	)
	m.err = r.Run(context.Background(), opts)
	return m.err
}

func tracksAreSampledAt(rate int) error {
	getMixtapeContext().sampleRate = rate
	return nil
}

func aSecondTrack(seconds int, name string) error {
	m := getMixtapeContext()
	return wav.WriteFile(m.path(name), audiotest.PCMBuffer(m.sampleRate, 1, seconds*m.sampleRate))
}

func anExistingOutput(name string) error {
	m := getMixtapeContext()
	return os.WriteFile(m.path(name), []byte(existingContent), 0o644)
}

func writeOne(mode, input string, length float64, output string, overwrite bool) error {
	m := getMixtapeContext()
	md, err := segment.ParseMode(mode)
	if err != nil {
		return err
	}

	return m.run(mixtape.Options{
		Mode:      md,
		Params:    segment.Params{Length: length},
		Inputs:    []string{m.path(input)},
		Output:    m.path(output),
		Overwrite: overwrite,
	})
}

func iWriteOne(mode, input string, length float64, output string) error {
	if err := writeOne(mode, input, length, output, false); err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}

func iForceWriteOne(mode, input string, length float64, output string) error {
	if err := writeOne(mode, input, length, output, true); err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}

func iAttemptToWriteOne(mode, input string, length float64, output string) error {
	_ = writeOne(mode, input, length, output, false)
	return nil
}

func writeTransitions(inputs string, length float64, output string) error {
	m := getMixtapeContext()
	return m.run(mixtape.Options{
		Mode:   segment.Transition,
		Params: segment.Params{Length: length},
		Inputs: m.paths(inputs),
		Output: m.path(output),
	})
}

func iWriteTransitions(inputs string, length float64, output string) error {
	if err := writeTransitions(inputs, length, output); err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}

func iAttemptToWriteTransitions(inputs string, length float64, output string) error {
	_ = writeTransitions(inputs, length, output)
	return nil
}

func iPlaySlices(input string, length, skip float64) error {
	m := getMixtapeContext()
	return m.run(mixtape.Options{
		Mode:   segment.Slice,
		Params: segment.Params{Length: length, Skip: skip},
		Inputs: []string{m.path(input)},
		Play:   true,
	})
}

func iPlayTransitions(inputs string, length float64) error {
	m := getMixtapeContext()
	return m.run(mixtape.Options{
		Mode:   segment.Transition,
		Params: segment.Params{Length: length},
		Inputs: m.paths(inputs),
		Play:   true,
	})
}

func theOutputLasts(name string, seconds int) error {
	m := getMixtapeContext()
	buf, err := wav.ReadFile(m.path(name))
	if err != nil {
		return err
	}
	if want := seconds * m.sampleRate; buf.Frames() != want {
		return fmt.Errorf("expected %d frames in %s, got %d", want, name, buf.Frames())
	}
	return nil
}

func theOutputStartsWithFrame(name string, frame int, track string) error {
	m := getMixtapeContext()
	out, err := wav.ReadFile(m.path(name))
	if err != nil {
		return err
	}
	src, err := wav.ReadFile(m.path(track))
	if err != nil {
		return err
	}

	want := src.Slice(frame, frame+1).Data
	if out.Frames() == 0 {
		return errors.New("output is empty")
	}
	got := out.Slice(0, 1).Data
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("first frame of %s is %v, frame %d of %s is %v", name, got, frame, track, want)
		}
	}
	return nil
}

func theOutputIsUnchanged(name string) error {
	data, err := os.ReadFile(getMixtapeContext().path(name))
	if err != nil {
		return err
	}
	if string(data) != existingContent {
		return fmt.Errorf("expected %s to be left alone, it now holds %d bytes", name, len(data))
	}
	return nil
}

func noOutputExists(name string) error {
	if _, err := os.Stat(getMixtapeContext().path(name)); !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("expected %s to not exist, stat returned %v", name, err)
	}
	return nil
}

func thePlayedLabelsAre(table *godog.Table) error {
	m := getMixtapeContext()

	var want []string
	for _, row := range table.Rows {
		want = append(want, row.Cells[0].Value)
	}

	if len(want) != len(m.played) {
		return fmt.Errorf("expected %d labels %q, got %d %q", len(want), want, len(m.played), m.played)
	}
	for i := range want {
		if want[i] != m.played[i] {
			return fmt.Errorf("label %d: expected %q, got %q", i, want[i], m.played[i])
		}
	}
	if len(m.device.played) != len(want) {
		return fmt.Errorf("expected %d buffers on the device, got %d", len(want), len(m.device.played))
	}
	return nil
}

func theTerminalShows(text string) error {
	out := getMixtapeContext().terminal.String()
	if !strings.HasSuffix(strings.TrimRight(out, " \r\n"), text) {
		return fmt.Errorf("expected terminal to end with %q, got %q", text, out)
	}
	return nil
}

func iShouldReceiveAnErrorAbout(target error) func() error {
	return func() error {
		m := getMixtapeContext()
		if m.err == nil {
			return fmt.Errorf("expected an error wrapping %q, got none", target)
		}
		if !errors.Is(m.err, target) {
			return fmt.Errorf("expected an error wrapping %q, got %v", target, m.err)
		}
		return nil
	}
}
