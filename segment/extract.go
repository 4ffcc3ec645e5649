// SPDX-License-Identifier: EPL-2.0

package segment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ik5/mixtape/audio"
)

// Extractor runs the extraction strategies against a Decoder. Inputs are
// decoded lazily, one strategy call at a time, and never cached here.
type Extractor struct {
	dec    Decoder
	logger *slog.Logger
}

type Option func(*Extractor)

// WithLogger sets the logger used for per-segment debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewExtractor(dec Decoder, opts ...Option) *Extractor {
	e := &Extractor{
		dec:    dec,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract dispatches to the strategy selected by mode.
func (e *Extractor) Extract(ctx context.Context, mode Mode, p Params, inputs []string) ([]Segment, error) {
	switch mode {
	case Beginning:
		return e.Beginning(ctx, p, inputs)
	case End:
		return e.End(ctx, p, inputs)
	case Slice:
		return e.Slice(ctx, p, inputs)
	case Transition:
		return e.Transition(ctx, p, inputs)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
}

// Beginning returns the first p.Length seconds of inputs[0], clamped to
// the end of the file.
func (e *Extractor) Beginning(ctx context.Context, p Params, inputs []string) ([]Segment, error) {
	if err := check(p, inputs, 1); err != nil {
		return nil, err
	}

	buf, err := e.decode(ctx, inputs[0])
	if err != nil {
		return nil, err
	}

	seg := Segment{
		Label: firstLabel(inputs[0], p.Length),
		Audio: buf.Slice(0, buf.Offset(p.Length)),
	}
	e.emit(seg)

	return []Segment{seg}, nil
}

// End returns the last p.Length seconds of inputs[0]. A length beyond the
// file start yields the whole file.
func (e *Extractor) End(ctx context.Context, p Params, inputs []string) ([]Segment, error) {
	if err := check(p, inputs, 1); err != nil {
		return nil, err
	}

	buf, err := e.decode(ctx, inputs[0])
	if err != nil {
		return nil, err
	}

	frames := buf.Frames()
	seg := Segment{
		Label: lastLabel(inputs[0], p.Length),
		Audio: buf.Slice(frames-buf.Offset(p.Length), frames),
	}
	e.emit(seg)

	return []Segment{seg}, nil
}

// Slice walks every input from its start, keeping p.Length seconds and
// then skipping p.Skip seconds until the file ends. The last kept span of
// each file may be shorter than p.Length.
func (e *Extractor) Slice(ctx context.Context, p Params, inputs []string) ([]Segment, error) {
	if err := check(p, inputs, 1); err != nil {
		return nil, err
	}
	if !(p.Skip > 0) {
		return nil, fmt.Errorf("%w: skip must be positive, got %s", ErrInvalidInput, formatSeconds(p.Skip))
	}

	var segs []Segment
	for _, path := range inputs {
		buf, err := e.decode(ctx, path)
		if err != nil {
			return nil, err
		}

		stride := buf.Offset(p.Length + p.Skip)
		if stride < 1 {
			return nil, fmt.Errorf("%w: %s+%s seconds is less than one sample at %d Hz",
				ErrInvalidInput, formatSeconds(p.Length), formatSeconds(p.Skip), buf.SampleRate)
		}

		keep := buf.Offset(p.Length)
		frames := buf.Frames()
		elapsed := 0.0
		for cursor := 0; cursor < frames; cursor += stride {
			seg := Segment{
				Label: sliceLabel(path, elapsed),
				Audio: buf.Slice(cursor, cursor+min(keep, frames-cursor)),
			}
			e.emit(seg)
			segs = append(segs, seg)

			if stride >= frames-cursor {
				break
			}
			elapsed += p.Length + p.Skip
		}
	}

	return segs, nil
}

// Transition pairs the End of each input with the Beginning of the next,
// yielding 2*(len(inputs)-1) segments in input order.
func (e *Extractor) Transition(ctx context.Context, p Params, inputs []string) ([]Segment, error) {
	if err := check(p, inputs, 2); err != nil {
		return nil, err
	}

	segs := make([]Segment, 0, 2*(len(inputs)-1))
	for i := range len(inputs) - 1 {
		tail, err := e.End(ctx, p, inputs[i:i+1])
		if err != nil {
			return nil, err
		}
		head, err := e.Beginning(ctx, p, inputs[i+1:i+2])
		if err != nil {
			return nil, err
		}
		segs = append(segs, tail...)
		segs = append(segs, head...)
	}

	return segs, nil
}

func (e *Extractor) decode(ctx context.Context, path string) (*audio.Buffer, error) {
	buf, err := e.dec.Decode(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return buf, nil
}

func (e *Extractor) emit(seg Segment) {
	e.logger.Debug("segment extracted",
		slog.String("label", seg.Label),
		slog.Int("frames", seg.Audio.Frames()),
		slog.Int("sample_rate", seg.Audio.SampleRate),
	)
}

func check(p Params, inputs []string, minInputs int) error {
	if len(inputs) < minInputs {
		return fmt.Errorf("%w: need at least %d input file(s), got %d", ErrInvalidInput, minInputs, len(inputs))
	}
	if !(p.Length > 0) {
		return fmt.Errorf("%w: length must be positive, got %s", ErrInvalidInput, formatSeconds(p.Length))
	}
	return nil
}
