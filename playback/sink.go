// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ik5/mixtape/audio"
	"github.com/ik5/mixtape/segment"
)

// Device renders a buffer and blocks until it has been heard or ctx ends.
type Device interface {
	Play(ctx context.Context, buf *audio.Buffer) error
}

// Sink plays segments one after another, printing each label over the
// previous one.
type Sink struct {
	dev    Device
	out    io.Writer
	logger *slog.Logger
}

type Option func(*Sink)

func WithLogger(l *slog.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewSink(dev Device, out io.Writer, opts ...Option) *Sink {
	s := &Sink{
		dev:    dev,
		out:    out,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Play renders segs in order. A canceled ctx stops the sequence without an
// error; the closing newline is written either way.
func (s *Sink) Play(ctx context.Context, segs []segment.Segment) error {
	width := 0
	for i, seg := range segs {
		if ctx.Err() != nil {
			s.logger.Info("playback interrupted", slog.Int("remaining", len(segs)-i))
			break
		}

		n := utf8.RuneCountInString(seg.Label)
		fmt.Fprint(s.out, seg.Label+strings.Repeat(" ", max(width-n, 0))+"\r")
		width = n

		if err := s.dev.Play(ctx, seg.Audio); err != nil {
			if ctx.Err() != nil {
				s.logger.Info("playback interrupted", slog.String("segment", seg.Label))
				break
			}
			return fmt.Errorf("playing %q: %w", seg.Label, err)
		}
	}

	fmt.Fprintln(s.out)
	return nil
}
