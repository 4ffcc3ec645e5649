// SPDX-License-Identifier: EPL-2.0

package mixtape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/ik5/mixtape/audio"
	"github.com/ik5/mixtape/codec"
	"github.com/ik5/mixtape/segment"
	"github.com/ik5/mixtape/store"
)

var (
	// ErrNoPlayer is returned by Run for a playback run without a Player.
	ErrNoPlayer = errors.New("mixtape: no player configured")
	// ErrNoObjectStore is returned for an s3:// output without an ObjectStore.
	ErrNoObjectStore = errors.New("mixtape: no object store configured for s3 output")
)

// Options describe one run. They are built once from the command line and
// never changed afterwards.
type Options struct {
	Mode   segment.Mode
	Params segment.Params
	Inputs []string

	// Output is a local path or an s3://bucket/key url. Ignored when Play
	// is set.
	Output    string
	Play      bool
	Overwrite bool
}

// Codec decodes inputs and encodes the assembled mix.
type Codec interface {
	segment.Decoder
	Encode(ctx context.Context, buf *audio.Buffer, dest string, overwrite bool) error
}

// Player renders segments in order.
type Player interface {
	Play(ctx context.Context, segs []segment.Segment) error
}

// ObjectStore receives s3:// outputs.
type ObjectStore interface {
	Exists(ctx context.Context, loc store.Location) (bool, error)
	Put(ctx context.Context, loc store.Location, body io.ReadSeeker) error
}

// Scratch provides file names for outputs staged before upload.
type Scratch interface {
	Path(name string) string
}

// Runner extracts segments and sends them to the player or an output.
type Runner struct {
	codec     Codec
	extractor *segment.Extractor
	player    Player
	objects   ObjectStore
	scratch   Scratch
	logger    *slog.Logger
}

type Option func(*Runner)

func WithPlayer(p Player) Option {
	return func(r *Runner) { r.player = p }
}

func WithObjectStore(s ObjectStore) Option {
	return func(r *Runner) { r.objects = s }
}

func WithScratch(s Scratch) Option {
	return func(r *Runner) { r.scratch = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewRunner(c Codec, opts ...Option) *Runner {
	r := &Runner{
		codec:  c,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.extractor = segment.NewExtractor(c, segment.WithLogger(r.logger))
	return r
}

// Run extracts the segments selected by opts and plays or writes them.
// An unusable output is reported before any input is decoded.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if opts.Play {
		if r.player == nil {
			return ErrNoPlayer
		}
	} else if err := r.checkOutput(ctx, opts.Output, opts.Overwrite); err != nil {
		return err
	}

	segs, err := r.extractor.Extract(ctx, opts.Mode, opts.Params, opts.Inputs)
	if err != nil {
		return err
	}

	r.logger.Info("segments extracted",
		slog.String("mode", opts.Mode.String()),
		slog.Int("count", len(segs)),
	)

	if opts.Play {
		return r.player.Play(ctx, segs)
	}

	return r.Write(ctx, segs, opts.Output, opts.Overwrite)
}

// Write assembles segs and stores the result at dest.
func (r *Runner) Write(ctx context.Context, segs []segment.Segment, dest string, overwrite bool) error {
	buf, err := segment.Assemble(segs)
	if err != nil {
		return err
	}

	if store.IsURL(dest) {
		return r.upload(ctx, buf, dest, overwrite)
	}

	if err := r.codec.Encode(ctx, buf, dest, overwrite); err != nil {
		return err
	}

	r.logger.Info("output written", slog.String("output", dest), slog.Duration("duration", buf.Duration()))
	return nil
}

// OutputExists reports whether dest, local or s3://, is already present.
func (r *Runner) OutputExists(ctx context.Context, dest string) (bool, error) {
	if !store.IsURL(dest) {
		_, err := os.Stat(dest)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, fs.ErrNotExist):
			return false, nil
		}
		return false, fmt.Errorf("checking output: %w", err)
	}

	loc, err := store.ParseURL(dest)
	if err != nil {
		return false, err
	}
	if r.objects == nil {
		return false, ErrNoObjectStore
	}
	return r.objects.Exists(ctx, loc)
}

func (r *Runner) checkOutput(ctx context.Context, dest string, overwrite bool) error {
	name := dest
	if store.IsURL(dest) {
		loc, err := store.ParseURL(dest)
		if err != nil {
			return err
		}
		name = loc.Key
	}
	if !codec.Supported(name) {
		return fmt.Errorf("%w: %s", codec.ErrUnsupportedFormat, dest)
	}

	if overwrite {
		return nil
	}

	exists, err := r.OutputExists(ctx, dest)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", codec.ErrOutputExists, dest)
	}
	return nil
}

func (r *Runner) upload(ctx context.Context, buf *audio.Buffer, dest string, overwrite bool) error {
	loc, err := store.ParseURL(dest)
	if err != nil {
		return err
	}
	if r.objects == nil || r.scratch == nil {
		return ErrNoObjectStore
	}

	if !overwrite {
		exists, err := r.objects.Exists(ctx, loc)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", codec.ErrOutputExists, dest)
		}
	}

	staged := r.scratch.Path("upload" + path.Ext(loc.Key))
	if err := r.codec.Encode(ctx, buf, staged, true); err != nil {
		return err
	}

	f, err := os.Open(staged) // #nosec G304 - file inside the scratch directory
	if err != nil {
		return fmt.Errorf("opening staged output: %w", err)
	}
	defer f.Close()

	if err := r.objects.Put(ctx, loc, f); err != nil {
		return err
	}

	r.logger.Info("output uploaded", slog.String("output", loc.String()), slog.Duration("duration", buf.Duration()))
	return nil
}
