// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/mixtape/audio"
	"github.com/ik5/mixtape/formats/wav"
)

// Scratch is the directory holding converted inputs and encoder input.
type Scratch interface {
	Path(name string) string
}

// Codec moves audio between files and decoded buffers. Converted inputs are
// kept in the scratch directory, so decoding the same file twice in a run
// only converts it once.
type Codec struct {
	scratch    Scratch
	backend    Backend
	ffmpegPath string
	runner     CommandRunner
	registry   *audio.Registry
	logger     *slog.Logger
}

// Option is a functional option for configuring Codec
type Option func(*Codec)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) Option {
	return func(c *Codec) {
		if path != "" {
			c.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) Option {
	return func(c *Codec) {
		c.runner = runner
	}
}

// WithBackend selects the conversion backend for compressed inputs.
func WithBackend(b Backend) Option {
	return func(c *Codec) {
		c.backend = b
	}
}

// WithRegistry replaces the decoders used by BackendNative.
func WithRegistry(r *audio.Registry) Option {
	return func(c *Codec) {
		c.registry = r
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(scratch Scratch, opts ...Option) *Codec {
	c := &Codec{
		scratch:    scratch,
		backend:    BackendFFmpeg,
		ffmpegPath: "ffmpeg",
		runner:     ExecCommandRunner{},
		logger:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.registry == nil {
		c.registry = DefaultRegistry()
	}

	return c
}

// Decode reads path into memory. Raw files are read in place; compressed
// ones are converted into the scratch directory first.
func (c *Codec) Decode(ctx context.Context, path string) (*audio.Buffer, error) {
	ext := audio.Ext(path)
	switch {
	case ext == raw:
		return readRaw(path)
	case !converted[ext]:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	cached := c.scratch.Path(cacheName(path))
	if exists(cached) {
		c.logger.Debug("decode cache hit", slog.String("input", path), slog.String("cached", cached))
		return readRaw(cached)
	}

	c.logger.Debug("converting input",
		slog.String("input", path),
		slog.String("backend", string(c.backend)),
	)

	if c.backend == BackendNative {
		return c.decodeNative(path, cached)
	}

	if err := c.runner.Run(ctx, c.ffmpegPath, "-n", "-i", path, cached); err != nil {
		// a half written file would be taken for a cache hit next time
		_ = os.Remove(cached)
		return nil, fmt.Errorf("%w: ffmpeg %s: %w", ErrDecode, path, err)
	}

	return readRaw(cached)
}

func (c *Codec) decodeNative(path, cached string) (*audio.Buffer, error) {
	dec, ok := c.registry.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: no decoder for %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	defer src.Close()

	buf, err := audio.ReadAll(src, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	if err := wav.WriteFile(cached, buf); err != nil {
		return nil, fmt.Errorf("%w: caching %s: %w", ErrDecode, path, err)
	}

	return buf, nil
}

// Encode writes buf to dest. An existing dest is left untouched unless
// overwrite is set. Compressed destinations are encoded by ffmpeg from a
// raw copy in the scratch directory.
func (c *Codec) Encode(ctx context.Context, buf *audio.Buffer, dest string, overwrite bool) error {
	ext := audio.Ext(dest)
	if ext != raw && !converted[ext] {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, dest)
	}

	if !overwrite {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("%w: %s", ErrOutputExists, dest)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w", ErrEncode, err)
		}
	}

	if ext == raw {
		if err := wav.WriteFile(dest, buf); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrEncode, dest, err)
		}
		return nil
	}

	staged := c.scratch.Path("output.wav")
	if err := wav.WriteFile(staged, buf); err != nil {
		return fmt.Errorf("%w: staging %s: %w", ErrEncode, dest, err)
	}

	flag := "-n"
	if overwrite {
		flag = "-y"
	}

	c.logger.Debug("encoding output", slog.String("output", dest), slog.String("staged", staged))

	if err := c.runner.Run(ctx, c.ffmpegPath, flag, "-i", staged, dest); err != nil {
		return fmt.Errorf("%w: ffmpeg %s: %w", ErrEncode, dest, err)
	}

	return nil
}

// NeedsFFmpeg reports whether decoding inputs or encoding output would run
// ffmpeg with the configured backend.
func (c *Codec) NeedsFFmpeg(inputs []string, output string) bool {
	if output != "" && NeedsConversion(output) {
		return true
	}
	if c.backend == BackendNative {
		return false
	}
	for _, in := range inputs {
		if NeedsConversion(in) {
			return true
		}
	}
	return false
}

// VerifyInstalled checks that ffmpeg is available
func (c *Codec) VerifyInstalled(ctx context.Context) error {
	if _, err := c.runner.Output(ctx, c.ffmpegPath, "-version"); err != nil {
		return fmt.Errorf("%w: %w", ErrFFmpegMissing, err)
	}
	return nil
}

func readRaw(path string) (*audio.Buffer, error) {
	buf, err := wav.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return buf, nil
}

// cacheName keys a converted input by its leaf name and a hash of its
// absolute path, so equal names from different folders do not collide.
func cacheName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(abs))

	leaf := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fmt.Sprintf("%s-%08x.wav", leaf, h.Sum32())
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
