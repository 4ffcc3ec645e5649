// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/ik5/mixtape"
	"github.com/ik5/mixtape/codec"
	"github.com/ik5/mixtape/config"
	"github.com/ik5/mixtape/internal/scratch"
	"github.com/ik5/mixtape/playback"
	"github.com/ik5/mixtape/store"
)

// App is what a parsed command line runs against.
type App interface {
	Run(ctx context.Context, opts mixtape.Options) error
	OutputExists(ctx context.Context, dest string) (bool, error)
}

// Env is everything a Builder needs to wire an App for one run.
type Env struct {
	Config  *config.Config
	Scratch *scratch.Dir
	Logger  *slog.Logger
	Stdout  io.Writer
	Options mixtape.Options
}

// Builder wires the App for a run.
type Builder func(ctx context.Context, env Env) (App, error)

// BuildRunner wires the production codec, player and object store.
func BuildRunner(ctx context.Context, env Env) (App, error) {
	cfg, opts := env.Config, env.Options

	c := codec.New(env.Scratch,
		codec.WithFFmpegPath(cfg.FFmpegPath),
		codec.WithBackend(cfg.Backend()),
		codec.WithLogger(env.Logger),
	)

	output := opts.Output
	if opts.Play {
		output = ""
	}
	if c.NeedsFFmpeg(opts.Inputs, output) {
		if err := c.VerifyInstalled(ctx); err != nil {
			return nil, err
		}
	}

	runnerOpts := []mixtape.Option{
		mixtape.WithScratch(env.Scratch),
		mixtape.WithLogger(env.Logger),
	}

	if opts.Play {
		sink := playback.NewSink(playback.NewOtoDevice(), env.Stdout, playback.WithLogger(env.Logger))
		runnerOpts = append(runnerOpts, mixtape.WithPlayer(sink))
	} else if store.IsURL(opts.Output) {
		s3, err := store.NewS3(ctx, cfg.Store())
		if err != nil {
			return nil, err
		}
		runnerOpts = append(runnerOpts, mixtape.WithObjectStore(s3))
	}

	return mixtape.NewRunner(c, runnerOpts...), nil
}
