// SPDX-License-Identifier: EPL-2.0

// Package cli implements the mixtape command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ik5/mixtape"
	"github.com/ik5/mixtape/codec"
	"github.com/ik5/mixtape/config"
	"github.com/ik5/mixtape/internal/scratch"
	"github.com/ik5/mixtape/segment"
	"github.com/pkg/profile"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

var (
	// ErrMissingInput is returned when an input file does not exist.
	ErrMissingInput = errors.New("input file not found")
	// ErrRefuseOverwrite is returned when the user declines to replace the output.
	ErrRefuseOverwrite = errors.New("not overwriting existing output")
	// ErrInvalidArgument is returned for out of range numeric flags.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Deps are the collaborators of the command, replaced in tests.
type Deps struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Prompter Prompter
	Lookuper envconfig.Lookuper
	Build    Builder
}

// DefaultDeps returns the dependencies used in production
func DefaultDeps() Deps {
	return Deps{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Prompter: SurveyPrompter{},
		Lookuper: envconfig.OsLookuper(),
		Build:    BuildRunner,
	}
}

type flags struct {
	output      string
	play        bool
	force       bool
	interactive bool

	beginning  bool
	end        bool
	slice      bool
	transition bool

	length float64
	skip   float64

	configFile string
	logLevel   string
	cpuProfile string
}

// NewRootCommand builds the mixtape command.
func NewRootCommand(deps Deps) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "mixtape [flags] input...",
		Short: "Play or extract the beginning, end, slices or transitions of audio tracks",
		Long: `mixtape previews and cuts audio tracks.

  --beginning   the first --length seconds of the first input
  --end         the last --length seconds of the first input
  --slice       keep --length seconds, skip --skip seconds, through every input
  --transition  the end of each input followed by the start of the next

Inputs and outputs may be .wav, .mp3, .ogg or .aiff. Outputs may also be
s3://bucket/key urls.

Example:
  mixtape --transition -l 10 -o transitions.mp3 01.mp3 02.mp3 03.mp3
  mixtape --slice --play album/*.mp3`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, deps, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "Specify the output filename")
	fl.BoolVar(&f.play, "play", false, "Play, rather than writing an output file")
	fl.BoolVarP(&f.force, "force", "f", false, "Force overwrite existing output file")
	fl.BoolVarP(&f.interactive, "interactive", "i", false, "Ask before overwriting an existing output file")

	fl.BoolVar(&f.beginning, "beginning", false, "Play/extract the beginning few seconds of music")
	fl.BoolVar(&f.end, "end", false, "Play/extract the last few seconds of music")
	fl.BoolVar(&f.slice, "slice", false, "Play/extract slices of music throughout the track")
	fl.BoolVar(&f.transition, "transition", false,
		"Play/extract the end of one song and the beginning of the next. Multiple transitions are supported")

	fl.Float64VarP(&f.length, "length", "l", 0,
		"For --beginning/--end/--transition: length of music to extract in seconds (default 30). "+
			"For --slice: length of each kept section in seconds (default 1)")
	fl.Float64VarP(&f.skip, "skip", "k", 0, "For --slice: length of music to skip between sections in seconds (default 5)")

	fl.StringVar(&f.configFile, "config", "", "YAML configuration file")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	fl.StringVar(&f.cpuProfile, "cpuprofile", "", "Write a CPU profile to this directory")
	_ = fl.MarkHidden("cpuprofile")

	cmd.MarkFlagsMutuallyExclusive("output", "play")
	cmd.MarkFlagsOneRequired("output", "play")
	cmd.MarkFlagsMutuallyExclusive("beginning", "end", "slice", "transition")
	cmd.MarkFlagsOneRequired("beginning", "end", "slice", "transition")
	cmd.MarkFlagsMutuallyExclusive("force", "interactive")

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	return cmd
}

func run(cmd *cobra.Command, deps Deps, f *flags, args []string) error {
	ctx := cmd.Context()

	opts, err := f.options(cmd, args)
	if err != nil {
		return err
	}

	for _, in := range opts.Inputs {
		if _, err := os.Stat(in); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingInput, in)
		} else if err != nil {
			return fmt.Errorf("checking input: %w", err)
		}
	}

	cfg, err := config.LoadWith(ctx, f.configFile, deps.Lookuper)
	if err != nil {
		return err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger := cfg.NewLogger(deps.Stderr)

	if f.cpuProfile != "" {
		defer profile.Start(
			profile.CPUProfile,
			profile.ProfilePath(f.cpuProfile),
			profile.NoShutdownHook,
			profile.Quiet,
		).Stop()
	}

	sd, err := scratch.New(cfg.ScratchParent)
	if err != nil {
		return err
	}
	defer func() {
		if err := sd.Close(); err != nil {
			logger.Warn("scratch cleanup failed", "error", err)
		}
	}()

	logger.Debug("starting run", "config", cfg.String(), "scratch", sd.Root())

	app, err := deps.Build(ctx, Env{
		Config:  cfg,
		Scratch: sd,
		Logger:  logger,
		Stdout:  deps.Stdout,
		Options: opts,
	})
	if err != nil {
		return err
	}

	if !opts.Play && !opts.Overwrite {
		if opts.Overwrite, err = confirmOverwrite(cmd, deps, f, app, opts.Output); err != nil {
			return err
		}
	}

	return app.Run(ctx, opts)
}

// options turns the parsed flags into run options. Omitted numbers take
// the mode's defaults; given ones must be positive.
func (f *flags) options(cmd *cobra.Command, args []string) (mixtape.Options, error) {
	mode := f.mode()
	params := mode.Defaults()

	if cmd.Flags().Changed("length") {
		params.Length = f.length
	}
	if cmd.Flags().Changed("skip") {
		if !(f.skip > 0) {
			return mixtape.Options{}, fmt.Errorf("%w: --skip must be positive, got %v", ErrInvalidArgument, f.skip)
		}
		params.Skip = f.skip
	}

	if err := validator.New().Struct(params); err != nil {
		return mixtape.Options{}, fmt.Errorf("%w: --length must be positive, got %v", ErrInvalidArgument, params.Length)
	}

	if len(args) < mode.MinInputs() {
		return mixtape.Options{}, fmt.Errorf("%w: --%s needs at least %d input files", segment.ErrInvalidInput, mode, mode.MinInputs())
	}

	return mixtape.Options{
		Mode:      mode,
		Params:    params,
		Inputs:    args,
		Output:    f.output,
		Play:      f.play,
		Overwrite: f.force,
	}, nil
}

func (f *flags) mode() segment.Mode {
	switch {
	case f.end:
		return segment.End
	case f.slice:
		return segment.Slice
	case f.transition:
		return segment.Transition
	}
	return segment.Beginning
}

// confirmOverwrite decides whether an existing output may be replaced.
func confirmOverwrite(cmd *cobra.Command, deps Deps, f *flags, app App, output string) (bool, error) {
	exists, err := app.OutputExists(cmd.Context(), output)
	if err != nil || !exists {
		return false, err
	}

	if !f.interactive {
		return false, fmt.Errorf("%w: %s (use --force to replace it)", codec.ErrOutputExists, output)
	}

	ok, err := deps.Prompter.Confirm(output+" already exists. Overwrite?", false)
	if err != nil {
		return false, fmt.Errorf("prompt cancelled: %w", err)
	}
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrRefuseOverwrite, output)
	}
	return true, nil
}
