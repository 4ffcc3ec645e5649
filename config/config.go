// SPDX-License-Identifier: EPL-2.0

// Package config loads mixtape settings from an optional YAML file, then
// MIXTAPE_* environment variables, and validates the result.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ik5/mixtape/codec"
	"github.com/ik5/mixtape/store"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "MIXTAPE_"

var (
	// ErrInvalidDecoder is returned for a decoder other than ffmpeg or native.
	ErrInvalidDecoder = errors.New("config: decoder must be ffmpeg or native")
	// ErrInvalid wraps every other validation failure.
	ErrInvalid = errors.New("config: invalid configuration")
)

// Config holds all configuration for the application.
type Config struct {
	FFmpegPath    string `yaml:"ffmpeg_path" env:"FFMPEG_PATH, overwrite, default=ffmpeg" validate:"required"`
	Decoder       string `yaml:"decoder" env:"DECODER, overwrite, default=ffmpeg"`
	ScratchParent string `yaml:"scratch_parent" env:"SCRATCH_PARENT, overwrite"`

	Log LogConfig `yaml:"log" env:", prefix=LOG_"`
	S3  S3Config  `yaml:"s3" env:", prefix=S3_"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL, overwrite, default=warn" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" env:"FORMAT, overwrite, default=text" validate:"oneof=text json"`
}

// S3Config contains the connection used for s3:// outputs
type S3Config struct {
	Region          string `yaml:"region" env:"REGION, overwrite"`
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT, overwrite" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"access_key_id" env:"ACCESS_KEY_ID, overwrite"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SECRET_ACCESS_KEY, overwrite"`
}

// Load reads path when it is not empty, applies MIXTAPE_* variables from
// the process environment and validates.
func Load(ctx context.Context, path string) (*Config, error) {
	return LoadWith(ctx, path, envconfig.OsLookuper())
}

// LoadWith is Load with the environment read from lookuper.
func LoadWith(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	switch codec.Backend(strings.ToLower(c.Decoder)) {
	case codec.BackendFFmpeg, codec.BackendNative:
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidDecoder, c.Decoder)
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// Backend returns the decoding backend to hand to codec.New.
func (c *Config) Backend() codec.Backend {
	return codec.Backend(strings.ToLower(c.Decoder))
}

// Store returns the S3 connection settings.
func (c *Config) Store() store.Config {
	return store.Config{
		Region:          c.S3.Region,
		Endpoint:        c.S3.Endpoint,
		AccessKeyID:     c.S3.AccessKeyID,
		SecretAccessKey: c.S3.SecretAccessKey,
	}
}

// NewLogger creates a structured logger writing to w. Progress goes to
// stdout, so callers pass stderr here.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.Log.Level)}

	var handler slog.Handler
	if strings.ToLower(c.Log.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	secret := ""
	if c.S3.SecretAccessKey != "" {
		secret = "****"
	}

	return fmt.Sprintf(
		"Config{FFmpegPath: %s, Decoder: %s, ScratchParent: %s, LogLevel: %s, LogFormat: %s, S3Region: %s, S3Endpoint: %s, S3AccessKeyID: %s, S3SecretAccessKey: %s}",
		c.FFmpegPath,
		c.Decoder,
		c.ScratchParent,
		c.Log.Level,
		c.Log.Format,
		c.S3.Region,
		c.S3.Endpoint,
		c.S3.AccessKeyID,
		secret,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
