// Package config loads server settings from an optional YAML file and
// IMAGE_CROPPER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
// IMAGE_CROPPER_LOG_LEVEL maps to the log_level key and so on.
const EnvPrefix = "IMAGE_CROPPER_"

// Config holds every tunable of the server.
type Config struct {
	LogLevel      string `koanf:"log_level"`       // debug|info|warn|error
	LogFile       string `koanf:"log_file"`        // empty logs to stderr
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"` // rotation threshold
	LogMaxBackups int    `koanf:"log_max_backups"`

	OutputFormat   string `koanf:"output_format"` // png|jpeg|...
	JPEGQuality    int    `koanf:"jpeg_quality"`
	Background     string `koanf:"background"`      // #RRGGBB behind transparent pixels in JPEG
	ResampleFilter string `koanf:"resample_filter"` // box|linear|lanczos|nearest

	MaxRequestBytes int `koanf:"max_request_bytes"` // largest JSON-RPC line accepted
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:        "info",
		LogMaxSizeMB:    10,
		LogMaxBackups:   2,
		OutputFormat:    "png",
		JPEGQuality:     90,
		Background:      "#ffffff",
		ResampleFilter:  "box",
		MaxRequestBytes: 1024 * 1024,
	}
}

// Load merges the YAML file at path (if set and present) with environment
// variables, then fills unset values with defaults and validates the result.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.LogMaxSizeMB <= 0 {
		cfg.LogMaxSizeMB = def.LogMaxSizeMB
	}
	if cfg.LogMaxBackups <= 0 {
		cfg.LogMaxBackups = def.LogMaxBackups
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = def.OutputFormat
	}
	if cfg.JPEGQuality == 0 {
		cfg.JPEGQuality = def.JPEGQuality
	}
	if cfg.Background == "" {
		cfg.Background = def.Background
	}
	if cfg.ResampleFilter == "" {
		cfg.ResampleFilter = def.ResampleFilter
	}
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = def.MaxRequestBytes
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q not supported (want debug|info|warn|error)", c.LogLevel)
	}
	if _, err := imaging.FormatFromExtension(c.OutputFormat); err != nil {
		return fmt.Errorf("output_format %q not supported", c.OutputFormat)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality %d out of range 1-100", c.JPEGQuality)
	}
	if _, err := c.Filter(); err != nil {
		return err
	}
	return nil
}

// Filter returns the resample filter named by ResampleFilter.
func (c Config) Filter() (imaging.ResampleFilter, error) {
	switch strings.ToLower(c.ResampleFilter) {
	case "box":
		return imaging.Box, nil
	case "linear":
		return imaging.Linear, nil
	case "lanczos":
		return imaging.Lanczos, nil
	case "nearest":
		return imaging.NearestNeighbor, nil
	case "catmullrom":
		return imaging.CatmullRom, nil
	}
	return imaging.ResampleFilter{}, fmt.Errorf("resample_filter %q not supported", c.ResampleFilter)
}
