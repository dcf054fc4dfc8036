// Package config loads the chart settings from YAML. An embedded default
// configuration is always loaded first; a user file only overrides the keys
// it sets.
package config

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"

	"git.sr.ht/~whereswaldon/statchart/chart"
	"git.sr.ht/~whereswaldon/statchart/render"
	"git.sr.ht/~whereswaldon/statchart/rescale"
	"git.sr.ht/~whereswaldon/statchart/viewport"
)

//go:embed default_config.yaml
var efs embed.FS

// ErrInvalidConfig is returned for settings outside their allowed range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable of the chart and its host.
type Config struct {
	Theme     string
	Viewport  Viewport
	Animation Animation
	Selector  Selector
	Log       Log
}

// Viewport mirrors viewport.Options.
type Viewport struct {
	MinSpan          float64 `mapstructure:"min_span"`
	SmoothingFactor  int     `mapstructure:"smoothing_factor"`
	Stretch          float64
	NiceDigits       int     `mapstructure:"nice_digits"`
	InitialLower     float64 `mapstructure:"initial_lower"`
	InitialUpper     float64 `mapstructure:"initial_upper"`
	VisibleSegmentsX int     `mapstructure:"visible_segments_x"`
	SegmentsY        int     `mapstructure:"segments_y"`
}

// Animation holds the Y rescale tween and the drag debounce.
type Animation struct {
	Interval  time.Duration
	Steps     int
	LongSteps int     `mapstructure:"long_steps"`
	LongRatio float64 `mapstructure:"long_ratio"`
	Debounce  time.Duration
}

type Selector struct {
	ThumbWidth float32 `mapstructure:"thumb_width"`
	TouchSlop  float32 `mapstructure:"touch_slop"`
}

type Log struct {
	Level      string
	Timestamps bool
}

// Load reads file over the embedded defaults.
func Load(file string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, fmt.Errorf("loading default config: %w", err)
	}

	fsys := os.DirFS(filepath.Dir(file))
	pth := filepath.Join(".", filepath.Base(file))

	return load(fsys, pth, cfg)
}

// LoadDefaults returns the embedded default configuration.
func LoadDefaults() (*Config, error) {
	return loadDefaults()
}

func loadDefaults() (*Config, error) {
	return load(efs, "default_config.yaml", &Config{})
}

func load(fsys fs.FS, file string, cfg *Config) (*Config, error) {
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	if raw == nil {
		return cfg, cfg.Validate()
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("creating mapstructure decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every setting against its allowed range.
func (c *Config) Validate() error {
	if c.Theme != "day" && c.Theme != "night" {
		return fmt.Errorf("%w: theme must be day or night, got %q", ErrInvalidConfig, c.Theme)
	}

	v := c.Viewport
	switch {
	case v.MinSpan <= 0 || v.MinSpan > 1:
		return fmt.Errorf("%w: viewport.min_span must be in (0, 1], got %v", ErrInvalidConfig, v.MinSpan)
	case v.SmoothingFactor < 1:
		return fmt.Errorf("%w: viewport.smoothing_factor must be at least 1, got %d", ErrInvalidConfig, v.SmoothingFactor)
	case v.Stretch < 0:
		return fmt.Errorf("%w: viewport.stretch must not be negative, got %v", ErrInvalidConfig, v.Stretch)
	case v.NiceDigits < 1:
		return fmt.Errorf("%w: viewport.nice_digits must be at least 1, got %d", ErrInvalidConfig, v.NiceDigits)
	case v.InitialLower < 0 || v.InitialUpper > 1 || v.InitialUpper-v.InitialLower < v.MinSpan:
		return fmt.Errorf("%w: viewport initial bounds [%v, %v] must lie in [0, 1] and span at least %v",
			ErrInvalidConfig, v.InitialLower, v.InitialUpper, v.MinSpan)
	case v.VisibleSegmentsX < 1 || v.SegmentsY < 1:
		return fmt.Errorf("%w: viewport segment counts must be positive", ErrInvalidConfig)
	}

	a := c.Animation
	switch {
	case a.Interval <= 0:
		return fmt.Errorf("%w: animation.interval must be positive, got %v", ErrInvalidConfig, a.Interval)
	case a.Steps < 1 || a.LongSteps < a.Steps:
		return fmt.Errorf("%w: animation needs 1 <= steps <= long_steps, got %d and %d", ErrInvalidConfig, a.Steps, a.LongSteps)
	case a.LongRatio <= 1:
		return fmt.Errorf("%w: animation.long_ratio must exceed 1, got %v", ErrInvalidConfig, a.LongRatio)
	case a.Debounce < 0:
		return fmt.Errorf("%w: animation.debounce must not be negative, got %v", ErrInvalidConfig, a.Debounce)
	}

	if c.Selector.ThumbWidth <= 0 || c.Selector.TouchSlop < 0 {
		return fmt.Errorf("%w: selector needs a positive thumb_width and a non-negative touch_slop", ErrInvalidConfig)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}

	return nil
}

func (c *Config) ViewportOptions() viewport.Options {
	v := c.Viewport
	return viewport.Options{
		MinSpan:          v.MinSpan,
		SmoothingFactor:  v.SmoothingFactor,
		Stretch:          v.Stretch,
		NiceDigits:       v.NiceDigits,
		InitialLower:     v.InitialLower,
		InitialUpper:     v.InitialUpper,
		VisibleSegmentsX: v.VisibleSegmentsX,
		SegmentsY:        v.SegmentsY,
	}
}

func (c *Config) AnimatorOptions() rescale.Options {
	a := c.Animation
	return rescale.Options{
		Interval:  a.Interval,
		Steps:     a.Steps,
		LongSteps: a.LongSteps,
		LongRatio: a.LongRatio,
	}
}

// Style returns the palette named by Theme.
func (c *Config) Style() render.Style {
	return render.StyleNamed(c.Theme)
}

// ChartOptions translates the configuration into chart options logging to
// logger.
func (c *Config) ChartOptions(logger *log.Logger) []chart.Option {
	return []chart.Option{
		chart.WithLogger(logger),
		chart.WithViewportOptions(c.ViewportOptions()),
		chart.WithAnimatorOptions(c.AnimatorOptions()),
		chart.WithDebounce(c.Animation.Debounce),
		chart.WithSelector(c.Selector.ThumbWidth, c.Selector.TouchSlop),
		chart.WithStyle(c.Style()),
	}
}

// NewLogger builds the application logger writing to w at the configured
// level.
func (c *Config) NewLogger(w io.Writer) *log.Logger {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "statchart",
		ReportTimestamp: c.Log.Timestamps,
		Level:           level,
	})
}
