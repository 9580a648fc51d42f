package config

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/kelseyhightower/envconfig"

	"github.com/docsynth/layoutfix/internal/box"
	"github.com/docsynth/layoutfix/internal/overlap"
	"github.com/docsynth/layoutfix/internal/readingorder"
)

// Prefix is prepended to every variable name, e.g. LAYOUTFIX_MODE.
const Prefix = "LAYOUTFIX"

type Config struct {
	MaxIterations  int      `envconfig:"MAX_ITERATIONS" default:"10"`
	MinHeight      float64  `envconfig:"MIN_HEIGHT" default:"15"`
	IgnoredLabels  []string `envconfig:"IGNORED_LABELS" default:"header,footer"`
	PriorityLabels []string `envconfig:"PRIORITY_LABELS" default:"header,footer"`

	Mode           string  `envconfig:"MODE" default:"auto"`
	YTolerance     float64 `envconfig:"Y_TOLERANCE" default:"20"`
	MinColumnWidth float64 `envconfig:"MIN_COLUMN_WIDTH" default:"100"`
	HeaderMargin   float64 `envconfig:"HEADER_MARGIN" default:"50"`

	Cores   int    `envconfig:"CORES" default:"0"`
	Pattern string `envconfig:"PATTERN" default:"*.txt"`
	Backup  bool   `envconfig:"BACKUP" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Workers returns the batch parallelism; zero or less means one per CPU.
func (c *Config) Workers() int {
	if c.Cores <= 0 {
		return runtime.NumCPU()
	}
	return c.Cores
}

func (c *Config) ResolverOptions(logger *slog.Logger) overlap.Options {
	return overlap.Options{
		MaxIterations:  c.MaxIterations,
		MinHeight:      c.MinHeight,
		IgnoredLabels:  box.NewLabelSet(c.IgnoredLabels...),
		PriorityLabels: box.NewLabelSet(c.PriorityLabels...),
		Logger:         logger,
	}
}

func (c *Config) SequencerOptions(logger *slog.Logger) (readingorder.Options, error) {
	mode, err := readingorder.ParseMode(c.Mode)
	if err != nil {
		return readingorder.Options{}, fmt.Errorf("invalid %s_MODE: %w", Prefix, err)
	}
	return readingorder.Options{
		Mode:           mode,
		YTolerance:     c.YTolerance,
		MinColumnWidth: c.MinColumnWidth,
		HeaderMargin:   c.HeaderMargin,
		Logger:         logger,
	}, nil
}
