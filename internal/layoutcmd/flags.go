package layoutcmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/docsynth/layoutfix/internal/config"
	"github.com/docsynth/layoutfix/internal/overlap"
	"github.com/docsynth/layoutfix/internal/readingorder"
)

// settings holds flag values; only flags the user set override the
// LAYOUTFIX_* environment defaults.
type settings struct {
	maxIterations  int
	minHeight      float64
	ignoredLabels  []string
	priorityLabels []string

	mode           string
	yTolerance     float64
	minColumnWidth float64
	headerMargin   float64

	cores     int
	pattern   string
	noBackup  bool
	recursive bool
	summary   string
}

func addResolveFlags(cmd *cobra.Command, s *settings) {
	cmd.Flags().IntVar(&s.maxIterations, "max-iterations", overlap.DefaultMaxIterations, "Maximum resolution passes per page")
	cmd.Flags().Float64Var(&s.minHeight, "min-height", overlap.DefaultMinHeight, "Drop resolved boxes shorter than this (negative keeps all)")
	cmd.Flags().StringSliceVar(&s.ignoredLabels, "ignore-labels", overlap.DefaultLabels, "Labels passed through without being split")
	cmd.Flags().StringSliceVar(&s.priorityLabels, "priority-labels", overlap.DefaultLabels, "Labels that always win an overlap")
}

func addOrderFlags(cmd *cobra.Command, s *settings) {
	cmd.Flags().StringVar(&s.mode, "mode", string(readingorder.ModeAuto), "Ordering mode: auto, simple, advanced, column_aware")
	cmd.Flags().Float64Var(&s.yTolerance, "y-tolerance", readingorder.DefaultYTolerance, "Line grouping tolerance for advanced mode")
	cmd.Flags().Float64Var(&s.minColumnWidth, "min-column-width", readingorder.DefaultMinColumnWidth, "Minimum column width for column detection")
	cmd.Flags().Float64Var(&s.headerMargin, "header-margin", readingorder.DefaultHeaderMargin, "Distance above the columns that marks a page-wide header")
}

func addBatchFlags(cmd *cobra.Command, s *settings) {
	cmd.Flags().IntVar(&s.cores, "cores", 0, "Number of files processed in parallel (0 = all CPUs)")
	cmd.Flags().StringVar(&s.pattern, "pattern", "*.txt", "File name pattern to process")
	cmd.Flags().BoolVar(&s.noBackup, "no-backup", false, "Do not write <file>.backup before rewriting")
	cmd.Flags().BoolVar(&s.recursive, "recursive", false, "Process matching files in subdirectories")
	cmd.Flags().StringVar(&s.summary, "summary", "", "Write the run summary as YAML to this path")
}

// loadConfig reads the environment configuration and applies explicitly
// set flags on top of it.
func loadConfig(cmd *cobra.Command, s *settings) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("max-iterations") {
		cfg.MaxIterations = s.maxIterations
	}
	if flags.Changed("min-height") {
		cfg.MinHeight = s.minHeight
	}
	if flags.Changed("ignore-labels") {
		cfg.IgnoredLabels = s.ignoredLabels
	}
	if flags.Changed("priority-labels") {
		cfg.PriorityLabels = s.priorityLabels
	}
	if flags.Changed("mode") {
		cfg.Mode = s.mode
	}
	if flags.Changed("y-tolerance") {
		cfg.YTolerance = s.yTolerance
	}
	if flags.Changed("min-column-width") {
		cfg.MinColumnWidth = s.minColumnWidth
	}
	if flags.Changed("header-margin") {
		cfg.HeaderMargin = s.headerMargin
	}
	if flags.Changed("cores") {
		cfg.Cores = s.cores
	}
	if flags.Changed("pattern") {
		cfg.Pattern = s.pattern
	}
	if flags.Changed("no-backup") {
		cfg.Backup = !s.noBackup
	}

	if _, err := readingorder.ParseMode(cfg.Mode); err != nil {
		return nil, err
	}

	slog.Debug("Configuration loaded",
		"max_iterations", cfg.MaxIterations,
		"min_height", cfg.MinHeight,
		"mode", cfg.Mode,
		"cores", cfg.Workers(),
		"pattern", cfg.Pattern,
		"backup", cfg.Backup)

	return cfg, nil
}
