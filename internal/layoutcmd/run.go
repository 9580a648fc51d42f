package layoutcmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/docsynth/layoutfix/internal/batch"
	"github.com/docsynth/layoutfix/internal/boxfile"
	"github.com/docsynth/layoutfix/internal/config"
	"github.com/docsynth/layoutfix/internal/overlap"
	"github.com/docsynth/layoutfix/internal/readingorder"
	"github.com/docsynth/layoutfix/internal/report"
)

// Pipeline steps a batch command applies to each file.
const (
	opResolve = "resolve"
	opOrder   = "order"
	opRun     = "run"
)

// NewRunCmd creates the run command: resolve overlaps, then order.
func NewRunCmd() *cobra.Command {
	var s settings

	cmd := &cobra.Command{
		Use:   "run <dir>",
		Short: "Resolve overlaps and sort boxes into reading order",
		Long: `Resolve overlapping boxes and then sort the result into reading order for
every box list file in a directory. Each file is rewritten in place after a
<file>.backup copy is written.`,
		Example: `  # Process every .txt file using all CPUs
  layoutfix layout run ./layouts

  # Advanced line grouping, 4 workers, keep a summary
  layoutfix layout run ./layouts --mode advanced --cores 4 --summary run.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(cmd, args[0], opRun, &s)
		},
	}

	addResolveFlags(cmd, &s)
	addOrderFlags(cmd, &s)
	addBatchFlags(cmd, &s)

	return cmd
}

func executeBatch(cmd *cobra.Command, dir, op string, s *settings) error {
	cfg, err := loadConfig(cmd, s)
	if err != nil {
		return err
	}

	files, err := batch.Discover(dir, cfg.Pattern, s.recursive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		slog.Warn("No matching files found", "directory", dir, "pattern", cfg.Pattern)
		return nil
	}

	processor, err := newProcessor(cfg, op)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runner := &batch.Runner{Workers: cfg.Workers(), Operation: op, Logger: slog.Default()}
	summary := runner.Run(ctx, dir, files, processor.Process)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	report.PrintSummary(out, summary)

	if s.summary != "" {
		if err := report.Save(s.summary, summary); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSummary saved to: %s\n", s.summary)
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
	}
	return nil
}

func newProcessor(cfg *config.Config, op string) (*batch.Processor, error) {
	logger := slog.Default()
	p := &batch.Processor{
		Reader: boxfile.NewReader(logger),
		Backup: cfg.Backup,
		Logger: logger,
	}

	if op == opResolve || op == opRun {
		p.Resolver = overlap.NewResolver(cfg.ResolverOptions(logger))
	}
	if op == opOrder || op == opRun {
		opts, err := cfg.SequencerOptions(logger)
		if err != nil {
			return nil, err
		}
		p.Sequencer = readingorder.NewSequencer(opts)
	}

	return p, nil
}
