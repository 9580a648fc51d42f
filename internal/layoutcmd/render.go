package layoutcmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsynth/layoutfix/internal/boxfile"
	"github.com/docsynth/layoutfix/internal/overlap"
	"github.com/docsynth/layoutfix/internal/readingorder"
	"github.com/docsynth/layoutfix/internal/render"
)

// NewRenderCmd creates the render command
func NewRenderCmd() *cobra.Command {
	var s settings
	var output string
	var order bool
	var labels bool

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Draw a box list before and after resolution as a PDF",
		Long: `Render one box list file to a two-page PDF: the boxes as read from the file,
and the boxes after overlap resolution. Boxes that share a base id (a winner
and its _fill pieces) share a color. The input file is not modified.`,
		Example: `  layoutfix layout render page_001.txt
  layoutfix layout render page_001.txt --order --mode advanced -o page_001_order.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pdf"
			}
			return executeRender(cmd, args[0], output, order, labels, &s)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PDF path (default: <file>.pdf)")
	cmd.Flags().BoolVar(&order, "order", false, "Sort resolved boxes into reading order and number them")
	cmd.Flags().BoolVar(&labels, "labels", true, "Draw label and id on each box")
	addResolveFlags(cmd, &s)
	addOrderFlags(cmd, &s)

	return cmd
}

func executeRender(cmd *cobra.Command, path, output string, order, labels bool, s *settings) error {
	cfg, err := loadConfig(cmd, s)
	if err != nil {
		return err
	}
	logger := slog.Default()

	page, err := boxfile.NewReader(logger).ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	res := overlap.NewResolver(cfg.ResolverOptions(logger)).Resolve(page.Boxes)
	resolvedTitle := fmt.Sprintf("Resolved (%d passes)", res.Iterations)
	if !res.Converged {
		resolvedTitle = fmt.Sprintf("Resolved (not converged after %d passes)", res.Iterations)
	}

	resolved := res.Boxes
	if order {
		opts, err := cfg.SequencerOptions(logger)
		if err != nil {
			return err
		}
		ordered := readingorder.NewSequencer(opts).Order(resolved)
		resolved = ordered.Boxes
		resolvedTitle += ", " + ordered.Mode.String()
	}

	layers := []render.Layer{
		{Title: "Input", Boxes: page.Boxes},
		{Title: resolvedTitle, Boxes: resolved},
	}

	opts := render.DefaultOptions()
	opts.ShowLabels = labels
	opts.Numbered = order

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer file.Close()

	if err := render.Render(file, page.Dimensions, layers, opts); err != nil {
		return err
	}

	slog.Info("Rendered layout", "input", path, "output", output, "boxes_in", len(page.Boxes), "boxes_out", len(resolved))
	fmt.Fprintf(cmd.OutOrStdout(), "PDF written to: %s\n", output)
	return nil
}
