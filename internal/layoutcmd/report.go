package layoutcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsynth/layoutfix/internal/report"
)

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report <summary.yaml>",
		Short: "Print a saved batch summary",
		Long:  `Print a summary written by --summary as text, json or csv.`,
		Example: `  layoutfix layout report run.yaml
  layoutfix layout report run.yaml --format csv > files.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeReport(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, csv)")

	return cmd
}

func executeReport(cmd *cobra.Command, path, format string) error {
	summary, err := report.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load summary: %w", err)
	}
	return report.Print(cmd.OutOrStdout(), summary, format)
}
