package layoutcmd

import (
	"github.com/spf13/cobra"
)

// NewOrderCmd creates the order command
func NewOrderCmd() *cobra.Command {
	var s settings

	cmd := &cobra.Command{
		Use:   "order <dir>",
		Short: "Sort boxes into reading order",
		Long: `Rewrite every box list file in a directory with its boxes in reading order.

Modes:
  simple        top to bottom, then left to right
  advanced      group boxes into lines within --y-tolerance, then left to right
  column_aware  page-wide headers first, then each column top to bottom
  auto          detect the layout and order column-aware (default)`,
		Example: `  layoutfix layout order ./layouts
  layoutfix layout order ./layouts --mode simple --pattern "page_*.txt"
  layoutfix layout order ./layouts --mode column_aware --min-column-width 150`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(cmd, args[0], opOrder, &s)
		},
	}

	addOrderFlags(cmd, &s)
	addBatchFlags(cmd, &s)

	return cmd
}
