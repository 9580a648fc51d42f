package layoutcmd

import (
	"github.com/spf13/cobra"
)

// NewResolveCmd creates the resolve command
func NewResolveCmd() *cobra.Command {
	var s settings

	cmd := &cobra.Command{
		Use:   "resolve <dir>",
		Short: "Split overlapping boxes so no two boxes share area",
		Long: `Resolve overlaps in every box list file in a directory.

For each overlapping pair the winner (priority label, then larger share of its
own area inside the overlap, then larger area) keeps the intersection as a new
<id>_fill box and the loser is cut into up to four strips around it. Passes
repeat until no overlap remains or --max-iterations is reached. Boxes shorter
than --min-height and exact duplicates are dropped afterwards.`,
		Example: `  layoutfix layout resolve ./layouts
  layoutfix layout resolve ./layouts --max-iterations 25 --no-backup`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(cmd, args[0], opResolve, &s)
		},
	}

	addResolveFlags(cmd, &s)
	addBatchFlags(cmd, &s)

	return cmd
}
