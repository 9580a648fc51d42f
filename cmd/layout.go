package cmd

import (
	"github.com/docsynth/layoutfix/internal/layoutcmd"
	"github.com/spf13/cobra"
)

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Box list processing tools",
		Long: `Tools for processing directories of box list files.

Each file starts with the page dimensions followed by one box per line:

  [1024, 768]
  [paragraph, [100, 50, 300, 200], 12, 7]

Files are processed in parallel and rewritten in place after a backup copy
is made. A run summary can be saved and re-printed with the report command.`,
	}

	// Add layout subcommands
	cmd.AddCommand(layoutcmd.NewResolveCmd())
	cmd.AddCommand(layoutcmd.NewOrderCmd())
	cmd.AddCommand(layoutcmd.NewRunCmd())
	cmd.AddCommand(layoutcmd.NewReportCmd())
	cmd.AddCommand(layoutcmd.NewRenderCmd())
	cmd.AddCommand(layoutcmd.NewExportCmd())

	return cmd
}
