package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "layoutfix",
		Short: "Overlap resolution and reading order for page layout boxes",
		Long: `Layoutfix cleans up labeled layout boxes on page images.

It splits overlapping boxes so every region of the page belongs to exactly one
box, and sorts boxes into the order a reader would follow, including pages
with multiple columns and full-width headers.

Defaults can be set with LAYOUTFIX_* environment variables or a .env file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			logLevel := slog.LevelInfo
			if verbose {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newLayoutCmd())

	return cmd
}
