package layoutcmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docsynth/layoutfix/internal/batch"
	"github.com/docsynth/layoutfix/internal/boxfile"
	"github.com/docsynth/layoutfix/internal/export"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var format string
	var output string
	var pattern string
	var recursive bool

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Export box lists as parquet rows or hOCR",
		Long: `Collect every box list file in a directory into one export.

  parquet  one row per box with file, order, label, ids and geometry
  hocr     one ocr_page per file with an ocr_carea per box, in file order`,
		Example: `  layoutfix layout export ./layouts --format parquet -o boxes.parquet
  layoutfix layout export ./layouts --format hocr -o layouts.hocr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				switch format {
				case "parquet":
					output = "boxes.parquet"
				case "hocr":
					output = "layouts.hocr"
				}
			}
			return executeExport(cmd, args[0], format, output, pattern, recursive)
		},
	}

	cmd.Flags().StringVar(&format, "format", "parquet", "Export format (parquet, hocr)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	cmd.Flags().StringVar(&pattern, "pattern", "*.txt", "File name pattern to export")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Include matching files in subdirectories")

	return cmd
}

func executeExport(cmd *cobra.Command, dir, format, output, pattern string, recursive bool) error {
	if format != "parquet" && format != "hocr" {
		return fmt.Errorf("unsupported format: %s", format)
	}

	pages, err := loadPages(dir, pattern, recursive)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no box lists found in %s matching %s", dir, pattern)
	}

	switch format {
	case "parquet":
		n, err := export.WriteParquet(output, pages)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d boxes from %d files to: %s\n", n, len(pages), output)
	case "hocr":
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer file.Close()
		if err := export.WriteHOCR(file, pages); err != nil {
			return fmt.Errorf("failed to write hOCR: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d pages to: %s\n", len(pages), output)
	}

	return nil
}

// loadPages reads every matching file, skipping empty ones.
func loadPages(dir, pattern string, recursive bool) ([]export.Page, error) {
	files, err := batch.Discover(dir, pattern, recursive)
	if err != nil {
		return nil, err
	}

	reader := boxfile.NewReader(slog.Default())
	pages := make([]export.Page, 0, len(files))
	for _, path := range files {
		page, err := reader.ReadFile(path)
		if errors.Is(err, boxfile.ErrEmptyInput) {
			slog.Warn("No box lines found, skipping file", "file", path)
			continue
		}
		if err != nil {
			return nil, err
		}

		name, err := filepath.Rel(dir, path)
		if err != nil {
			name = filepath.Base(path)
		}
		pages = append(pages, export.Page{Name: name, Dimensions: page.Dimensions, Boxes: page.Boxes})
	}

	return pages, nil
}
