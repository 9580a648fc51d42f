// Package export writes box lists in formats other tools consume: a flat
// parquet table for analysis and hOCR for OCR and layout viewers.
package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/docsynth/layoutfix/internal/box"
	"github.com/docsynth/layoutfix/internal/boxfile"
	"github.com/parquet-go/parquet-go"
)

// Row is one box in the flat columnar export.
type Row struct {
	File       string  `parquet:"file" json:"file"`
	ImageID    string  `parquet:"image_id" json:"image_id"`
	Order      int32   `parquet:"order" json:"order"`
	Label      string  `parquet:"label" json:"label"`
	ID         string  `parquet:"id" json:"id"`
	BaseID     string  `parquet:"base_id" json:"base_id"`
	Fill       bool    `parquet:"fill" json:"fill"`
	X          float64 `parquet:"x" json:"x"`
	Y          float64 `parquet:"y" json:"y"`
	Width      float64 `parquet:"width" json:"width"`
	Height     float64 `parquet:"height" json:"height"`
	PageHeight float64 `parquet:"page_height" json:"page_height"`
	PageWidth  float64 `parquet:"page_width" json:"page_width"`
}

// Rows flattens a page; Order is the position of each box in the file.
func Rows(file string, page Page) []Row {
	rows := make([]Row, 0, len(page.Boxes))
	for i, b := range page.Boxes {
		rows = append(rows, Row{
			File:       file,
			ImageID:    b.ImageID,
			Order:      int32(i),
			Label:      b.Label,
			ID:         b.ID,
			BaseID:     b.BaseID(),
			Fill:       b.ID != b.BaseID(),
			X:          b.X,
			Y:          b.Y,
			Width:      b.Width,
			Height:     b.Height,
			PageHeight: page.Dimensions.Height,
			PageWidth:  page.Dimensions.Width,
		})
	}
	return rows
}

// Page is a named box list ready for export.
type Page struct {
	Name       string
	Dimensions boxfile.Dimensions
	Boxes      []box.Box
}

// WriteParquet writes every page's rows to a single parquet file at path.
func WriteParquet(path string, pages []Page) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Row](file)

	total := 0
	for _, page := range pages {
		rows := Rows(page.Name, page)
		if len(rows) == 0 {
			continue
		}
		n, err := writer.Write(rows)
		total += n
		if err != nil {
			return total, fmt.Errorf("failed to write rows for %s: %w", page.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return total, fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	slog.Debug("Wrote parquet export", "path", path, "rows", total, "pages", len(pages))
	return total, nil
}

// ReadParquet loads the rows of a file written by WriteParquet.
func ReadParquet(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	records := make([]Row, 0, pf.NumRows())
	rows := make([]Row, 128) // Read in batches

	for {
		n, err := reader.Read(rows)
		if n > 0 {
			records = append(records, rows[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records, fmt.Errorf("failed to read rows: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return records, nil
}
