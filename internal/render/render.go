// Package render draws box lists onto PDF pages for visual inspection.
// Each layer becomes one page sized to the image; boxes sharing a base id
// share a color so fills are easy to match to their winner.
package render

import (
	"fmt"
	"hash/fnv"
	"io"
	"math"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/docsynth/layoutfix/internal/box"
	"github.com/docsynth/layoutfix/internal/boxfile"
)

// Layer is one page of the rendering.
type Layer struct {
	Title string
	Boxes []box.Box
}

// Options controls what is drawn for each box.
type Options struct {
	// ShowLabels prints "label id" in the top-left corner of each box.
	ShowLabels bool

	// Numbered prefixes each label with the box's position in its layer.
	Numbered bool

	// FillAlpha is the opacity of box fills, 0 draws outlines only.
	FillAlpha float64
}

func DefaultOptions() Options {
	return Options{ShowLabels: true, FillAlpha: 0.25}
}

type rgb struct{ r, g, b int }

var palette = []rgb{
	{230, 25, 75}, {60, 180, 75}, {0, 130, 200}, {245, 130, 48},
	{145, 30, 180}, {70, 240, 240}, {240, 50, 230}, {210, 245, 60},
	{0, 128, 128}, {170, 110, 40}, {128, 0, 0}, {0, 0, 128},
}

func colorFor(baseID string) rgb {
	h := fnv.New32a()
	h.Write([]byte(baseID))
	return palette[h.Sum32()%uint32(len(palette))]
}

// PageSize returns the page size in points: the image dimensions when known,
// otherwise the extent of all boxes.
func PageSize(dims boxfile.Dimensions, layers []Layer) (width, height float64) {
	if dims.Valid() {
		return dims.Width, dims.Height
	}
	for _, l := range layers {
		for _, b := range l.Boxes {
			width = math.Max(width, b.Right())
			height = math.Max(height, b.Bottom())
		}
	}
	return math.Max(width, 100), math.Max(height, 100)
}

// Render writes a PDF with one page per layer.
func Render(w io.Writer, dims boxfile.Dimensions, layers []Layer, opts Options) error {
	width, height := PageSize(dims, layers)

	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	fontSize := math.Max(6, math.Min(width, height)/70)
	encoder := charmap.ISO8859_1.NewEncoder()
	latin1 := func(s string) string {
		out, err := encoder.String(s)
		if err != nil {
			return s
		}
		return out
	}

	for pageNum, layer := range layers {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})

		name := layer.Title
		if name == "" {
			name = fmt.Sprintf("Boxes (Page %d)", pageNum+1)
		}
		id := pdf.AddLayer(name, true)
		pdf.BeginLayer(id)

		pdf.SetLineWidth(math.Max(1, fontSize/6))
		pdf.SetFont("Helvetica", "", fontSize)

		for i, b := range layer.Boxes {
			c := colorFor(b.BaseID())
			pdf.SetDrawColor(c.r, c.g, c.b)
			pdf.SetFillColor(c.r, c.g, c.b)

			if opts.FillAlpha > 0 {
				pdf.SetAlpha(opts.FillAlpha, "Normal")
				pdf.Rect(b.X, b.Y, b.Width, b.Height, "F")
				pdf.SetAlpha(1, "Normal")
			}
			pdf.Rect(b.X, b.Y, b.Width, b.Height, "D")

			if opts.ShowLabels {
				text := fmt.Sprintf("%s %s", b.Label, b.ID)
				if opts.Numbered {
					text = fmt.Sprintf("%d. %s", i+1, text)
				}
				pdf.SetTextColor(c.r, c.g, c.b)
				pdf.Text(b.X+2, b.Y+fontSize, latin1(text))
			}
		}

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", fontSize*1.4)
		pdf.Text(4, height-4, latin1(fmt.Sprintf("%s (%d boxes)", name, len(layer.Boxes))))

		pdf.EndLayer()
	}

	if len(layers) == 0 {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
