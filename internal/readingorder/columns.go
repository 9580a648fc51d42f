package readingorder

import (
	"math"
	"sort"

	"github.com/docsynth/layoutfix/internal/box"
)

// Column is a vertical run of boxes sharing most of their x-range.
type Column struct {
	// Boxes in assignment order until sorted for reading
	Boxes []box.Box

	// Horizontal span covered by the boxes
	Left  float64
	Right float64

	// members counts boxes that joined by position; folded noise is not
	// included.
	members int
}

// Width returns the horizontal span of the column
func (c *Column) Width() float64 {
	return c.Right - c.Left
}

// Top returns the smallest y of the column's boxes
func (c *Column) Top() float64 {
	top := math.Inf(1)
	for _, b := range c.Boxes {
		top = math.Min(top, b.Y)
	}
	return top
}

func (c *Column) add(b box.Box) {
	if len(c.Boxes) == 0 {
		c.Left, c.Right = b.Left(), b.Right()
	} else {
		c.Left = math.Min(c.Left, b.Left())
		c.Right = math.Max(c.Right, b.Right())
	}
	c.Boxes = append(c.Boxes, b)
	c.members++
}

func (c *Column) center() float64 {
	return (c.Left + c.Right) / 2
}

// DetectColumns groups boxes into columns. Boxes are taken left to right;
// each joins the first column whose span overlaps more than half of the
// box's own width, or opens a new one. Single-box columns narrower than
// half of minColumnWidth are noise: their boxes are folded into the column
// with the nearest center so no box is lost.
func DetectColumns(boxes []box.Box, minColumnWidth float64) []Column {
	if len(boxes) == 0 {
		return nil
	}

	sorted := make([]box.Box, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var columns []Column
	for _, b := range sorted {
		assigned := false
		for i := range columns {
			span := box.Rect{X: columns[i].Left, Width: columns[i].Width(), Height: 1}
			if span.HorizontalOverlap(b.Rect) > b.Width*0.5 {
				columns[i].add(b)
				assigned = true
				break
			}
		}
		if !assigned {
			var c Column
			c.add(b)
			columns = append(columns, c)
		}
	}

	var kept []Column
	var noise []box.Box
	for _, c := range columns {
		if c.Width() >= minColumnWidth*0.5 || c.members > 1 {
			kept = append(kept, c)
		} else {
			noise = append(noise, c.Boxes...)
		}
	}

	if len(kept) == 0 {
		var c Column
		for _, b := range noise {
			c.add(b)
		}
		return []Column{c}
	}

	for _, b := range noise {
		center := b.X + b.Width/2
		best := 0
		for i := range kept {
			if math.Abs(kept[i].center()-center) < math.Abs(kept[best].center()-center) {
				best = i
			}
		}
		// Noise does not widen the column it is parked in.
		kept[best].Boxes = append(kept[best].Boxes, b)
	}

	return kept
}

// IsMultiColumn reports whether more than one column is detected.
func IsMultiColumn(boxes []box.Box, minColumnWidth float64) bool {
	if len(boxes) < 2 {
		return false
	}
	return len(DetectColumns(boxes, minColumnWidth)) > 1
}
