package box

import "math"

// Rect is an axis-aligned rectangle. Y is the top edge.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Left returns the left edge X coordinate
func (r Rect) Left() float64 { return r.X }

// Right returns the right edge X coordinate
func (r Rect) Right() float64 { return r.X + r.Width }

// Top returns the top edge Y coordinate
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the bottom edge Y coordinate
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Area returns width * height
func (r Rect) Area() float64 { return r.Width * r.Height }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Overlaps reports whether the interiors of r and o intersect. Rectangles
// that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return math.Max(r.Left(), o.Left()) < math.Min(r.Right(), o.Right()) &&
		math.Max(r.Top(), o.Top()) < math.Min(r.Bottom(), o.Bottom())
}

// Intersection returns the overlap region of r and o, and false when they
// do not overlap.
func (r Rect) Intersection(o Rect) (Rect, bool) {
	if !r.Overlaps(o) {
		return Rect{}, false
	}
	left := math.Max(r.Left(), o.Left())
	top := math.Max(r.Top(), o.Top())
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}, true
}

// IntersectionArea returns the overlapping area of r and o, or 0.
func (r Rect) IntersectionArea(o Rect) float64 {
	in, ok := r.Intersection(o)
	if !ok {
		return 0
	}
	return in.Area()
}

// Subtract returns r minus cut as at most four strips: full-width strips
// above and below the cut, and strips left and right of it limited to the
// cut's vertical extent. Only strips with positive width and height are
// returned. When cut does not overlap r, r is returned unchanged.
func (r Rect) Subtract(cut Rect) []Rect {
	in, ok := r.Intersection(cut)
	if !ok {
		return []Rect{r}
	}

	strips := make([]Rect, 0, 4)
	add := func(s Rect) {
		if s.Width > 0 && s.Height > 0 {
			strips = append(strips, s)
		}
	}

	// top
	add(Rect{X: r.X, Y: r.Y, Width: r.Width, Height: in.Top() - r.Top()})
	// bottom
	add(Rect{X: r.X, Y: in.Bottom(), Width: r.Width, Height: r.Bottom() - in.Bottom()})
	// left
	add(Rect{X: r.X, Y: in.Y, Width: in.Left() - r.Left(), Height: in.Height})
	// right
	add(Rect{X: in.Right(), Y: in.Y, Width: r.Right() - in.Right(), Height: in.Height})

	return strips
}

// HorizontalOverlap returns the length of the shared x-range of r and o.
func (r Rect) HorizontalOverlap(o Rect) float64 {
	return math.Max(0, math.Min(r.Right(), o.Right())-math.Max(r.Left(), o.Left()))
}

// Round rounds all four fields to the given number of decimal places.
func (r Rect) Round(places int) Rect {
	p := math.Pow(10, float64(places))
	round := func(v float64) float64 { return math.Round(v*p) / p }
	return Rect{X: round(r.X), Y: round(r.Y), Width: round(r.Width), Height: round(r.Height)}
}
