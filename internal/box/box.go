// Package box holds the geometry shared by the overlap resolver and the
// reading-order sequencer: axis-aligned rectangles in page coordinates
// (origin top-left, y grows downward) and the labeled Box built on them.
package box

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// FillSuffix is appended to the winner's id on intersection pieces.
const FillSuffix = "_fill"

// ErrInvalidGeometry is returned by New for negative or non-finite geometry.
var ErrInvalidGeometry = errors.New("invalid box geometry")

// Box is a labeled layout region on one page image.
type Box struct {
	Label string
	Rect
	ID      string
	ImageID string
}

// New creates a Box, rejecting negative sizes and NaN/Inf coordinates.
func New(label string, x, y, width, height float64, id, imageID string) (Box, error) {
	for _, v := range []float64{x, y, width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Box{}, fmt.Errorf("%w: non-finite value in [%v, %v, %v, %v]", ErrInvalidGeometry, x, y, width, height)
		}
	}
	if width < 0 || height < 0 {
		return Box{}, fmt.Errorf("%w: negative size %vx%v", ErrInvalidGeometry, width, height)
	}
	return Box{
		Label:   label,
		Rect:    Rect{X: x, Y: y, Width: width, Height: height},
		ID:      id,
		ImageID: imageID,
	}, nil
}

// WithRect returns a copy of b positioned at r, keeping label and identity.
func (b Box) WithRect(r Rect) Box {
	b.Rect = r
	return b
}

// Fill returns the intersection piece r owned by b. The id gets FillSuffix
// unless it already carries it.
func (b Box) Fill(r Rect) Box {
	fill := b.WithRect(r)
	if !strings.HasSuffix(b.ID, FillSuffix) {
		fill.ID = b.ID + FillSuffix
	}
	return fill
}

// BaseID strips FillSuffix, giving the id of the box a piece descends from.
func (b Box) BaseID() string {
	return strings.TrimSuffix(b.ID, FillSuffix)
}

func (b Box) String() string {
	return fmt.Sprintf("%s %s [%g, %g, %g, %g]", b.Label, b.ID, b.X, b.Y, b.Width, b.Height)
}

// Key identifies a box for deduplication: geometry rounded to two decimals
// plus label and identity.
type Key struct {
	Label   string
	X, Y    float64
	Width   float64
	Height  float64
	ID      string
	ImageID string
}

// Key returns the dedup key of b.
func (b Box) Key() Key {
	r := b.Rect.Round(2)
	return Key{
		Label:   b.Label,
		X:       r.X,
		Y:       r.Y,
		Width:   r.Width,
		Height:  r.Height,
		ID:      b.ID,
		ImageID: b.ImageID,
	}
}

// NormalizeLabel case-folds a label so "Header" and "HEADER" compare equal.
// A fresh Caser is used per call; Casers are not safe for concurrent use.
func NormalizeLabel(label string) string {
	return cases.Fold().String(strings.TrimSpace(label))
}

// LabelSet is a set of normalized labels.
type LabelSet map[string]struct{}

// NewLabelSet builds a set from labels, skipping blanks.
func NewLabelSet(labels ...string) LabelSet {
	set := make(LabelSet, len(labels))
	for _, l := range labels {
		if n := NormalizeLabel(l); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Contains reports whether label is in the set, ignoring case.
func (s LabelSet) Contains(label string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[NormalizeLabel(label)]
	return ok
}

// Labels returns the members of the set in no particular order.
func (s LabelSet) Labels() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	return out
}
