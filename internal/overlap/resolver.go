// Package overlap rewrites a page's label boxes into a set of
// non-overlapping segments. Each disputed intersection is handed to a
// single winner box and the losing area is split into rectangular strips.
//
// Every pass compares all pairs, so one pass is O(n²) and a full run is
// bounded by O(n²·MaxIterations). Pages carry tens to low hundreds of
// boxes; a sweep-line or grid index would only pay off well beyond that.
package overlap

import (
	"errors"
	"log/slog"

	"github.com/docsynth/layoutfix/internal/box"
)

// ErrNotConverged describes a run that hit MaxIterations with overlaps left.
// Resolve does not return it; callers that treat the condition as an error
// can use it with Result.Err.
var ErrNotConverged = errors.New("overlap resolution did not converge")

// Result is the outcome of one Resolve call.
type Result struct {
	Boxes []box.Box

	// Iterations counts passes that found and resolved overlaps.
	Iterations int

	// Converged is false when MaxIterations ran out with overlaps remaining.
	Converged bool

	// Overlaps is the number of overlapping pairs handled across all passes.
	Overlaps int

	// SmallRemoved and DuplicatesRemoved come from post-processing.
	SmallRemoved      int
	DuplicatesRemoved int
}

// Err returns ErrNotConverged when the run did not converge.
func (r Result) Err() error {
	if !r.Converged {
		return ErrNotConverged
	}
	return nil
}

// Resolver removes overlaps between boxes of one page.
type Resolver struct {
	opts   Options
	logger *slog.Logger
}

// NewResolver creates a resolver, filling zero-valued options with defaults.
func NewResolver(opts Options) *Resolver {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.IgnoredLabels == nil {
		opts.IgnoredLabels = box.NewLabelSet(DefaultLabels...)
	}
	if opts.PriorityLabels == nil {
		opts.PriorityLabels = box.NewLabelSet(DefaultLabels...)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{opts: opts, logger: logger}
}

// Resolve runs the default resolver with the given iteration cap.
func Resolve(boxes []box.Box, maxIterations int) []box.Box {
	opts := DefaultOptions()
	opts.MaxIterations = maxIterations
	return NewResolver(opts).Resolve(boxes).Boxes
}

// Resolve repeatedly splits overlapping boxes until a pass finds no overlap
// or MaxIterations passes have run, then drops short boxes and duplicates.
// The input slice is not modified. When the cap is hit the best-effort list
// is returned and a warning is logged.
func (r *Resolver) Resolve(boxes []box.Box) Result {
	current := make([]box.Box, len(boxes))
	copy(current, boxes)

	r.logger.Debug("Starting overlap resolution", "boxes", len(current))

	result := Result{}
	for pass := 0; pass < r.opts.MaxIterations; pass++ {
		next, found := r.pass(current)
		current = next
		if found == 0 {
			result.Converged = true
			break
		}
		result.Iterations++
		result.Overlaps += found
		r.logger.Debug("Resolution pass complete", "pass", pass+1, "overlaps", found, "boxes", len(current))
	}

	// The last allowed pass may have cleared everything without a clean
	// verification pass to prove it.
	if !result.Converged && r.countOverlaps(current) == 0 {
		result.Converged = true
	}
	if !result.Converged {
		r.logger.Warn("Maximum iterations reached with overlaps remaining",
			"max_iterations", r.opts.MaxIterations,
			"remaining_overlaps", r.countOverlaps(current))
	}

	current, result.SmallRemoved = FilterSmall(current, r.opts.MinHeight)
	if result.SmallRemoved > 0 {
		r.logger.Debug("Removed short boxes", "count", result.SmallRemoved, "min_height", r.opts.MinHeight)
	}
	current, result.DuplicatesRemoved = Dedupe(current)

	result.Boxes = current
	r.logger.Debug("Overlap resolution finished",
		"boxes", len(current),
		"iterations", result.Iterations,
		"converged", result.Converged)
	return result
}

// pass resolves every overlap group once and returns the rewritten list and
// the number of overlapping pairs it handled.
func (r *Resolver) pass(current []box.Box) ([]box.Box, int) {
	out := make([]box.Box, 0, len(current))
	processed := make([]bool, len(current))
	found := 0

	for i, primary := range current {
		if processed[i] {
			continue
		}
		processed[i] = true

		if r.ignored(primary) {
			out = append(out, primary)
			continue
		}

		partners := r.partners(current, processed, i)
		if len(partners) == 0 {
			out = append(out, primary)
			continue
		}
		found += len(partners)

		// Carve the primary against each partner in discovery order,
		// emitting one fill per disputed region.
		pieces := []box.Box{primary}
		var fills []box.Box
		for _, j := range partners {
			partner := current[j]
			next := make([]box.Box, 0, len(pieces))
			for _, piece := range pieces {
				in, ok := piece.Intersection(partner.Rect)
				if !ok {
					next = append(next, piece)
					continue
				}
				winner := r.winner(piece, partner, in.Area())
				fills = append(fills, winner.Fill(in))
				next = append(next, subtract(piece, in)...)
			}
			pieces = next
		}
		out = append(out, pieces...)
		out = append(out, fills...)

		// Partners lose everything already claimed by the primary and by
		// earlier partners. Ignored partners stay whole and are emitted
		// when the scan reaches them.
		carvers := []box.Rect{primary.Rect}
		for _, j := range partners {
			partner := current[j]
			if r.ignored(partner) {
				continue
			}
			segments := []box.Box{partner}
			for _, c := range carvers {
				segments = subtractAll(segments, c)
			}
			out = append(out, segments...)
			carvers = append(carvers, partner.Rect)
			processed[j] = true
		}

		r.logger.Debug("Resolved overlap group", "id", primary.ID, "label", primary.Label, "partners", len(partners))
	}

	return out, found
}

// partners lists the boxes the primary at index i contends with: later
// unprocessed boxes, plus ignored priority boxes anywhere in the list.
func (r *Resolver) partners(current []box.Box, processed []bool, i int) []int {
	primary := current[i]
	var partners []int
	for j, other := range current {
		if j == i {
			continue
		}
		if r.ignored(other) {
			if r.contends(primary, other) {
				partners = append(partners, j)
			}
			continue
		}
		if j < i || processed[j] {
			continue
		}
		if r.contends(primary, other) {
			partners = append(partners, j)
		}
	}
	return partners
}

// contends reports whether a and b overlap in a way the resolver must
// settle. Two ignored boxes never contend. A non-ignored box only contends
// with an ignored one when the ignored box would win by priority, since
// ignored boxes cannot be carved.
func (r *Resolver) contends(a, b box.Box) bool {
	aIgnored, bIgnored := r.ignored(a), r.ignored(b)
	switch {
	case aIgnored && bIgnored:
		return false
	case aIgnored:
		if !r.priority(a) || r.priority(b) {
			return false
		}
	case bIgnored:
		if !r.priority(b) || r.priority(a) {
			return false
		}
	}
	return a.Overlaps(b.Rect)
}

func (r *Resolver) countOverlaps(boxes []box.Box) int {
	n := 0
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if r.contends(boxes[i], boxes[j]) {
				n++
			}
		}
	}
	return n
}

// Winner returns which of a and b owns their intersection.
func (r *Resolver) Winner(a, b box.Box) box.Box {
	return r.winner(a, b, a.IntersectionArea(b.Rect))
}

// winner applies, in order: priority label, higher share of own area in the
// intersection, larger area, and finally a (the first-encountered box).
func (r *Resolver) winner(a, b box.Box, intersection float64) box.Box {
	aPriority, bPriority := r.priority(a), r.priority(b)
	if aPriority && !bPriority {
		return a
	}
	if bPriority && !aPriority {
		return b
	}

	pa, pb := Percentage(a, intersection), Percentage(b, intersection)
	r.logger.Debug("Intersection percentages", "a", a.ID, "a_pct", pa, "b", b.ID, "b_pct", pb)
	if pa > pb {
		return a
	}
	if pb > pa {
		return b
	}
	if b.Area() > a.Area() {
		return b
	}
	return a
}

// Percentage is the share of b's area covered by an intersection, in 0-100.
func Percentage(b box.Box, intersection float64) float64 {
	area := b.Area()
	if area == 0 {
		return 0
	}
	return intersection / area * 100
}

func (r *Resolver) ignored(b box.Box) bool {
	return r.opts.IgnoredLabels.Contains(b.Label)
}

func (r *Resolver) priority(b box.Box) bool {
	return r.opts.PriorityLabels.Contains(b.Label)
}

func subtract(b box.Box, cut box.Rect) []box.Box {
	strips := b.Subtract(cut)
	out := make([]box.Box, 0, len(strips))
	for _, s := range strips {
		out = append(out, b.WithRect(s))
	}
	return out
}

func subtractAll(boxes []box.Box, cut box.Rect) []box.Box {
	out := make([]box.Box, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, subtract(b, cut)...)
	}
	return out
}
