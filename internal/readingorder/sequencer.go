// Package readingorder arranges a page's boxes into the sequence a reader
// would follow: top to bottom, and column by column on multi-column pages.
// Ordering never changes geometry and never adds or drops boxes.
package readingorder

import (
	"log/slog"
	"math"
	"sort"

	"github.com/docsynth/layoutfix/internal/box"
)

// Result is an ordered page plus what the sequencer decided about it.
type Result struct {
	Boxes []box.Box

	// Mode is the strategy actually applied (auto resolves to column_aware).
	Mode Mode

	// MultiColumn is set when column detection found more than one column.
	MultiColumn bool

	// Columns and Headers describe column-aware ordering.
	Columns int
	Headers int
}

// Sequencer orders boxes according to its Options.
type Sequencer struct {
	opts   Options
	logger *slog.Logger
}

// NewSequencer creates a sequencer, filling zero-valued options with defaults.
func NewSequencer(opts Options) *Sequencer {
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	if opts.YTolerance <= 0 {
		opts.YTolerance = DefaultYTolerance
	}
	if opts.MinColumnWidth <= 0 {
		opts.MinColumnWidth = DefaultMinColumnWidth
	}
	if opts.HeaderMargin <= 0 {
		opts.HeaderMargin = DefaultHeaderMargin
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Sequencer{opts: opts, logger: logger}
}

// Order returns boxes in reading order using the given mode and tolerances.
func Order(boxes []box.Box, mode Mode, yTolerance, minColumnWidth float64) []box.Box {
	opts := DefaultOptions()
	opts.Mode = mode
	opts.YTolerance = yTolerance
	opts.MinColumnWidth = minColumnWidth
	return NewSequencer(opts).Order(boxes).Boxes
}

// Order returns a permutation of boxes in reading order. The input slice is
// not modified.
func (s *Sequencer) Order(boxes []box.Box) Result {
	if len(boxes) == 0 {
		return Result{Boxes: []box.Box{}, Mode: s.effectiveMode()}
	}

	switch s.opts.Mode {
	case ModeSimple:
		return Result{Boxes: SortByPosition(boxes), Mode: ModeSimple}
	case ModeAdvanced:
		return Result{Boxes: s.byLines(boxes), Mode: ModeAdvanced}
	case ModeAuto:
		multi := IsMultiColumn(boxes, s.opts.MinColumnWidth)
		if multi {
			s.logger.Debug("Multi-column layout detected", "boxes", len(boxes))
		} else {
			s.logger.Debug("Single column layout detected", "boxes", len(boxes))
		}
		res := s.columnAware(boxes)
		res.MultiColumn = multi
		return res
	default:
		return s.columnAware(boxes)
	}
}

func (s *Sequencer) effectiveMode() Mode {
	if s.opts.Mode == ModeAuto {
		return ModeColumnAware
	}
	return s.opts.Mode
}

// SortByPosition returns boxes sorted by (y, x).
func SortByPosition(boxes []box.Box) []box.Box {
	out := make([]box.Box, len(boxes))
	copy(out, boxes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// byLines groups boxes into lines whose first box is within YTolerance,
// then reads each line left to right.
func (s *Sequencer) byLines(boxes []box.Box) []box.Box {
	sorted := make([]box.Box, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y < sorted[j].Y
	})

	var lines [][]box.Box
	for _, b := range sorted {
		added := false
		for i := range lines {
			if math.Abs(b.Y-lines[i][0].Y) <= s.opts.YTolerance {
				lines[i] = append(lines[i], b)
				added = true
				break
			}
		}
		if !added {
			lines = append(lines, []box.Box{b})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i][0].Y < lines[j][0].Y
	})

	out := make([]box.Box, 0, len(boxes))
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X < line[j].X
		})
		out = append(out, line...)
	}
	return out
}

// columnAware reads page-wide headers first, then each column top to
// bottom, columns left to right.
func (s *Sequencer) columnAware(boxes []box.Box) Result {
	res := Result{Mode: ModeColumnAware}

	columns := DetectColumns(boxes, s.opts.MinColumnWidth)
	res.MultiColumn = len(columns) > 1
	if len(columns) <= 1 {
		res.Boxes = SortByPosition(boxes)
		res.Columns = len(columns)
		return res
	}

	// The main content starts at the top of the first column with at least
	// two members of its own; boxes well above it span the page and are
	// read first.
	mainTop := math.Inf(1)
	for i := range columns {
		if columns[i].members > 1 {
			mainTop = math.Min(mainTop, columns[i].Top())
		}
	}

	var headers []box.Box
	if !math.IsInf(mainTop, 1) {
		threshold := mainTop - s.opts.HeaderMargin
		content := make([]box.Box, 0, len(boxes))
		for _, b := range boxes {
			if b.Y < threshold {
				headers = append(headers, b)
			} else {
				content = append(content, b)
			}
		}
		columns = DetectColumns(content, s.opts.MinColumnWidth)
	}

	for i := range columns {
		col := columns[i].Boxes
		sort.SliceStable(col, func(a, b int) bool {
			return col[a].Y < col[b].Y
		})
	}
	sort.SliceStable(columns, func(i, j int) bool {
		return minX(columns[i].Boxes) < minX(columns[j].Boxes)
	})

	out := make([]box.Box, 0, len(boxes))
	out = append(out, SortByPosition(headers)...)
	for _, c := range columns {
		out = append(out, c.Boxes...)
	}

	res.Boxes = out
	res.Columns = len(columns)
	res.Headers = len(headers)
	s.logger.Debug("Column-aware order", "columns", res.Columns, "headers", res.Headers)
	return res
}

func minX(boxes []box.Box) float64 {
	m := math.Inf(1)
	for _, b := range boxes {
		m = math.Min(m, b.X)
	}
	return m
}
