package readingorder

import (
	"fmt"
	"log/slog"
	"strings"
)

// Mode selects the ordering strategy.
type Mode string

const (
	// ModeAuto inspects the layout, logs what it found and orders column-aware.
	ModeAuto Mode = "auto"
	// ModeSimple sorts by (y, x).
	ModeSimple Mode = "simple"
	// ModeAdvanced groups boxes into lines by y tolerance, then sorts by x.
	ModeAdvanced Mode = "advanced"
	// ModeColumnAware detects columns and reads each top to bottom.
	ModeColumnAware Mode = "column_aware"
)

// Modes lists every accepted mode.
var Modes = []Mode{ModeAuto, ModeSimple, ModeAdvanced, ModeColumnAware}

func (m Mode) String() string { return string(m) }

// ParseMode accepts a mode name, case-insensitively; "column-aware" is
// accepted as a spelling of column_aware. An empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	if s == "" {
		return ModeAuto, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown ordering mode %q (valid: auto, simple, advanced, column_aware)", s)
}

const (
	// DefaultYTolerance is the line-grouping tolerance for ModeAdvanced.
	DefaultYTolerance = 20.0
	// DefaultMinColumnWidth is the column width below which single-box
	// columns are treated as noise (compared against half this value).
	DefaultMinColumnWidth = 100.0
	// DefaultHeaderMargin is how far above the main column content a box
	// must start to be read first as a page-wide header.
	DefaultHeaderMargin = 50.0
)

// Options configures a Sequencer.
type Options struct {
	Mode           Mode
	YTolerance     float64
	MinColumnWidth float64
	HeaderMargin   float64

	// Logger receives layout decisions (nil = slog.Default()).
	Logger *slog.Logger
}

// DefaultOptions returns auto mode with the standard tolerances.
func DefaultOptions() Options {
	return Options{
		Mode:           ModeAuto,
		YTolerance:     DefaultYTolerance,
		MinColumnWidth: DefaultMinColumnWidth,
		HeaderMargin:   DefaultHeaderMargin,
	}
}
