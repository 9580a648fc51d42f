package overlap

import (
	"log/slog"

	"github.com/docsynth/layoutfix/internal/box"
)

const (
	// DefaultMaxIterations bounds the number of resolution passes.
	DefaultMaxIterations = 10
	// DefaultMinHeight is the height below which resolved boxes are dropped.
	DefaultMinHeight = 15.0
)

// DefaultLabels are passed through untouched and win any intersection
// against other labels.
var DefaultLabels = []string{"header", "footer"}

// Options configures a Resolver.
type Options struct {
	// MaxIterations caps resolution passes. Values <= 0 use DefaultMaxIterations.
	MaxIterations int

	// MinHeight drops boxes shorter than this after resolution. Negative
	// values disable the filter.
	MinHeight float64

	// IgnoredLabels are never carved and are not checked against each other.
	IgnoredLabels box.LabelSet

	// PriorityLabels win an intersection against any box whose label is not
	// in the set, regardless of percentage.
	PriorityLabels box.LabelSet

	// Logger receives progress and warnings (nil = slog.Default()).
	Logger *slog.Logger
}

// DefaultOptions returns ten passes, a 15 unit minimum height, and header
// and footer as both ignored and priority labels.
func DefaultOptions() Options {
	return Options{
		MaxIterations:  DefaultMaxIterations,
		MinHeight:      DefaultMinHeight,
		IgnoredLabels:  box.NewLabelSet(DefaultLabels...),
		PriorityLabels: box.NewLabelSet(DefaultLabels...),
	}
}
