// Package boxfile reads and writes the line-based box list format: a first
// line holding the page dimensions followed by one
// [label, [x, y, width, height], id, image_id] tuple per line.
package boxfile

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/docsynth/layoutfix/internal/box"
)

// ErrEmptyInput is returned when a file holds no box lines at all.
var ErrEmptyInput = errors.New("no box lines in input")

// ParseError describes a box line that could not be parsed.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	text := e.Text
	if utf8.RuneCountInString(text) > 50 {
		text = string([]rune(text)[:50]) + "..."
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, text)
	}
	return fmt.Sprintf("%s: %q", e.Reason, text)
}

// DimensionsError is returned when the first line is not a numeric pair.
type DimensionsError struct {
	Text string
}

func (e *DimensionsError) Error() string {
	return fmt.Sprintf("invalid dimensions line %q", e.Text)
}

// Dimensions is the page size from the first line. Raw is written back
// unchanged so files round-trip byte for byte on that line.
type Dimensions struct {
	Height float64
	Width  float64
	Raw    string
}

// Valid reports whether the dimensions were parsed to positive numbers.
func (d Dimensions) Valid() bool {
	return d.Height > 0 && d.Width > 0
}

func (d Dimensions) String() string {
	if d.Raw != "" {
		return d.Raw
	}
	return fmt.Sprintf("[%s, %s]", formatFloat(d.Height), formatFloat(d.Width))
}

var (
	lineRe = regexp.MustCompile(`^\[\s*([^,\[\]]*?)\s*,\s*\[([^\[\]]*)\]\s*,\s*([^,\[\]]*?)\s*,\s*([^,\[\]]*?)\s*\]$`)
	dimsRe = regexp.MustCompile(`^\[\s*([^,\[\]]+?)\s*,\s*([^,\[\]]+?)\s*\]$`)
)

// ParseDimensions parses a "[height, width]" line.
func ParseDimensions(line string) (Dimensions, error) {
	raw := strings.TrimSpace(line)
	d := Dimensions{Raw: raw}

	m := dimsRe.FindStringSubmatch(raw)
	if m == nil {
		return d, &DimensionsError{Text: raw}
	}
	h, errH := strconv.ParseFloat(unquote(m[1]), 64)
	w, errW := strconv.ParseFloat(unquote(m[2]), 64)
	if errH != nil || errW != nil {
		return d, &DimensionsError{Text: raw}
	}
	d.Height, d.Width = h, w
	return d, nil
}

// ParseLine parses one box line. Label and ids may be bare or quoted.
func ParseLine(line string) (box.Box, error) {
	text := strings.TrimSpace(line)
	m := lineRe.FindStringSubmatch(text)
	if m == nil {
		return box.Box{}, &ParseError{Text: text, Reason: "not a [label, [x, y, w, h], id, image_id] tuple"}
	}

	fields := strings.Split(m[2], ",")
	if len(fields) != 4 {
		return box.Box{}, &ParseError{Text: text, Reason: fmt.Sprintf("expected 4 coordinates, got %d", len(fields))}
	}
	var coords [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return box.Box{}, &ParseError{Text: text, Reason: fmt.Sprintf("coordinate %d is not a number", i+1)}
		}
		coords[i] = v
	}

	b, err := box.New(unquote(m[1]), coords[0], coords[1], coords[2], coords[3], unquote(m[3]), unquote(m[4]))
	if err != nil {
		return box.Box{}, &ParseError{Text: text, Reason: err.Error()}
	}
	return b, nil
}

// FormatLine renders b in the box list format.
func FormatLine(b box.Box) string {
	return fmt.Sprintf("[%s, [%s, %s, %s, %s], %s, %s]",
		b.Label,
		formatFloat(b.X), formatFloat(b.Y), formatFloat(b.Width), formatFloat(b.Height),
		b.ID, b.ImageID)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
