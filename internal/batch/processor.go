package batch

import (
	"errors"
	"log/slog"

	"github.com/docsynth/layoutfix/internal/boxfile"
	"github.com/docsynth/layoutfix/internal/overlap"
	"github.com/docsynth/layoutfix/internal/readingorder"
)

// State is the outcome of processing one file.
type State string

const (
	StateSuccess State = "success"
	StateFailed  State = "failed"
	StateSkipped State = "skipped"
)

// Reasons recorded on skipped and failed files.
const (
	ReasonNoBoxes     = "no_bboxes"
	ReasonReadError   = "read_error"
	ReasonBackupError = "backup_error"
	ReasonWriteError  = "write_error"
	ReasonCanceled    = "canceled"
)

// Status is the per-file result of a batch run.
type Status struct {
	File   string `yaml:"file" json:"file"`
	State  State  `yaml:"state" json:"state"`
	Reason string `yaml:"reason,omitempty" json:"reason,omitempty"`
	Error  string `yaml:"error,omitempty" json:"error,omitempty"`

	// Method is the reading order mode applied, empty for resolve-only runs.
	Method string `yaml:"method,omitempty" json:"method,omitempty"`

	BoxesIn      int    `yaml:"boxes_in" json:"boxes_in"`
	BoxesOut     int    `yaml:"boxes_out" json:"boxes_out"`
	SkippedLines int    `yaml:"skipped_lines,omitempty" json:"skipped_lines,omitempty"`
	Iterations   int    `yaml:"iterations,omitempty" json:"iterations,omitempty"`
	Converged    bool   `yaml:"converged" json:"converged"`
	MultiColumn  bool   `yaml:"multi_column,omitempty" json:"multi_column,omitempty"`
	BackupPath   string `yaml:"backup,omitempty" json:"backup,omitempty"`
}

// Processor rewrites one box list file in place. A nil Resolver skips
// overlap resolution; a nil Sequencer skips reordering.
type Processor struct {
	Reader    *boxfile.Reader
	Resolver  *overlap.Resolver
	Sequencer *readingorder.Sequencer
	Backup    bool
	Logger    *slog.Logger
}

// Process reads path, applies resolution then ordering, and writes the
// result back after taking a backup. Failures are reported in the status.
func (p *Processor) Process(path string) Status {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reader := p.Reader
	if reader == nil {
		reader = boxfile.NewReader(logger)
	}

	status := Status{File: path, Converged: true}

	page, err := reader.ReadFile(path)
	if errors.Is(err, boxfile.ErrEmptyInput) {
		logger.Warn("No box lines found, skipping file", "file", path)
		status.State = StateSkipped
		status.Reason = ReasonNoBoxes
		return status
	}
	if err != nil {
		status.State = StateFailed
		status.Reason = ReasonReadError
		status.Error = err.Error()
		return status
	}

	status.BoxesIn = len(page.Boxes)
	status.SkippedLines = len(page.Skipped)
	if len(page.Boxes) == 0 {
		logger.Warn("No valid box lines, skipping file", "file", path, "skipped_lines", len(page.Skipped))
		status.State = StateSkipped
		status.Reason = ReasonNoBoxes
		return status
	}

	boxes := page.Boxes
	if p.Resolver != nil {
		res := p.Resolver.Resolve(boxes)
		boxes = res.Boxes
		status.Iterations = res.Iterations
		status.Converged = res.Converged
	}
	if p.Sequencer != nil {
		res := p.Sequencer.Order(boxes)
		boxes = res.Boxes
		status.Method = res.Mode.String()
		status.MultiColumn = res.MultiColumn
	}
	status.BoxesOut = len(boxes)

	if p.Backup {
		backupPath, err := boxfile.Backup(path)
		if err != nil {
			status.State = StateFailed
			status.Reason = ReasonBackupError
			status.Error = err.Error()
			return status
		}
		status.BackupPath = backupPath
	}

	if err := boxfile.WriteFile(path, page.Dimensions, boxes); err != nil {
		status.State = StateFailed
		status.Reason = ReasonWriteError
		status.Error = err.Error()
		return status
	}

	status.State = StateSuccess
	logger.Debug("Processed file", "file", path, "boxes_in", status.BoxesIn, "boxes_out", status.BoxesOut)
	return status
}
