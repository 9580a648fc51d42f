// Package batch fans box list files out to a bounded pool of workers and
// aggregates their per-file statuses into a run summary. A failing file
// never stops the others.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Summary aggregates one batch run.
type Summary struct {
	RunID      string    `yaml:"run_id" json:"run_id"`
	Operation  string    `yaml:"operation" json:"operation"`
	Directory  string    `yaml:"directory" json:"directory"`
	StartedAt  time.Time `yaml:"started_at" json:"started_at"`
	FinishedAt time.Time `yaml:"finished_at" json:"finished_at"`
	Workers    int       `yaml:"workers" json:"workers"`

	Total        int `yaml:"total" json:"total"`
	Succeeded    int `yaml:"succeeded" json:"succeeded"`
	Failed       int `yaml:"failed" json:"failed"`
	Skipped      int `yaml:"skipped" json:"skipped"`
	BoxesIn      int `yaml:"boxes_in" json:"boxes_in"`
	BoxesOut     int `yaml:"boxes_out" json:"boxes_out"`
	NotConverged int `yaml:"not_converged" json:"not_converged"`

	// Methods counts successful files per reading order mode.
	Methods map[string]int `yaml:"methods,omitempty" json:"methods,omitempty"`

	Files []Status `yaml:"files" json:"files"`
}

// HasFailures reports whether any file failed.
func (s *Summary) HasFailures() bool {
	return s.Failed > 0
}

// Failures returns the failed statuses in file order.
func (s *Summary) Failures() []Status {
	var failed []Status
	for _, st := range s.Files {
		if st.State == StateFailed {
			failed = append(failed, st)
		}
	}
	return failed
}

// Runner processes files concurrently.
type Runner struct {
	Workers   int
	Operation string
	Logger    *slog.Logger
}

// Run processes every file with fn using at most Workers goroutines at a
// time. Files not started before ctx is canceled are marked failed.
func (r *Runner) Run(ctx context.Context, dir string, files []string, fn func(path string) Status) *Summary {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	started := time.Now()

	logger.Info("Starting batch run", "operation", r.Operation, "directory", dir, "files", len(files), "workers", workers)

	store := NewStatusStore()
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i, file := range files {
		wg.Add(1)
		go func(idx int, file string) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			if err := ctx.Err(); err != nil {
				store.Set(Status{File: file, State: StateFailed, Reason: ReasonCanceled, Error: err.Error()})
				return
			}

			logger.Debug("Processing file", "file", file, "progress", fmt.Sprintf("%d/%d", idx+1, len(files)))
			status := fn(file)
			status.File = file
			store.Set(status)

			if status.State == StateFailed {
				logger.Error("File failed", "file", file, "reason", status.Reason, "error", status.Error)
			}
		}(i, file)
	}

	wg.Wait()

	summary := Summarize(store.All())
	summary.RunID = runID
	summary.Operation = r.Operation
	summary.Directory = dir
	summary.Workers = workers
	summary.StartedAt = started
	summary.FinishedAt = time.Now()

	logger.Info("Batch run finished",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"duration", summary.FinishedAt.Sub(started).Round(time.Millisecond))

	return summary
}

// Summarize aggregates statuses into a Summary.
func Summarize(statuses []Status) *Summary {
	summary := &Summary{
		Total:   len(statuses),
		Methods: make(map[string]int),
		Files:   statuses,
	}
	sort.Slice(summary.Files, func(i, j int) bool {
		return summary.Files[i].File < summary.Files[j].File
	})

	for _, st := range statuses {
		switch st.State {
		case StateSuccess:
			summary.Succeeded++
			summary.BoxesIn += st.BoxesIn
			summary.BoxesOut += st.BoxesOut
			if st.Method != "" {
				summary.Methods[st.Method]++
			}
			if !st.Converged {
				summary.NotConverged++
			}
		case StateSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	return summary
}
