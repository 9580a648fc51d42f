package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docsynth/layoutfix/internal/batch"
)

func sampleSummary() *batch.Summary {
	summary := batch.Summarize([]batch.Status{
		{File: "pages/b.txt", State: batch.StateSuccess, Method: "column_aware", BoxesIn: 5, BoxesOut: 7, Iterations: 2, Converged: true},
		{File: "pages/a.txt", State: batch.StateSuccess, Method: "simple", BoxesIn: 3, BoxesOut: 3, Converged: false},
		{File: "pages/c.txt", State: batch.StateFailed, Reason: batch.ReasonWriteError, Error: "permission denied"},
		{File: "pages/d.txt", State: batch.StateSkipped, Reason: batch.ReasonNoBoxes},
	})
	summary.RunID = "run-1"
	summary.Operation = "run"
	summary.StartedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	summary.FinishedAt = summary.StartedAt.Add(time.Second)
	return summary
}

func TestSummarizeCounts(t *testing.T) {
	s := sampleSummary()
	if s.Succeeded != 2 || s.Failed != 1 || s.Skipped != 1 {
		t.Errorf("Expected 2/1/1, got %d/%d/%d", s.Succeeded, s.Failed, s.Skipped)
	}
	if s.BoxesIn != 8 || s.BoxesOut != 10 {
		t.Errorf("Expected boxes 8 -> 10, got %d -> %d", s.BoxesIn, s.BoxesOut)
	}
	if s.NotConverged != 1 {
		t.Errorf("Expected 1 not converged, got %d", s.NotConverged)
	}
	if s.Files[0].File != "pages/a.txt" {
		t.Errorf("Expected files sorted, first is %s", s.Files[0].File)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.yaml")
	want := sampleSummary()

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.RunID != want.RunID || got.Total != want.Total || got.Failed != want.Failed {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("Expected start %v, got %v", want.StartedAt, got.StartedAt)
	}
	if got.Methods["column_aware"] != 1 || got.Methods["simple"] != 1 {
		t.Errorf("Expected method counts to survive, got %v", got.Methods)
	}
	if len(got.Files) != 4 || got.Files[2].Error != "permission denied" {
		t.Errorf("Expected per-file statuses to survive, got %+v", got.Files)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("Expected error for missing summary")
	}
}

func TestPrintText(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, sampleSummary(), "text"); err != nil {
		t.Fatalf("Print: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Succeeded:      2",
		"column_aware: 1",
		"pages/c.txt: write_error (permission denied)",
		"pages/a.txt: success (3 -> 3 boxes, simple, not converged)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, sampleSummary(), "json"); err != nil {
		t.Fatalf("Print: %v", err)
	}

	var decoded batch.Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if decoded.Total != 4 {
		t.Errorf("Expected 4 files, got %d", decoded.Total)
	}
}

func TestPrintCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, sampleSummary(), "csv"); err != nil {
		t.Fatalf("Print: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("Expected header plus 4 rows, got %d", len(records))
	}
	if records[0][0] != "File" {
		t.Errorf("Expected header row, got %v", records[0])
	}
	if records[3][1] != "failed" || records[3][2] != "write_error" {
		t.Errorf("Expected failed row for c.txt, got %v", records[3])
	}
}

func TestPrintUnsupported(t *testing.T) {
	if err := Print(&bytes.Buffer{}, sampleSummary(), "xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
