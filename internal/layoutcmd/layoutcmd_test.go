package layoutcmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/docsynth/layoutfix/internal/boxfile"
	"github.com/docsynth/layoutfix/internal/export"
	"github.com/docsynth/layoutfix/internal/report"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

const gridPage = `[1000, 800]
[paragraph, [200, 0, 100, 50], B, 7]
[paragraph, [0, 60, 100, 50], C, 7]
[paragraph, [0, 0, 100, 50], A, 7]
[paragraph, [200, 60, 100, 50], D, 7]
`

const overlapPage = `[1000, 800]
[paragraph, [100, 50, 300, 200], A, 7]
[paragraph, [120, 80, 200, 150], B, 7]
`

func writePage(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readIDs(t *testing.T, path string) string {
	t.Helper()
	page, err := boxfile.NewReader(nil).ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	ids := make([]string, len(page.Boxes))
	for i, b := range page.Boxes {
		ids[i] = b.ID
	}
	return strings.Join(ids, ",")
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page.txt", overlapPage)
	summaryPath := filepath.Join(t.TempDir(), "summary.yaml")

	out, err := execute(t, NewRunCmd(), dir, "--cores", "2", "--summary", summaryPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Succeeded:      1") {
		t.Errorf("Expected summary in output, got:\n%s", out)
	}

	if _, err := os.Stat(path + ".backup"); err != nil {
		t.Errorf("Expected backup file: %v", err)
	}

	summary, err := report.Load(summaryPath)
	if err != nil {
		t.Fatalf("Load summary: %v", err)
	}
	if summary.Operation != "run" || summary.Succeeded != 1 {
		t.Errorf("Unexpected summary %+v", summary)
	}
	if summary.Methods["column_aware"] != 1 {
		t.Errorf("Expected column_aware method count, got %v", summary.Methods)
	}

	if ids := readIDs(t, path); !strings.Contains(ids, "B_fill") {
		t.Errorf("Expected B to win its overlap, got %s", ids)
	}
}

func TestOrderCommandUsesEnvironmentMode(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page.txt", gridPage)

	t.Setenv("LAYOUTFIX_MODE", "simple")
	if _, err := execute(t, NewOrderCmd(), dir, "--no-backup"); err != nil {
		t.Fatalf("order: %v", err)
	}

	if got := readIDs(t, path); got != "A,B,C,D" {
		t.Errorf("Expected A,B,C,D, got %s", got)
	}
	if _, err := os.Stat(path + ".backup"); !os.IsNotExist(err) {
		t.Error("Expected no backup with --no-backup")
	}
}

func TestOrderFlagOverridesEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page.txt", gridPage)

	t.Setenv("LAYOUTFIX_MODE", "simple")
	if _, err := execute(t, NewOrderCmd(), dir, "--mode", "column_aware"); err != nil {
		t.Fatalf("order: %v", err)
	}

	if got := readIDs(t, path); got != "A,C,B,D" {
		t.Errorf("Expected A,C,B,D, got %s", got)
	}
}

func TestOrderRejectsUnknownMode(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "page.txt", gridPage)

	if _, err := execute(t, NewOrderCmd(), dir, "--mode", "spiral"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestResolveReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "good.txt", overlapPage)
	writePage(t, dir, "bad.txt", overlapPage)
	// A directory where the backup should go makes the backup fail.
	if err := os.Mkdir(filepath.Join(dir, "bad.txt.backup"), 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, NewResolveCmd(), dir)
	if err == nil {
		t.Fatal("Expected error when a file fails")
	}
	if !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Errorf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "backup_error") {
		t.Errorf("Expected failure reason in output, got:\n%s", out)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "good.txt.backup")); statErr != nil {
		t.Errorf("Expected good.txt to be processed: %v", statErr)
	}
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "page.txt", gridPage)
	summaryPath := filepath.Join(t.TempDir(), "summary.yaml")

	if _, err := execute(t, NewOrderCmd(), dir, "--summary", summaryPath); err != nil {
		t.Fatalf("order: %v", err)
	}

	out, err := execute(t, NewReportCmd(), summaryPath, "--format", "csv")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.HasPrefix(out, "File,State,") {
		t.Errorf("Expected CSV header, got:\n%s", out)
	}
	if !strings.Contains(out, "page.txt,success") {
		t.Errorf("Expected success row, got:\n%s", out)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "page.txt", overlapPage)
	output := filepath.Join(dir, "page.pdf")

	if _, err := execute(t, NewRenderCmd(), path, "--order", "-o", output); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Expected PDF output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Expected PDF header")
	}
	if string(mustRead(t, path)) != overlapPage {
		t.Error("Expected render to leave the input untouched")
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "a.txt", gridPage)
	writePage(t, dir, "b.txt", overlapPage)
	writePage(t, dir, "empty.txt", "[10, 10]\n")

	parquetPath := filepath.Join(t.TempDir(), "boxes.parquet")
	if _, err := execute(t, NewExportCmd(), dir, "--format", "parquet", "-o", parquetPath); err != nil {
		t.Fatalf("export parquet: %v", err)
	}
	rows, err := export.ReadParquet(parquetPath)
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}
	if len(rows) != 6 {
		t.Errorf("Expected 6 rows, got %d", len(rows))
	}

	hocrPath := filepath.Join(t.TempDir(), "layouts.hocr")
	if _, err := execute(t, NewExportCmd(), dir, "--format", "hocr", "-o", hocrPath); err != nil {
		t.Fatalf("export hocr: %v", err)
	}
	file, err := os.Open(hocrPath)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	pages, err := export.ReadHOCR(file)
	if err != nil {
		t.Fatalf("ReadHOCR: %v", err)
	}
	if len(pages) != 2 || pages[0].Name != "a.txt" {
		t.Errorf("Expected pages a.txt and b.txt, got %+v", pages)
	}

	if _, err := execute(t, NewExportCmd(), dir, "--format", "xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
