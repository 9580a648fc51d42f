package boxfile

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/docsynth/layoutfix/internal/box"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    box.Box
		wantErr bool
	}{
		{
			name: "bare tokens",
			line: "[paragraph, [100, 50, 300, 200], 12, 7]",
			want: box.Box{Label: "paragraph", Rect: box.Rect{X: 100, Y: 50, Width: 300, Height: 200}, ID: "12", ImageID: "7"},
		},
		{
			name: "quoted tokens and decimals",
			line: `  ['section-title', [10.5, 20.25, 30, 40.125], "a1", '99']  `,
			want: box.Box{Label: "section-title", Rect: box.Rect{X: 10.5, Y: 20.25, Width: 30, Height: 40.125}, ID: "a1", ImageID: "99"},
		},
		{
			name: "fill id",
			line: "[header, [0, 0, 10, 10], 3_fill, 7]",
			want: box.Box{Label: "header", Rect: box.Rect{Width: 10, Height: 10}, ID: "3_fill", ImageID: "7"},
		},
		{name: "three coordinates", line: "[paragraph, [1, 2, 3], 1, 7]", wantErr: true},
		{name: "non numeric", line: "[paragraph, [1, two, 3, 4], 1, 7]", wantErr: true},
		{name: "negative width", line: "[paragraph, [1, 2, -3, 4], 1, 7]", wantErr: true},
		{name: "missing image id", line: "[paragraph, [1, 2, 3, 4], 1]", wantErr: true},
		{name: "garbage", line: "hello world", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Errorf("Expected *ParseError, got %T", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseErrorTruncatesOnRuneBoundary(t *testing.T) {
	err := &ParseError{Line: 3, Text: strings.Repeat("é", 60), Reason: "bad geometry"}
	msg := err.Error()

	if !utf8.ValidString(msg) {
		t.Errorf("Expected valid UTF-8, got %q", msg)
	}
	if !strings.Contains(msg, strings.Repeat("é", 50)+"...") {
		t.Errorf("Expected 50 runes then ellipsis, got %s", msg)
	}
	if strings.Contains(msg, strings.Repeat("é", 51)) {
		t.Errorf("Expected text cut at 50 runes, got %s", msg)
	}
}

func TestParseDimensions(t *testing.T) {
	d, err := ParseDimensions("[1024, 768]")
	if err != nil {
		t.Fatalf("ParseDimensions: %v", err)
	}
	if d.Height != 1024 || d.Width != 768 {
		t.Errorf("Expected 1024x768, got %vx%v", d.Height, d.Width)
	}
	if !d.Valid() {
		t.Error("Expected valid dimensions")
	}

	d, err = ParseDimensions("size unknown")
	var derr *DimensionsError
	if !errors.As(err, &derr) {
		t.Fatalf("Expected *DimensionsError, got %v", err)
	}
	if d.Raw != "size unknown" {
		t.Errorf("Expected raw line kept, got %q", d.Raw)
	}
}

func TestReadSkipsMalformedLine(t *testing.T) {
	var lines []string
	lines = append(lines, "[1000, 800]")
	for i := 0; i < 9; i++ {
		if i == 4 {
			lines = append(lines, "[paragraph, [oops], broken")
		}
		lines = append(lines, FormatLine(box.Box{
			Label:   "paragraph",
			Rect:    box.Rect{X: 10, Y: float64(i * 60), Width: 200, Height: 50},
			ID:      string(rune('a' + i)),
			ImageID: "7",
		}))
	}

	var logs bytes.Buffer
	reader := NewReader(slog.New(slog.NewTextHandler(&logs, nil)))

	page, err := reader.Read(strings.NewReader(strings.Join(lines, "\n")), "page.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(page.Boxes) != 9 {
		t.Errorf("Expected 9 boxes, got %d", len(page.Boxes))
	}
	if len(page.Skipped) != 1 {
		t.Fatalf("Expected 1 skipped line, got %d", len(page.Skipped))
	}
	if page.Skipped[0].Line != 6 {
		t.Errorf("Expected skipped line 6, got %d", page.Skipped[0].Line)
	}
	if !strings.Contains(logs.String(), "Skipping malformed line") {
		t.Errorf("Expected skip to be logged, got %q", logs.String())
	}
}

func TestReadEmptyInput(t *testing.T) {
	reader := NewReader(slog.New(slog.NewTextHandler(io.Discard, nil)))

	for name, input := range map[string]string{
		"no lines":        "",
		"dimensions only": "[1000, 800]\n\n",
	} {
		_, err := reader.Read(strings.NewReader(input), name)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("%s: expected ErrEmptyInput, got %v", name, err)
		}
	}
}

func TestWriteFileKeepsDimensionsVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.txt")
	original := "[ 1000 ,800 ]\n[text, [1, 2, 3, 4], 1, 7]\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	reader := NewReader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	page, err := reader.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if err := WriteFile(path, page.Dimensions, page.Boxes); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[ 1000 ,800 ]\n[text, [1, 2, 3, 4], 1, 7]\n"
	if string(data) != want {
		t.Errorf("Expected %q, got %q", want, string(data))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected temp file to be cleaned up, found %d entries", len(entries))
	}
}

func TestRoundTrip(t *testing.T) {
	boxes := []box.Box{
		{Label: "header", Rect: box.Rect{X: 0, Y: 0, Width: 500, Height: 80.5}, ID: "1", ImageID: "3"},
		{Label: "paragraph", Rect: box.Rect{X: 20, Y: 100, Width: 460, Height: 300}, ID: "2_fill", ImageID: "3"},
	}

	var buf bytes.Buffer
	if err := Write(&buf, Dimensions{Height: 600, Width: 500}, boxes); err != nil {
		t.Fatalf("Write: %v", err)
	}

	page, err := NewReader(slog.New(slog.NewTextHandler(io.Discard, nil))).Read(&buf, "mem")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if page.Dimensions.Height != 600 || page.Dimensions.Width != 500 {
		t.Errorf("Expected 600x500, got %vx%v", page.Dimensions.Height, page.Dimensions.Width)
	}
	if len(page.Boxes) != len(boxes) {
		t.Fatalf("Expected %d boxes, got %d", len(boxes), len(page.Boxes))
	}
	for i := range boxes {
		if page.Boxes[i] != boxes[i] {
			t.Errorf("Box %d: expected %+v, got %+v", i, boxes[i], page.Boxes[i])
		}
	}
}

func TestBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.txt")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	backupPath, err := Backup(path)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if backupPath != path+".backup" {
		t.Errorf("Expected %s, got %s", path+".backup", backupPath)
	}
	data, _ := os.ReadFile(backupPath)
	if string(data) != "original" {
		t.Errorf("Expected backup content %q, got %q", "original", string(data))
	}
}
