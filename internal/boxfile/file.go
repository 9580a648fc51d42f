package boxfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docsynth/layoutfix/internal/box"
)

// Page is one parsed box list file.
type Page struct {
	Dimensions Dimensions
	Boxes      []box.Box

	// Skipped holds the lines that failed to parse, in file order.
	Skipped []*ParseError
}

// Reader parses box list files, logging skipped lines.
type Reader struct {
	Logger *slog.Logger
}

// NewReader creates a Reader; a nil logger uses slog.Default().
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{Logger: logger}
}

func (r *Reader) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// ReadFile parses the box list at path.
func (r *Reader) ReadFile(path string) (*Page, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open box file: %w", err)
	}
	defer file.Close()

	return r.Read(file, filepath.Base(path))
}

// Read parses a box list. Malformed box lines are skipped and recorded in
// Page.Skipped; ErrEmptyInput is returned when no box line is present.
func (r *Reader) Read(in io.Reader, name string) (*Page, error) {
	log := r.logger()
	scanner := bufio.NewScanner(in)

	const maxCapacity = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	page := &Page{}
	lineNum := 0
	sawDimensions := false
	boxLines := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if !sawDimensions {
			if line == "" {
				continue
			}
			sawDimensions = true
			dims, err := ParseDimensions(line)
			if err != nil {
				log.Warn("Unreadable dimensions line, keeping it verbatim", "file", name, "line", lineNum, "error", err)
			}
			page.Dimensions = dims
			continue
		}

		if line == "" {
			continue
		}
		boxLines++

		b, err := ParseLine(line)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Line = lineNum
			} else {
				perr = &ParseError{Line: lineNum, Text: line, Reason: err.Error()}
			}
			page.Skipped = append(page.Skipped, perr)
			log.Warn("Skipping malformed line", "file", name, "line", lineNum, "reason", perr.Reason)
			continue
		}
		page.Boxes = append(page.Boxes, b)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}

	if boxLines == 0 {
		return page, ErrEmptyInput
	}

	log.Debug("Read box file", "file", name, "boxes", len(page.Boxes), "skipped", len(page.Skipped))
	return page, nil
}

// Write renders the dimensions line followed by one line per box.
func Write(w io.Writer, dims Dimensions, boxes []box.Box) error {
	bw := bufio.NewWriter(w)
	if s := dims.String(); s != "" {
		if _, err := fmt.Fprintln(bw, s); err != nil {
			return err
		}
	}
	for _, b := range boxes {
		if _, err := fmt.Fprintln(bw, FormatLine(b)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile replaces path with the given page contents. The new content is
// written to a sibling temp file first and renamed into place.
func WriteFile(path string, dims Dimensions, boxes []box.Box) error {
	var buf bytes.Buffer
	if err := Write(&buf, dims, boxes); err != nil {
		return fmt.Errorf("failed to render box file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write box file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write box file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace box file: %w", err)
	}
	return nil
}

// Backup copies path to path+".backup", overwriting an older backup.
func Backup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for backup: %w", path, err)
	}
	backupPath := path + ".backup"
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return backupPath, nil
}
