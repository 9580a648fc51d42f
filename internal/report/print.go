// Package report renders batch summaries for people (text) and tools
// (json, csv), and persists them as YAML.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/docsynth/layoutfix/internal/batch"
)

// Formats accepted by Print.
var Formats = []string{"text", "json", "csv"}

// Print writes the summary in the given format.
func Print(w io.Writer, summary *batch.Summary, format string) error {
	switch format {
	case "text", "":
		return printText(w, summary)
	case "json":
		return printJSON(w, summary)
	case "csv":
		return printCSV(w, summary)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintSummary writes the aggregate counts without per-file detail.
func PrintSummary(w io.Writer, summary *batch.Summary) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Layout Batch Summary")
	fmt.Fprintln(w, "========================================")
	if summary.Operation != "" {
		fmt.Fprintf(w, "Operation:      %s\n", summary.Operation)
	}
	if summary.RunID != "" {
		fmt.Fprintf(w, "Run ID:         %s\n", summary.RunID)
	}
	fmt.Fprintf(w, "Total Files:    %d\n", summary.Total)
	fmt.Fprintf(w, "Succeeded:      %d\n", summary.Succeeded)
	fmt.Fprintf(w, "Failed:         %d\n", summary.Failed)
	fmt.Fprintf(w, "Skipped:        %d\n", summary.Skipped)
	fmt.Fprintf(w, "Boxes In:       %d\n", summary.BoxesIn)
	fmt.Fprintf(w, "Boxes Out:      %d\n", summary.BoxesOut)
	if summary.NotConverged > 0 {
		fmt.Fprintf(w, "Not Converged:  %d\n", summary.NotConverged)
	}

	if len(summary.Methods) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Methods:")
		var methods []string
		for m := range summary.Methods {
			methods = append(methods, m)
		}
		sort.Strings(methods)
		for _, m := range methods {
			fmt.Fprintf(w, "  %s: %d\n", m, summary.Methods[m])
		}
	}

	if failures := summary.Failures(); len(failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failures:")
		for _, f := range failures {
			fmt.Fprintf(w, "  %s: %s", f.File, f.Reason)
			if f.Error != "" {
				fmt.Fprintf(w, " (%s)", truncate(f.Error, 80))
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w, "========================================")
}

func printText(w io.Writer, summary *batch.Summary) error {
	PrintSummary(w, summary)

	fmt.Fprintln(w, "\nFiles:")
	for i, f := range summary.Files {
		fmt.Fprintf(w, "[%d] %s: %s", i+1, f.File, f.State)
		switch f.State {
		case batch.StateSuccess:
			fmt.Fprintf(w, " (%d -> %d boxes", f.BoxesIn, f.BoxesOut)
			if f.Method != "" {
				fmt.Fprintf(w, ", %s", f.Method)
			}
			if !f.Converged {
				fmt.Fprint(w, ", not converged")
			}
			fmt.Fprint(w, ")")
		default:
			if f.Reason != "" {
				fmt.Fprintf(w, " (%s)", f.Reason)
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}

func printJSON(w io.Writer, summary *batch.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

func printCSV(w io.Writer, summary *batch.Summary) error {
	writer := csv.NewWriter(w)

	header := []string{"File", "State", "Reason", "Method", "Boxes In", "Boxes Out", "Skipped Lines", "Iterations", "Converged", "Error"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, f := range summary.Files {
		row := []string{
			f.File,
			string(f.State),
			f.Reason,
			f.Method,
			strconv.Itoa(f.BoxesIn),
			strconv.Itoa(f.BoxesOut),
			strconv.Itoa(f.SkippedLines),
			strconv.Itoa(f.Iterations),
			strconv.FormatBool(f.Converged),
			f.Error,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
