package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Harwood/PropertyScraper/internal/database"
	"github.com/Harwood/PropertyScraper/internal/model"
	"github.com/Harwood/PropertyScraper/internal/pipeline"
)

// SimpleWriter outputs human-readable text.
// This format is designed for terminal display with aligned field names
// and clear section separators.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether fields with no value are shown.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show fields with no value.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteListing outputs one stored listing in human-readable format.
func (w *SimpleWriter) WriteListing(row *database.ListingRow) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Listing:    %s\n", row.URL))
	if !row.ScrapedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Scraped at: %s\n", row.ScrapedAt.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	width := fieldNameWidth(row.Fields)
	for _, f := range row.Fields {
		if !hasText(f.Value) && !w.showEmpty {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-*s  %s\n", width+1, f.Name+":", valueText(f.Value)))
	}

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// WriteRun outputs the run summary in human-readable format.
func (w *SimpleWriter) WriteRun(run *pipeline.RunReport) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SCRAPE RUN SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  Status:   %s\n", statusText(run.Status)))
	sb.WriteString(fmt.Sprintf("  URLs:     %d\n", run.TotalURLs))
	sb.WriteString(fmt.Sprintf("  Stored:   %d\n", run.Stored))
	sb.WriteString(fmt.Sprintf("  Skipped:  %d\n", run.Skipped))
	if run.HaltedAt != "" {
		sb.WriteString(fmt.Sprintf("  Halted:   %s\n", run.HaltedAt))
	}
	sb.WriteString(fmt.Sprintf("  Elapsed:  %s\n", run.Elapsed.Round(time.Millisecond)))

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// statusText renders a run status for display.
func statusText(s pipeline.Status) string {
	switch s {
	case pipeline.StatusCompleted:
		return "Complete"
	case pipeline.StatusThrottled:
		return "HALTED - target is throttling requests"
	case pipeline.StatusNoURLs:
		return "No URLs to scrape"
	default:
		return string(s)
	}
}

// fieldNameWidth returns the width of the longest field name, for alignment.
func fieldNameWidth(fields []model.RecordField) int {
	width := 0
	for _, f := range fields {
		if len(f.Name) > width {
			width = len(f.Name)
		}
	}
	return width
}

// hasText reports whether the value renders to something worth printing.
func hasText(v model.Value) bool {
	switch v.Kind() {
	case model.KindAbsent, model.KindNull:
		return false
	case model.KindString:
		return v.Str() != ""
	default:
		return true
	}
}

// valueText renders a value for terminal display.
func valueText(v model.Value) string {
	if !hasText(v) {
		return "-"
	}
	return v.Text()
}
