package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/Harwood/PropertyScraper/internal/database"
	"github.com/Harwood/PropertyScraper/internal/model"
	"github.com/Harwood/PropertyScraper/internal/pipeline"
)

// JSONWriter outputs listings and run summaries in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// listingJSON is the serialized form of one stored listing.
// Field values are flattened into a single document for easy consumption.
type listingJSON struct {
	URL       string         `json:"url"`
	ScrapedAt *time.Time     `json:"scraped_at,omitempty"`
	Fields    map[string]any `json:"fields"`
}

// runJSON is the serialized form of a run summary.
type runJSON struct {
	Status    pipeline.Status `json:"status"`
	TotalURLs int             `json:"total_urls"`
	Stored    int             `json:"stored"`
	Skipped   int             `json:"skipped"`
	HaltedAt  string          `json:"halted_at,omitempty"`
	ElapsedMS int64           `json:"elapsed_ms"`
	Results   []runResultJSON `json:"results"`
}

// runResultJSON is the serialized per-URL outcome.
type runResultJSON struct {
	URL    string `json:"url"`
	Stored bool   `json:"stored"`
	Error  string `json:"error,omitempty"`
}

// WriteListing outputs one stored listing in JSON format.
func (w *JSONWriter) WriteListing(row *database.ListingRow) (int, error) {
	out := listingJSON{
		URL:    row.URL,
		Fields: make(map[string]any, len(row.Fields)),
	}
	if !row.ScrapedAt.IsZero() {
		t := row.ScrapedAt
		out.ScrapedAt = &t
	}
	for _, f := range row.Fields {
		out.Fields[f.Name] = valueJSON(f.Value)
	}

	return w.writeJSON(out)
}

// WriteRun outputs the run summary in JSON format.
func (w *JSONWriter) WriteRun(run *pipeline.RunReport) (int, error) {
	out := runJSON{
		Status:    run.Status,
		TotalURLs: run.TotalURLs,
		Stored:    run.Stored,
		Skipped:   run.Skipped,
		HaltedAt:  run.HaltedAt,
		ElapsedMS: run.Elapsed.Milliseconds(),
		Results:   make([]runResultJSON, 0, len(run.Scrapes)),
	}
	for _, s := range run.Scrapes {
		out.Results = append(out.Results, runResultJSON{
			URL:    s.URL,
			Stored: s.Stored,
			Error:  s.ErrorMessage,
		})
	}

	return w.writeJSON(out)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// valueJSON converts a field value to its JSON representation.
// Absent and null both serialize as JSON null.
func valueJSON(v model.Value) any {
	switch v.Kind() {
	case model.KindString:
		return v.Str()
	case model.KindNumber:
		return v.Num()
	case model.KindBool:
		return v.Boolean()
	default:
		return nil
	}
}
