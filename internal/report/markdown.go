package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/Harwood/PropertyScraper/internal/database"
	"github.com/Harwood/PropertyScraper/internal/pipeline"
)

// MarkdownWriter outputs listings and run summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteListing outputs one stored listing in Markdown format.
func (w *MarkdownWriter) WriteListing(row *database.ListingRow) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Listing")
	md.PlainText("")

	rows := make([][]string, 0, len(row.Fields)+2)
	rows = append(rows, []string{"url", "`" + row.URL + "`"})
	if !row.ScrapedAt.IsZero() {
		rows = append(rows, []string{"scraped_at", row.ScrapedAt.Format("2006-01-02 15:04:05 MST")})
	}
	for _, f := range row.Fields {
		rows = append(rows, []string{f.Name, valueText(f.Value)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// WriteRun outputs the run summary in Markdown format.
func (w *MarkdownWriter) WriteRun(run *pipeline.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Scrape Run")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Status", markdownStatusText(run.Status)},
			{"URLs", strconv.Itoa(run.TotalURLs)},
			{"Stored", strconv.Itoa(run.Stored)},
			{"Skipped", strconv.Itoa(run.Skipped)},
			{"Elapsed", run.Elapsed.String()},
		},
	})
	md.PlainText("")

	if run.Stored > 0 || run.Skipped > 0 {
		w.writePieChart(md, run)
	}

	w.writeAlert(md, run)

	if len(run.Scrapes) > 0 {
		w.writeResults(md, run)
	}

	return len(md.String()), md.Build()
}

// markdownStatusText renders a run status with a visual marker.
func markdownStatusText(s pipeline.Status) string {
	switch s {
	case pipeline.StatusCompleted:
		return "✅ Complete"
	case pipeline.StatusThrottled:
		return "⚠️ Halted (throttled)"
	case pipeline.StatusNoURLs:
		return "ℹ️ No URLs"
	default:
		return string(s)
	}
}

// writePieChart writes a mermaid pie chart of the run's outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, run *pipeline.RunReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Scrape Outcomes"),
		piechart.WithShowData(true),
	)

	if run.Stored > 0 {
		chart.LabelAndIntValue("Stored", uint64(run.Stored))
	}
	if run.Skipped > 0 {
		chart.LabelAndIntValue("Skipped", uint64(run.Skipped))
	}
	if remaining := run.TotalURLs - run.Stored - run.Skipped; remaining > 0 {
		chart.LabelAndIntValue("Not attempted", uint64(remaining))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, run *pipeline.RunReport) {
	switch {
	case run.Status == pipeline.StatusThrottled:
		md.Cautionf(
			"The target started throttling requests at `%s`. %d URL(s) were not attempted; retry later with a longer delay.",
			run.HaltedAt, run.TotalURLs-len(run.Scrapes),
		)
	case run.Skipped > 0:
		md.Warningf(
			"%d listing(s) could not be scraped and were skipped.",
			run.Skipped,
		)
	case run.Stored > 0:
		md.Tip(fmt.Sprintf("All %d listing(s) stored successfully.", run.Stored))
	default:
		md.Note("Nothing was scraped.")
	}
	md.PlainText("")
}

// writeResults writes the per-URL outcome table.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, run *pipeline.RunReport) {
	md.H2("Results")
	md.PlainText("")

	rows := make([][]string, len(run.Scrapes))
	for i, s := range run.Scrapes {
		outcome := "stored"
		detail := "-"
		if !s.Stored {
			outcome = "failed"
			detail = truncateString(s.ErrorMessage, 60)
		}
		rows[i] = []string{"`" + s.URL + "`", outcome, detail}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Outcome", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
