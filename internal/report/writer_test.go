package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Harwood/PropertyScraper/internal/database"
	"github.com/Harwood/PropertyScraper/internal/model"
	"github.com/Harwood/PropertyScraper/internal/pipeline"
)

func testListingRow() *database.ListingRow {
	return &database.ListingRow{
		URL:       "https://www.airbnb.com/rooms/12345",
		ScrapedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		Fields: []model.RecordField{
			{Name: "name", Value: model.String("Sunny Loft")},
			{Name: "score", Value: model.Number(96)},
			{Name: "bath", Value: model.Null()},
			{Name: "amenities", Value: model.String("Wifi,Kitchen")},
		},
	}
}

func testRunReport() *pipeline.RunReport {
	ok := pipeline.NewScrape("https://www.airbnb.com/rooms/1")
	ok.Stored = true
	failed := pipeline.NewScrape("https://www.airbnb.com/rooms/2")
	failed.ErrorMessage = "no embedded listing data in page"

	return &pipeline.RunReport{
		Status:    pipeline.StatusCompleted,
		TotalURLs: 2,
		Stored:    1,
		Skipped:   1,
		Elapsed:   3 * time.Second,
		Scrapes:   []*pipeline.Scrape{ok, failed},
	}
}

func TestSimpleWriterWriteListing(t *testing.T) {
	t.Parallel()

	t.Run("renders fields with values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.WriteListing(testListingRow())
		if err != nil {
			t.Fatalf("WriteListing() error = %v", err)
		}
		if n != buf.Len() {
			t.Errorf("WriteListing() n = %d, buffer has %d bytes", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"https://www.airbnb.com/rooms/12345",
			"Sunny Loft",
			"96",
			"Wifi,Kitchen",
			"2026-08-29",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("hides empty fields by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteListing(testListingRow()); err != nil {
			t.Fatalf("WriteListing() error = %v", err)
		}
		if strings.Contains(buf.String(), "bath") {
			t.Errorf("null field rendered without WithShowEmpty:\n%s", buf.String())
		}
	})

	t.Run("shows empty fields when configured", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true))
		if _, err := w.WriteListing(testListingRow()); err != nil {
			t.Fatalf("WriteListing() error = %v", err)
		}
		if !strings.Contains(buf.String(), "bath") {
			t.Errorf("null field not rendered with WithShowEmpty:\n%s", buf.String())
		}
	})
}

func TestSimpleWriterWriteRun(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewSimpleWriter(&buf).WriteRun(testRunReport()); err != nil {
		t.Fatalf("WriteRun() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"SCRAPE RUN SUMMARY", "Stored:   1", "Skipped:  1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleWriterWriteRunThrottled(t *testing.T) {
	t.Parallel()

	run := testRunReport()
	run.Status = pipeline.StatusThrottled
	run.HaltedAt = "https://www.airbnb.com/rooms/2"

	var buf bytes.Buffer
	if _, err := NewSimpleWriter(&buf).WriteRun(run); err != nil {
		t.Fatalf("WriteRun() error = %v", err)
	}
	if !strings.Contains(buf.String(), "throttling") {
		t.Errorf("throttled run not flagged:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), run.HaltedAt) {
		t.Errorf("halt URL missing:\n%s", buf.String())
	}
}

func TestJSONWriterWriteListing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf).WriteListing(testListingRow()); err != nil {
		t.Fatalf("WriteListing() error = %v", err)
	}

	var got struct {
		URL    string         `json:"url"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if got.URL != "https://www.airbnb.com/rooms/12345" {
		t.Errorf("url = %q", got.URL)
	}
	if got.Fields["name"] != "Sunny Loft" {
		t.Errorf("fields.name = %v", got.Fields["name"])
	}
	if got.Fields["score"] != float64(96) {
		t.Errorf("fields.score = %v", got.Fields["score"])
	}
	if v, ok := got.Fields["bath"]; !ok || v != nil {
		t.Errorf("fields.bath = %v, want explicit null", v)
	}
}

func TestJSONWriterWriteRun(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteRun(testRunReport()); err != nil {
		t.Fatalf("WriteRun() error = %v", err)
	}

	var got struct {
		Status  string `json:"status"`
		Stored  int    `json:"stored"`
		Results []struct {
			URL    string `json:"url"`
			Stored bool   `json:"stored"`
			Error  string `json:"error"`
		} `json:"results"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if got.Status != string(pipeline.StatusCompleted) {
		t.Errorf("status = %q", got.Status)
	}
	if len(got.Results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(got.Results))
	}
	if !got.Results[0].Stored || got.Results[1].Stored {
		t.Errorf("results stored flags = %v, %v", got.Results[0].Stored, got.Results[1].Stored)
	}
	if got.Results[1].Error == "" {
		t.Error("failed result has no error message")
	}
}

func TestMarkdownWriterWriteListing(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).WriteListing(testListingRow()); err != nil {
		t.Fatalf("WriteListing() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"# Listing", "| Field |", "Sunny Loft"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownWriterWriteRun(t *testing.T) {
	t.Parallel()

	t.Run("completed run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRun(testRunReport()); err != nil {
			t.Fatalf("WriteRun() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{"# Scrape Run", "## Results", "mermaid"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("throttled run carries caution alert", func(t *testing.T) {
		t.Parallel()

		run := testRunReport()
		run.Status = pipeline.StatusThrottled
		run.HaltedAt = "https://www.airbnb.com/rooms/2"

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRun(run); err != nil {
			t.Fatalf("WriteRun() error = %v", err)
		}
		if !strings.Contains(buf.String(), "[!CAUTION]") {
			t.Errorf("throttled run missing caution alert:\n%s", buf.String())
		}
	})
}

// failingWriter always fails, for MultiWriter error propagation.
type failingWriter struct{}

func (failingWriter) WriteListing(*database.ListingRow) (int, error) {
	return 0, errors.New("write failed")
}

func (failingWriter) WriteRun(*pipeline.RunReport) (int, error) {
	return 0, errors.New("write failed")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

		if _, err := mw.WriteListing(testListingRow()); err != nil {
			t.Fatalf("WriteListing() error = %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("one of the writers received no output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&buf))

		if _, err := mw.WriteRun(testRunReport()); err == nil {
			t.Fatal("WriteRun() expected error, got nil")
		}
		if buf.Len() != 0 {
			t.Error("later writer ran after earlier writer failed")
		}
	})
}
