package extractor

import (
	"errors"
	"testing"

	"github.com/Harwood/PropertyScraper/internal/model"
)

// page wraps a payload in the markup listing pages use.
func page(payloads ...string) []byte {
	body := "<!DOCTYPE html><html><head><title>t</title></head><body>"
	for _, p := range payloads {
		body += `<script type="application/json">` + p + `</script>`
	}
	body += "</body></html>"
	return []byte(body)
}

// TestExtract tests locating and parsing the embedded listing document.
func TestExtract(t *testing.T) {
	t.Parallel()

	e := New()

	t.Run("extracts comment-wrapped payload", func(t *testing.T) {
		t.Parallel()

		doc, err := e.Extract(page(`<!--{"bootstrapData":{"listing":{"name":"Cozy cottage","market":"Lisbon"}}}-->`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := doc.Field("name").Str(); got != "Cozy cottage" {
			t.Errorf("name = %q", got)
		}
		if got := doc.Field("market").Str(); got != "Lisbon" {
			t.Errorf("market = %q", got)
		}
	})

	t.Run("extracts bare payload without comment wrapper", func(t *testing.T) {
		t.Parallel()

		doc, err := e.Extract(page(`{"bootstrapData":{"listing":{"name":"Loft"}}}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := doc.Field("name").Str(); got != "Loft" {
			t.Errorf("name = %q", got)
		}
	})

	t.Run("skips payloads without the listing root", func(t *testing.T) {
		t.Parallel()

		doc, err := e.Extract(page(
			`{"tracking":{"id":1}}`,
			`<!--{"bootstrapData":{"listing":{"name":"Second wins"}}}-->`,
		))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := doc.Field("name").Str(); got != "Second wins" {
			t.Errorf("name = %q", got)
		}
	})

	t.Run("page without marker yields ErrNoEmbeddedData", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract([]byte(`<html><body><h1>No data here</h1></body></html>`))
		if !errors.Is(err, ErrNoEmbeddedData) {
			t.Errorf("expected ErrNoEmbeddedData, got %v", err)
		}
	})

	t.Run("payloads present but listing root missing yields ErrNoEmbeddedData", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page(`{"bootstrapData":{"headerParams":{}}}`))
		if !errors.Is(err, ErrNoEmbeddedData) {
			t.Errorf("expected ErrNoEmbeddedData, got %v", err)
		}
	})

	t.Run("unparseable payloads yield ErrMalformedData", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page(`<!--{"bootstrapData":{-->`))
		if !errors.Is(err, ErrMalformedData) {
			t.Errorf("expected ErrMalformedData, got %v", err)
		}
	})

	t.Run("empty script elements are ignored", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract(page(``, `   `))
		if !errors.Is(err, ErrNoEmbeddedData) {
			t.Errorf("expected ErrNoEmbeddedData, got %v", err)
		}
	})
}

// TestExtractWithRootPath tests overriding the payload root path.
func TestExtractWithRootPath(t *testing.T) {
	t.Parallel()

	e := New(WithRootPath(model.MustParseFieldPath("state.property")))

	doc, err := e.Extract(page(`{"state":{"property":{"name":"Custom root"}}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Field("name").Str(); got != "Custom root" {
		t.Errorf("name = %q", got)
	}
}
