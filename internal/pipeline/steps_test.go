package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Harwood/PropertyScraper/internal/config"
	"github.com/Harwood/PropertyScraper/internal/database"
	"github.com/Harwood/PropertyScraper/internal/extractor"
	"github.com/Harwood/PropertyScraper/internal/fetcher"
	"github.com/Harwood/PropertyScraper/internal/model"
)

// testListingPage is a stripped-down listing page with the embedded
// bootstrap data payload in the shape the extractor expects.
const testListingPage = `<!DOCTYPE html>
<html>
<head><title>Sunny Loft - Homes for Rent</title>
<script type="application/json"><!--{"layout":"web"}--></script>
</head>
<body>
<div id="room"></div>
<script type="application/json"><!--{
	"bootstrapData": {
		"listing": {
			"name": "Sunny Loft",
			"localized_city": "Lisbon",
			"review_details_interface": {"review_score": 96, "review_count": 128},
			"listing_amenities": [
				{"name": "Wifi", "is_present": true},
				{"name": "Pool", "is_present": false},
				{"name": "Kitchen", "is_present": true}
			]
		}
	}
}--></script>
</body>
</html>`

func testStepFields() []config.FieldSpec {
	return []config.FieldSpec{
		{Name: "name", Path: "name"},
		{Name: "market", Path: "localized_city"},
		{Name: "score", Path: "review_details_interface.review_score", Type: config.ColumnNumeric},
		{Name: "amenities", Path: "listing_amenities", Pick: "name", Filter: "is_present"},
	}
}

func TestScrapePipelineEndToEnd(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testListingPage))
	}))
	defer server.Close()

	fields := testStepFields()
	db, err := database.Open(filepath.Join(t.TempDir(), "listings.db"), fields, database.DefaultOptions())
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	p := New()
	p.AddSteps(
		NewFetchStep(fetcher.New(server.Client())),
		NewExtractStep(extractor.New()),
		NewResolveStep(fields),
		NewStoreStep(db),
	)

	ctx := context.Background()
	scrape := NewScrape(server.URL + "/rooms/12345")
	if err := p.Execute(ctx, scrape); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !scrape.Stored {
		t.Error("Stored = false, want true")
	}
	if scrape.Record == nil {
		t.Fatal("Record = nil after successful run")
	}
	if got := scrape.Record.Get("name").Str(); got != "Sunny Loft" {
		t.Errorf("name = %q, want %q", got, "Sunny Loft")
	}
	if got := scrape.Record.Get("amenities").Str(); got != "Wifi,Kitchen" {
		t.Errorf("amenities = %q, want %q", got, "Wifi,Kitchen")
	}

	row, err := db.GetListing(ctx, scrape.URL)
	if err != nil {
		t.Fatalf("GetListing() error = %v", err)
	}
	if row == nil {
		t.Fatal("listing not found in database after store step")
	}
	for _, f := range row.Fields {
		if f.Name == "score" && f.Value.Num() != 96 {
			t.Errorf("stored score = %v, want 96", f.Value.Num())
		}
	}
}

func TestFetchStepThrottledStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	step := NewFetchStep(fetcher.New(server.Client()))
	scrape := NewScrape(server.URL + "/rooms/1")

	err := step.Do(context.Background(), scrape)
	if !errors.Is(err, fetcher.ErrThrottled) {
		t.Fatalf("Do() error = %v, want fetcher.ErrThrottled", err)
	}
}

func TestExtractStepNoEmbeddedData(t *testing.T) {
	t.Parallel()

	step := NewExtractStep(extractor.New())
	scrape := NewScrape("https://www.airbnb.com/rooms/1")
	scrape.Page = fetcher.Page{
		URL:        scrape.URL,
		StatusCode: http.StatusOK,
		Body:       []byte(`<html><body><p>nothing here</p></body></html>`),
	}

	err := step.Do(context.Background(), scrape)
	if !errors.Is(err, extractor.ErrNoEmbeddedData) {
		t.Fatalf("Do() error = %v, want extractor.ErrNoEmbeddedData", err)
	}
}

func TestStoreStepWrapsStorageFailure(t *testing.T) {
	t.Parallel()

	db, err := database.Open(filepath.Join(t.TempDir(), "listings.db"), testStepFields(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	step := NewStoreStep(db)
	scrape := NewScrape("https://www.airbnb.com/rooms/1")
	// Record deliberately left nil to force a storage error.
	errDo := step.Do(context.Background(), scrape)
	if !errors.Is(errDo, ErrStorageFailure) {
		t.Fatalf("Do() error = %v, want ErrStorageFailure", errDo)
	}
	if scrape.Stored {
		t.Error("Stored = true after failed store")
	}
}

func TestResolveStepMissingPathStillProducesRecord(t *testing.T) {
	t.Parallel()

	doc, err := model.FromJSON([]byte(`{"name": "Sunny Loft"}`))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}

	step := NewResolveStep(testStepFields())
	scrape := NewScrape("https://www.airbnb.com/rooms/1")
	scrape.Document = doc

	if err := step.Do(context.Background(), scrape); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if scrape.Record == nil {
		t.Fatal("Record = nil")
	}
	if got := scrape.Record.Get("market").Kind(); got != model.KindAbsent {
		t.Errorf("market kind = %v, want absent", got)
	}
}
