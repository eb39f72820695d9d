package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Harwood/PropertyScraper/internal/config"
	"github.com/Harwood/PropertyScraper/internal/database"
	"github.com/Harwood/PropertyScraper/internal/extractor"
	"github.com/Harwood/PropertyScraper/internal/fetcher"
	"github.com/Harwood/PropertyScraper/internal/resolver"
)

// ErrStorageFailure wraps database errors raised by the store step.
// A storage failure means the run itself is broken (bad path, locked file,
// full disk), so the driver aborts instead of skipping to the next URL.
var ErrStorageFailure = errors.New("listing storage failed")

// FetchStep downloads the listing page over HTTP.
//
// The fetch step is also where throttling surfaces: the fetcher inspects
// both the response status and the page body, and returns an error
// matching fetcher.ErrThrottled when the target has started blocking us.
type FetchStep struct {
	// fetcher performs the HTTP requests.
	fetcher *fetcher.Fetcher

	// logger for structured logging.
	logger *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		s.logger = logger
	}
}

// NewFetchStep creates a new page fetching step.
func NewFetchStep(f *fetcher.Fetcher, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		fetcher: f,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, scrape *Scrape) error {
	page, err := s.fetcher.Fetch(ctx, scrape.URL)
	if err != nil {
		return err
	}

	s.logger.Debug("page fetched",
		"url", scrape.URL,
		"status", page.StatusCode,
		"bytes", len(page.Body),
	)

	scrape.Page = page
	return nil
}

// ExtractStep locates the embedded listing document inside the fetched page.
type ExtractStep struct {
	// extractor parses the page and walks to the listing document.
	extractor *extractor.Extractor
}

// NewExtractStep creates a new document extraction step.
func NewExtractStep(e *extractor.Extractor) *ExtractStep {
	return &ExtractStep{extractor: e}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do executes the extract step.
func (s *ExtractStep) Do(_ context.Context, scrape *Scrape) error {
	doc, err := s.extractor.Extract(scrape.Page.Body)
	if err != nil {
		return fmt.Errorf("extract %s: %w", scrape.URL, err)
	}

	scrape.Document = doc
	return nil
}

// ResolveStep evaluates the configured field paths against the extracted
// listing document and builds the flat record to store.
type ResolveStep struct {
	// fields is the ordered field configuration.
	fields []config.FieldSpec
}

// NewResolveStep creates a new field resolution step.
func NewResolveStep(fields []config.FieldSpec) *ResolveStep {
	return &ResolveStep{fields: fields}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve"
}

// Do executes the resolve step.
func (s *ResolveStep) Do(_ context.Context, scrape *Scrape) error {
	record, err := resolver.Resolve(scrape.URL, scrape.Document, s.fields)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", scrape.URL, err)
	}

	scrape.Record = record
	return nil
}

// StoreStep writes the resolved record to the listings database.
type StoreStep struct {
	// db is the listing storage.
	db *database.ListingDB
}

// NewStoreStep creates a new record storage step.
func NewStoreStep(db *database.ListingDB) *StoreStep {
	return &StoreStep{db: db}
}

// Name returns the step name.
func (s *StoreStep) Name() string {
	return "store"
}

// Do executes the store step.
func (s *StoreStep) Do(ctx context.Context, scrape *Scrape) error {
	if err := s.db.UpsertListing(ctx, scrape.Record); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	scrape.Stored = true
	return nil
}
