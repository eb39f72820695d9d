package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Harwood/PropertyScraper/internal/fetcher"
)

// Status describes how a scrape run ended.
type Status string

const (
	// StatusCompleted means every URL was attempted.
	StatusCompleted Status = "completed"

	// StatusThrottled means the target started blocking requests and the
	// run halted early to avoid making the block worse.
	StatusThrottled Status = "throttled"

	// StatusNoURLs means the run had nothing to do.
	StatusNoURLs Status = "no_urls"
)

// RunReport summarizes one scrape run over a batch of URLs.
type RunReport struct {
	// Status is the overall outcome.
	Status Status

	// TotalURLs is the number of URLs the run was asked to scrape.
	TotalURLs int

	// Stored counts listings that reached the database.
	Stored int

	// Skipped counts URLs that failed for reasons local to the listing
	// (removed page, unexpected markup) and were passed over.
	Skipped int

	// HaltedAt is the URL that triggered a throttle halt, if any.
	HaltedAt string

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration

	// Scrapes holds the per-URL state for every URL that was attempted,
	// in input order.
	Scrapes []*Scrape
}

// Driver runs the scrape pipeline over a batch of URLs.
//
// Design decision: URLs are processed strictly one at a time with a delay
// between requests. The target aggressively rate-limits scrapers, so
// concurrency buys nothing but an earlier block; a polite sequential crawl
// is the only sustainable strategy.
type Driver struct {
	// pipeline is executed once per URL with a fresh Scrape.
	pipeline *Pipeline

	// delay is the pause between consecutive requests.
	delay time.Duration

	// logger is used for run-level logging.
	logger *slog.Logger
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithDriverLogger sets a custom logger for the driver.
func WithDriverLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithDelay sets the pause between consecutive requests.
// A zero or negative delay disables the pause.
func WithDelay(delay time.Duration) DriverOption {
	return func(d *Driver) {
		d.delay = delay
	}
}

// NewDriver creates a new Driver for the given pipeline.
func NewDriver(pipeline *Pipeline, opts ...DriverOption) *Driver {
	d := &Driver{
		pipeline: pipeline,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// Run scrapes the given URLs in order and returns a report of the run.
//
// Per-URL failures are classified three ways:
//   - throttling (fetcher.ErrThrottled): the run halts immediately with
//     StatusThrottled; continuing would only deepen the block
//   - storage failures (ErrStorageFailure): the run aborts with an error,
//     since nothing later can be stored either
//   - anything else: the URL is skipped and the run continues
//
// Context cancellation aborts the run with the context's error.
func (d *Driver) Run(ctx context.Context, urls []string) (*RunReport, error) {
	report := &RunReport{
		Status:    StatusCompleted,
		TotalURLs: len(urls),
		Scrapes:   make([]*Scrape, 0, len(urls)),
	}

	if len(urls) == 0 {
		report.Status = StatusNoURLs
		return report, nil
	}

	d.logger.Info("starting scrape run",
		"total_urls", len(urls),
		"delay", d.delay,
	)

	startTime := time.Now()
	defer func() {
		report.Elapsed = time.Since(startTime)
	}()

	for i, url := range urls {
		if i > 0 && d.delay > 0 {
			if err := d.pause(ctx); err != nil {
				return report, err
			}
		}

		d.logger.Info("scraping listing",
			"url", url,
			"index", i+1,
			"total", len(urls),
		)

		scrape := NewScrape(url)
		err := d.pipeline.Execute(ctx, scrape)
		report.Scrapes = append(report.Scrapes, scrape)

		switch {
		case err == nil:
			report.Stored++
			d.logger.Info("listing stored", "url", url)

		case errors.Is(err, fetcher.ErrThrottled):
			report.Status = StatusThrottled
			report.HaltedAt = url
			d.logger.Warn("target is throttling requests, halting run",
				"url", url,
				"stored", report.Stored,
				"remaining", len(urls)-i-1,
			)
			return report, nil

		case errors.Is(err, ErrStorageFailure):
			return report, err

		case ctx.Err() != nil:
			// The run itself was cancelled; per-URL timeouts are handled
			// below as ordinary skips.
			return report, ctx.Err()

		default:
			report.Skipped++
			d.logger.Warn("skipping listing",
				"url", url,
				"error", err,
			)
		}
	}

	d.logger.Info("scrape run complete",
		"total_urls", len(urls),
		"stored", report.Stored,
		"skipped", report.Skipped,
		"elapsed", time.Since(startTime),
	)

	return report, nil
}

// pause waits for the configured delay or until the context is cancelled.
func (d *Driver) pause(ctx context.Context) error {
	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
