package pipeline

import (
	"context"
	"log/slog"

	"github.com/Harwood/PropertyScraper/internal/fetcher"
	"github.com/Harwood/PropertyScraper/internal/model"
)

// Scrape accumulates the state of one listing URL as it moves through the
// pipeline. Each step reads the fields earlier steps populated and fills
// in its own.
type Scrape struct {
	// URL is the normalized listing URL being scraped.
	URL string

	// Page is the fetched page, set by the fetch step.
	Page fetcher.Page

	// Document is the embedded listing document, set by the extract step.
	Document model.Value

	// Record is the resolved field record, set by the resolve step.
	Record *model.ListingRecord

	// Stored reports whether the record reached the database.
	Stored bool

	// Error holds the first step error, if any.
	Error error

	// ErrorMessage holds the error text for serialization.
	ErrorMessage string

	// PerformedSteps lists the steps that ran for this URL.
	PerformedSteps []string
}

// NewScrape creates an empty scrape state for the given URL.
func NewScrape(url string) *Scrape {
	return &Scrape{
		URL:            url,
		PerformedSteps: make([]string, 0),
	}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// scrape state from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., retries per step)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the scrape to modify.
	// Returns an error if the step fails; the pipeline stops at the first
	// failing step because later stages depend on earlier results.
	Do(ctx context.Context, scrape *Scrape) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, the process default logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence for one scrape.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps should handle their own timeouts. This allows
// graceful cleanup between steps while still respecting cancellation.
//
// Execution stops at the first failing step: a listing whose page could
// not be fetched has nothing to extract, and so on down the chain. The
// error is recorded on the scrape and returned.
func (p *Pipeline) Execute(ctx context.Context, scrape *Scrape) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"url", scrape.URL,
				"reason", ctx.Err(),
			)
			scrape.Error = ctx.Err()
			scrape.ErrorMessage = ctx.Err().Error()
			return ctx.Err()
		default:
			// Continue with execution
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", scrape.URL,
		)

		if err := step.Do(ctx, scrape); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"url", scrape.URL,
				"error", err,
			)

			scrape.Error = err
			scrape.ErrorMessage = err.Error()
			return err
		}

		scrape.PerformedSteps = append(scrape.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
