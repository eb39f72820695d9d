// Package pipeline executes the scrape stages for each listing URL in
// sequence.
//
// A listing passes through four stages: fetching the page, extracting the
// embedded listing document, resolving the configured fields, and storing
// the record. Each stage is implemented as a Step that receives the current
// Scrape and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running scrapes
//
// The Driver runs the pipeline over a batch of URLs strictly one at a time
// with a configurable delay between requests, and halts the run as soon as
// the target starts throttling responses.
package pipeline
