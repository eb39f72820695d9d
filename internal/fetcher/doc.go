// Package fetcher retrieves raw listing pages over HTTP.
//
// The Fetcher issues a single synchronous GET per listing URL with a
// browser-like header set, and inspects each response with a ThrottleDetector
// before handing the page on. A page that looks blocked or challenged is
// reported as ErrThrottled, which the caller treats as a halt condition
// rather than a per-URL failure.
//
// The throttle heuristic is inherently fragile to upstream page changes, so
// it lives behind the single ThrottleDetector predicate; updating the
// recognized signatures never touches the fetch path.
package fetcher
