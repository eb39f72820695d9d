package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrThrottled is returned when a response looks like a block or challenge
// page rather than a listing. It is a halt condition for the whole run, not
// a per-URL failure, so callers must match it with errors.Is before treating
// a fetch error as skippable.
var ErrThrottled = errors.New("response looks throttled or blocked")

// Page is the raw result of fetching one listing URL.
// The body is owned transiently by the pipeline and discarded after extraction.
type Page struct {
	// URL is the normalized listing URL that was fetched.
	URL string

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Body is the page text, truncated to the configured size limit.
	Body []byte
}

// Fetcher retrieves listing pages with a shared, pre-configured HTTP client.
type Fetcher struct {
	// client is the HTTP client. It carries the request timeout.
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	// Pages served to unrecognized agents often omit the embedded data,
	// so this defaults to a common desktop browser string.
	userAgent string

	// cookie is an optional Cookie header value.
	cookie string

	// headers are additional request headers.
	headers map[string]string

	// maxBodySize limits the response body size to read.
	maxBodySize int64

	// detector recognizes blocked or challenge pages.
	detector *ThrottleDetector
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithCookie sets a Cookie header sent with every request.
func WithCookie(cookie string) Option {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sets additional request headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithDetector replaces the default throttle detector.
func WithDetector(d *ThrottleDetector) Option {
	return func(f *Fetcher) {
		if d != nil {
			f.detector = d
		}
	}
}

// New creates a Fetcher using the given HTTP client.
// The client carries timeout and transport configuration; requiring it here
// keeps proxy setup and test doubles in the caller's hands.
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
		maxBodySize: 10 * 1024 * 1024,
		detector:    DefaultThrottleDetector(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch issues a single GET for the listing URL and returns the raw page.
//
// Error contract:
//   - ErrThrottled when the response matches the throttle heuristic
//   - a wrapped fetch error for network failures and non-2xx statuses
//
// There are no retries; one URL, one request.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("create request for %s: %w", url, err)
	}

	// Browser-like header set to avoid trivial bot rejection.
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	bodyReader := io.LimitReader(resp.Body, f.maxBodySize)
	body, err := io.ReadAll(bodyReader)
	if err != nil {
		return Page{}, fmt.Errorf("read body of %s: %w", url, err)
	}

	page := Page{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       body,
	}

	// 429 and 403 are the usual throttle statuses; the body check catches
	// soft blocks served with 200.
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden {
		return page, fmt.Errorf("fetch %s: status %d: %w", url, resp.StatusCode, ErrThrottled)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return page, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	if f.detector.Throttled(body) {
		return page, fmt.Errorf("fetch %s: %w", url, ErrThrottled)
	}

	return page, nil
}
