package fetcher

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ThrottleDetector recognizes blocked, challenged, or rate-limited pages from
// their content. Two signals are checked:
//
//  1. Block keywords: lowercase substrings found on challenge pages.
//  2. Required selectors: CSS selectors a genuine listing page always has,
//     above all the embedded-data script marker. A page missing one was
//     served without listing data, which in practice means the client was
//     recognized and cut off.
//
// An empty body is always treated as throttled.
type ThrottleDetector struct {
	// requiredSelectors are CSS selectors every real listing page matches.
	requiredSelectors []string

	// blockKeywords are lowercase byte substrings of known block pages.
	blockKeywords [][]byte
}

// NewThrottleDetector creates a detector with the given required selectors
// and block keywords. Keywords are matched case-insensitively.
func NewThrottleDetector(selectors, keywords []string) *ThrottleDetector {
	lowered := make([][]byte, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lowered = append(lowered, bytes.ToLower([]byte(kw)))
	}
	return &ThrottleDetector{
		requiredSelectors: selectors,
		blockKeywords:     lowered,
	}
}

// DefaultThrottleDetector returns the detector tuned for Airbnb listing pages:
// the embedded-data script marker must be present, and the usual block-page
// phrasings must not.
func DefaultThrottleDetector() *ThrottleDetector {
	return NewThrottleDetector(
		[]string{`script[type="application/json"]`},
		[]string{
			"captcha",
			"access denied",
			"request blocked",
			"rate limit",
			"too many requests",
			"please verify you are a human",
			"temporarily unavailable due to unusual activity",
		},
	)
}

// Throttled reports whether the page body looks like a block or challenge
// page rather than a listing.
func (d *ThrottleDetector) Throttled(body []byte) bool {
	if len(body) == 0 {
		return true
	}
	if d.containsBlockKeyword(body) {
		return true
	}
	return d.missingSelectors(body)
}

func (d *ThrottleDetector) containsBlockKeyword(body []byte) bool {
	if len(d.blockKeywords) == 0 {
		return false
	}
	lowered := bytes.ToLower(body)
	for _, kw := range d.blockKeywords {
		if bytes.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func (d *ThrottleDetector) missingSelectors(body []byte) bool {
	if len(d.requiredSelectors) == 0 {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		// Unparseable bodies are not listing pages.
		return true
	}
	for _, sel := range d.requiredSelectors {
		if sel == "" {
			continue
		}
		if doc.Find(sel).Length() == 0 {
			return true
		}
	}
	return false
}
