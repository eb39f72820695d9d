package model

import (
	"errors"
	"net/url"
	"strings"
)

// ListingURL errors.
var (
	// ErrEmptyListingURL is returned when the URL is empty or whitespace.
	ErrEmptyListingURL = errors.New("listing URL cannot be empty")
	// ErrInvalidListingURL is returned when the URL cannot be parsed or has no host.
	ErrInvalidListingURL = errors.New("invalid listing URL")
	// ErrUnsupportedScheme is returned for schemes other than http and https.
	ErrUnsupportedScheme = errors.New("listing URL scheme must be http or https")
)

// NormalizeListingURL validates a listing URL and returns its canonical form.
// A missing scheme defaults to https. The normalized URL is the record's
// storage key, so two spellings of the same URL should normalize identically.
func NormalizeListingURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyListingURL
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidListingURL
	}
	if u.Host == "" {
		return "", ErrInvalidListingURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrUnsupportedScheme
	}

	// Host comparison is case-insensitive per RFC 3986.
	u.Host = strings.ToLower(u.Host)

	return u.String(), nil
}
