package model

import (
	"errors"
	"strconv"
	"strings"
)

// FieldPath errors.
var (
	// ErrEmptyFieldPath is returned when a path contains no segments.
	ErrEmptyFieldPath = errors.New("field path cannot be empty")
	// ErrBlankPathSegment is returned when a path contains an empty segment
	// (for example "a..b" or a trailing dot).
	ErrBlankPathSegment = errors.New("field path contains a blank segment")
)

// FieldPath is an ordered sequence of dot-separated segments locating a value
// inside a listing document, for example "review_details_interface.review_score"
// or "photos.0.large_cover". A segment that parses as a non-negative integer is
// interpreted as a list index when the value at that point is a sequence.
//
// Paths are defined once at startup and shared read-only across all URLs.
type FieldPath []string

// ParseFieldPath splits a dot-separated path into its segments.
func ParseFieldPath(path string) (FieldPath, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrEmptyFieldPath
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, ErrBlankPathSegment
		}
	}
	return FieldPath(segments), nil
}

// MustParseFieldPath parses a path or panics.
// Use only for known-valid paths in defaults and tests.
func MustParseFieldPath(path string) FieldPath {
	fp, err := ParseFieldPath(path)
	if err != nil {
		panic(err)
	}
	return fp
}

// String returns the dot-separated form of the path.
func (fp FieldPath) String() string {
	return strings.Join(fp, ".")
}

// Walk resolves the path against the given document root.
// At each segment: documents descend by key, lists descend by numeric index,
// and anything else stops the walk. A walk that cannot complete yields the
// absent marker, never an error.
func (fp FieldPath) Walk(root Value) Value {
	current := root
	for _, seg := range fp {
		switch current.Kind() {
		case KindDocument:
			current = current.Field(seg)
		case KindList:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return Absent()
			}
			current = current.Index(idx)
		default:
			return Absent()
		}
	}
	return current
}
