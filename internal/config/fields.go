package config

import (
	"fmt"
	"regexp"

	"github.com/Harwood/PropertyScraper/internal/model"
)

// ColumnType selects the SQLite column affinity for a field.
type ColumnType string

const (
	// ColumnText stores the resolved value as TEXT. This is the default.
	ColumnText ColumnType = "text"

	// ColumnNumeric stores the resolved value with NUMERIC affinity,
	// preserving numbers as numbers rather than stringifying them.
	ColumnNumeric ColumnType = "numeric"
)

// FieldSpec defines one extracted listing field: its name (which doubles as
// the storage column), the dot-path locating it inside the embedded listing
// document, and optional normalization applied to the terminal value.
//
// Field definitions are plain data. Adding a field to the config file is all
// it takes to extract and store a new value; the resolver never changes.
type FieldSpec struct {
	// Name is the field and column name.
	Name string `yaml:"name"`

	// Path is the dot-separated location inside the listing document,
	// e.g. "review_details_interface.review_score" or "photos.0.large_cover".
	Path string `yaml:"path"`

	// Type selects the column affinity. Empty means text.
	Type ColumnType `yaml:"type,omitempty"`

	// Join is the separator used when the terminal value is a list.
	// Empty means ",".
	Join string `yaml:"join,omitempty"`

	// Pick names a key projected out of each element when the terminal
	// value is a list of documents (e.g. "name" on amenity objects).
	Pick string `yaml:"pick,omitempty"`

	// Filter names a boolean key an element must have set for it to be
	// included in a Pick projection (e.g. "is_present").
	Filter string `yaml:"filter,omitempty"`

	// TrimQuery strips the query string from a URL-valued terminal
	// (used for photo URLs, whose queries carry transient signatures).
	TrimQuery bool `yaml:"trim_query,omitempty"`
}

// CompilePath parses the spec's dot-path.
func (f FieldSpec) CompilePath() (model.FieldPath, error) {
	return model.ParseFieldPath(f.Path)
}

// Separator returns the list join separator, defaulting to ",".
func (f FieldSpec) Separator() string {
	if f.Join == "" {
		return ","
	}
	return f.Join
}

// DefaultFields returns the built-in field definitions: the column set of the
// listings table, in storage order. The paths target the listing object
// embedded in Airbnb listing pages.
func DefaultFields() []FieldSpec {
	return []FieldSpec{
		{Name: "name", Path: "name"},
		{Name: "market", Path: "market"},
		{Name: "score", Path: "review_details_interface.review_score", Type: ColumnNumeric},
		{Name: "review_count", Path: "review_details_interface.review_count", Type: ColumnNumeric},
		{Name: "type", Path: "room_and_property_type"},
		{Name: "bed", Path: "bed_label"},
		{Name: "bath", Path: "bathroom_label"},
		{Name: "guest", Path: "guest_label"},
		{Name: "price", Path: "price_formatted_for_embed"},
		{Name: "photo_url", Path: "photos.0.large_cover", TrimQuery: true},
		{Name: "description", Path: "description"},
		{Name: "amenities", Path: "listing_amenities", Pick: "name", Filter: "is_present"},
	}
}

// fieldNamePattern matches names usable directly as SQLite column identifiers.
// Field names reach SQL statements verbatim, so anything outside this pattern
// is rejected at validation time.
var fieldNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// reservedFieldNames are columns the store manages itself.
var reservedFieldNames = map[string]bool{
	"url":        true,
	"scraped_at": true,
}

// ValidateFields checks that every field definition has a usable name and a
// parseable path, and that no two fields collide.
func ValidateFields(fields []FieldSpec) error {
	if len(fields) == 0 {
		return ErrNoFields
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !fieldNamePattern.MatchString(f.Name) {
			return fmt.Errorf("%w: %q", ErrInvalidFieldName, f.Name)
		}
		if reservedFieldNames[f.Name] {
			return fmt.Errorf("%w: %q", ErrReservedFieldName, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateFieldName, f.Name)
		}
		seen[f.Name] = true

		if _, err := f.CompilePath(); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		if f.Type != "" && f.Type != ColumnText && f.Type != ColumnNumeric {
			return fmt.Errorf("field %q: unknown column type %q", f.Name, f.Type)
		}
	}
	return nil
}
