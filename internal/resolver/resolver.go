package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Harwood/PropertyScraper/internal/config"
	"github.com/Harwood/PropertyScraper/internal/model"
)

// ErrNotADocument is returned when the listing document root is not a
// mapping. Nothing can be resolved from such a document, so the whole
// record fails.
var ErrNotADocument = errors.New("listing document root is not a mapping")

// Resolve walks every field definition against the listing document and
// returns the record for the given URL. Fields resolve independently: a
// missing path yields the absent marker for that field and the record is
// still produced.
func Resolve(url string, doc model.Value, fields []config.FieldSpec) (*model.ListingRecord, error) {
	if doc.Kind() != model.KindDocument {
		return nil, fmt.Errorf("%w: got %s", ErrNotADocument, doc.Kind())
	}

	record := model.NewListingRecord(url)
	for _, spec := range fields {
		path, err := spec.CompilePath()
		if err != nil {
			// Field definitions are validated at startup; a bad path here
			// is a programming error worth surfacing, not an absent field.
			return nil, fmt.Errorf("field %q: %w", spec.Name, err)
		}
		record.Set(spec.Name, normalize(path.Walk(doc), spec))
	}
	return record, nil
}

// normalize applies the spec's terminal normalization to a resolved value.
// Lists collapse to a joined string, URL-valued strings may lose their query
// string, and numbers pass through as numbers.
func normalize(v model.Value, spec config.FieldSpec) model.Value {
	switch v.Kind() {
	case model.KindList:
		return model.String(joinList(v, spec))
	case model.KindString:
		if spec.TrimQuery {
			return model.String(trimQuery(v.Str()))
		}
		return v
	default:
		return v
	}
}

// joinList renders a terminal list as a single separated string.
// Scalar elements join directly. Document elements are projected through the
// spec's Pick key, optionally filtered by the Filter key being true (the
// amenity shape: keep name where is_present).
func joinList(v model.Value, spec config.FieldSpec) string {
	parts := make([]string, 0, v.Len())
	for _, elem := range v.Elements() {
		switch elem.Kind() {
		case model.KindString, model.KindNumber, model.KindBool:
			parts = append(parts, elem.Text())
		case model.KindDocument:
			if spec.Pick == "" {
				continue
			}
			if spec.Filter != "" && !elem.Field(spec.Filter).Boolean() {
				continue
			}
			picked := elem.Field(spec.Pick)
			switch picked.Kind() {
			case model.KindString, model.KindNumber, model.KindBool:
				parts = append(parts, picked.Text())
			}
		}
	}
	return strings.Join(parts, spec.Separator())
}

// trimQuery strips everything from the first '?' onward.
func trimQuery(s string) string {
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i]
	}
	return s
}
