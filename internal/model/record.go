package model

// RecordField is one named, resolved value of a listing record.
type RecordField struct {
	// Name is the field name, which doubles as the storage column name.
	Name string

	// Value is the resolved value, possibly the absent marker.
	Value Value
}

// ListingRecord is the flat set of resolved fields produced for one
// successfully processed listing URL. Field order follows the field
// definitions the record was resolved against.
//
// Invariant: URL always equals the listing URL the record was produced from.
// It is the logical primary key of the listings table.
type ListingRecord struct {
	// URL is the normalized listing URL that produced this record.
	URL string

	// Fields holds the resolved values in definition order.
	// URL is not repeated here.
	Fields []RecordField
}

// NewListingRecord creates an empty record for the given URL.
func NewListingRecord(url string) *ListingRecord {
	return &ListingRecord{
		URL:    url,
		Fields: make([]RecordField, 0),
	}
}

// Set appends a field, or replaces it if a field with the same name exists.
func (r *ListingRecord) Set(name string, v Value) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = v
			return
		}
	}
	r.Fields = append(r.Fields, RecordField{Name: name, Value: v})
}

// Get returns the value for the named field.
// A field that was never set yields the absent marker.
func (r *ListingRecord) Get(name string) Value {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return Absent()
}

// FieldNames returns the field names in definition order.
func (r *ListingRecord) FieldNames() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}
