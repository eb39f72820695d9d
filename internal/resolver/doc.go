// Package resolver turns an extracted listing document into a flat listing
// record by walking configured dot-paths.
//
// Resolution is an explicit interpreter over the tagged value type: documents
// descend by key, lists by numeric index, and anything else stops the walk.
// A field whose path cannot be resolved is recorded as absent; a single
// missing field never fails the record. Only a root that is not a mapping is
// a hard failure.
package resolver
