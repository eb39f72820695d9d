// Package extractor locates the JSON state object embedded in listing pages
// and parses it into a nested document.
//
// Listing pages serialize their bootstrap state into script elements of type
// "application/json", with the payload wrapped in an HTML comment. The
// extractor walks the DOM, collects those payloads, and returns the listing
// document found under the bootstrap root. No schema validation happens here;
// arbitrary nesting is accepted as-is and left to the resolver.
package extractor
