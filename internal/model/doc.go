// Package model defines the core data structures used throughout PropertyScraper.
//
// This package contains the following main types:
//   - Value: A tagged value representing one node of an extracted listing document
//   - FieldPath: A dot-separated path locating a value inside a document
//   - ListingRecord: The flat, resolved record persisted for one listing URL
//
// The models are kept in their own package because multiple packages
// (extractor, resolver, database, report) need them; centralizing them
// prevents import cycles.
package model
