// Package main provides the entry point for the PropertyScraper CLI.
//
// PropertyScraper fetches Airbnb listing pages, extracts the embedded
// listing data, and stores the configured fields in a SQLite database.
//
// Usage:
//
//	propertyscraper scrape <url>
//	propertyscraper scrape urls.txt
//	propertyscraper show <url>
//
// See --help for all available options.
package main

// main is the entry point for PropertyScraper.
func main() {
	Execute()
}
