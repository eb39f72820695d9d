// Package report renders scraped listings and run summaries for output.
//
// Three formats are supported: a plain-text format for terminal display,
// JSON for tool integration, and Markdown for documentation and sharing.
// All writers implement the same Writer interface, and MultiWriter fans
// output out to several destinations at once.
package report
