// Package database provides SQLite-based storage for scraped listings.
//
// This package implements the ListingDB, which stores one row per listing
// URL in a single `listings` table. The table schema is derived from the
// configured field specifications, so adding a field to the configuration
// adds a column to newly created databases.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
