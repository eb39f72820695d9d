package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Harwood/PropertyScraper/internal/config"
	"github.com/Harwood/PropertyScraper/internal/model"
)

// ListingDB provides SQLite-based storage for scraped listing records.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: The listings table is keyed by URL rather than an
// autoincrement ID. Re-scraping a listing updates the existing row, so the
// database always holds the most recent snapshot of each listing.
type ListingDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// fields is the ordered set of field specifications that defines the
	// listing columns. Field names have already been validated as safe
	// SQL identifiers by config.ValidateFields.
	fields []config.FieldSpec
}

// Options configures ListingDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ListingRow is a single stored listing as read back from the database.
type ListingRow struct {
	// URL is the normalized listing URL (primary key).
	URL string

	// ScrapedAt is the time the row was last inserted or updated.
	ScrapedAt time.Time

	// Fields holds the stored field values in configuration order.
	Fields []model.RecordField
}

// Open opens or creates a ListingDB at the specified path.
// If CreateIfNotExists is true, the parent directory and database file are
// created. If CreateIfNotExists is false and the database doesn't exist,
// an error is returned.
func Open(dbPath string, fields []config.FieldSpec, opts Options) (*ListingDB, error) {
	if err := config.ValidateFields(fields); err != nil {
		return nil, err
	}

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ldb := &ListingDB{
		db:     db,
		dbPath: dbPath,
		fields: fields,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := ldb.createTable(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return ldb, nil
}

// Close closes the database connection.
func (ldb *ListingDB) Close() error {
	return ldb.db.Close()
}

// Path returns the path to the underlying database file.
func (ldb *ListingDB) Path() string {
	return ldb.dbPath
}

// createTable creates the listings table if it doesn't exist. The field
// columns are generated from the configured field specifications.
func (ldb *ListingDB) createTable() error {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS listings (\n")
	b.WriteString("\turl TEXT PRIMARY KEY,\n")
	for _, f := range ldb.fields {
		fmt.Fprintf(&b, "\t%s %s,\n", f.Name, columnType(f))
	}
	b.WriteString("\tscraped_at DATETIME DEFAULT CURRENT_TIMESTAMP\n")
	b.WriteString(")")

	if _, err := ldb.db.ExecContext(context.Background(), b.String()); err != nil {
		return err
	}

	_, err := ldb.db.ExecContext(context.Background(),
		"CREATE INDEX IF NOT EXISTS idx_listings_scraped_at ON listings(scraped_at)")
	return err
}

// columnType maps a field specification to its SQLite column type.
func columnType(f config.FieldSpec) string {
	if f.Type == config.ColumnNumeric {
		return "NUMERIC"
	}
	return "TEXT"
}

// UpsertListing inserts a listing record or updates the existing row when
// the URL is already stored. The most recent scrape always wins, and
// scraped_at is refreshed on every write.
func (ldb *ListingDB) UpsertListing(ctx context.Context, record *model.ListingRecord) error {
	if record == nil {
		return fmt.Errorf("cannot store nil listing record")
	}
	if record.URL == "" {
		return fmt.Errorf("cannot store listing record without URL")
	}

	names := make([]string, 0, len(ldb.fields))
	args := make([]any, 0, len(ldb.fields)+1)
	args = append(args, record.URL)
	for _, f := range ldb.fields {
		names = append(names, f.Name)
		args = append(args, record.Get(f.Name).SQL())
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)+1), ", ")

	updates := make([]string, 0, len(names)+1)
	for _, name := range names {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", name, name))
	}
	updates = append(updates, "scraped_at = CURRENT_TIMESTAMP")

	query := fmt.Sprintf(`
	INSERT INTO listings (url, %s)
	VALUES (%s)
	ON CONFLICT(url) DO UPDATE SET
		%s
	`, strings.Join(names, ", "), placeholders, strings.Join(updates, ",\n\t\t"))

	if _, err := ldb.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to store listing: %w", err)
	}
	return nil
}

// GetListing retrieves a stored listing by its normalized URL.
// Returns nil without error when no row exists for the URL.
func (ldb *ListingDB) GetListing(ctx context.Context, url string) (*ListingRow, error) {
	names := make([]string, 0, len(ldb.fields))
	for _, f := range ldb.fields {
		names = append(names, f.Name)
	}

	query := fmt.Sprintf(`
	SELECT url, %s, scraped_at FROM listings
	WHERE url = ?
	`, strings.Join(names, ", "))

	dests := make([]any, len(ldb.fields)+2)
	var rowURL string
	var scrapedAt string
	dests[0] = &rowURL
	raw := make([]any, len(ldb.fields))
	for i := range ldb.fields {
		dests[i+1] = &raw[i]
	}
	dests[len(dests)-1] = &scrapedAt

	err := ldb.db.QueryRowContext(ctx, query, url).Scan(dests...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	row := &ListingRow{
		URL:       rowURL,
		ScrapedAt: parseTimestamp(scrapedAt),
		Fields:    make([]model.RecordField, 0, len(ldb.fields)),
	}
	for i, f := range ldb.fields {
		row.Fields = append(row.Fields, model.RecordField{
			Name:  f.Name,
			Value: valueFromColumn(raw[i]),
		})
	}
	return row, nil
}

// ListURLs returns the URLs of all stored listings ordered by most
// recently scraped first.
func (ldb *ListingDB) ListURLs(ctx context.Context) ([]string, error) {
	rows, err := ldb.db.QueryContext(ctx,
		"SELECT url FROM listings ORDER BY scraped_at DESC, url ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan listing URL: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

// CountListings returns the number of stored listings.
func (ldb *ListingDB) CountListings(ctx context.Context) (int, error) {
	var count int
	err := ldb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

// valueFromColumn converts a scanned SQLite column value to a model.Value.
// modernc.org/sqlite yields int64, float64, string, []byte, or nil
// depending on the stored type.
func valueFromColumn(v any) model.Value {
	switch c := v.(type) {
	case nil:
		return model.Null()
	case string:
		return model.String(c)
	case []byte:
		return model.String(string(c))
	case int64:
		return model.Number(float64(c))
	case float64:
		return model.Number(c)
	case bool:
		return model.Bool(c)
	default:
		return model.String(fmt.Sprint(c))
	}
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
