package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "propertyscraper"

	// DefaultDatabaseFile is the SQLite database file name inside the data directory.
	DefaultDatabaseFile = "listings.db"

	// DefaultTimeout is the per-request HTTP timeout. Listing pages are
	// large but static; 30 seconds covers slow connections without letting
	// a dead host stall the whole run.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestDelay is the pause between consecutive listing fetches.
	// Requests are strictly sequential, so this is the only pacing knob.
	// One second keeps batch runs well under typical rate limits.
	DefaultRequestDelay = 1 * time.Second

	// DefaultMaxBodySize limits the response body size to read.
	// Listing pages with their embedded state run 1-3MB; 10MB leaves
	// headroom while preventing memory exhaustion from broken responses.
	DefaultMaxBodySize = 10 * 1024 * 1024

	// DefaultUserAgent mimics a current desktop browser. Pages served to
	// unknown agents frequently omit the embedded data payload entirely,
	// which would be indistinguishable from throttling.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
)

// Config holds all configuration options for PropertyScraper.
// It is populated from defaults, the optional config file, .env overrides,
// and CLI flags, then passed through the application by value injection
// rather than global state.
type Config struct {
	// DatabasePath is the SQLite database file used for persisted listings.
	// Defaults to DefaultDatabaseFile inside the XDG data directory.
	DatabasePath string

	// Timeout is the HTTP timeout for each listing fetch.
	Timeout time.Duration

	// RequestDelay is the pause between consecutive fetches.
	// Zero disables pacing.
	RequestDelay time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// Cookie is an optional Cookie header value sent with every request.
	// Some markets only serve complete listing data to authenticated sessions.
	Cookie string

	// Headers are additional HTTP headers sent with every request.
	Headers map[string]string

	// Verbose enables debug-level log output on stderr.
	Verbose bool

	// PrintListings prints each stored listing to stdout after scraping.
	PrintListings bool

	// JSONOutput selects JSON formatting for printed listings.
	// Mutually exclusive with MarkdownOutput.
	JSONOutput bool

	// MarkdownOutput selects Markdown formatting for printed listings.
	// Mutually exclusive with JSONOutput.
	MarkdownOutput bool

	// Fields are the field definitions resolved for every listing, in
	// storage column order. Defaults to DefaultFields().
	Fields []FieldSpec
}

// NewConfig creates a Config with default values.
// Every default is non-zero, so relying on the zero Config is a bug;
// construct through here and override afterwards.
func NewConfig() *Config {
	return &Config{
		DatabasePath: filepath.Join(XDGDataDir(), DefaultDatabaseFile),
		Timeout:      DefaultTimeout,
		RequestDelay: DefaultRequestDelay,
		MaxBodySize:  DefaultMaxBodySize,
		UserAgent:    DefaultUserAgent,
		Fields:       DefaultFields(),
	}
}

// XDGDataDir returns the XDG data directory for PropertyScraper.
// On Linux: ~/.local/share/propertyscraper
// On macOS: ~/Library/Application Support/propertyscraper
// On Windows: %LOCALAPPDATA%\propertyscraper
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for PropertyScraper.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It is called once after flag and file parsing, before any scraping begins,
// and returns the first problem found.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return ErrNoDatabasePath
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONOutput && c.MarkdownOutput {
		return ErrConflictingOutputFormats
	}
	return ValidateFields(c.Fields)
}
