package config

import "errors"

// Configuration validation errors.
// These are package-level sentinels so callers can match them with errors.Is
// while still getting a human-readable message.
var (
	// ErrNoDatabasePath is returned when no SQLite database path is configured.
	ErrNoDatabasePath = errors.New("no database path configured")

	// ErrInvalidTimeout is returned when the HTTP timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRequestDelay is returned when the request delay is negative.
	// Use 0 to disable pacing between fetches.
	ErrInvalidRequestDelay = errors.New("invalid request delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to apply the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingOutputFormats is returned when both --json and --markdown
	// are specified. Only one print format can be used at a time.
	ErrConflictingOutputFormats = errors.New("conflicting output formats: --json and --markdown cannot be used together")

	// ErrNoFields is returned when the field definition list is empty.
	// A run with no fields would store bare URLs and nothing else.
	ErrNoFields = errors.New("no field definitions configured")

	// ErrInvalidFieldName is returned when a field name is not usable as a
	// storage column: lowercase letters, digits and underscores, starting
	// with a letter.
	ErrInvalidFieldName = errors.New("invalid field name: must match [a-z][a-z0-9_]*")

	// ErrReservedFieldName is returned when a field definition uses a column
	// name the store manages itself ("url", "scraped_at").
	ErrReservedFieldName = errors.New("reserved field name")

	// ErrDuplicateFieldName is returned when two field definitions share a name.
	ErrDuplicateFieldName = errors.New("duplicate field name")
)
